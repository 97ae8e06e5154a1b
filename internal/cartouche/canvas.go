package cartouche

// Rect is an axis-aligned rectangle in page points, PDF user space (origin
// bottom-left).
type Rect struct {
	LLx, LLy, URx, URy float64
}

func (r Rect) Width() float64  { return r.URx - r.LLx }
func (r Rect) Height() float64 { return r.URy - r.LLy }

// RGB is a color with components in [0,1].
type RGB struct {
	R, G, B float64
}

// Canvas is the drawing surface the engine renders onto. Implementations
// report capability gaps through errors; the engine degrades instead of
// failing the render.
type Canvas interface {
	// DrawRect strokes r with the given line width and optionally fills it.
	DrawRect(r Rect, stroke RGB, fill *RGB, width float64) error
	// MeasureText returns the rendered width of text, erroring when the
	// font is unavailable.
	MeasureText(text, font string, size float64) (float64, error)
	// DrawText places text with its baseline starting at (x, y).
	DrawText(x, y float64, text, font string, size float64, color RGB) error
}

// TextFlower is an optional canvas capability: flow text right-aligned
// inside a sub-rectangle. placed reports how many characters fit; zero means
// nothing was drawn and the caller should fall back.
type TextFlower interface {
	FlowText(r Rect, text, font string, size float64) (placed int, err error)
}
