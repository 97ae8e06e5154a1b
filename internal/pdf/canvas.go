package pdf

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/font"

	"github.com/PtitMax51/vent-pdf/internal/cartouche"
)

// coreFonts are the standard-14 faces every PDF viewer must provide; the
// canvas refuses anything else so measurement stays reliable.
var coreFonts = map[string]bool{
	"Helvetica":             true,
	"Helvetica-Bold":        true,
	"Helvetica-Oblique":     true,
	"Helvetica-BoldOblique": true,
	"Times-Roman":           true,
	"Times-Bold":            true,
	"Times-Italic":          true,
	"Times-BoldItalic":      true,
	"Courier":               true,
	"Courier-Bold":          true,
	"Courier-Oblique":       true,
	"Courier-BoldOblique":   true,
	"Symbol":                true,
	"ZapfDingbats":          true,
}

// fontAliases accepts the short names the original tool's configuration
// used.
var fontAliases = map[string]string{
	"helv":  "Helvetica",
	"times": "Times-Roman",
	"cour":  "Courier",
}

const fallbackFont = "Helvetica"

func resolveFont(name string) (string, error) {
	if n, ok := fontAliases[name]; ok {
		return n, nil
	}
	if coreFonts[name] {
		return name, nil
	}
	return "", fmt.Errorf("unsupported font %q", name)
}

// Canvas accumulates content-stream operators targeting one page. It
// implements cartouche.Canvas and the optional cartouche.TextFlower
// capability.
type Canvas struct {
	buf   bytes.Buffer
	fonts map[string]string // core font name -> page resource id
}

func NewCanvas() *Canvas {
	return &Canvas{fonts: make(map[string]string)}
}

func (c *Canvas) DrawRect(r cartouche.Rect, stroke cartouche.RGB, fill *cartouche.RGB, width float64) error {
	fmt.Fprintf(&c.buf, "q %.2f w %.2f %.2f %.2f RG ", width, stroke.R, stroke.G, stroke.B)
	op := "S"
	if fill != nil {
		fmt.Fprintf(&c.buf, "%.2f %.2f %.2f rg ", fill.R, fill.G, fill.B)
		op = "B"
	}
	fmt.Fprintf(&c.buf, "%.2f %.2f %.2f %.2f re %s Q\n", r.LLx, r.LLy, r.Width(), r.Height(), op)
	return nil
}

func (c *Canvas) MeasureText(text, fontName string, size float64) (float64, error) {
	name, err := resolveFont(fontName)
	if err != nil {
		return 0, err
	}
	return font.TextWidth(text, name, int(size)), nil
}

func (c *Canvas) DrawText(x, y float64, text, fontName string, size float64, color cartouche.RGB) error {
	name, err := resolveFont(fontName)
	if err != nil {
		// An empty font name means the caller has no preference left
		// (blind fallback); anything else is a real capability gap.
		if fontName != "" {
			return err
		}
		name = fallbackFont
	}
	id := c.fontID(name)
	fmt.Fprintf(&c.buf, "BT /%s %.2f Tf %.2f %.2f %.2f rg %.2f %.2f Td %s Tj ET\n",
		id, size, color.R, color.G, color.B, x, y, encodeTextLiteral(text))
	return nil
}

// FlowText right-aligns text inside r. It returns 0 without drawing when the
// line is wider than the sub-rectangle, letting the layout cascade degrade.
func (c *Canvas) FlowText(r cartouche.Rect, text, fontName string, size float64) (int, error) {
	name, err := resolveFont(fontName)
	if err != nil {
		return 0, err
	}
	w := font.TextWidth(text, name, int(size))
	if w > r.Width() {
		return 0, nil
	}
	if err := c.DrawText(r.URx-w, r.LLy, text, name, size, cartouche.RGB{}); err != nil {
		return 0, err
	}
	return len(text), nil
}

// Fonts returns the core fonts the canvas used, keyed by resource id.
func (c *Canvas) Fonts() map[string]string {
	out := make(map[string]string, len(c.fonts))
	for name, id := range c.fonts {
		out[id] = name
	}
	return out
}

// Bytes returns the accumulated content-stream operators.
func (c *Canvas) Bytes() []byte {
	return c.buf.Bytes()
}

func (c *Canvas) fontID(name string) string {
	if id, ok := c.fonts[name]; ok {
		return id
	}
	// Ids follow first-use order; callers that need a stable view iterate
	// usedFontNames instead. The prefix keeps us clear of resource names
	// already present on the page.
	id := fmt.Sprintf("FVC%d", len(c.fonts))
	c.fonts[name] = id
	return id
}

// usedFontNames lists the used core fonts in deterministic order.
func (c *Canvas) usedFontNames() []string {
	names := make([]string, 0, len(c.fonts))
	for name := range c.fonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
