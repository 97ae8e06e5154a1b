package cartouche

import (
	"fmt"
	"log/slog"
)

const (
	innerPad    = 6.0
	lineLeading = 5.0

	// Horizontal offset used by the blind fallback when no font can be
	// measured. The line may end up misaligned; it is still placed.
	blindOffset = 200.0

	tagFontSize   = 6.5
	stampFontSize = 1.5
)

var (
	borderGray = RGB{0.75, 0.75, 0.75}
	white      = RGB{1, 1, 1}
	textBlack  = RGB{0, 0, 0}
	tagGray    = RGB{0.4, 0.4, 0.4}
	stampGray  = RGB{0.85, 0.85, 0.85}
)

// Options configure the cartouche geometry and decoration.
type Options struct {
	Width     float64 `validate:"gt=0"`
	Height    float64 `validate:"gt=0"`
	TitleSize float64 `validate:"gt=0"`
	BodySize  float64 `validate:"gt=0"`
	Margin    float64 `validate:"gte=0"`
	Fill      bool
	Fonts     []string `validate:"min=1"`

	// SourceTag, when set, is printed small in the bottom-left inner corner.
	SourceTag string
	// Stamp, when set, is drawn near-invisibly so two successive outputs
	// always differ at the byte level even with identical content.
	Stamp string
}

// Line is one row of the cartouche.
type Line struct {
	Text string
	Size float64
}

// Engine lays out the four cartouche lines right-aligned inside a fixed box.
type Engine struct {
	fonts  []string
	logger *slog.Logger
}

// NewEngine builds an engine with the given font priority list. Fonts are
// tried in order during the measured-draw stage of the cascade.
func NewEngine(fonts []string, logger *slog.Logger) *Engine {
	if len(fonts) == 0 {
		fonts = []string{"Times-Roman", "Helvetica"}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{fonts: fonts, logger: logger}
}

// Render draws the box chrome and the four lines onto c. The per-line
// cascade guarantees every line ends up placed somewhere; Render only returns
// an error when even the box chrome cannot be drawn.
func (e *Engine) Render(c Canvas, box Rect, lines [4]Line, opts Options) error {
	var fill *RGB
	if opts.Fill {
		f := white
		fill = &f
	}
	if err := c.DrawRect(box, borderGray, fill, 0.5); err != nil {
		return fmt.Errorf("draw cartouche frame: %w", err)
	}

	inner := Rect{
		LLx: box.LLx + innerPad,
		LLy: box.LLy + innerPad,
		URx: box.URx - innerPad,
		URy: box.URy - innerPad,
	}

	// Title first, consuming its own height allowance exactly once, then
	// the three body lines stepping by bodySize + leading.
	e.placeLine(c, inner, inner.URy-lines[0].Size, lines[0])

	baseline := inner.URy - (lines[0].Size + lineLeading) - lines[1].Size
	for i := 1; i < len(lines); i++ {
		e.placeLine(c, inner, baseline, lines[i])
		baseline -= lines[i].Size + lineLeading
	}

	if opts.SourceTag != "" {
		if err := c.DrawText(inner.LLx+1, inner.LLy+1.5, opts.SourceTag, "Helvetica", tagFontSize, tagGray); err != nil {
			e.logger.Debug("source tag skipped", "err", err)
		}
	}
	if opts.Stamp != "" {
		if err := c.DrawText(inner.LLx+1, inner.LLy+3.2, opts.Stamp, "Helvetica", stampFontSize, stampGray); err != nil {
			e.logger.Debug("micro stamp skipped", "err", err)
		}
	}
	return nil
}

// placeLine runs the rendering cascade for one line: structured flow when
// the canvas supports it, then a measured right-aligned draw walking the font
// priority list, then a blind draw at a fixed offset from the right edge.
func (e *Engine) placeLine(c Canvas, inner Rect, baseline float64, ln Line) {
	if fl, ok := c.(TextFlower); ok {
		sub := Rect{LLx: inner.LLx, LLy: baseline, URx: inner.URx, URy: baseline + ln.Size}
		placed, err := fl.FlowText(sub, ln.Text, e.fonts[0], ln.Size)
		if err == nil && placed > 0 {
			return
		}
		if err != nil {
			e.logger.Debug("structured draw failed", "line", ln.Text, "err", err)
		}
	}

	for _, font := range e.fonts {
		w, err := c.MeasureText(ln.Text, font, ln.Size)
		if err != nil {
			continue
		}
		if err := c.DrawText(inner.URx-w, baseline, ln.Text, font, ln.Size, textBlack); err != nil {
			continue
		}
		return
	}

	// Every font failed to measure or draw; place the line anyway.
	if err := c.DrawText(inner.URx-blindOffset, baseline, ln.Text, "", ln.Size, textBlack); err != nil {
		e.logger.Warn("blind fallback draw failed", "line", ln.Text, "err", err)
	}
}
