package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/PtitMax51/vent-pdf/internal/cartouche"
)

// Document wraps a parsed PDF whose first page receives the cartouche.
// Everything outside the appended content stream and the registered font
// resources is left untouched.
type Document struct {
	ctx *model.Context
}

// Open parses the PDF at path.
func Open(path string) (*Document, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if ctx.PageCount < 1 {
		return nil, fmt.Errorf("open %s: document has no pages", path)
	}
	return &Document{ctx: ctx}, nil
}

// FirstPageBox returns the media box of page 1 in PDF user space.
func (d *Document) FirstPageBox() (cartouche.Rect, error) {
	_, _, inhPAttrs, err := d.ctx.PageDict(1, false)
	if err != nil {
		return cartouche.Rect{}, fmt.Errorf("page 1: %w", err)
	}
	mb := inhPAttrs.MediaBox
	if mb == nil {
		return cartouche.Rect{}, fmt.Errorf("page 1: missing media box")
	}
	return cartouche.Rect{LLx: mb.LL.X, LLy: mb.LL.Y, URx: mb.UR.X, URy: mb.UR.Y}, nil
}

// Apply appends the canvas's operators to page 1 as an extra content stream
// and registers the fonts it used on the page's resources.
func (d *Document) Apply(c *Canvas) error {
	if c.buf.Len() == 0 {
		return nil
	}
	pageDict, _, inhPAttrs, err := d.ctx.PageDict(1, false)
	if err != nil {
		return fmt.Errorf("page 1: %w", err)
	}
	if err := d.registerFonts(pageDict, inhPAttrs.Resources, c); err != nil {
		return err
	}
	if err := d.ctx.AppendContent(pageDict, c.buf.Bytes()); err != nil {
		return fmt.Errorf("append content: %w", err)
	}
	return nil
}

// Save validates and writes the annotated document to path.
func (d *Document) Save(path string) error {
	if err := api.ValidateContext(d.ctx); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	if err := api.WriteContextFile(d.ctx, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// registerFonts adds a Type1/WinAnsi font dict for every core font the
// canvas used, under the resource ids the content stream references.
func (d *Document) registerFonts(pageDict, res types.Dict, c *Canvas) error {
	if len(c.fonts) == 0 {
		return nil
	}
	if res == nil {
		res = types.Dict{}
		pageDict["Resources"] = res
	}

	var fontRes types.Dict
	if o, found := res.Find("Font"); found {
		var err error
		fontRes, err = d.ctx.DereferenceDict(o)
		if err != nil {
			return fmt.Errorf("font resources: %w", err)
		}
	}
	if fontRes == nil {
		fontRes = types.Dict{}
		res["Font"] = fontRes
	}

	for _, name := range c.usedFontNames() {
		fd := types.Dict{
			"Type":     types.Name("Font"),
			"Subtype":  types.Name("Type1"),
			"BaseFont": types.Name(name),
			"Encoding": types.Name("WinAnsiEncoding"),
		}
		ir, err := d.ctx.IndRefForNewObject(fd)
		if err != nil {
			return fmt.Errorf("register font %s: %w", name, err)
		}
		fontRes[c.fonts[name]] = *ir
	}
	return nil
}
