package model

import "image"

// Page represents a single rendered page of an exam document.
// Pages are created once by the page renderer and are read-only afterwards.
type Page struct {
	Index  int         // 1-based page number
	Width  int         // raster width in pixels
	Height int         // raster height in pixels
	Text   string      // native text layer, or OCR text when no layer exists
	Raster image.Image // rendered page image
}

// HasText reports whether the page carries a usable text layer.
func (p *Page) HasText() bool {
	return len(p.Text) > 0
}
