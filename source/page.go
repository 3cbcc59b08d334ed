package source

import (
	"errors"
	"image"

	"github.com/tsawler/folio/model"
)

// ErrNoRaster is returned by Page.Image when no raster is available
var ErrNoRaster = errors.New("no page raster available")

// Page is a handle to one source page
type Page interface {
	// Index returns the 0-based page index
	Index() int

	// Size returns the page width and height in page units
	Size() (float64, float64)

	// Chars returns the positioned characters of the text layer
	Chars() ([]model.Char, error)

	// Image returns the rendered page, or ErrNoRaster
	Image() (image.Image, error)
}

// StaticPage is a Page backed by values already in memory
type StaticPage struct {
	Idx    int
	Width  float64
	Height float64
	Text   []model.Char
	Raster image.Image
}

// Index returns the page index
func (p *StaticPage) Index() int { return p.Idx }

// Size returns the page dimensions
func (p *StaticPage) Size() (float64, float64) { return p.Width, p.Height }

// Chars returns a copy of the page characters
func (p *StaticPage) Chars() ([]model.Char, error) {
	return append([]model.Char(nil), p.Text...), nil
}

// Image returns the raster, or ErrNoRaster when none is set
func (p *StaticPage) Image() (image.Image, error) {
	if p.Raster == nil {
		return nil, ErrNoRaster
	}
	return p.Raster, nil
}
