package source

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tsawler/folio/raster"
)

// ImageSource supplies rendered page rasters
type ImageSource interface {
	PageImage(page int) (image.Image, error)
}

// imageExtensions are tried in order when looking up a page raster
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp"}

// DirImages reads page rasters named "<Prefix><page><ext>" from a
// directory, where page is 0-based.
type DirImages struct {
	Dir    string
	Prefix string
}

// NewDirImages creates a source for files named page-0.png, page-1.png...
func NewDirImages(dir string) *DirImages {
	return &DirImages{Dir: dir, Prefix: "page-"}
}

// PageImage loads the raster for page. It returns ErrNoRaster when no file
// exists for the page.
func (d *DirImages) PageImage(page int) (image.Image, error) {
	for _, ext := range imageExtensions {
		path := filepath.Join(d.Dir, fmt.Sprintf("%s%d%s", d.Prefix, page, ext))
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		img, err := raster.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return img, nil
	}
	return nil, ErrNoRaster
}

// MemoryImages holds page rasters in memory, keyed by page index
type MemoryImages map[int]image.Image

// PageImage returns the raster for page, or ErrNoRaster
func (m MemoryImages) PageImage(page int) (image.Image, error) {
	if img, ok := m[page]; ok && img != nil {
		return img, nil
	}
	return nil, ErrNoRaster
}
