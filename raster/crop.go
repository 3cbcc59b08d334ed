package raster

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"

	// Register decoders for page rasters
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/folio/model"
)

// ErrInvalidBox is returned when a crop box has no area
var ErrInvalidBox = errors.New("invalid crop box")

// Kind selects the directory segment used when naming a crop
type Kind string

const (
	KindImage Kind = "images"
	KindTable Kind = "tables"
)

// CropConfig holds configuration for cropping
type CropConfig struct {
	// Zoom is the output scale relative to page units. Default: 3
	Zoom float64

	// Quality is the JPEG quality. Default: 95
	Quality int
}

// DefaultCropConfig returns sensible default configuration
func DefaultCropConfig() CropConfig {
	return CropConfig{
		Zoom:    3,
		Quality: 95,
	}
}

// Cropper cuts page regions out of a page raster and stores them
type Cropper struct {
	writer Writer
	config CropConfig
	logger logrus.FieldLogger
}

// NewCropper creates a cropper with default configuration
func NewCropper(w Writer) *Cropper {
	return NewCropperWithConfig(w, DefaultCropConfig(), nil)
}

// NewCropperWithConfig creates a cropper with custom configuration
func NewCropperWithConfig(w Writer, config CropConfig, logger logrus.FieldLogger) *Cropper {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cropper{writer: w, config: config, logger: logger}
}

// CropName returns the storage name of a crop: the hex SHA-256 of
// "{digest}/{kind}/{page}_{x0}_{y0}_{x1}_{y1}" plus ".jpg", with the
// coordinates truncated to integers.
func CropName(digest string, kind Kind, page int, box model.BBox) string {
	c := box.Ints()
	key := fmt.Sprintf("%s/%s/%d_%d_%d_%d_%d", digest, kind, page, c[0], c[1], c[2], c[3])
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + ".jpg"
}

// Save crops box out of the page raster, encodes it as JPEG and writes it.
// It returns the storage name. pageW and pageH are the page size in page
// units and map the box onto the raster.
func (c *Cropper) Save(page image.Image, pageW, pageH float64, box model.BBox, digest string, kind Kind, pageIdx int) (string, error) {
	if box.X0 >= box.X1 || box.Y0 >= box.Y1 {
		c.logger.WithFields(logrus.Fields{
			"page_id": pageIdx,
			"bbox":    box.String(),
		}).Warn("skipping crop with invalid box")
		return "", ErrInvalidBox
	}

	img, err := Crop(page, pageW, pageH, box, c.config.Zoom)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.config.Quality}); err != nil {
		return "", fmt.Errorf("failed to encode crop: %w", err)
	}

	name := CropName(digest, kind, pageIdx, box)
	if c.writer != nil {
		if err := c.writer.Write(name, buf.Bytes()); err != nil {
			return "", err
		}
	}
	return name, nil
}

// Crop returns the region box of the page raster, scaled so one page unit
// spans zoom pixels. The box is clipped to the raster.
func Crop(page image.Image, pageW, pageH float64, box model.BBox, zoom float64) (image.Image, error) {
	if box.X0 >= box.X1 || box.Y0 >= box.Y1 {
		return nil, ErrInvalidBox
	}
	if page == nil || pageW <= 0 || pageH <= 0 {
		return nil, fmt.Errorf("no page raster to crop")
	}

	bounds := page.Bounds()
	sx := float64(bounds.Dx()) / pageW
	sy := float64(bounds.Dy()) / pageH

	src := image.Rect(
		bounds.Min.X+int(math.Floor(box.X0*sx)),
		bounds.Min.Y+int(math.Floor(box.Y0*sy)),
		bounds.Min.X+int(math.Ceil(box.X1*sx)),
		bounds.Min.Y+int(math.Ceil(box.Y1*sy)),
	).Intersect(bounds)
	if src.Empty() {
		return nil, ErrInvalidBox
	}

	w := int(math.Round(box.Width() * zoom))
	h := int(math.Round(box.Height() * zoom))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), page, src, draw.Over, nil)
	return dst, nil
}

// Decode reads a page raster in any registered format
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page image: %w", err)
	}
	return img, nil
}
