package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Result is the outcome of recognizing one image region.
type Result struct {
	Text string

	// Confidence is the mean word confidence in [0, 1]
	Confidence float64
}

// Engine recognizes the text in an image region.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (Result, error)
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(ctx context.Context, img image.Image) (Result, error)

// Recognize calls f.
func (f EngineFunc) Recognize(ctx context.Context, img image.Image) (Result, error) {
	return f(ctx, img)
}

// PageSegMode represents page segmentation modes for OCR.
// These control how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes (values match Tesseract's).
const (
	PSM_OSD_ONLY               PageSegMode = 0  // Orientation and script detection only
	PSM_AUTO_OSD               PageSegMode = 1  // Automatic with OSD
	PSM_AUTO_ONLY              PageSegMode = 2  // Automatic, no OSD or OCR
	PSM_AUTO                   PageSegMode = 3  // Fully automatic (default)
	PSM_SINGLE_COLUMN          PageSegMode = 4  // Single column of variable sizes
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5  // Single uniform block of vertically aligned text
	PSM_SINGLE_BLOCK           PageSegMode = 6  // Single uniform block of text
	PSM_SINGLE_LINE            PageSegMode = 7  // Single text line
	PSM_SINGLE_WORD            PageSegMode = 8  // Single word
	PSM_CIRCLE_WORD            PageSegMode = 9  // Single word in a circle
	PSM_SINGLE_CHAR            PageSegMode = 10 // Single character
	PSM_SPARSE_TEXT            PageSegMode = 11 // Find as much text as possible
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12 // Sparse text with OSD
	PSM_RAW_LINE               PageSegMode = 13 // Treat image as single text line
)

// Options configures a Client.
type Options struct {
	// Language is a Tesseract language string such as "eng" or "eng+fra"
	Language string

	// PageSegMode controls layout analysis. Span crops are single lines.
	PageSegMode PageSegMode

	// DPI is passed to Tesseract as user_defined_dpi when positive
	DPI int
}

// DefaultOptions returns options suited to recognizing cropped text lines.
func DefaultOptions() Options {
	return Options{
		Language:    DefaultLanguage,
		PageSegMode: PSM_SINGLE_LINE,
		DPI:         216,
	}
}
