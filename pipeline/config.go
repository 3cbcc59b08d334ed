package pipeline

import (
	"errors"
	"fmt"

	"github.com/tsawler/folio/layout"
	"github.com/tsawler/folio/raster"
	"github.com/tsawler/folio/spans"
)

// ErrUnsupportedParseMode is returned for a parse mode other than TXT or OCR
var ErrUnsupportedParseMode = errors.New("unsupported parse mode")

// ParseMode selects where span text comes from
type ParseMode string

const (
	// ModeTXT rebuilds span text from the PDF text layer
	ModeTXT ParseMode = "txt"

	// ModeOCR keeps the text recognized by the detector
	ModeOCR ParseMode = "ocr"
)

// Validate returns ErrUnsupportedParseMode for unknown modes
func (m ParseMode) Validate() error {
	switch m {
	case ModeTXT, ModeOCR:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedParseMode, string(m))
}

// Config holds configuration for the page assembler and document driver
type Config struct {
	Mode ParseMode

	// StartPage is the first 0-based page to parse
	StartPage int

	// EndPage is the last 0-based page to parse. Nil or negative means
	// the last page.
	EndPage *int

	Normalize    layout.NormalizeConfig
	Spans        spans.Config
	ReadingOrder layout.ReadingOrderConfig
	Crop         raster.CropConfig

	// FreeMemory returns freed heap to the OS after a document
	FreeMemory bool
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Mode:         ModeTXT,
		Normalize:    layout.DefaultNormalizeConfig(),
		Spans:        spans.DefaultConfig(),
		ReadingOrder: layout.DefaultReadingOrderConfig(),
		Crop:         raster.DefaultCropConfig(),
		FreeMemory:   true,
	}
}
