//go:build ocr

// Package ocr provides OCR (Optical Character Recognition) for page regions
// whose text layer is missing or unusable.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations.
// A Client is not safe for concurrent use.
type Client struct {
	client *gosseract.Client
	opts   Options
}

// New creates a new OCR client with DefaultOptions.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a new OCR client with custom options.
func NewWithOptions(opts Options) (*Client, error) {
	client := gosseract.NewClient()
	c := &Client{client: client, opts: opts}

	if opts.Language != "" {
		if err := c.SetLanguage(opts.Language); err != nil {
			client.Close()
			return nil, err
		}
	}
	if err := c.SetPageSegMode(opts.PageSegMode); err != nil {
		client.Close()
		return nil, err
	}
	if opts.DPI > 0 {
		if err := client.SetVariable("user_defined_dpi", strconv.Itoa(opts.DPI)); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set dpi: %w", err)
		}
	}
	return c, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeImage performs OCR on encoded image data (PNG, TIFF, JPEG, etc.).
// Returns the recognized text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// Recognize performs OCR on a decoded image and reports the mean word
// confidence scaled to [0, 1].
func (c *Client) Recognize(ctx context.Context, img image.Image) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("failed to encode image: %w", err)
	}

	text, err := c.RecognizeImage(buf.Bytes())
	if err != nil {
		return Result{}, err
	}
	if text == "" {
		return Result{}, nil
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read word boxes: %w", err)
	}

	var sum float64
	var n int
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		sum += b.Confidence / 100
		n++
	}

	res := Result{Text: text}
	if n > 0 {
		res.Confidence = sum / float64(n)
	}
	return res, nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+fra").
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(strings.Split(lang, "+")...)
}

// SetPageSegMode sets the page segmentation mode.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}
