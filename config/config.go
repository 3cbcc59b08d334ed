// Package config loads folio settings from YAML.
//
// Every field has a default, so a configuration file only needs the
// values it changes:
//
//	parse:
//	  mode: txt
//	  lang: en
//	  end_page: 9
//	ranker:
//	  endpoint: http://127.0.0.1:8000/predict
//	  timeout: 30s
//	ocr:
//	  enabled: true
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/folio/models"
	"github.com/tsawler/folio/ocr"
	"github.com/tsawler/folio/pipeline"
	"github.com/tsawler/folio/ranker"
)

// Config is the complete configuration
type Config struct {
	Parse        ParseConfig        `yaml:"parse"`
	ReadingOrder ReadingOrderConfig `yaml:"reading_order"`
	Ranker       RankerConfig       `yaml:"ranker"`
	OCR          OCRConfig          `yaml:"ocr"`
	Output       OutputConfig       `yaml:"output"`
	Log          LogConfig          `yaml:"log"`
}

// ParseConfig selects the parse mode and page range
type ParseConfig struct {
	Mode      string `yaml:"mode"`
	Lang      string `yaml:"lang"`
	StartPage int    `yaml:"start_page"`
	EndPage   *int   `yaml:"end_page"`
}

// ReadingOrderConfig tunes reading order and conflict handling
type ReadingOrderConfig struct {
	MaxModelLines int     `yaml:"max_model_lines"`
	Seed          int64   `yaml:"seed"`
	YTolerance    float64 `yaml:"y_tolerance"`
}

// RankerConfig points at the ranking model service. An empty endpoint
// disables the model and every page uses XY-cut.
type RankerConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// OCRConfig controls the OCR fallback for spans the text layer misses
type OCRConfig struct {
	Enabled bool `yaml:"enabled"`

	// Language overrides the Tesseract language derived from parse.lang
	Language      string  `yaml:"language"`
	MinConfidence float64 `yaml:"min_confidence"`
}

// OutputConfig controls where artifacts go
type OutputConfig struct {
	MediaDir   string `yaml:"media_dir"`
	FreeMemory bool   `yaml:"free_memory"`
}

// LogConfig controls logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration
func Default() Config {
	pc := pipeline.DefaultConfig()
	hc := ranker.DefaultHTTPConfig()
	return Config{
		Parse: ParseConfig{
			Mode: string(pc.Mode),
		},
		ReadingOrder: ReadingOrderConfig{
			MaxModelLines: pc.ReadingOrder.MaxModelLines,
			Seed:          pc.ReadingOrder.Seed,
			YTolerance:    pc.Normalize.Conflict.YTolerance,
		},
		Ranker: RankerConfig{
			Timeout: hc.Timeout,
		},
		OCR: OCRConfig{
			MinConfidence: pc.Spans.MinOCRConfidence,
		},
		Output: OutputConfig{
			MediaDir:   "images",
			FreeMemory: pc.FreeMemory,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that values are usable
func (c Config) Validate() error {
	if err := pipeline.ParseMode(c.Parse.Mode).Validate(); err != nil {
		return err
	}
	if c.Parse.StartPage < 0 {
		return fmt.Errorf("parse.start_page must not be negative, got %d", c.Parse.StartPage)
	}
	if e := c.Parse.EndPage; e != nil && *e >= 0 && *e < c.Parse.StartPage {
		return fmt.Errorf("parse.end_page %d is before start_page %d", *e, c.Parse.StartPage)
	}
	if c.ReadingOrder.MaxModelLines < 0 {
		return fmt.Errorf("reading_order.max_model_lines must not be negative")
	}
	if c.ReadingOrder.YTolerance < 0 {
		return fmt.Errorf("reading_order.y_tolerance must not be negative")
	}
	if c.Ranker.Endpoint != "" && c.Ranker.Timeout <= 0 {
		return fmt.Errorf("ranker.timeout must be positive")
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		return fmt.Errorf("ocr.min_confidence must be in [0, 1], got %v", c.OCR.MinConfidence)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Pipeline returns the page assembler configuration
func (c Config) Pipeline() pipeline.Config {
	pc := pipeline.DefaultConfig()
	pc.Mode = pipeline.ParseMode(c.Parse.Mode)
	pc.StartPage = c.Parse.StartPage
	if c.Parse.EndPage != nil {
		end := *c.Parse.EndPage
		pc.EndPage = &end
	}
	pc.ReadingOrder.MaxModelLines = c.ReadingOrder.MaxModelLines
	pc.ReadingOrder.Seed = c.ReadingOrder.Seed
	pc.Normalize.Conflict.YTolerance = c.ReadingOrder.YTolerance
	pc.Spans.MinOCRConfidence = c.OCR.MinConfidence
	pc.FreeMemory = c.Output.FreeMemory
	return pc
}

// Models returns the options for the default model provider
func (c Config) Models() models.Options {
	opts := models.Options{
		Ranker: ranker.HTTPConfig{
			Endpoint: c.Ranker.Endpoint,
			Timeout:  c.Ranker.Timeout,
		},
		EnableOCR: c.OCR.Enabled,
		OCR:       ocr.DefaultOptions(),
	}
	opts.OCR.Language = c.OCR.Language
	if opts.OCR.Language == "" {
		opts.OCR.Language = ocr.TesseractLanguage(c.Parse.Lang)
	}
	return opts
}

// Logger builds a logger from the log section
func (c Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetLevel(level)
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l, nil
}
