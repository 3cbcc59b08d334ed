// Package models provides lazily built, process-wide collaborator models.
//
// Each model is built at most once, on first use, and the same instance
// is handed to every caller afterwards. A failed build is remembered and
// its error returned on every later call. Sharing an instance does not
// serialize its use; callers that need exclusive access must arrange it.
package models

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/folio/ocr"
	"github.com/tsawler/folio/ranker"
)

// Lazy builds a value once, on first Get
type Lazy[T any] struct {
	once  sync.Once
	build func() (T, error)
	value T
	err   error
	done  atomic.Bool
}

// NewLazy wraps build so it runs at most once
func NewLazy[T any](build func() (T, error)) *Lazy[T] {
	return &Lazy[T]{build: build}
}

// Get returns the built value, building it on the first call
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		if l.build != nil {
			l.value, l.err = l.build()
		}
		l.done.Store(true)
	})
	return l.value, l.err
}

// Built reports whether Get has run the builder
func (l *Lazy[T]) Built() bool {
	return l.done.Load()
}

// Provider hands out the ranking model and the OCR engine
type Provider struct {
	ranker *Lazy[ranker.Ranker]
	ocr    *Lazy[ocr.Engine]
	logger logrus.FieldLogger
	warned sync.Map
}

// NewProvider creates a provider from builder functions. A nil builder
// means the model is not available.
func NewProvider(buildRanker func() (ranker.Ranker, error), buildOCR func() (ocr.Engine, error), logger logrus.FieldLogger) *Provider {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Provider{
		ranker: NewLazy(buildRanker),
		ocr:    NewLazy(buildOCR),
		logger: logger,
	}
}

// Static creates a provider for already built models
func Static(r ranker.Ranker, e ocr.Engine) *Provider {
	return NewProvider(
		func() (ranker.Ranker, error) { return r, nil },
		func() (ocr.Engine, error) { return e, nil },
		nil,
	)
}

// Options selects the default models
type Options struct {
	// Ranker enables the HTTP ranking model when its endpoint is set
	Ranker ranker.HTTPConfig

	// OCR enables Tesseract when true
	EnableOCR bool
	OCR       ocr.Options
}

// Default creates a provider for the HTTP ranker and the Tesseract engine
func Default(opts Options, logger logrus.FieldLogger) *Provider {
	var buildRanker func() (ranker.Ranker, error)
	if opts.Ranker.Endpoint != "" {
		buildRanker = func() (ranker.Ranker, error) {
			return ranker.NewHTTPRanker(opts.Ranker), nil
		}
	}

	var buildOCR func() (ocr.Engine, error)
	if opts.EnableOCR {
		buildOCR = func() (ocr.Engine, error) {
			c, err := ocr.NewWithOptions(opts.OCR)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	return NewProvider(buildRanker, buildOCR, logger)
}

// Ranker returns the ranking model, or nil when none is available.
// A build failure is logged once and treated as unavailable.
func (p *Provider) Ranker() ranker.Ranker {
	r, err := p.ranker.Get()
	if err != nil {
		p.warnOnce("ranker", err)
		return nil
	}
	return r
}

// OCR returns the OCR engine, or nil when none is available.
// A build failure is logged once and treated as unavailable.
func (p *Provider) OCR() ocr.Engine {
	e, err := p.ocr.Get()
	if err != nil {
		p.warnOnce("ocr", err)
		return nil
	}
	return e
}

// Close releases models that hold resources. Models never built are left
// alone.
func (p *Provider) Close() error {
	if !p.ocr.Built() {
		return nil
	}
	e, err := p.ocr.Get()
	if err != nil || e == nil {
		return nil
	}
	if c, ok := e.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *Provider) warnOnce(model string, err error) {
	if _, loaded := p.warned.LoadOrStore(model, true); loaded {
		return
	}
	p.logger.WithError(err).WithField("model", model).Warn("model unavailable")
}
