package spans

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/folio/model"
)

// Recognizer reads the text in a region of the page image
type Recognizer interface {
	RecognizeRegion(ctx context.Context, bbox model.BBox) (text string, confidence float64, err error)
}

// Reconstructor rebuilds text spans from the PDF text layer
type Reconstructor struct {
	config     Config
	recognizer Recognizer
	logger     logrus.FieldLogger
}

// NewReconstructor creates a reconstructor. A nil recognizer drops text
// spans that the text layer leaves empty.
func NewReconstructor(config Config, recognizer Recognizer, logger logrus.FieldLogger) *Reconstructor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reconstructor{config: config, recognizer: recognizer, logger: logger}
}

// Reconstruct replaces the content of text spans with characters from the
// page text layer.
//
// Only text spans lying mostly inside a prose block or a discarded block
// are rebuilt; other spans pass through unchanged. A rebuilt span left
// empty is removed and, when a recognizer is set, re-read from the page
// image; the OCR text is kept only when non-empty with confidence above
// MinOCRConfidence, and the span is then appended to the result.
func (r *Reconstructor) Reconstruct(ctx context.Context, spans []model.Span, blocks, discarded []model.Block, chars []model.Char) ([]model.Span, error) {
	var targets []int
	for i, s := range spans {
		if s.Type != model.SpanTypeText {
			continue
		}
		if r.inProse(s.BBox, blocks) || anyBlockOverlap(s.BBox, discarded, r.config.KeptOverlap) {
			targets = append(targets, i)
		}
	}

	subset := make([]model.Span, len(targets))
	for k, i := range targets {
		subset[k] = spans[i]
	}
	filled := FillChars(subset, chars)

	out := append([]model.Span(nil), spans...)
	empty := make(map[int]bool)
	for k, i := range targets {
		out[i] = filled[k]
		if filled[k].Content == "" {
			empty[i] = true
		}
	}
	if len(empty) == 0 {
		return out, nil
	}

	kept := make([]model.Span, 0, len(out))
	var recovered []model.Span
	for i, s := range out {
		if !empty[i] {
			kept = append(kept, s)
			continue
		}
		span, ok, err := r.recover(ctx, s)
		if err != nil {
			return nil, err
		}
		if ok {
			recovered = append(recovered, span)
		}
	}
	return append(kept, recovered...), nil
}

func (r *Reconstructor) recover(ctx context.Context, s model.Span) (model.Span, bool, error) {
	if r.recognizer == nil {
		r.logger.WithField("bbox", s.BBox.String()).Debug("dropping empty text span, no OCR available")
		return s, false, nil
	}

	text, conf, err := r.recognizer.RecognizeRegion(ctx, s.BBox)
	if err != nil {
		return s, false, fmt.Errorf("OCR fallback failed for span %v: %w", s.BBox, err)
	}
	if conf <= r.config.MinOCRConfidence || text == "" {
		r.logger.WithFields(logrus.Fields{
			"bbox":       s.BBox.String(),
			"confidence": conf,
		}).Debug("dropping empty text span, OCR result rejected")
		return s, false, nil
	}

	s.Content = cleanText(text)
	return s, true, nil
}

// inProse reports whether b lies mostly inside a block that holds text
func (r *Reconstructor) inProse(b model.BBox, blocks []model.Block) bool {
	for _, blk := range blocks {
		switch blk.Type {
		case model.BlockTypeImageBody, model.BlockTypeTableBody, model.BlockTypeInterlineEquation:
			continue
		}
		if b.OverlapRatio(blk.BBox) > r.config.KeptOverlap {
			return true
		}
	}
	return false
}

func anyBlockOverlap(b model.BBox, blocks []model.Block, threshold float64) bool {
	for _, blk := range blocks {
		if b.OverlapRatio(blk.BBox) > threshold {
			return true
		}
	}
	return false
}
