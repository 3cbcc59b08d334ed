package layout

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/ranker"
)

// OrderPath indicates which strategy produced a reading order
type OrderPath int

const (
	// PathModel means a ranking model ordered the page's lines
	PathModel OrderPath = iota
	// PathXYCut means the geometric fallback ordered the page's blocks
	PathXYCut
)

// String returns a string representation of the path
func (p OrderPath) String() string {
	if p == PathModel {
		return "model"
	}
	return "xycut"
}

// ReadingOrderConfig holds configuration for reading order detection
type ReadingOrderConfig struct {
	// MaxModelLines is the largest number of lines the ranking model is
	// asked to order. Pages with more lines use XY-cut.
	// Default: 200
	MaxModelLines int

	// Seed drives the shuffle applied before XY-cut
	Seed int64
}

// DefaultReadingOrderConfig returns sensible default configuration
func DefaultReadingOrderConfig() ReadingOrderConfig {
	return ReadingOrderConfig{
		MaxModelLines: 200,
		Seed:          1,
	}
}

// OrderResult holds the outcome of reading order detection
type OrderResult struct {
	// Blocks with Index set on every block and line, in input order
	Blocks []model.Block

	// Path is the strategy that was used
	Path OrderPath

	// LineCount is the number of lines considered for ranking
	LineCount int
}

// ReadingOrder ranks the blocks and lines of a page.
// A nil ranker always uses the XY-cut fallback.
type ReadingOrder struct {
	ranker ranker.Ranker
	config ReadingOrderConfig
	logger logrus.FieldLogger
}

// NewReadingOrder creates a reading order engine with default configuration
func NewReadingOrder(r ranker.Ranker) *ReadingOrder {
	return NewReadingOrderWithConfig(r, DefaultReadingOrderConfig(), nil)
}

// NewReadingOrderWithConfig creates a reading order engine with custom configuration
func NewReadingOrderWithConfig(r ranker.Ranker, config ReadingOrderConfig, logger logrus.FieldLogger) *ReadingOrder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReadingOrder{ranker: r, config: config, logger: logger}
}

type lineRef struct {
	block, line int
}

// Order assigns reading-order indices to blocks and their lines.
//
// Prose and equation blocks without lines receive band lines from
// InsertBands, which they keep. Image and table bodies are ranked on band
// lines; afterwards their real lines are restored and the bands are kept
// as VirtualLines.
//
// On the model path a line's index is its rank and a block's index is the
// median of its lines' ranks. On the XY-cut path a block's index is its
// rank among blocks and lines are numbered from 1 in block order.
func (o *ReadingOrder) Order(ctx context.Context, blocks []model.Block, pageW, pageH, lineHeight float64) (*OrderResult, error) {
	out := make([]model.Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}

	realLines := make(map[int][]model.Line)
	var refs []lineRef
	var boxes []model.BBox

	for i := range out {
		b := &out[i]
		switch {
		case b.Type.IsProse() || b.Type == model.BlockTypeInterlineEquation:
			if len(b.Lines) == 0 {
				b.Lines = bandLines(b.BBox, lineHeight, pageW, pageH)
			}
		case b.Type.IsBody():
			realLines[i] = b.Lines
			b.Lines = bandLines(b.BBox, lineHeight, pageW, pageH)
		default:
			continue
		}
		for j := range b.Lines {
			refs = append(refs, lineRef{block: i, line: j})
			boxes = append(boxes, b.Lines[j].BBox)
		}
	}

	result := &OrderResult{Blocks: out, LineCount: len(refs)}

	if o.ranker != nil && len(refs) <= o.config.MaxModelLines {
		result.Path = PathModel
		if err := o.orderByModel(ctx, out, refs, boxes, pageW, pageH); err != nil {
			return nil, err
		}
		restoreBodies(out, realLines)
		return result, nil
	}

	result.Path = PathXYCut
	o.logger.WithFields(logrus.Fields{
		"lines":      len(refs),
		"max_lines":  o.config.MaxModelLines,
		"has_ranker": o.ranker != nil,
	}).Debug("ordering page with xy-cut")

	restoreBodies(out, realLines)
	if err := o.orderByXYCut(out); err != nil {
		return nil, err
	}
	return result, nil
}

func (o *ReadingOrder) orderByModel(ctx context.Context, blocks []model.Block, refs []lineRef, boxes []model.BBox, pageW, pageH float64) error {
	if len(refs) == 0 {
		return nil
	}

	norm, err := ranker.Normalize(boxes, pageW, pageH, o.logger)
	if err != nil {
		return fmt.Errorf("failed to normalize line boxes: %w", err)
	}

	order, err := o.ranker.Rank(ctx, norm)
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}
	if err := ranker.ValidatePermutation(order, len(norm)); err != nil {
		return err
	}

	pos := ranker.Positions(order)
	ranks := make(map[int][]float64)
	for k, ref := range refs {
		blocks[ref.block].Lines[ref.line].Index = pos[k]
		ranks[ref.block] = append(ranks[ref.block], float64(pos[k]))
	}
	for i, r := range ranks {
		blocks[i].Index = Median(r)
	}
	return nil
}

func (o *ReadingOrder) orderByXYCut(blocks []model.Block) error {
	boxes := make([]model.BBox, len(blocks))
	for i, b := range blocks {
		boxes[i] = b.BBox
	}

	order, err := XYCut(boxes, o.config.Seed)
	if err != nil {
		return err
	}

	for rank, i := range order {
		blocks[i].Index = float64(rank)
	}

	next := 1
	for _, i := range order {
		for j := range blocks[i].Lines {
			blocks[i].Lines[j].Index = next
			next++
		}
	}
	return nil
}

func bandLines(bbox model.BBox, lineHeight, pageW, pageH float64) []model.Line {
	bands := InsertBands(bbox, lineHeight, pageW, pageH)
	lines := make([]model.Line, len(bands))
	for i, band := range bands {
		lines[i] = model.Line{BBox: band, Spans: []model.Span{}}
	}
	return lines
}

func restoreBodies(blocks []model.Block, realLines map[int][]model.Line) {
	for i, lines := range realLines {
		blocks[i].VirtualLines = blocks[i].Lines
		blocks[i].Lines = lines
	}
}
