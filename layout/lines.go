package layout

import (
	"sort"

	"github.com/tsawler/folio/model"
)

// DefaultLineHeight is used when a page has no prose lines
const DefaultLineHeight = 10

// LineMergeThreshold is the vertical overlap, relative to the shorter span,
// above which two spans are placed on the same line.
const LineMergeThreshold = 0.6

// MergeSpansToLines groups spans into lines.
//
// Spans are taken top to bottom. A span joins the current line when it
// overlaps the line's last span vertically by more than the threshold.
// Image, table and interline equation spans always sit on a line of their
// own. Within a line spans are ordered left to right and the line box is
// the union of its spans.
func MergeSpansToLines(spans []model.Span, threshold float64) []model.Line {
	if len(spans) == 0 {
		return nil
	}

	sorted := append([]model.Span(nil), spans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Y0 < sorted[j].BBox.Y0
	})

	var groups [][]model.Span
	current := []model.Span{sorted[0]}
	for _, s := range sorted[1:] {
		if standalone(s) || containsStandalone(current) {
			groups = append(groups, current)
			current = []model.Span{s}
			continue
		}
		if yOverlapExceeds(s.BBox, current[len(current)-1].BBox, threshold) {
			current = append(current, s)
		} else {
			groups = append(groups, current)
			current = []model.Span{s}
		}
	}
	groups = append(groups, current)

	lines := make([]model.Line, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].BBox.X0 < g[j].BBox.X0
		})
		var bbox model.BBox
		for _, s := range g {
			bbox = bbox.Union(s.BBox)
		}
		lines = append(lines, model.Line{BBox: bbox, Spans: g})
	}
	return lines
}

func standalone(s model.Span) bool {
	switch s.Type {
	case model.SpanTypeInterlineEquation, model.SpanTypeImage, model.SpanTypeTable:
		return true
	}
	return false
}

func containsStandalone(spans []model.Span) bool {
	for _, s := range spans {
		if standalone(s) {
			return true
		}
	}
	return false
}

func yOverlapExceeds(a, b model.BBox, threshold float64) bool {
	minHeight := minFloat64(a.Height(), b.Height())
	if minHeight <= 0 {
		return false
	}
	return a.YOverlap(b)/minHeight > threshold
}

// FixBlocks turns the spans collected by each block into lines.
//
// Prose blocks convert interline equation spans to inline equations.
// Interline equation and body blocks keep their span types. Blocks of any
// other type are dropped. The input is not modified.
func FixBlocks(blocks []model.Block) []model.Block {
	out := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		switch {
		case b.Type.IsProse():
			out = append(out, fixTextBlock(b))
		case b.Type == model.BlockTypeInterlineEquation || b.Type.IsBody():
			out = append(out, fixBlock(b))
		}
	}
	return out
}

// FixDiscarded turns the spans of discarded blocks into lines
func FixDiscarded(blocks []model.Block) []model.Block {
	out := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, fixTextBlock(b))
	}
	return out
}

func fixTextBlock(b model.Block) model.Block {
	c := b.Clone()
	for i := range c.Spans {
		if c.Spans[i].Type == model.SpanTypeInterlineEquation {
			c.Spans[i].Type = model.SpanTypeInlineEquation
		}
	}
	return mergeBlockSpans(c)
}

func fixBlock(b model.Block) model.Block {
	return mergeBlockSpans(b.Clone())
}

func mergeBlockSpans(b model.Block) model.Block {
	b.Lines = MergeSpansToLines(b.Spans, LineMergeThreshold)
	b.Spans = nil
	return b
}

// LineHeight returns the median height of the prose lines on a page,
// truncated to whole units, or DefaultLineHeight when there are none.
func LineHeight(blocks []model.Block) float64 {
	var heights []float64
	for _, b := range blocks {
		if !b.Type.IsProse() {
			continue
		}
		for _, l := range b.Lines {
			heights = append(heights, float64(int(l.BBox.Height())))
		}
	}
	if len(heights) == 0 {
		return DefaultLineHeight
	}
	return Median(heights)
}

// InsertBands splits a block box into horizontal bands used as stand-in
// lines for ranking.
//
// Boxes no taller than three lines stay whole. Taller boxes are cut finer
// when they look like one column of a two or three column layout, into
// three bands when wider than 0.4 of the page, and into two bands when
// otherwise not tall and narrow.
func InsertBands(bbox model.BBox, lineHeight, pageW, pageH float64) []model.BBox {
	h := bbox.Height()
	w := bbox.Width()

	if lineHeight <= 0 || lineHeight*3 >= h {
		return []model.BBox{bbox}
	}

	var count int
	switch {
	case h > pageH*0.25 && w < pageW*0.5 && w > pageW*0.25:
		count = int(h/lineHeight) + 1
	case w > pageW*0.4:
		lineHeight = h / 3
		count = 3
	case w > pageW*0.25:
		count = int(h/lineHeight) + 1
	case w <= 0 || h/w > 1.2:
		return []model.BBox{bbox}
	default:
		lineHeight = h / 2
		count = 2
	}

	bands := make([]model.BBox, 0, count)
	y := bbox.Y0
	for i := 0; i < count; i++ {
		bands = append(bands, model.NewBBox(bbox.X0, y, bbox.X1, y+lineHeight))
		y += lineHeight
	}
	return bands
}

func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
