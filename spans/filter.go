package spans

import "github.com/tsawler/folio/model"

// RemoveOutside keeps spans that belong to a region of the page.
//
// A span is kept when it overlaps a discarded block by more than
// DiscardedOverlap, or overlaps a kept block of its family by more than
// KeptOverlap: image spans against image bodies, table spans against table
// bodies, and every other span against any other kept block.
func RemoveOutside(spans []model.Span, blocks, discarded []model.Block, config Config) []model.Span {
	var imageBoxes, tableBoxes, otherBoxes, discardedBoxes []model.BBox
	for _, b := range blocks {
		switch b.Type {
		case model.BlockTypeImageBody:
			imageBoxes = append(imageBoxes, b.BBox)
		case model.BlockTypeTableBody:
			tableBoxes = append(tableBoxes, b.BBox)
		default:
			otherBoxes = append(otherBoxes, b.BBox)
		}
	}
	for _, b := range discarded {
		discardedBoxes = append(discardedBoxes, b.BBox)
	}

	out := make([]model.Span, 0, len(spans))
	for _, s := range spans {
		if anyOverlap(s.BBox, discardedBoxes, config.DiscardedOverlap) {
			out = append(out, s)
			continue
		}
		var family []model.BBox
		switch s.Type {
		case model.SpanTypeImage:
			family = imageBoxes
		case model.SpanTypeTable:
			family = tableBoxes
		default:
			family = otherBoxes
		}
		if anyOverlap(s.BBox, family, config.KeptOverlap) {
			out = append(out, s)
		}
	}
	return out
}

func anyOverlap(b model.BBox, boxes []model.BBox, threshold float64) bool {
	for _, other := range boxes {
		if b.OverlapRatio(other) > threshold {
			return true
		}
	}
	return false
}

// RemoveLowConfidence resolves near-duplicate spans.
//
// For every pair covering each other by more than DuplicateOverlap the
// lower-scored span is dropped; on equal scores the smaller span is
// dropped, and on equal areas the later one. Spans already dropped take
// no further part.
func RemoveLowConfidence(spans []model.Span, config Config) (kept, dropped []model.Span) {
	drop := make([]bool, len(spans))
	for i := range spans {
		for j := range spans {
			if i == j || drop[i] || drop[j] {
				continue
			}
			a, b := spans[i], spans[j]
			if !a.BBox.MutualOverlap(b.BBox, config.DuplicateOverlap) {
				continue
			}
			drop[loser(i, j, a, b)] = true
		}
	}
	return split(spans, drop)
}

func loser(i, j int, a, b model.Span) int {
	switch {
	case a.Score < b.Score:
		return i
	case b.Score < a.Score:
		return j
	case a.BBox.Area() < b.BBox.Area():
		return i
	case b.BBox.Area() < a.BBox.Area():
		return j
	case i > j:
		return i
	}
	return j
}

// RemoveMinOverlaps drops spans mostly covered by a larger span.
// A span is dropped when more than ContainedOverlap of its area lies
// inside a larger span.
func RemoveMinOverlaps(spans []model.Span, config Config) (kept, dropped []model.Span) {
	drop := make([]bool, len(spans))
	for i := range spans {
		for j := range spans {
			if i == j || drop[i] || drop[j] {
				continue
			}
			small, large := i, j
			if spans[i].BBox.Area() > spans[j].BBox.Area() ||
				(spans[i].BBox.Area() == spans[j].BBox.Area() && i < j) {
				small, large = j, i
			}
			if spans[small].BBox.OverlapRatio(spans[large].BBox) > config.ContainedOverlap {
				drop[small] = true
			}
		}
	}
	return split(spans, drop)
}

func split(spans []model.Span, drop []bool) (kept, dropped []model.Span) {
	kept = make([]model.Span, 0, len(spans))
	for i, s := range spans {
		if drop[i] {
			dropped = append(dropped, s)
			continue
		}
		kept = append(kept, s)
	}
	return kept, dropped
}
