package spans

import (
	"github.com/tidwall/rtree"
	"github.com/tsawler/folio/model"
)

// Fill assigns each span to the block it overlaps most.
//
// A span goes to the block with the highest OverlapRatio(span, block) of at
// least threshold; ties go to the earliest block. Spans matching no block
// are returned as remaining. Blocks are returned as copies with the
// assigned spans appended to their Spans field.
func Fill(blocks []model.Block, spans []model.Span, threshold float64) (filled []model.Block, remaining []model.Span) {
	filled = make([]model.Block, len(blocks))
	var tr rtree.RTreeG[int]
	for i, b := range blocks {
		filled[i] = b.Clone()
		lo, hi := corners(b.BBox)
		tr.Insert(lo, hi, i)
	}

	remaining = make([]model.Span, 0)
	for _, s := range spans {
		best := -1
		bestRatio := 0.0
		lo, hi := corners(s.BBox)
		tr.Search(lo, hi, func(_, _ [2]float64, i int) bool {
			r := s.BBox.OverlapRatio(blocks[i].BBox)
			if r <= 0 || r < threshold {
				return true
			}
			if best < 0 || r > bestRatio || (r == bestRatio && i < best) {
				best, bestRatio = i, r
			}
			return true
		})
		if best < 0 {
			remaining = append(remaining, s)
			continue
		}
		filled[best].Spans = append(filled[best].Spans, s)
	}
	return filled, remaining
}

func corners(b model.BBox) (lo, hi [2]float64) {
	return [2]float64{b.X0, b.Y0}, [2]float64{b.X1, b.Y1}
}
