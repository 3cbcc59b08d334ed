// Package ranker defines the call contract for reading-order ranking
// models and provides an HTTP client for a LayoutReader service.
//
// A [Ranker] receives line boxes in a fixed 0-1000 coordinate space and
// returns the reading order as a permutation of their indices. Use
// [Normalize] to map page boxes into that space and [ValidatePermutation]
// to check what a model returned.
package ranker

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/folio/model"
)

// Scale is the side length of the normalized coordinate space
const Scale = 1000

// ErrBadPermutation is returned when a ranker result is not a bijection
// over the input boxes.
var ErrBadPermutation = errors.New("ranker returned an invalid permutation")

// Ranker orders line boxes for reading.
//
// Rank returns order such that order[k] is the index of the k-th box to be
// read. Implementations are used sequentially and need not be safe for
// concurrent use.
type Ranker interface {
	Rank(ctx context.Context, boxes [][4]int) ([]int, error)
}

// Func adapts a function to the Ranker interface
type Func func(ctx context.Context, boxes [][4]int) ([]int, error)

// Rank implements Ranker
func (f Func) Rank(ctx context.Context, boxes [][4]int) ([]int, error) {
	return f(ctx, boxes)
}

// Normalize maps page boxes into the 0-1000 space.
//
// Coordinates outside the page are clamped to its edges and logged as a
// warning. Values are rounded half to even.
func Normalize(boxes []model.BBox, pageWidth, pageHeight float64, logger logrus.FieldLogger) ([][4]int, error) {
	if pageWidth <= 0 || pageHeight <= 0 {
		return nil, fmt.Errorf("invalid page size %vx%v", pageWidth, pageHeight)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	xScale := Scale / pageWidth
	yScale := Scale / pageHeight
	out := make([][4]int, len(boxes))

	for i, b := range boxes {
		left, top, right, bottom := b.X0, b.Y0, b.X1, b.Y1
		if left < 0 || top < 0 || right > pageWidth || bottom > pageHeight {
			logger.WithFields(logrus.Fields{
				"bbox":        b.String(),
				"page_width":  pageWidth,
				"page_height": pageHeight,
			}).Warn("line box outside page, clamping")
		}
		left = clamp(left, 0, pageWidth)
		top = clamp(top, 0, pageHeight)
		right = math.Max(clamp(right, 0, pageWidth), left)
		bottom = math.Max(clamp(bottom, 0, pageHeight), top)

		nb := [4]int{
			int(math.RoundToEven(left * xScale)),
			int(math.RoundToEven(top * yScale)),
			int(math.RoundToEven(right * xScale)),
			int(math.RoundToEven(bottom * yScale)),
		}
		if !(Scale >= nb[2] && nb[2] >= nb[0] && nb[0] >= 0 && Scale >= nb[3] && nb[3] >= nb[1] && nb[1] >= 0) {
			return nil, fmt.Errorf("invalid normalized box %v from %v", nb, b)
		}
		out[i] = nb
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// ValidatePermutation checks that order is a bijection over [0, n)
func ValidatePermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: got %d entries for %d boxes", ErrBadPermutation, len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: index %d out of range", ErrBadPermutation, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%w: index %d repeated", ErrBadPermutation, idx)
		}
		seen[idx] = true
	}
	return nil
}

// Positions inverts a permutation: pos[i] is the rank of box i
func Positions(order []int) []int {
	pos := make([]int, len(order))
	for rank, idx := range order {
		pos[idx] = rank
	}
	return pos
}
