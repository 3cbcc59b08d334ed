package layout

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/tsawler/folio/model"
)

// ErrInvalidPermutation is returned when the geometric ordering does not
// produce a permutation of its input.
var ErrInvalidPermutation = errors.New("xy-cut produced an invalid permutation")

// XYCut orders boxes by recursively cutting the page along gaps in their
// vertical then horizontal projections.
//
// The boxes are shuffled with a fixed seed before cutting and every sort
// breaks ties by coordinates and then by original position, so the result
// is identical for identical input whatever order the boxes arrive in.
// It returns order such that order[k] is the index of the k-th box.
func XYCut(boxes []model.BBox, seed int64) ([]int, error) {
	n := len(boxes)
	if n == 0 {
		return []int{}, nil
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	items := make([]cutItem, n)
	for k, orig := range perm {
		items[k] = cutItem{box: intBox(boxes[orig]), orig: orig}
	}

	res := make([]int, 0, n)
	recursiveXYCut(items, &res)

	if err := checkPermutation(res, n); err != nil {
		return nil, err
	}
	return res, nil
}

type cutItem struct {
	box  [4]int
	orig int
}

// intBox truncates a box to integers, clamps it to non-negative values and
// widens it to at least one unit on each axis so it shows in projections.
func intBox(b model.BBox) [4]int {
	r := b.Ints()
	for i := range r {
		if r[i] < 0 {
			r[i] = 0
		}
	}
	if r[2] <= r[0] {
		r[2] = r[0] + 1
	}
	if r[3] <= r[1] {
		r[3] = r[1] + 1
	}
	return r
}

func recursiveXYCut(items []cutItem, res *[]int) {
	ySorted := sortedBy(items, 1)
	rows := splitProjection(projection(ySorted, 1), 0, 1)

	for _, row := range rows {
		var chunk []cutItem
		for _, it := range ySorted {
			if row[0] <= it.box[1] && it.box[1] < row[1] {
				chunk = append(chunk, it)
			}
		}
		xSorted := sortedBy(chunk, 0)
		cols := splitProjection(projection(xSorted, 0), 0, 1)
		if len(cols) == 0 {
			continue
		}
		if len(cols) == 1 {
			for _, it := range xSorted {
				*res = append(*res, it.orig)
			}
			continue
		}
		for _, col := range cols {
			var sub []cutItem
			for _, it := range xSorted {
				if col[0] <= it.box[0] && it.box[0] < col[1] {
					sub = append(sub, it)
				}
			}
			recursiveXYCut(sub, res)
		}
	}
}

// sortedBy returns items stably sorted by the start coordinate on axis
// (0 for x, 1 for y), breaking ties by the full box then original index.
func sortedBy(items []cutItem, axis int) []cutItem {
	out := append([]cutItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.box[axis] != b.box[axis] {
			return a.box[axis] < b.box[axis]
		}
		for k := 0; k < 4; k++ {
			if a.box[k] != b.box[k] {
				return a.box[k] < b.box[k]
			}
		}
		return a.orig < b.orig
	})
	return out
}

// projection counts, for each coordinate along axis, how many boxes cover it
func projection(items []cutItem, axis int) []int {
	length := 0
	for _, it := range items {
		length = maxInt(length, it.box[axis+2])
	}
	res := make([]int, length)
	for _, it := range items {
		for i := it.box[axis]; i < it.box[axis+2]; i++ {
			res[i]++
		}
	}
	return res
}

// splitProjection returns [start, end) runs of the profile above minValue,
// splitting where consecutive covered positions are more than minGap apart.
func splitProjection(values []int, minValue, minGap int) [][2]int {
	var idx []int
	for i, v := range values {
		if v > minValue {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil
	}

	var runs [][2]int
	start := idx[0]
	for i := 1; i < len(idx); i++ {
		if idx[i]-idx[i-1] > minGap {
			runs = append(runs, [2]int{start, idx[i-1] + 1})
			start = idx[i]
		}
	}
	return append(runs, [2]int{start, idx[len(idx)-1] + 1})
}

func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: got %d of %d boxes", ErrInvalidPermutation, len(order), n)
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return fmt.Errorf("%w: bad index %d", ErrInvalidPermutation, i)
		}
		seen[i] = true
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
