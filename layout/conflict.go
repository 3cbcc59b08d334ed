package layout

import "github.com/tsawler/folio/model"

// ConflictConfig holds the horizontal-overlap conflict policy
type ConflictConfig struct {
	// YTolerance is the vertical overlap two blocks may share before they
	// are considered in conflict. Default: 2
	YTolerance float64
}

// DefaultConflictConfig returns sensible default configuration
func DefaultConflictConfig() ConflictConfig {
	return ConflictConfig{YTolerance: 2}
}

// Conflict records a block removed because it overlapped a larger one
type Conflict struct {
	Removed model.Block
	Kept    model.Block
}

// InConflict reports whether two blocks share horizontal extent and
// overlap vertically beyond the tolerance
func InConflict(a, b model.BBox, config ConflictConfig) bool {
	return a.XOverlap(b) > 0 && a.YOverlap(b) > config.YTolerance
}

// ResolveConflicts removes the smaller block of every conflicting pair.
// Pairs are examined in order and the scan restarts after each removal, so
// a block removed early cannot cause further removals.
func ResolveConflicts(blocks []model.Block, config ConflictConfig) ([]model.Block, []Conflict) {
	out := append([]model.Block(nil), blocks...)
	var conflicts []Conflict

	for {
		i, j, found := firstConflict(out, config)
		if !found {
			return out, conflicts
		}
		small, large := j, i
		if out[i].BBox.Area() < out[j].BBox.Area() {
			small, large = i, j
		}
		conflicts = append(conflicts, Conflict{Removed: out[small], Kept: out[large]})
		out = append(out[:small:small], out[small+1:]...)
	}
}

func firstConflict(blocks []model.Block, config ConflictConfig) (int, int, bool) {
	for i := 0; i < len(blocks); i++ {
		for j := i + 1; j < len(blocks); j++ {
			if InConflict(blocks[i].BBox, blocks[j].BBox, config) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
