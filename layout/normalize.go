package layout

import (
	"sort"

	"github.com/tsawler/folio/detect"
	"github.com/tsawler/folio/model"
)

// NormalizeConfig holds the thresholds used to reconcile detector output
type NormalizeConfig struct {
	// TitleTextOverlap is the mutual overlap above which a title duplicating
	// a text block is dropped. Default: 0.8
	TitleTextOverlap float64

	// DiscardedOverlap is the overlap with a discarded region above which a
	// block is removed. Default: 0.6
	DiscardedOverlap float64

	// EquationTextOverlap is the mutual overlap above which a text or title
	// block duplicating an interline equation is dropped. Default: 0.8
	EquationTextOverlap float64

	// NestedOverlap is the share of the smaller block covered by a larger
	// one above which the smaller is merged away. Default: 0.8
	NestedOverlap float64

	// Discarded regions wider than FootnoteWidthRatio of the page, taller
	// than FootnoteMinHeight and starting below FootnoteTopRatio of the page
	// height are treated as page footnotes.
	FootnoteWidthRatio float64
	FootnoteMinHeight  float64
	FootnoteTopRatio   float64

	// FootnoteColumnOverlap is the share of a block's width that must sit
	// under a page footnote for the block to be discarded. Default: 0.8
	FootnoteColumnOverlap float64

	// Conflict holds the horizontal-overlap policy
	Conflict ConflictConfig
}

// DefaultNormalizeConfig returns sensible default configuration
func DefaultNormalizeConfig() NormalizeConfig {
	return NormalizeConfig{
		TitleTextOverlap:      0.8,
		DiscardedOverlap:      0.6,
		EquationTextOverlap:   0.8,
		NestedOverlap:         0.8,
		FootnoteWidthRatio:    1.0 / 3.0,
		FootnoteMinHeight:     10,
		FootnoteTopRatio:      0.7,
		FootnoteColumnOverlap: 0.8,
		Conflict:              DefaultConflictConfig(),
	}
}

// NormalizeInput holds the typed detections of one page
type NormalizeInput struct {
	Images Flattened
	Tables Flattened

	Discarded          []detect.Region
	Text               []detect.Region
	Titles             []detect.Region
	InterlineEquations []detect.Region

	PageWidth  float64
	PageHeight float64
}

// NormalizeResult holds the kept and discarded blocks of a page
type NormalizeResult struct {
	// Blocks are the kept regions, sorted by x0+y0
	Blocks []model.Block

	// Discarded are regions excluded from the reading flow
	Discarded []model.Block

	// Conflicts lists blocks removed by the horizontal-overlap policy
	Conflicts []Conflict
}

// Normalizer reconciles overlapping detections into kept and discarded
// block lists.
type Normalizer struct {
	config NormalizeConfig
}

// NewNormalizer creates a normalizer with default configuration
func NewNormalizer() *Normalizer {
	return &Normalizer{config: DefaultNormalizeConfig()}
}

// NewNormalizerWithConfig creates a normalizer with custom configuration
func NewNormalizerWithConfig(config NormalizeConfig) *Normalizer {
	return &Normalizer{config: config}
}

// Normalize converts detections into kept and discarded blocks.
// The input is not modified.
func (n *Normalizer) Normalize(in NormalizeInput) NormalizeResult {
	var blocks []model.Block
	blocks = appendBlocks(blocks, in.Images.Bodies, in.Images.Captions, in.Images.Footnotes)
	blocks = appendBlocks(blocks, in.Tables.Bodies, in.Tables.Captions, in.Tables.Footnotes)
	blocks = append(blocks, BlocksFromRegions(in.Text, model.BlockTypeText)...)
	blocks = append(blocks, BlocksFromRegions(in.Titles, model.BlockTypeTitle)...)
	blocks = append(blocks, BlocksFromRegions(in.InterlineEquations, model.BlockTypeInterlineEquation)...)

	blocks = n.dropTitlesOverlappingText(blocks)
	blocks = n.dropBlocksInDiscarded(blocks, in.Discarded)
	blocks = n.dropTextOverlappingEquations(blocks)

	discarded := BlocksFromRegions(in.Discarded, model.BlockTypeDiscarded)
	footnotes := n.pageFootnotes(in.Discarded, in.PageWidth, in.PageHeight)
	if len(footnotes) > 0 {
		var kept []model.Block
		for _, b := range blocks {
			if n.underFootnote(b.BBox, footnotes) {
				discarded = append(discarded, model.Block{Type: model.BlockTypeDiscarded, BBox: b.BBox, Score: b.Score})
				continue
			}
			kept = append(kept, b)
		}
		blocks = kept
	}

	blocks = n.mergeNested(blocks)
	discarded = n.mergeNested(discarded)

	blocks, conflicts := ResolveConflicts(blocks, n.config.Conflict)

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].BBox.X0+blocks[i].BBox.Y0 < blocks[j].BBox.X0+blocks[j].BBox.Y0
	})

	return NormalizeResult{
		Blocks:    nonNil(blocks),
		Discarded: nonNil(discarded),
		Conflicts: conflicts,
	}
}

// BlocksFromRegions wraps detected regions as blocks of one type
func BlocksFromRegions(regions []detect.Region, t model.BlockType) []model.Block {
	out := make([]model.Block, 0, len(regions))
	for _, r := range regions {
		out = append(out, model.Block{Type: t, BBox: r.BBox, Score: r.Score})
	}
	return out
}

func appendBlocks(dst []model.Block, lists ...[]model.Block) []model.Block {
	for _, l := range lists {
		for _, b := range l {
			dst = append(dst, b.Clone())
		}
	}
	return dst
}

// dropTitlesOverlappingText keeps the text block when a title duplicates it
func (n *Normalizer) dropTitlesOverlappingText(blocks []model.Block) []model.Block {
	drop := make([]bool, len(blocks))
	for i, t := range blocks {
		if t.Type != model.BlockTypeTitle {
			continue
		}
		for _, b := range blocks {
			if b.Type == model.BlockTypeText && t.BBox.MutualOverlap(b.BBox, n.config.TitleTextOverlap) {
				drop[i] = true
				break
			}
		}
	}
	return filterBlocks(blocks, drop)
}

// dropBlocksInDiscarded removes blocks mostly covered by a discarded region
func (n *Normalizer) dropBlocksInDiscarded(blocks []model.Block, discarded []detect.Region) []model.Block {
	drop := make([]bool, len(blocks))
	for i, b := range blocks {
		for _, d := range discarded {
			if b.BBox.OverlapRatio(d.BBox) > n.config.DiscardedOverlap {
				drop[i] = true
				break
			}
		}
	}
	return filterBlocks(blocks, drop)
}

// dropTextOverlappingEquations keeps the equation when a text or title
// block duplicates it
func (n *Normalizer) dropTextOverlappingEquations(blocks []model.Block) []model.Block {
	drop := make([]bool, len(blocks))
	for i, b := range blocks {
		if b.Type != model.BlockTypeText && b.Type != model.BlockTypeTitle {
			continue
		}
		for _, eq := range blocks {
			if eq.Type == model.BlockTypeInterlineEquation && b.BBox.MutualOverlap(eq.BBox, n.config.EquationTextOverlap) {
				drop[i] = true
				break
			}
		}
	}
	return filterBlocks(blocks, drop)
}

func (n *Normalizer) pageFootnotes(discarded []detect.Region, pageW, pageH float64) []model.BBox {
	var out []model.BBox
	for _, d := range discarded {
		b := d.BBox
		if b.Width() > pageW*n.config.FootnoteWidthRatio &&
			b.Height() > n.config.FootnoteMinHeight &&
			b.Y0 > pageH*n.config.FootnoteTopRatio {
			out = append(out, b)
		}
	}
	return out
}

// underFootnote reports whether a block sits below a page footnote and
// within its horizontal extent
func (n *Normalizer) underFootnote(b model.BBox, footnotes []model.BBox) bool {
	w := b.Width()
	if w <= 0 {
		return false
	}
	for _, fn := range footnotes {
		if b.Y0 >= fn.Y1 && b.XOverlap(fn)/w >= n.config.FootnoteColumnOverlap {
			return true
		}
	}
	return false
}

// mergeNested removes blocks mostly covered by a larger block, growing the
// larger block to cover both
func (n *Normalizer) mergeNested(blocks []model.Block) []model.Block {
	out := make([]model.Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.Clone()
	}
	drop := make([]bool, len(out))

	for i := range out {
		if drop[i] {
			continue
		}
		for j := range out {
			if i == j || drop[j] {
				continue
			}
			small, large := j, i
			if out[i].BBox.Area() < out[j].BBox.Area() ||
				(out[i].BBox.Area() == out[j].BBox.Area() && i > j) {
				small, large = i, j
			}
			if out[small].BBox.OverlapRatio(out[large].BBox) > n.config.NestedOverlap {
				out[large].BBox = out[large].BBox.Union(out[small].BBox)
				drop[small] = true
				if small == i {
					break
				}
			}
		}
	}
	return filterBlocks(out, drop)
}

func filterBlocks(blocks []model.Block, drop []bool) []model.Block {
	out := make([]model.Block, 0, len(blocks))
	for i, b := range blocks {
		if !drop[i] {
			out = append(out, b)
		}
	}
	return out
}

func nonNil(blocks []model.Block) []model.Block {
	if blocks == nil {
		return []model.Block{}
	}
	return blocks
}
