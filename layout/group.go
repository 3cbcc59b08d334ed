package layout

import (
	"sort"

	"github.com/tsawler/folio/detect"
	"github.com/tsawler/folio/model"
)

// GroupKind selects the figure or table family of block types
type GroupKind int

const (
	ImageGroup GroupKind = iota
	TableGroup
)

func (k GroupKind) types() (body, caption, footnote, composite model.BlockType) {
	if k == TableGroup {
		return model.BlockTypeTableBody, model.BlockTypeTableCaption, model.BlockTypeTableFootnote, model.BlockTypeTable
	}
	return model.BlockTypeImageBody, model.BlockTypeImageCaption, model.BlockTypeImageFootnote, model.BlockTypeImage
}

// Flattened holds the parts of figure or table groups as separate blocks
type Flattened struct {
	Bodies    []model.Block
	Captions  []model.Block
	Footnotes []model.Block
}

// FlattenGroups splits detected groups into body, caption and footnote
// blocks. Every part carries the index of its group in detection order as
// its group id.
func FlattenGroups(groups []detect.Group, kind GroupKind) Flattened {
	bodyType, captionType, footnoteType, _ := kind.types()
	var out Flattened
	for i, g := range groups {
		out.Bodies = append(out.Bodies, groupBlock(g.Body, bodyType, i))
		for _, c := range g.Captions {
			out.Captions = append(out.Captions, groupBlock(c, captionType, i))
		}
		for _, f := range g.Footnotes {
			out.Footnotes = append(out.Footnotes, groupBlock(f, footnoteType, i))
		}
	}
	return out
}

func groupBlock(r detect.Region, t model.BlockType, id int) model.Block {
	return model.Block{Type: t, BBox: r.BBox, Score: r.Score, GroupID: model.IntPtr(id)}
}

// RevertGroups reassembles figure and table parts into composite blocks.
//
// Blocks outside both families are returned first in their original order,
// followed by one composite per image group and then per table group, in
// order of first appearance. A composite takes the body's box, the median
// of its members' indices and the members themselves. The input is not
// modified.
func RevertGroups(blocks []model.Block) []model.Block {
	type bucket struct {
		kind    GroupKind
		members []model.Block
	}
	var (
		out     []model.Block
		images  []*bucket
		tables  []*bucket
		byGroup = map[GroupKind]map[int]*bucket{ImageGroup: {}, TableGroup: {}}
	)

	add := func(kind GroupKind, b model.Block) {
		var id int
		var g *bucket
		if b.GroupID != nil {
			id = *b.GroupID
			g = byGroup[kind][id]
		}
		if g == nil {
			g = &bucket{kind: kind}
			if b.GroupID != nil {
				byGroup[kind][id] = g
			}
			if kind == ImageGroup {
				images = append(images, g)
			} else {
				tables = append(tables, g)
			}
		}
		g.members = append(g.members, b.Clone())
	}

	for _, b := range blocks {
		switch {
		case b.Type.IsImageFamily():
			add(ImageGroup, b)
		case b.Type.IsTableFamily():
			add(TableGroup, b)
		default:
			out = append(out, b.Clone())
		}
	}

	for _, list := range [][]*bucket{images, tables} {
		for _, g := range list {
			out = append(out, composite(g.kind, g.members))
		}
	}
	return nonNil(out)
}

func composite(kind GroupKind, members []model.Block) model.Block {
	bodyType, _, _, compositeType := kind.types()

	indices := make([]float64, len(members))
	for i, m := range members {
		indices[i] = m.Index
	}

	c := model.Block{
		Type:   compositeType,
		Index:  Median(indices),
		Blocks: members,
	}
	for _, m := range members {
		if m.Type == bodyType {
			c.BBox = m.BBox
			break
		}
	}
	if members[0].GroupID != nil {
		c.GroupID = model.IntPtr(*members[0].GroupID)
	}
	return c
}

// Median returns the median of values, averaging the two middle values
// for an even count. It returns 0 for no values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
