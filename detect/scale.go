package detect

import "github.com/tsawler/folio/model"

// PageIn returns the detections of one page mapped into a page of the given
// size. Detections made on a raster are in pixels; the scale factors are the
// target size over the size reported by [Source.PageSize]. A source without
// a size for the page is taken to already be in the target space.
func PageIn(src Source, page int, width, height float64) PageResult {
	sx, sy := 1.0, 1.0
	if dw, dh := src.PageSize(page); dw > 0 && dh > 0 && width > 0 && height > 0 {
		sx, sy = width/dw, height/dh
	}

	eq := src.Equations(page)
	return PageResult{
		PageIdx:     page,
		Width:       width,
		Height:      height,
		ImageGroups: scaleGroups(src.ImageGroups(page), sx, sy),
		TableGroups: scaleGroups(src.TableGroups(page), sx, sy),
		Discarded:   scaleRegions(src.Discarded(page), sx, sy),
		Text:        scaleRegions(src.TextBlocks(page), sx, sy),
		Titles:      scaleRegions(src.TitleBlocks(page), sx, sy),
		Equations: Equations{
			Inline:    scaleRegions(eq.Inline, sx, sy),
			Interline: scaleRegions(eq.Interline, sx, sy),
		},
		Spans: scaleSpans(src.Spans(page), sx, sy),
	}
}

func scaleBox(b model.BBox, sx, sy float64) model.BBox {
	if sx == 1 && sy == 1 {
		return b
	}
	return model.NewBBox(b.X0*sx, b.Y0*sy, b.X1*sx, b.Y1*sy)
}

func scaleRegions(rs []Region, sx, sy float64) []Region {
	if rs == nil {
		return nil
	}
	out := make([]Region, len(rs))
	for i, r := range rs {
		out[i] = Region{BBox: scaleBox(r.BBox, sx, sy), Score: r.Score}
	}
	return out
}

func scaleGroups(gs []Group, sx, sy float64) []Group {
	if gs == nil {
		return nil
	}
	out := make([]Group, len(gs))
	for i, g := range gs {
		out[i] = Group{
			Body:      Region{BBox: scaleBox(g.Body.BBox, sx, sy), Score: g.Body.Score},
			Captions:  scaleRegions(g.Captions, sx, sy),
			Footnotes: scaleRegions(g.Footnotes, sx, sy),
		}
	}
	return out
}

func scaleSpans(spans []model.Span, sx, sy float64) []model.Span {
	if spans == nil {
		return nil
	}
	out := make([]model.Span, len(spans))
	for i, s := range spans {
		s.BBox = scaleBox(s.BBox, sx, sy)
		out[i] = s
	}
	return out
}
