package detect

import (
	"errors"
	"fmt"

	"github.com/tsawler/folio/model"
)

// ErrPageOutOfRange is returned when a page index has no detections
var ErrPageOutOfRange = errors.New("page index out of range")

// Region is a single detected layout box
type Region struct {
	BBox  model.BBox `json:"bbox"`
	Score float64    `json:"score"`
}

// Group is a figure or table body together with its captions and footnotes
type Group struct {
	Body      Region   `json:"body"`
	Captions  []Region `json:"captions,omitempty"`
	Footnotes []Region `json:"footnotes,omitempty"`
}

// Equations holds the equation regions of a page
type Equations struct {
	Inline    []Region `json:"inline,omitempty"`
	Interline []Region `json:"interline,omitempty"`
}

// Source provides typed detections per page
type Source interface {
	// PageCount returns the number of pages with detections
	PageCount() int

	// PageSize returns the page size in detection coordinates
	PageSize(page int) (width, height float64)

	ImageGroups(page int) []Group
	TableGroups(page int) []Group
	Discarded(page int) []Region
	TextBlocks(page int) []Region
	TitleBlocks(page int) []Region
	Equations(page int) Equations

	// Spans returns all content spans of the page
	Spans(page int) []model.Span
}

// PageResult holds the detections for one page
type PageResult struct {
	PageIdx     int          `json:"page_idx"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	ImageGroups []Group      `json:"image_groups,omitempty"`
	TableGroups []Group      `json:"table_groups,omitempty"`
	Discarded   []Region     `json:"discarded,omitempty"`
	Text        []Region     `json:"text,omitempty"`
	Titles      []Region     `json:"titles,omitempty"`
	Equations   Equations    `json:"equations"`
	Spans       []model.Span `json:"spans,omitempty"`
}

// Validate checks boxes and span labels
func (p *PageResult) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("page %d: invalid size %vx%v", p.PageIdx, p.Width, p.Height)
	}
	check := func(kind string, regions []Region) error {
		for i, r := range regions {
			if !r.BBox.IsValid() {
				return fmt.Errorf("page %d: %s %d: invalid bbox %v", p.PageIdx, kind, i, r.BBox)
			}
		}
		return nil
	}
	groups := func(kind string, gs []Group) error {
		for i, g := range gs {
			if err := check(kind+" body", []Region{g.Body}); err != nil {
				return fmt.Errorf("group %d: %w", i, err)
			}
			if err := check(kind+" caption", g.Captions); err != nil {
				return fmt.Errorf("group %d: %w", i, err)
			}
			if err := check(kind+" footnote", g.Footnotes); err != nil {
				return fmt.Errorf("group %d: %w", i, err)
			}
		}
		return nil
	}

	if err := groups("image", p.ImageGroups); err != nil {
		return err
	}
	if err := groups("table", p.TableGroups); err != nil {
		return err
	}
	for kind, regions := range map[string][]Region{
		"discarded":          p.Discarded,
		"text":               p.Text,
		"title":              p.Titles,
		"inline equation":    p.Equations.Inline,
		"interline equation": p.Equations.Interline,
	} {
		if err := check(kind, regions); err != nil {
			return err
		}
	}
	for i, s := range p.Spans {
		if s.Type == model.SpanTypeUnknown {
			return fmt.Errorf("page %d: span %d: missing type", p.PageIdx, i)
		}
		if !s.BBox.IsValid() {
			return fmt.Errorf("page %d: span %d: invalid bbox %v", p.PageIdx, i, s.BBox)
		}
	}
	return nil
}

// Result is an in-memory Source
type Result struct {
	Pages []PageResult `json:"pages"`
}

// Validate checks every page
func (r *Result) Validate() error {
	for i := range r.Pages {
		if err := r.Pages[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Page returns the detections of a page
func (r *Result) Page(page int) (*PageResult, error) {
	if page < 0 || page >= len(r.Pages) {
		return nil, fmt.Errorf("%w: %d", ErrPageOutOfRange, page)
	}
	return &r.Pages[page], nil
}

func (r *Result) page(page int) *PageResult {
	p, err := r.Page(page)
	if err != nil {
		return &PageResult{}
	}
	return p
}

// PageCount implements Source
func (r *Result) PageCount() int {
	return len(r.Pages)
}

// PageSize implements Source
func (r *Result) PageSize(page int) (float64, float64) {
	p := r.page(page)
	return p.Width, p.Height
}

// ImageGroups implements Source
func (r *Result) ImageGroups(page int) []Group {
	return cloneGroups(r.page(page).ImageGroups)
}

// TableGroups implements Source
func (r *Result) TableGroups(page int) []Group {
	return cloneGroups(r.page(page).TableGroups)
}

// Discarded implements Source
func (r *Result) Discarded(page int) []Region {
	return append([]Region(nil), r.page(page).Discarded...)
}

// TextBlocks implements Source
func (r *Result) TextBlocks(page int) []Region {
	return append([]Region(nil), r.page(page).Text...)
}

// TitleBlocks implements Source
func (r *Result) TitleBlocks(page int) []Region {
	return append([]Region(nil), r.page(page).Titles...)
}

// Equations implements Source
func (r *Result) Equations(page int) Equations {
	eq := r.page(page).Equations
	return Equations{
		Inline:    append([]Region(nil), eq.Inline...),
		Interline: append([]Region(nil), eq.Interline...),
	}
}

// Spans implements Source
func (r *Result) Spans(page int) []model.Span {
	return append([]model.Span(nil), r.page(page).Spans...)
}

func cloneGroups(gs []Group) []Group {
	out := make([]Group, len(gs))
	for i, g := range gs {
		out[i] = Group{
			Body:      g.Body,
			Captions:  append([]Region(nil), g.Captions...),
			Footnotes: append([]Region(nil), g.Footnotes...),
		}
	}
	return out
}
