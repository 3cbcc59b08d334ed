package model

// Drop reasons recorded on pages that lost content or were not parsed
const (
	DropReasonHorizontalOverlap = "useful_block_horizontal_overlap"
	DropReasonNoUsableContent   = "no_usable_content"
	DropReasonSkipPage          = "skip page"
)

// Page represents one reconstructed source page
type Page struct {
	PageIdx  int        `json:"page_idx"`
	PageSize [2]float64 `json:"page_size"`

	// Blocks in reading order
	Blocks []Block `json:"preproc_blocks"`

	// DiscardedBlocks are regions excluded from the reading flow
	DiscardedBlocks []Block `json:"discarded_blocks"`

	// Blocks referenced by quality checks downstream
	Images             []Block `json:"images"`
	Tables             []Block `json:"tables"`
	InterlineEquations []Block `json:"interline_equations"`

	// ParaBlocks is filled by a paragraph splitter after the document is built
	ParaBlocks []Block `json:"para_blocks,omitempty"`

	NeedDrop   bool     `json:"need_drop"`
	DropReason []string `json:"drop_reason"`
}

// NewPage creates an empty page with given index and dimensions
func NewPage(idx int, width, height float64) *Page {
	return &Page{
		PageIdx:            idx,
		PageSize:           [2]float64{width, height},
		Blocks:             make([]Block, 0),
		DiscardedBlocks:    make([]Block, 0),
		Images:             make([]Block, 0),
		Tables:             make([]Block, 0),
		InterlineEquations: make([]Block, 0),
		DropReason:         make([]string, 0),
	}
}

// NewSkippedPage creates a placeholder for a page outside the parsed range
func NewSkippedPage(idx int, width, height float64) *Page {
	p := NewPage(idx, width, height)
	p.AddDropReason(DropReasonSkipPage)
	return p
}

// Width returns the page width
func (p *Page) Width() float64 {
	return p.PageSize[0]
}

// Height returns the page height
func (p *Page) Height() float64 {
	return p.PageSize[1]
}

// AddDropReason flags the page and records reason once
func (p *Page) AddDropReason(reason string) {
	p.NeedDrop = true
	for _, r := range p.DropReason {
		if r == reason {
			return
		}
	}
	p.DropReason = append(p.DropReason, reason)
}

// SpanCount returns the number of spans held by the page's blocks
func (p *Page) SpanCount() int {
	n := 0
	for _, b := range p.Blocks {
		n += b.SpanCount()
	}
	for _, b := range p.DiscardedBlocks {
		n += b.SpanCount()
	}
	return n
}

// Text concatenates the text of the page's blocks in reading order
func (p *Page) Text() string {
	var text string
	for _, b := range p.Blocks {
		text += blockText(b)
	}
	return text
}

func blockText(b Block) string {
	var text string
	for _, m := range b.Blocks {
		text += blockText(m)
	}
	for _, l := range b.Lines {
		if t := l.Text(); t != "" {
			text += t + "\n"
		}
	}
	return text
}
