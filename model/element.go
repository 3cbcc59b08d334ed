package model

import "fmt"

// BlockType represents the layout category of a block
type BlockType int

const (
	BlockTypeUnknown BlockType = iota
	BlockTypeText
	BlockTypeTitle
	BlockTypeImageBody
	BlockTypeImageCaption
	BlockTypeImageFootnote
	BlockTypeTableBody
	BlockTypeTableCaption
	BlockTypeTableFootnote
	BlockTypeInterlineEquation
	BlockTypeDiscarded
	// Composite types produced when a figure or table group is reassembled
	BlockTypeImage
	BlockTypeTable
)

var blockTypeNames = map[BlockType]string{
	BlockTypeText:              "text",
	BlockTypeTitle:             "title",
	BlockTypeImageBody:         "image_body",
	BlockTypeImageCaption:      "image_caption",
	BlockTypeImageFootnote:     "image_footnote",
	BlockTypeTableBody:         "table_body",
	BlockTypeTableCaption:      "table_caption",
	BlockTypeTableFootnote:     "table_footnote",
	BlockTypeInterlineEquation: "interline_equation",
	BlockTypeDiscarded:         "discarded",
	BlockTypeImage:             "image",
	BlockTypeTable:             "table",
}

func (bt BlockType) String() string {
	if name, ok := blockTypeNames[bt]; ok {
		return name
	}
	return "unknown"
}

// ParseBlockType maps a label to a BlockType
func ParseBlockType(s string) (BlockType, error) {
	for bt, name := range blockTypeNames {
		if name == s {
			return bt, nil
		}
	}
	return BlockTypeUnknown, fmt.Errorf("unknown block type %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (bt BlockType) MarshalText() ([]byte, error) {
	return []byte(bt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (bt *BlockType) UnmarshalText(text []byte) error {
	v, err := ParseBlockType(string(text))
	if err != nil {
		return err
	}
	*bt = v
	return nil
}

// IsImageFamily reports whether the type belongs to a figure group
func (bt BlockType) IsImageFamily() bool {
	return bt == BlockTypeImageBody || bt == BlockTypeImageCaption || bt == BlockTypeImageFootnote
}

// IsTableFamily reports whether the type belongs to a table group
func (bt BlockType) IsTableFamily() bool {
	return bt == BlockTypeTableBody || bt == BlockTypeTableCaption || bt == BlockTypeTableFootnote
}

// IsBody reports whether the type is an image or table body
func (bt BlockType) IsBody() bool {
	return bt == BlockTypeImageBody || bt == BlockTypeTableBody
}

// IsProse reports whether blocks of this type carry readable text lines
func (bt BlockType) IsProse() bool {
	switch bt {
	case BlockTypeText, BlockTypeTitle,
		BlockTypeImageCaption, BlockTypeImageFootnote,
		BlockTypeTableCaption, BlockTypeTableFootnote:
		return true
	}
	return false
}

// SpanType represents the content category of a span
type SpanType int

const (
	SpanTypeUnknown SpanType = iota
	SpanTypeText
	SpanTypeImage
	SpanTypeTable
	SpanTypeInlineEquation
	SpanTypeInterlineEquation
)

var spanTypeNames = map[SpanType]string{
	SpanTypeText:              "text",
	SpanTypeImage:             "image",
	SpanTypeTable:             "table",
	SpanTypeInlineEquation:    "inline_equation",
	SpanTypeInterlineEquation: "interline_equation",
}

func (st SpanType) String() string {
	if name, ok := spanTypeNames[st]; ok {
		return name
	}
	return "unknown"
}

// ParseSpanType maps a label to a SpanType
func ParseSpanType(s string) (SpanType, error) {
	for st, name := range spanTypeNames {
		if name == s {
			return st, nil
		}
	}
	return SpanTypeUnknown, fmt.Errorf("unknown span type %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (st SpanType) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (st *SpanType) UnmarshalText(text []byte) error {
	v, err := ParseSpanType(string(text))
	if err != nil {
		return err
	}
	*st = v
	return nil
}

// Char is a single positioned character from the page text layer
type Char struct {
	Text string `json:"c"`
	BBox BBox   `json:"bbox"`
}

// Span is the atomic content unit of a page
type Span struct {
	BBox      BBox     `json:"bbox"`
	Type      SpanType `json:"type"`
	Content   string   `json:"content,omitempty"`
	Score     float64  `json:"score"`
	ImagePath string   `json:"image_path,omitempty"`
}

// Line is an ordered run of spans sharing one visual text line
type Line struct {
	BBox  BBox   `json:"bbox"`
	Spans []Span `json:"spans"`
	Index int    `json:"index"`
}

// Text concatenates the content of the line's spans
func (l Line) Text() string {
	var s string
	for _, sp := range l.Spans {
		s += sp.Content
	}
	return s
}

// Block is a typed layout region holding lines of spans
type Block struct {
	Type  BlockType `json:"type"`
	BBox  BBox      `json:"bbox"`
	Score float64   `json:"score,omitempty"`
	Lines []Line    `json:"lines,omitempty"`

	// Index is the reading-order rank. It is fractional because it can be
	// the median of several line positions.
	Index float64 `json:"index"`

	// GroupID links the body, captions and footnotes of one figure or table
	GroupID *int `json:"group_id,omitempty"`

	// Blocks holds the members of a composite image or table block
	Blocks []Block `json:"blocks,omitempty"`

	// VirtualLines holds the synthetic bands a body block was ranked on
	VirtualLines []Line `json:"virtual_lines,omitempty"`

	// Spans collects assigned spans before they are merged into lines
	Spans []Span `json:"-"`
}

// Clone returns a deep copy of the block
func (b Block) Clone() Block {
	c := b
	if b.GroupID != nil {
		id := *b.GroupID
		c.GroupID = &id
	}
	c.Lines = cloneLines(b.Lines)
	c.VirtualLines = cloneLines(b.VirtualLines)
	if b.Spans != nil {
		c.Spans = append([]Span(nil), b.Spans...)
	}
	if b.Blocks != nil {
		c.Blocks = make([]Block, len(b.Blocks))
		for i, m := range b.Blocks {
			c.Blocks[i] = m.Clone()
		}
	}
	return c
}

// SpanCount returns the number of spans held by the block and its members
func (b Block) SpanCount() int {
	n := len(b.Spans)
	for _, l := range b.Lines {
		n += len(l.Spans)
	}
	for _, m := range b.Blocks {
		n += m.SpanCount()
	}
	return n
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l
		if l.Spans != nil {
			out[i].Spans = append([]Span(nil), l.Spans...)
		}
	}
	return out
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
