package model

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestOverlapRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     BBox
		expected float64
	}{
		{"identical", NewBBox(0, 0, 10, 10), NewBBox(0, 0, 10, 10), 1},
		{"disjoint", NewBBox(0, 0, 10, 10), NewBBox(20, 20, 30, 30), 0},
		{"touching", NewBBox(0, 0, 10, 10), NewBBox(10, 0, 20, 10), 0},
		{"half", NewBBox(0, 0, 10, 10), NewBBox(5, 0, 20, 10), 0.5},
		{"contained", NewBBox(2, 2, 4, 4), NewBBox(0, 0, 10, 10), 1},
		{"container", NewBBox(0, 0, 10, 10), NewBBox(0, 0, 5, 5), 0.25},
		{"zero area", NewBBox(5, 5, 5, 5), NewBBox(0, 0, 10, 10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.OverlapRatio(tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			if got < 0 || got > 1 {
				t.Errorf("ratio out of range: %v", got)
			}
		})
	}
}

func TestOverlapRatioAsymmetric(t *testing.T) {
	small := NewBBox(0, 0, 10, 10)
	large := NewBBox(0, 0, 100, 100)
	if small.OverlapRatio(large) != 1 {
		t.Errorf("Expected small inside large to be 1, got %v", small.OverlapRatio(large))
	}
	if large.OverlapRatio(small) != 0.01 {
		t.Errorf("Expected 0.01, got %v", large.OverlapRatio(small))
	}
}

func TestBBoxUnion(t *testing.T) {
	u := NewBBox(0, 0, 10, 10).Union(NewBBox(5, -5, 20, 8))
	if u != NewBBox(0, -5, 20, 10) {
		t.Errorf("unexpected union %v", u)
	}
	if got := (BBox{}).Union(NewBBox(1, 1, 2, 2)); got != NewBBox(1, 1, 2, 2) {
		t.Errorf("union with empty box should return other, got %v", got)
	}
}

func TestBBoxValidity(t *testing.T) {
	if !NewBBox(0, 0, 1, 1).IsValid() {
		t.Error("expected valid box")
	}
	if NewBBox(1, 0, 0, 1).IsValid() {
		t.Error("inverted box should be invalid")
	}
	if NewBBox(0, 0, math.NaN(), 1).IsValid() {
		t.Error("NaN box should be invalid")
	}
}

func TestBBoxJSON(t *testing.T) {
	data, err := json.Marshal(NewBBox(1, 2, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[1,2,3,4]" {
		t.Errorf("Expected [1,2,3,4], got %s", data)
	}

	var b BBox
	if err := json.Unmarshal([]byte("[5,6,7,8]"), &b); err != nil {
		t.Fatal(err)
	}
	if b != NewBBox(5, 6, 7, 8) {
		t.Errorf("unexpected decode %v", b)
	}
	if err := json.Unmarshal([]byte("[1,2]"), &b); err == nil {
		t.Error("expected error for short bbox")
	}
}

func TestBlockTypeString(t *testing.T) {
	tests := []struct {
		bt       BlockType
		expected string
	}{
		{BlockTypeText, "text"},
		{BlockTypeImageBody, "image_body"},
		{BlockTypeTableFootnote, "table_footnote"},
		{BlockTypeInterlineEquation, "interline_equation"},
		{BlockTypeTable, "table"},
		{BlockTypeUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.bt.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestParseTypes(t *testing.T) {
	bt, err := ParseBlockType("image_caption")
	if err != nil || bt != BlockTypeImageCaption {
		t.Errorf("ParseBlockType: got %v, %v", bt, err)
	}
	if _, err := ParseBlockType("sidebar"); err == nil {
		t.Error("expected error for unknown block type")
	}
	st, err := ParseSpanType("inline_equation")
	if err != nil || st != SpanTypeInlineEquation {
		t.Errorf("ParseSpanType: got %v, %v", st, err)
	}
}

func TestBlockCloneIsDeep(t *testing.T) {
	orig := Block{
		Type:    BlockTypeText,
		GroupID: IntPtr(3),
		Lines:   []Line{{Spans: []Span{{Content: "a"}}}},
	}
	c := orig.Clone()
	*c.GroupID = 9
	c.Lines[0].Spans[0].Content = "b"

	if *orig.GroupID != 3 {
		t.Error("clone shares group id")
	}
	if orig.Lines[0].Spans[0].Content != "a" {
		t.Error("clone shares spans")
	}
}

func TestPageDropReason(t *testing.T) {
	p := NewPage(0, 600, 800)
	if p.NeedDrop {
		t.Error("new page should not need drop")
	}
	p.AddDropReason(DropReasonHorizontalOverlap)
	p.AddDropReason(DropReasonHorizontalOverlap)
	if !p.NeedDrop {
		t.Error("expected NeedDrop")
	}
	if len(p.DropReason) != 1 {
		t.Errorf("Expected 1 drop reason, got %d", len(p.DropReason))
	}

	s := NewSkippedPage(4, 100, 200)
	if !s.NeedDrop || s.DropReason[0] != DropReasonSkipPage {
		t.Errorf("unexpected skipped page %+v", s)
	}
	if s.Width() != 100 || s.Height() != 200 {
		t.Errorf("skipped page lost size: %v", s.PageSize)
	}
}

func TestDocumentJSON(t *testing.T) {
	p := NewPage(0, 100, 200)
	p.Blocks = append(p.Blocks, Block{
		Type:  BlockTypeText,
		BBox:  NewBBox(0, 0, 10, 10),
		Lines: []Line{{BBox: NewBBox(0, 0, 10, 10), Spans: []Span{{Type: SpanTypeText, Content: "hi"}}}},
	})
	doc := NewDocument("abc", []*Page{p})

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"pdf_info"`, `"preproc_blocks"`, `"page_idx":0`, `"type":"text"`, `"content":"hi"`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}

	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.PageCount() != 1 || back.GetPage(0).Blocks[0].Lines[0].Spans[0].Content != "hi" {
		t.Errorf("round trip lost content")
	}
	if doc.GetPage(5) != nil {
		t.Error("expected nil for out of range page")
	}
}
