package debugdraw

import (
	"bytes"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"github.com/tsawler/folio/model"
)

func testDocument() *model.Document {
	p := model.NewPage(0, 600, 800)
	p.Blocks = []model.Block{
		{
			Type:  model.BlockTypeText,
			BBox:  model.NewBBox(100, 100, 500, 150),
			Index: 0,
			Lines: []model.Line{{
				BBox:  model.NewBBox(100, 100, 500, 115),
				Spans: []model.Span{{BBox: model.NewBBox(100, 100, 500, 115), Type: model.SpanTypeText, Content: "héllo"}},
			}},
		},
		{
			Type:  model.BlockTypeTable,
			BBox:  model.NewBBox(100, 200, 500, 400),
			Index: 1,
			Blocks: []model.Block{
				{Type: model.BlockTypeTableCaption, BBox: model.NewBBox(100, 180, 500, 195)},
				{Type: model.BlockTypeTableBody, BBox: model.NewBBox(100, 200, 500, 400), Index: 1},
			},
		},
	}
	p.DiscardedBlocks = []model.Block{{Type: model.BlockTypeDiscarded, BBox: model.NewBBox(100, 20, 500, 40)}}
	return model.NewDocument("d", []*model.Page{p, model.NewSkippedPage(1, 300, 400)})
}

func TestDraw(t *testing.T) {
	opts := DefaultOptions()
	opts.Spans = true

	var buf bytes.Buffer
	if err := Draw(&buf, testDocument(), opts); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("Expected PDF output")
	}
	if !bytes.Contains(buf.Bytes(), []byte("/OCProperties")) {
		t.Error("Expected optional content layers")
	}
}

func TestDrawOverSource(t *testing.T) {
	src := fpdf.New("P", "pt", "", "")
	src.AddPageFormat("P", fpdf.SizeType{Wd: 600, Ht: 800})
	src.AddPageFormat("P", fpdf.SizeType{Wd: 300, Ht: 400})
	var srcBuf bytes.Buffer
	if err := src.Output(&srcBuf); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.Source = srcBuf.Bytes()

	var buf bytes.Buffer
	if err := Draw(&buf, testDocument(), opts); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Expected output")
	}
}

func TestEncodeLabel(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"1 text", "1 text"},
		{"é", "\xe9"},
		{"€", "\x80"},
		{"中", "?"},
	}
	for _, tt := range tests {
		if got := encodeLabel(tt.in); got != tt.expected {
			t.Errorf("encodeLabel(%q): expected %q, got %q", tt.in, tt.expected, got)
		}
	}
}
