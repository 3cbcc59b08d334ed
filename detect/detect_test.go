package detect

import (
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/folio/model"
)

const sampleJSON = `{
  "pages": [
    {
      "page_idx": 1,
      "width": 600,
      "height": 800,
      "text": [{"bbox": [10, 10, 200, 40], "score": 0.9}]
    },
    {
      "page_idx": 0,
      "width": 600,
      "height": 800,
      "table_groups": [{
        "body": {"bbox": [50, 100, 550, 400], "score": 0.95},
        "captions": [{"bbox": [50, 80, 550, 98], "score": 0.9}]
      }],
      "titles": [{"bbox": [50, 20, 550, 60], "score": 0.8}],
      "equations": {"interline": [{"bbox": [100, 420, 500, 460], "score": 0.9}]},
      "spans": [
        {"bbox": [50, 100, 550, 400], "type": "table", "score": 0.95},
        {"bbox": [52, 22, 300, 58], "type": "text", "content": "Results", "score": 0.99}
      ]
    }
  ]
}`

func TestLoad(t *testing.T) {
	res, err := Load(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.PageCount() != 2 {
		t.Fatalf("Expected 2 pages, got %d", res.PageCount())
	}

	w, h := res.PageSize(0)
	if w != 600 || h != 800 {
		t.Errorf("Expected 600x800, got %vx%v", w, h)
	}

	groups := res.TableGroups(0)
	if len(groups) != 1 || len(groups[0].Captions) != 1 {
		t.Fatalf("unexpected table groups %+v", groups)
	}

	spans := res.Spans(0)
	if len(spans) != 2 {
		t.Fatalf("Expected 2 spans, got %d", len(spans))
	}
	if spans[0].Type != model.SpanTypeTable || spans[1].Content != "Results" {
		t.Errorf("unexpected spans %+v", spans)
	}
	if len(res.Equations(0).Interline) != 1 {
		t.Error("expected one interline equation")
	}
	if len(res.TextBlocks(1)) != 1 {
		t.Error("expected page 1 text block after reordering")
	}
}

func TestLoadRejectsInvalidBBox(t *testing.T) {
	data := `{"pages":[{"page_idx":0,"width":10,"height":10,"text":[{"bbox":[5,5,1,1]}]}]}`
	if _, err := Load(strings.NewReader(data)); err == nil {
		t.Error("expected error for inverted bbox")
	}
}

func TestLoadRejectsUnknownSpanType(t *testing.T) {
	data := `{"pages":[{"page_idx":0,"width":10,"height":10,"spans":[{"bbox":[0,0,1,1],"type":"chart"}]}]}`
	if _, err := Load(strings.NewReader(data)); err == nil {
		t.Error("expected error for unknown span type")
	}
}

func TestLoadRejectsGap(t *testing.T) {
	data := `{"pages":[{"page_idx":1,"width":10,"height":10}]}`
	if _, err := Load(strings.NewReader(data)); err == nil {
		t.Error("expected error for missing page 0")
	}
}

func TestResultOutOfRange(t *testing.T) {
	res := &Result{}
	if _, err := res.Page(3); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("Expected ErrPageOutOfRange, got %v", err)
	}
	if spans := res.Spans(3); len(spans) != 0 {
		t.Errorf("Expected no spans, got %d", len(spans))
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	res, err := Load(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	spans := res.Spans(0)
	spans[1].Content = "changed"
	if res.Spans(0)[1].Content != "Results" {
		t.Error("Spans exposed internal storage")
	}
	groups := res.TableGroups(0)
	groups[0].Captions[0].Score = 0
	if res.TableGroups(0)[0].Captions[0].Score != 0.9 {
		t.Error("TableGroups exposed internal storage")
	}
}
