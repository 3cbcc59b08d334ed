package detect

import (
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/tsawler/folio/model"
)

func normalizedLayout(x0, y0, x1, y1 float32, start, end int64) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		Confidence: 0.9,
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
				{StartIndex: start, EndIndex: end},
			},
		},
		BoundingPoly: &documentaipb.BoundingPoly{
			NormalizedVertices: []*documentaipb.NormalizedVertex{
				{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
			},
		},
	}
}

func TestFromDocumentAI(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "Hello world\n",
		Pages: []*documentaipb.Document_Page{{
			Dimension:  &documentaipb.Document_Page_Dimension{Width: 1000, Height: 2000},
			Paragraphs: []*documentaipb.Document_Page_Paragraph{{Layout: normalizedLayout(0.1, 0.1, 0.5, 0.2, 0, 12)}},
			Lines:      []*documentaipb.Document_Page_Line{{Layout: normalizedLayout(0.1, 0.1, 0.5, 0.125, 0, 12)}},
			Tables:     []*documentaipb.Document_Page_Table{{Layout: normalizedLayout(0.1, 0.5, 0.9, 0.75, 0, 0)}},
		}},
	}

	res, err := FromDocumentAI(doc)
	if err != nil {
		t.Fatalf("FromDocumentAI failed: %v", err)
	}

	w, h := res.PageSize(0)
	if w != 1000 || h != 2000 {
		t.Errorf("Expected 1000x2000, got %vx%v", w, h)
	}
	if len(res.TextBlocks(0)) != 1 {
		t.Errorf("Expected 1 text block, got %d", len(res.TextBlocks(0)))
	}

	spans := res.Spans(0)
	if len(spans) != 2 {
		t.Fatalf("Expected 2 spans, got %d", len(spans))
	}
	if spans[0].Content != "Hello world" {
		t.Errorf("Expected 'Hello world', got %q", spans[0].Content)
	}
	if spans[1].Type != model.SpanTypeTable {
		t.Errorf("Expected table span, got %v", spans[1].Type)
	}
	if len(res.TableGroups(0)) != 1 {
		t.Error("expected one table group")
	}
}

func TestFromDocumentAINil(t *testing.T) {
	if _, err := FromDocumentAI(nil); err == nil {
		t.Error("expected error for nil document")
	}
}
