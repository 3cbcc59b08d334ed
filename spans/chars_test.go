package spans

import (
	"testing"

	"github.com/tsawler/folio/model"
)

func char(c string, x0, x1 float64) model.Char {
	return model.Char{Text: c, BBox: model.NewBBox(x0, 2, x1, 18)}
}

func TestCharsToContentInsertsOneSpace(t *testing.T) {
	chars := []model.Char{
		char("a", 0, 10),
		char("b", 10, 20),
		char("c", 35, 45), // gap of 1.5x the average width
	}
	if got := CharsToContent(chars); got != "ab c" {
		t.Errorf("Expected %q, got %q", "ab c", got)
	}
}

func TestCharsToContentOrdersByCenter(t *testing.T) {
	chars := []model.Char{char("b", 10, 20), char("a", 0, 10)}
	if got := CharsToContent(chars); got != "ab" {
		t.Errorf("Expected %q, got %q", "ab", got)
	}
}

func TestCharsToContentCleansText(t *testing.T) {
	chars := []model.Char{char("\u0002", 0, 10), char("é", 10, 20)}
	if got := CharsToContent(chars); got != "'é" {
		t.Errorf("Expected %q, got %q", "'é", got)
	}
}

func TestCharInSpan(t *testing.T) {
	span := model.NewBBox(0, 0, 50, 20)
	tests := []struct {
		name string
		char model.BBox
		stop bool
		want bool
	}{
		{"center inside", model.NewBBox(10, 2, 20, 18), false, true},
		{"center right of span", model.NewBBox(46, 2, 56, 18), false, false},
		{"stop near right edge", model.NewBBox(46, 2, 56, 18), true, true},
		{"stop with center inside", model.NewBBox(25, 2, 60, 18), true, true},
		{"stop past right edge", model.NewBBox(51, 2, 61, 18), true, false},
		{"off center vertically", model.NewBBox(10, 12, 20, 19), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CharInSpan(tt.char, span, tt.stop); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFillCharsTrailingPunctuation(t *testing.T) {
	spans := []model.Span{
		{BBox: model.NewBBox(0, 0, 50, 20), Type: model.SpanTypeText, Content: "stale"},
		{BBox: model.NewBBox(100, 0, 150, 20), Type: model.SpanTypeText},
	}
	chars := []model.Char{
		char("a", 0, 10),
		char("b", 10, 20),
		char("c", 35, 45),
		char(".", 46, 56),
		char("z", 110, 120),
	}
	out := FillChars(spans, chars)
	if out[0].Content != "ab c." {
		t.Errorf("Expected %q, got %q", "ab c.", out[0].Content)
	}
	if out[1].Content != "z" {
		t.Errorf("Expected %q, got %q", "z", out[1].Content)
	}
	if spans[0].Content != "stale" {
		t.Error("FillChars modified its input")
	}
}

func TestIsLineStop(t *testing.T) {
	for _, c := range []string{".", "。", "，", "—", ")"} {
		if !IsLineStop(c) {
			t.Errorf("Expected %q to be a line stop", c)
		}
	}
	if IsLineStop("a") {
		t.Error("letters are not line stops")
	}
}
