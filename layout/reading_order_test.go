package layout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/ranker"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// topDownRanker orders boxes by their top edge, then left edge
func topDownRanker(calls *int) ranker.Ranker {
	return ranker.Func(func(ctx context.Context, boxes [][4]int) ([]int, error) {
		*calls++
		order := make([]int, len(boxes))
		for i := range order {
			order[i] = i
		}
		for i := 1; i < len(order); i++ {
			for j := i; j > 0; j-- {
				a, b := boxes[order[j-1]], boxes[order[j]]
				if a[1] > b[1] || (a[1] == b[1] && a[0] > b[0]) {
					order[j-1], order[j] = order[j], order[j-1]
				}
			}
		}
		return order, nil
	})
}

func textBlock(x0, y0, x1, y1 float64, lines int) model.Block {
	b := model.Block{Type: model.BlockTypeText, BBox: model.NewBBox(x0, y0, x1, y1)}
	h := (y1 - y0) / float64(lines)
	for i := 0; i < lines; i++ {
		lb := model.NewBBox(x0, y0+float64(i)*h, x1, y0+float64(i+1)*h)
		b.Lines = append(b.Lines, model.Line{BBox: lb, Spans: []model.Span{{BBox: lb, Type: model.SpanTypeText, Content: "x"}}})
	}
	return b
}

func newEngine(r ranker.Ranker) *ReadingOrder {
	return NewReadingOrderWithConfig(r, DefaultReadingOrderConfig(), quietLogger())
}

func TestDefaultReadingOrderConfig(t *testing.T) {
	config := DefaultReadingOrderConfig()
	if config.MaxModelLines != 200 {
		t.Errorf("Expected MaxModelLines 200, got %d", config.MaxModelLines)
	}
}

func TestOrderPathString(t *testing.T) {
	if PathModel.String() != "model" || PathXYCut.String() != "xycut" {
		t.Errorf("unexpected path names %q %q", PathModel, PathXYCut)
	}
}

func TestOrderByModel(t *testing.T) {
	blocks := []model.Block{
		textBlock(10, 300, 590, 360, 3),
		textBlock(10, 10, 590, 40, 1),
	}
	calls := 0
	res, err := newEngine(topDownRanker(&calls)).Order(context.Background(), blocks, 600, 800, 20)
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if res.Path != PathModel || calls != 1 {
		t.Fatalf("Expected model path with one call, got %v and %d calls", res.Path, calls)
	}
	if res.LineCount != 4 {
		t.Errorf("Expected 4 lines, got %d", res.LineCount)
	}

	first, second := res.Blocks[0], res.Blocks[1]
	if second.Index != 0 {
		t.Errorf("Expected top block index 0, got %v", second.Index)
	}
	if first.Index != 2 {
		t.Errorf("Expected median index 2, got %v", first.Index)
	}
	for i, l := range first.Lines {
		if l.Index != i+1 {
			t.Errorf("line %d: Expected index %d, got %d", i, i+1, l.Index)
		}
	}
	if blocks[0].Index != 0 || blocks[0].Lines[0].Index != 0 {
		t.Error("Order modified its input")
	}
}

func TestOrderBodyKeepsRealLines(t *testing.T) {
	real := model.Line{BBox: model.NewBBox(100, 100, 500, 400), Spans: []model.Span{{Type: model.SpanTypeImage}}}
	blocks := []model.Block{
		{Type: model.BlockTypeImageBody, BBox: model.NewBBox(100, 100, 500, 400), Lines: []model.Line{real}, GroupID: model.IntPtr(0)},
	}
	for _, r := range []ranker.Ranker{topDownRanker(new(int)), nil} {
		res, err := newEngine(r).Order(context.Background(), blocks, 600, 800, 20)
		if err != nil {
			t.Fatalf("Order failed: %v", err)
		}
		body := res.Blocks[0]
		if len(body.Lines) != 1 || len(body.Lines[0].Spans) != 1 {
			t.Errorf("%v: real lines not restored: %+v", res.Path, body.Lines)
		}
		if len(body.VirtualLines) != 3 {
			t.Errorf("%v: Expected 3 virtual lines, got %d", res.Path, len(body.VirtualLines))
		}
	}
}

func TestOrderSynthesizesLinesForEmptyProse(t *testing.T) {
	blocks := []model.Block{{Type: model.BlockTypeTitle, BBox: model.NewBBox(10, 10, 590, 100)}}
	res, err := newEngine(nil).Order(context.Background(), blocks, 600, 800, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Blocks[0].Lines) != 3 {
		t.Errorf("Expected 3 synthetic lines, got %d", len(res.Blocks[0].Lines))
	}
	if res.Blocks[0].Lines[0].Index != 1 {
		t.Errorf("Expected first line index 1, got %d", res.Blocks[0].Lines[0].Index)
	}
}

func TestOrderFallsBackAboveLineCap(t *testing.T) {
	var blocks []model.Block
	for i := 0; i < 201; i++ {
		y := float64(i * 3)
		blocks = append(blocks, textBlock(10, y, 100, y+2, 1))
	}
	calls := 0
	res, err := newEngine(topDownRanker(&calls)).Order(context.Background(), blocks, 600, 800, 2)
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if res.Path != PathXYCut {
		t.Errorf("Expected xycut path, got %v", res.Path)
	}
	if calls != 0 {
		t.Errorf("ranker should not be called, got %d calls", calls)
	}

	seen := make(map[float64]bool)
	for _, b := range res.Blocks {
		if seen[b.Index] {
			t.Fatalf("duplicate block index %v", b.Index)
		}
		seen[b.Index] = true
	}
}

func TestOrderAtLineCapUsesModel(t *testing.T) {
	var blocks []model.Block
	for i := 0; i < 200; i++ {
		y := float64(i * 3)
		blocks = append(blocks, textBlock(10, y, 100, y+2, 1))
	}
	calls := 0
	res, err := newEngine(topDownRanker(&calls)).Order(context.Background(), blocks, 600, 800, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Path != PathModel || calls != 1 {
		t.Errorf("Expected model path at the cap, got %v", res.Path)
	}
}

func TestOrderRejectsBadPermutation(t *testing.T) {
	bad := ranker.Func(func(ctx context.Context, boxes [][4]int) ([]int, error) {
		return make([]int, len(boxes)), nil
	})
	blocks := []model.Block{textBlock(10, 10, 100, 20, 1), textBlock(10, 30, 100, 40, 1)}
	_, err := newEngine(bad).Order(context.Background(), blocks, 600, 800, 10)
	if !errors.Is(err, ranker.ErrBadPermutation) {
		t.Errorf("Expected ErrBadPermutation, got %v", err)
	}
}

func TestOrderPropagatesRankerError(t *testing.T) {
	boom := errors.New("model unavailable")
	failing := ranker.Func(func(ctx context.Context, boxes [][4]int) ([]int, error) {
		return nil, boom
	})
	_, err := newEngine(failing).Order(context.Background(), []model.Block{textBlock(10, 10, 100, 20, 1)}, 600, 800, 10)
	if !errors.Is(err, boom) {
		t.Errorf("Expected ranker error, got %v", err)
	}
}

func TestOrderXYCutDeterministic(t *testing.T) {
	blocks := []model.Block{
		textBlock(320, 100, 580, 500, 4),
		textBlock(20, 20, 580, 60, 1),
		textBlock(20, 320, 280, 500, 2),
		textBlock(20, 100, 280, 300, 2),
	}
	a, err := newEngine(nil).Order(context.Background(), blocks, 600, 800, 10)
	if err != nil {
		t.Fatal(err)
	}
	b, err := newEngine(nil).Order(context.Background(), blocks, 600, 800, 10)
	if err != nil {
		t.Fatal(err)
	}
	expected := []float64{3, 0, 2, 1}
	for i := range blocks {
		if a.Blocks[i].Index != expected[i] {
			t.Errorf("block %d: Expected index %v, got %v", i, expected[i], a.Blocks[i].Index)
		}
		if a.Blocks[i].Index != b.Blocks[i].Index {
			t.Errorf("block %d: runs disagree", i)
		}
	}
	// lines are numbered from 1 following block order: title, left top, left bottom, right
	if a.Blocks[1].Lines[0].Index != 1 || a.Blocks[3].Lines[0].Index != 2 || a.Blocks[0].Lines[3].Index != 9 {
		t.Errorf("unexpected line numbering")
	}
}
