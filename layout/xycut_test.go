package layout

import (
	"errors"
	"testing"

	"github.com/tsawler/folio/model"
)

func TestXYCutTwoColumns(t *testing.T) {
	boxes := []model.BBox{
		model.NewBBox(320, 100, 580, 500), // right column
		model.NewBBox(20, 20, 580, 60),    // full width title
		model.NewBBox(20, 320, 280, 500),  // left column bottom
		model.NewBBox(20, 100, 280, 300),  // left column top
	}
	order, err := XYCut(boxes, 1)
	if err != nil {
		t.Fatalf("XYCut failed: %v", err)
	}
	expected := []int{1, 3, 2, 0}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("Expected %v, got %v", expected, order)
		}
	}
}

func TestXYCutDeterministicUnderShuffle(t *testing.T) {
	boxes := []model.BBox{
		model.NewBBox(10, 10, 100, 20),
		model.NewBBox(10, 30, 100, 40),
		model.NewBBox(150, 10, 250, 40),
		model.NewBBox(10, 50, 250, 60),
		model.NewBBox(10, 50, 250, 60),
	}
	first, err := XYCut(boxes, 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, seed := range []int64{1, 2, 99} {
		again, err := XYCut(boxes, seed)
		if err != nil {
			t.Fatal(err)
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("seed %d: Expected %v, got %v", seed, first, again)
			}
		}
	}

	// Reversing the input must give the reversed indices in the same visual order
	reversed := make([]model.BBox, len(boxes))
	for i, b := range boxes {
		reversed[len(boxes)-1-i] = b
	}
	rev, err := XYCut(reversed, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if boxes[first[i]] != reversed[rev[i]] {
			t.Errorf("position %d: Expected %v, got %v", i, boxes[first[i]], reversed[rev[i]])
		}
	}
}

func TestXYCutDegenerateBoxes(t *testing.T) {
	boxes := []model.BBox{
		model.NewBBox(10, 10, 10, 10),
		model.NewBBox(-5, -5, 20, 20),
		model.NewBBox(50.7, 50.2, 50.9, 50.4),
	}
	order, err := XYCut(boxes, 1)
	if err != nil {
		t.Fatalf("XYCut failed: %v", err)
	}
	if err := checkPermutation(order, len(boxes)); err != nil {
		t.Errorf("not a permutation: %v", err)
	}
}

func TestXYCutEmpty(t *testing.T) {
	order, err := XYCut(nil, 1)
	if err != nil || len(order) != 0 {
		t.Errorf("Expected empty order, got %v, %v", order, err)
	}
}

func TestCheckPermutation(t *testing.T) {
	if err := checkPermutation([]int{0, 0}, 2); !errors.Is(err, ErrInvalidPermutation) {
		t.Errorf("Expected ErrInvalidPermutation, got %v", err)
	}
	if err := checkPermutation([]int{0}, 2); !errors.Is(err, ErrInvalidPermutation) {
		t.Errorf("Expected ErrInvalidPermutation, got %v", err)
	}
}

func TestSplitProjection(t *testing.T) {
	runs := splitProjection([]int{0, 1, 1, 0, 1, 0, 0, 2}, 0, 1)
	expected := [][2]int{{1, 3}, {4, 5}, {7, 8}}
	if len(runs) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, runs)
	}
	for i := range expected {
		if runs[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, runs)
		}
	}
}
