package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// BBox represents an axis-aligned bounding box in page space.
// The origin is the top-left corner of the page and Y grows downward.
type BBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// NewBBox creates a bounding box from corner coordinates
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// BBoxFromSlice creates a bounding box from a 4-element coordinate slice.
// It returns false when the slice has the wrong length.
func BBoxFromSlice(c []float64) (BBox, bool) {
	if len(c) != 4 {
		return BBox{}, false
	}
	return BBox{X0: c[0], Y0: c[1], X1: c[2], Y1: c[3]}, true
}

// Width returns the horizontal extent
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area, or 0 for degenerate boxes
func (b BBox) Area() float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: (b.X0 + b.X1) / 2,
		Y: (b.Y0 + b.Y1) / 2,
	}
}

// Contains checks if a point is strictly inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X > b.X0 && p.X < b.X1 && p.Y > b.Y0 && p.Y < b.Y1
}

// ContainsBox checks if other lies entirely inside b
func (b BBox) ContainsBox(other BBox) bool {
	return other.X0 >= b.X0 && other.X1 <= b.X1 &&
		other.Y0 >= b.Y0 && other.Y1 <= b.Y1
}

// Intersects checks if two bounding boxes share a region of positive area
func (b BBox) Intersects(other BBox) bool {
	return b.X0 < other.X1 && other.X0 < b.X1 &&
		b.Y0 < other.Y1 && other.Y0 < b.Y1
}

// Intersection returns the intersection of two bounding boxes.
// The result is the zero BBox if they do not intersect.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	return BBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
}

// Union returns the smallest box containing both boxes
func (b BBox) Union(other BBox) BBox {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// OverlapRatio returns area(b ∩ other) / area(b).
//
// The ratio is asymmetric: it measures how much of b is covered by other.
// It is 0 when the boxes are disjoint or b has no area, and 1 when b lies
// entirely inside other.
func (b BBox) OverlapRatio(other BBox) float64 {
	area := b.Area()
	if area == 0 {
		return 0
	}
	r := b.Intersection(other).Area() / area
	if r > 1 {
		return 1
	}
	return r
}

// MutualOverlap reports whether both b and other cover more than threshold
// of each other.
func (b BBox) MutualOverlap(other BBox, threshold float64) bool {
	return b.OverlapRatio(other) > threshold && other.OverlapRatio(b) > threshold
}

// YOverlap returns the length of the vertical overlap of two boxes
func (b BBox) YOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.Y1, other.Y1)-math.Max(b.Y0, other.Y0))
}

// XOverlap returns the length of the horizontal overlap of two boxes
func (b BBox) XOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.X1, other.X1)-math.Max(b.X0, other.X0))
}

// IsEmpty returns true if the bounding box has no area
func (b BBox) IsEmpty() bool {
	return b.X1 <= b.X0 || b.Y1 <= b.Y0
}

// IsValid returns true if all coordinates are finite and the box has area
func (b BBox) IsValid() bool {
	for _, v := range b.Slice() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return !b.IsEmpty()
}

// Slice returns the coordinates as [x0, y0, x1, y1]
func (b BBox) Slice() []float64 {
	return []float64{b.X0, b.Y0, b.X1, b.Y1}
}

// Ints truncates the coordinates to integers
func (b BBox) Ints() [4]int {
	return [4]int{int(b.X0), int(b.Y0), int(b.X1), int(b.Y1)}
}

// String returns a compact representation for logs
func (b BBox) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", b.X0, b.Y0, b.X1, b.Y1)
}

// MarshalJSON encodes the box as a 4-element array
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X0, b.Y0, b.X1, b.Y1})
}

// UnmarshalJSON decodes a 4-element array
func (b *BBox) UnmarshalJSON(data []byte) error {
	var c []float64
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	box, ok := BBoxFromSlice(c)
	if !ok {
		return fmt.Errorf("bbox must have 4 coordinates, got %d", len(c))
	}
	*b = box
	return nil
}
