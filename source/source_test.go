package source

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	lpdf "github.com/ledongthuc/pdf"

	"github.com/tsawler/folio/model"
)

func TestTextToChars(t *testing.T) {
	g := geometry{width: 100, height: 200, mediaHeight: 200}
	runs := []lpdf.Text{
		{S: "ab c", X: 10, Y: 150, W: 40, FontSize: 10},
	}

	chars := textToChars(runs, g)
	if len(chars) != 3 {
		t.Fatalf("Expected 3 chars (space skipped), got %d", len(chars))
	}

	expected := []struct {
		text string
		x0   float64
	}{
		{"a", 10}, {"b", 20}, {"c", 40},
	}
	for i, e := range expected {
		if chars[i].Text != e.text {
			t.Errorf("Char %d: expected %q, got %q", i, e.text, chars[i].Text)
		}
		if chars[i].BBox.X0 != e.x0 || chars[i].BBox.Width() != 10 {
			t.Errorf("Char %d: unexpected box %v", i, chars[i].BBox)
		}
		// top = 200 - (150 + 10*0.8) = 42
		if math.Abs(chars[i].BBox.Y0-42) > 1e-9 || chars[i].BBox.Height() != 10 {
			t.Errorf("Char %d: unexpected vertical extent %v", i, chars[i].BBox)
		}
	}
}

func TestTextToCharsOrigin(t *testing.T) {
	g := geometry{width: 100, height: 100, originX: 20, originY: 30, mediaHeight: 100}
	chars := textToChars([]lpdf.Text{{S: "x", X: 25, Y: 80, W: 5, FontSize: 10}}, g)
	if len(chars) != 1 {
		t.Fatalf("Expected 1 char, got %d", len(chars))
	}
	// x = 25 - 20, top = 100 - (80 - 30 + 8) = 42
	want := model.NewBBox(5, 42, 10, 52)
	if chars[0].BBox != want {
		t.Errorf("Expected %v, got %v", want, chars[0].BBox)
	}
}

func TestGeometryRotate(t *testing.T) {
	box := model.NewBBox(10, 20, 30, 25)
	tests := []struct {
		name     string
		geom     geometry
		expected model.BBox
	}{
		{"none", geometry{width: 100, height: 200}, box},
		{"90", geometry{width: 200, height: 100, rotation: 90}, model.NewBBox(175, 10, 180, 30)},
		{"180", geometry{width: 100, height: 200, rotation: 180}, model.NewBBox(70, 175, 90, 180)},
		{"270", geometry{width: 200, height: 100, rotation: 270}, model.NewBBox(20, 70, 25, 90)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.geom.rotate(box)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestStaticPage(t *testing.T) {
	p := &StaticPage{Idx: 3, Width: 10, Height: 20, Text: []model.Char{{Text: "a"}}}
	if p.Index() != 3 {
		t.Errorf("Expected index 3, got %d", p.Index())
	}
	if w, h := p.Size(); w != 10 || h != 20 {
		t.Errorf("Expected 10x20, got %vx%v", w, h)
	}
	chars, _ := p.Chars()
	chars[0].Text = "z"
	if p.Text[0].Text != "a" {
		t.Error("Expected Chars to return a copy")
	}
	if _, err := p.Image(); !errors.Is(err, ErrNoRaster) {
		t.Errorf("Expected ErrNoRaster, got %v", err)
	}
}

func TestMemoryImages(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	m := MemoryImages{1: img}
	if got, err := m.PageImage(1); err != nil || got != img {
		t.Errorf("Expected stored image, got %v, %v", got, err)
	}
	if _, err := m.PageImage(0); !errors.Is(err, ErrNoRaster) {
		t.Errorf("Expected ErrNoRaster, got %v", err)
	}
}

func TestDirImages(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "page-0.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	d := NewDirImages(dir)
	img, err := d.PageImage(0)
	if err != nil {
		t.Fatalf("PageImage failed: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("Expected 4x3, got %v", img.Bounds())
	}
	if _, err := d.PageImage(1); !errors.Is(err, ErrNoRaster) {
		t.Errorf("Expected ErrNoRaster for missing page, got %v", err)
	}
}

func makePDF(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(50, 100, "Hello")
	pdf.AddPageFormat("L", fpdf.SizeType{Wd: 300, Ht: 400})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to build PDF: %v", err)
	}
	return buf.Bytes()
}

func TestOpenBytes(t *testing.T) {
	data := makePDF(t)
	doc, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	if doc.PageCount() != 2 {
		t.Fatalf("Expected 2 pages, got %d", doc.PageCount())
	}
	if !bytes.Equal(doc.Bytes(), data) {
		t.Error("Expected Bytes to return the source")
	}

	p, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if w, h := p.Size(); math.Abs(w-595.28) > 1 || math.Abs(h-841.89) > 1 {
		t.Errorf("Expected A4 size, got %vx%v", w, h)
	}

	chars, err := p.Chars()
	if err != nil {
		t.Fatalf("Chars failed: %v", err)
	}
	var text string
	for _, c := range chars {
		text += c.Text
		if c.BBox.Y0 < 70 || c.BBox.Y0 > 100 {
			t.Errorf("Expected %q near the top of the page, got %v", c.Text, c.BBox)
		}
	}
	if text != "Hello" {
		t.Errorf("Expected Hello, got %q", text)
	}

	if _, err := doc.Page(2); err == nil {
		t.Error("Expected error for out of range page")
	}
	if _, err := p.Image(); !errors.Is(err, ErrNoRaster) {
		t.Errorf("Expected ErrNoRaster without image source, got %v", err)
	}

	img := image.NewGray(image.Rect(0, 0, 1, 1))
	withImages := doc.WithImages(MemoryImages{0: img})
	wp, err := withImages.Page(0)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if got, err := wp.Image(); err != nil || got != img {
		t.Errorf("Expected attached raster, got %v, %v", got, err)
	}
	if _, err := p.Image(); !errors.Is(err, ErrNoRaster) {
		t.Errorf("Expected the original document to stay without rasters, got %v", err)
	}
	if withImages.PageCount() != doc.PageCount() || !bytes.Equal(withImages.Bytes(), doc.Bytes()) {
		t.Error("Expected the copy to share pages and bytes")
	}
	if chars, err := wp.Chars(); err != nil || len(chars) == 0 {
		t.Errorf("Expected the copy to read the text layer, got %d chars, %v", len(chars), err)
	}
}

func TestOpenBytesInvalid(t *testing.T) {
	if _, err := OpenBytes([]byte("not a pdf")); err == nil {
		t.Error("Expected error for invalid PDF")
	}
}
