// Package debugdraw renders reconstructed layout as a PDF for inspection.
//
// Each page gets outlined block boxes colored by type with their reading
// order index, outlined discarded regions and, optionally, span boxes.
// The three kinds sit on separate optional content layers so viewers can
// toggle them. When the source PDF is supplied its pages are drawn
// underneath.
package debugdraw

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/folio/model"
)

// Options controls what is drawn
type Options struct {
	// Source is the original PDF. When set its pages are used as the
	// background.
	Source []byte

	Blocks    bool
	Discarded bool
	Spans     bool

	// FontSize of the index labels
	FontSize float64
}

// DefaultOptions draws blocks and discarded regions
func DefaultOptions() Options {
	return Options{
		Blocks:    true,
		Discarded: true,
		FontSize:  7,
	}
}

type rgb struct{ r, g, b int }

var blockColors = map[model.BlockType]rgb{
	model.BlockTypeText:              {0, 0, 255},
	model.BlockTypeTitle:             {102, 102, 255},
	model.BlockTypeImageBody:         {153, 255, 51},
	model.BlockTypeImageCaption:      {102, 178, 255},
	model.BlockTypeImageFootnote:     {255, 178, 102},
	model.BlockTypeTableBody:         {204, 204, 0},
	model.BlockTypeTableCaption:      {255, 255, 102},
	model.BlockTypeTableFootnote:     {229, 255, 204},
	model.BlockTypeInterlineEquation: {0, 255, 0},
}

var (
	discardedColor = rgb{158, 158, 158}
	spanColor      = rgb{255, 0, 0}
	labelColor     = rgb{255, 0, 0}
)

// Draw writes the overlay PDF for doc to w
func Draw(w io.Writer, doc *model.Document, opts Options) error {
	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetFont("Helvetica", "", opts.FontSize)

	blockLayer := pdf.AddLayer("Blocks", opts.Blocks)
	discardedLayer := pdf.AddLayer("Discarded", opts.Discarded)
	spanLayer := pdf.AddLayer("Spans", opts.Spans)

	var importer *gofpdi.Importer
	var rs io.ReadSeeker
	if len(opts.Source) > 0 {
		importer = gofpdi.NewImporter()
		rs = bytes.NewReader(opts.Source)
	}

	for _, page := range doc.Pages() {
		pw, ph := page.Width(), page.Height()
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: pw, Ht: ph})

		if importer != nil {
			tpl := importer.ImportPageFromStream(pdf, &rs, page.PageIdx+1, "/MediaBox")
			importer.UseImportedTemplate(pdf, tpl, 0, 0, pw, 0)
		}

		pdf.BeginLayer(discardedLayer)
		for _, b := range page.DiscardedBlocks {
			outline(pdf, b.BBox, discardedColor, 0.8)
		}
		pdf.EndLayer()

		pdf.BeginLayer(blockLayer)
		for _, b := range page.Blocks {
			drawBlock(pdf, b)
		}
		pdf.EndLayer()

		pdf.BeginLayer(spanLayer)
		for _, b := range page.Blocks {
			drawSpans(pdf, b)
		}
		pdf.EndLayer()
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to draw layout: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write layout PDF: %w", err)
	}
	return nil
}

func drawBlock(pdf *fpdf.Fpdf, b model.Block) {
	for _, m := range b.Blocks {
		drawBlock(pdf, m)
	}
	if len(b.Blocks) > 0 {
		return
	}

	c, ok := blockColors[b.Type]
	if !ok {
		c = discardedColor
	}
	outline(pdf, b.BBox, c, 1)
	label(pdf, b.BBox, fmt.Sprintf("%g %s", b.Index, b.Type))
}

func drawSpans(pdf *fpdf.Fpdf, b model.Block) {
	for _, m := range b.Blocks {
		drawSpans(pdf, m)
	}
	for _, l := range b.Lines {
		for _, s := range l.Spans {
			outline(pdf, s.BBox, spanColor, 0.3)
		}
	}
}

func outline(pdf *fpdf.Fpdf, box model.BBox, c rgb, width float64) {
	pdf.SetDrawColor(c.r, c.g, c.b)
	pdf.SetLineWidth(width)
	pdf.Rect(box.X0, box.Y0, box.Width(), box.Height(), "D")
}

func label(pdf *fpdf.Fpdf, box model.BBox, text string) {
	pdf.SetTextColor(labelColor.r, labelColor.g, labelColor.b)
	_, size := pdf.GetFontSize()
	pdf.Text(box.X1+2, box.Y0+size, encodeLabel(text))
}

// encodeLabel converts text to the core fonts' Windows-1252 encoding,
// replacing what the code page cannot represent
func encodeLabel(s string) string {
	var out []byte
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			out = append(out, '?')
			continue
		}
		out = append(out, b)
	}
	return string(out)
}
