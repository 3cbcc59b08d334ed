package detect

import (
	"fmt"
	"math"
	"os"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/tsawler/folio/model"
	"google.golang.org/protobuf/encoding/protojson"
)

// FromDocumentAI builds detections from a Document AI response.
//
// Paragraphs become text blocks, lines become text spans, tables become
// table groups and math_formula visual elements become interline
// equations. Coordinates are scaled from normalized vertices to the page
// dimension reported by the processor.
func FromDocumentAI(doc *documentaipb.Document) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("no documentai document provided")
	}

	res := &Result{}
	for i, p := range doc.GetPages() {
		dim := p.GetDimension()
		page := PageResult{
			PageIdx: i,
			Width:   float64(dim.GetWidth()),
			Height:  float64(dim.GetHeight()),
		}

		for _, par := range p.GetParagraphs() {
			if bbox, ok := layoutBBox(par.GetLayout(), dim); ok {
				page.Text = append(page.Text, Region{BBox: bbox, Score: float64(par.GetLayout().GetConfidence())})
			}
		}

		for _, line := range p.GetLines() {
			bbox, ok := layoutBBox(line.GetLayout(), dim)
			if !ok {
				continue
			}
			page.Spans = append(page.Spans, model.Span{
				BBox:    bbox,
				Type:    model.SpanTypeText,
				Content: strings.TrimSpace(textFromLayout(line.GetLayout(), doc.GetText())),
				Score:   float64(line.GetLayout().GetConfidence()),
			})
		}

		for _, table := range p.GetTables() {
			bbox, ok := layoutBBox(table.GetLayout(), dim)
			if !ok {
				continue
			}
			score := float64(table.GetLayout().GetConfidence())
			page.TableGroups = append(page.TableGroups, Group{Body: Region{BBox: bbox, Score: score}})
			page.Spans = append(page.Spans, model.Span{BBox: bbox, Type: model.SpanTypeTable, Score: score})
		}

		for _, ve := range p.GetVisualElements() {
			if ve.GetType() != "math_formula" {
				continue
			}
			bbox, ok := layoutBBox(ve.GetLayout(), dim)
			if !ok {
				continue
			}
			score := float64(ve.GetLayout().GetConfidence())
			page.Equations.Interline = append(page.Equations.Interline, Region{BBox: bbox, Score: score})
			page.Spans = append(page.Spans, model.Span{BBox: bbox, Type: model.SpanTypeInterlineEquation, Score: score})
		}

		res.Pages = append(res.Pages, page)
	}

	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("invalid documentai detections: %w", err)
	}
	return res, nil
}

// LoadDocumentAIFile reads a Document AI response saved as JSON
func LoadDocumentAIFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read documentai response: %w", err)
	}
	var doc documentaipb.Document
	if err := protojson.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode documentai response: %w", err)
	}
	return FromDocumentAI(&doc)
}

// layoutBBox converts a layout's bounding polygon to page space.
// Normalized vertices are preferred; pixel vertices are used otherwise.
func layoutBBox(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (model.BBox, bool) {
	poly := layout.GetBoundingPoly()
	if poly == nil {
		return model.BBox{}, false
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	if nv := poly.GetNormalizedVertices(); len(nv) > 0 {
		w, h := float64(dim.GetWidth()), float64(dim.GetHeight())
		for _, v := range nv {
			extend(float64(v.GetX())*w, float64(v.GetY())*h)
		}
	} else {
		for _, v := range poly.GetVertices() {
			extend(float64(v.GetX()), float64(v.GetY()))
		}
	}

	bbox := model.NewBBox(minX, minY, maxX, maxY)
	return bbox, bbox.IsValid()
}

// textFromLayout resolves a layout's text anchor against the document text
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	var sb strings.Builder
	for _, seg := range layout.GetTextAnchor().GetTextSegments() {
		start := int(seg.GetStartIndex())
		end := int(seg.GetEndIndex())
		if start < 0 {
			start = 0
		}
		if end > len(fullText) {
			end = len(fullText)
		}
		if start < end {
			sb.WriteString(fullText[start:end])
		}
	}
	return sb.String()
}
