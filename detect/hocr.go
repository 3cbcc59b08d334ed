package detect

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/folio/model"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// HOCROptions controls how hOCR coordinates map to page space
type HOCROptions struct {
	// Scale divides every hOCR coordinate. Use the raster DPI over 72 to
	// convert pixel coordinates to PDF points. Zero means 1.
	Scale float64
}

// FromHOCR builds detections from hOCR output.
//
// Paragraphs (ocr_par) become text blocks, lines (ocr_line, ocr_caption,
// ocr_header, ocr_textfloat) become text spans scored by their mean word
// confidence, and photos (ocr_photo) become image groups.
func FromHOCR(data []byte, opts HOCROptions) (*Result, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	decoded := data
	if enc := hocrCharset(data); enc != "" && enc != "utf-8" && enc != "utf8" {
		var err error
		decoded, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", enc, err)
		}
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	res := &Result{}
	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if hasClass(n, "ocr_page") {
			page := PageResult{PageIdx: len(res.Pages)}
			if bbox, ok := titleBBox(n, scale); ok {
				page.Width = bbox.X1
				page.Height = bbox.Y1
			}
			collectPage(n, &page, scale)
			res.Pages = append(res.Pages, page)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(doc)

	if len(res.Pages) == 0 {
		return nil, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hOCR detections: %w", err)
	}
	return res, nil
}

func collectPage(n *html.Node, page *PageResult, scale float64) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch {
		case hasClass(c, "ocr_photo"):
			if bbox, ok := titleBBox(c, scale); ok {
				page.ImageGroups = append(page.ImageGroups, Group{Body: Region{BBox: bbox, Score: 1}})
				page.Spans = append(page.Spans, model.Span{BBox: bbox, Type: model.SpanTypeImage, Score: 1})
			}
			continue
		case hasClass(c, "ocr_par"):
			if bbox, ok := titleBBox(c, scale); ok {
				page.Text = append(page.Text, Region{BBox: bbox, Score: 1})
			}
		case isLine(c):
			if span, ok := lineSpan(c, scale); ok {
				page.Spans = append(page.Spans, span)
			}
			continue
		}
		collectPage(c, page, scale)
	}
}

func isLine(n *html.Node) bool {
	for _, class := range []string{"ocr_line", "ocr_caption", "ocr_header", "ocr_textfloat"} {
		if hasClass(n, class) {
			return true
		}
	}
	return false
}

// lineSpan joins the words of a line into one text span
func lineSpan(n *html.Node, scale float64) (model.Span, bool) {
	bbox, ok := titleBBox(n, scale)
	if !ok {
		return model.Span{}, false
	}

	var words []string
	var confSum float64
	var confCount int
	var walk func(*html.Node)
	walk = func(w *html.Node) {
		if hasClass(w, "ocrx_word") {
			text := strings.TrimSpace(nodeText(w))
			if text != "" {
				words = append(words, text)
			}
			if v, ok := ParseTitle(attr(w, "title"))["x_wconf"]; ok && len(v) > 0 {
				if conf, err := strconv.ParseFloat(v[0], 64); err == nil {
					confSum += conf
					confCount++
				}
			}
			return
		}
		for c := w.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	score := 1.0
	if confCount > 0 {
		score = confSum / float64(confCount) / 100
	}
	return model.Span{
		BBox:    bbox,
		Type:    model.SpanTypeText,
		Content: strings.Join(words, " "),
		Score:   score,
	}, true
}

// ParseTitle breaks down an hOCR title attribute into its components.
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(strings.TrimSpace(part))
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

func titleBBox(n *html.Node, scale float64) (model.BBox, bool) {
	v, ok := ParseTitle(attr(n, "title"))["bbox"]
	if !ok || len(v) < 4 {
		return model.BBox{}, false
	}
	var c [4]float64
	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(v[i], 64)
		if err != nil {
			return model.BBox{}, false
		}
		c[i] = f / scale
	}
	bbox := model.NewBBox(c[0], c[1], c[2], c[3])
	return bbox, bbox.IsValid()
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

// hocrCharset returns the declared charset, lowercased
func hocrCharset(data []byte) string {
	content := string(data)
	idx := strings.Index(content, "charset=")
	if idx < 0 {
		return ""
	}
	rest := content[idx+len("charset="):]
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' ' || r == '/'
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
