package spans

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/folio/model"
	"golang.org/x/text/unicode/norm"
)

// lineStops are characters that commonly end a line and may sit just past
// the right edge of the span they belong to.
var lineStops = map[string]bool{
	".": true, "!": true, "?": true, "。": true, "！": true, "？": true,
	")": true, "）": true, "\"": true, "”": true, ":": true, "：": true,
	";": true, "；": true, "]": true, "】": true, "}": true, ">": true,
	"》": true, "、": true, ",": true, "，": true, "-": true, "—": true,
	"–": true,
}

// IsLineStop reports whether c is a line-terminal punctuation mark
func IsLineStop(c string) bool {
	return lineStops[c]
}

// CharInSpan reports whether a character belongs to a span.
//
// The character's center must lie inside the span with its vertical center
// within a quarter of the span height of the span's center. A line-stop
// character may instead attach when its left edge lies within one span
// height of the span's right edge and its center is right of the span's
// left edge.
func CharInSpan(char, span model.BBox, lineStop bool) bool {
	c := char.Center()
	spanCY := (span.Y0 + span.Y1) / 2
	h := span.Height()

	vertical := span.Y0 < c.Y && c.Y < span.Y1 && math.Abs(c.Y-spanCY) < h/4
	if !vertical {
		return false
	}
	if span.X0 < c.X && c.X < span.X1 {
		return true
	}
	return lineStop &&
		span.X1-h < char.X0 && char.X0 < span.X1 &&
		c.X > span.X0
}

// FillChars rebuilds the content of spans from page characters.
// Each character goes to the first span that accepts it. The returned
// spans are copies whose Content is replaced.
func FillChars(spans []model.Span, chars []model.Char) []model.Span {
	assigned := make([][]model.Char, len(spans))
	for _, ch := range chars {
		stop := IsLineStop(ch.Text)
		for i, s := range spans {
			if CharInSpan(ch.BBox, s.BBox, stop) {
				assigned[i] = append(assigned[i], ch)
				break
			}
		}
	}

	out := make([]model.Span, len(spans))
	for i, s := range spans {
		out[i] = s
		out[i].Content = CharsToContent(assigned[i])
	}
	return out
}

// CharsToContent joins characters ordered by horizontal center.
// A gap wider than the average character width inserts one space.
func CharsToContent(chars []model.Char) string {
	if len(chars) == 0 {
		return ""
	}

	sorted := append([]model.Char(nil), chars...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Center().X < sorted[j].BBox.Center().X
	})

	var widthSum float64
	for _, ch := range sorted {
		widthSum += ch.BBox.Width()
	}
	avg := widthSum / float64(len(sorted))

	var sb strings.Builder
	for i, ch := range sorted {
		if i > 0 && ch.BBox.X0-sorted[i-1].BBox.X1 > avg {
			sb.WriteByte(' ')
		}
		sb.WriteString(ch.Text)
	}
	return cleanText(sb.String())
}

// cleanText restores quotes that extract as STX/ETX and normalizes to NFC
func cleanText(s string) string {
	s = strings.NewReplacer("\u0002", "'", "\u0003", "'").Replace(s)
	return norm.NFC.String(s)
}
