package source

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"sync"
	"unicode"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/folio/model"
)

// ascentRatio places the glyph top relative to the baseline
const ascentRatio = 0.8

// Document is an open PDF
type Document struct {
	data   []byte
	reader *lpdf.Reader
	pages  []*pdfPage
	images ImageSource

	// readMu serializes text-layer reads across copies made by WithImages
	readMu *sync.Mutex
}

// Open reads a PDF file
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return OpenBytes(data)
}

// OpenBytes parses a PDF held in memory
func OpenBytes(data []byte) (*Document, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF text layer: %w", err)
	}

	d := &Document{data: data, reader: reader, readMu: &sync.Mutex{}}
	for i := 1; i <= ctx.PageCount; i++ {
		geom, err := pageGeometry(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i-1, err)
		}
		d.pages = append(d.pages, &pdfPage{doc: d, idx: i - 1, geom: geom, text: &pageText{}})
	}
	return d, nil
}

// WithImages returns a copy of the document whose pages read rasters from
// images. The receiver is not modified; both share the parsed PDF and the
// cached text layer.
func (d *Document) WithImages(images ImageSource) *Document {
	c := &Document{
		data:   d.data,
		reader: d.reader,
		images: images,
		readMu: d.readMu,
		pages:  make([]*pdfPage, len(d.pages)),
	}
	for i, p := range d.pages {
		c.pages[i] = &pdfPage{doc: c, idx: p.idx, geom: p.geom, text: p.text}
	}
	return c
}

// Bytes returns the raw PDF bytes
func (d *Document) Bytes() []byte {
	return d.data
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the page at 0-based index i
func (d *Document) Page(i int) (Page, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", i, len(d.pages))
	}
	return d.pages[i], nil
}

// geometry describes how PDF user space maps onto top-left page space
type geometry struct {
	width, height float64 // displayed size, after rotation
	originX       float64 // media box lower-left
	originY       float64
	mediaHeight   float64
	rotation      int
}

func pageGeometry(ctx *pdfmodel.Context, pageNr int) (geometry, error) {
	_, _, attrs, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return geometry{}, fmt.Errorf("failed to get page dict: %w", err)
	}

	// Default US Letter size
	g := geometry{width: 612, height: 792, mediaHeight: 792}
	if attrs == nil {
		return g, nil
	}

	box := attrs.MediaBox
	if attrs.CropBox != nil {
		box = attrs.CropBox
	}
	if box != nil {
		g.width = box.Width()
		g.height = box.Height()
		g.originX = box.LL.X
		g.originY = box.LL.Y
		g.mediaHeight = box.Height()
	}

	g.rotation = ((attrs.Rotate % 360) + 360) % 360
	if g.rotation == 90 || g.rotation == 270 {
		g.width, g.height = g.height, g.width
	}
	return g, nil
}

type pdfPage struct {
	doc  *Document
	idx  int
	geom geometry
	text *pageText
}

// pageText caches the characters of one page
type pageText struct {
	once  sync.Once
	chars []model.Char
	err   error
}

func (p *pdfPage) Index() int { return p.idx }

func (p *pdfPage) Size() (float64, float64) { return p.geom.width, p.geom.height }

func (p *pdfPage) Image() (image.Image, error) {
	if p.doc.images == nil {
		return nil, ErrNoRaster
	}
	return p.doc.images.PageImage(p.idx)
}

// Chars extracts the text layer once and caches it
func (p *pdfPage) Chars() ([]model.Char, error) {
	t := p.text
	t.once.Do(func() {
		p.doc.readMu.Lock()
		defer p.doc.readMu.Unlock()
		t.chars, t.err = p.extractChars()
	})
	if t.err != nil {
		return nil, t.err
	}
	return append([]model.Char(nil), t.chars...), nil
}

func (p *pdfPage) extractChars() (chars []model.Char, err error) {
	// ledongthuc/pdf panics on malformed content streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read text on page %d: %v", p.idx, r)
		}
	}()

	page := p.doc.reader.Page(p.idx + 1)
	if page.V.IsNull() {
		return nil, nil
	}
	return textToChars(page.Content().Text, p.geom), nil
}

// textToChars splits text runs into per-character boxes in top-left page
// space. Each run's advance width is shared evenly between its runes and
// the glyph box spans one font size starting at the ascent line.
func textToChars(runs []lpdf.Text, g geometry) []model.Char {
	var chars []model.Char
	for _, t := range runs {
		runes := []rune(t.S)
		if len(runes) == 0 {
			continue
		}
		fs := t.FontSize
		w := t.W / float64(len(runes))
		x := t.X - g.originX
		top := g.mediaHeight - (t.Y - g.originY + fs*ascentRatio)

		for _, r := range runes {
			if !unicode.IsSpace(r) {
				box := model.NewBBox(x, top, x+w, top+fs)
				chars = append(chars, model.Char{
					Text: string(r),
					BBox: g.rotate(box),
				})
			}
			x += w
		}
	}
	return chars
}

// rotate maps an unrotated top-left box into the displayed orientation
func (g geometry) rotate(b model.BBox) model.BBox {
	mw := g.width
	mh := g.height
	if g.rotation == 90 || g.rotation == 270 {
		mw, mh = mh, mw
	}
	switch g.rotation {
	case 90:
		return model.NewBBox(mh-b.Y1, b.X0, mh-b.Y0, b.X1)
	case 180:
		return model.NewBBox(mw-b.X1, mh-b.Y1, mw-b.X0, mh-b.Y0)
	case 270:
		return model.NewBBox(b.Y0, mw-b.X1, b.Y1, mw-b.X0)
	}
	return b
}
