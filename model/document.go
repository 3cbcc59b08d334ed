package model

import "encoding/json"

// Document is the ordered set of reconstructed pages of one source.
// It is not modified by the library once returned.
type Document struct {
	pages  []*Page
	digest string
}

// NewDocument creates a document from pages ordered by page index
func NewDocument(digest string, pages []*Page) *Document {
	return &Document{
		pages:  append([]*Page(nil), pages...),
		digest: digest,
	}
}

// Digest returns the content hash of the source the document was built from
func (d *Document) Digest() string {
	return d.digest
}

// GetPage returns a page by index (0-indexed)
func (d *Document) GetPage(idx int) *Page {
	if idx < 0 || idx >= len(d.pages) {
		return nil
	}
	return d.pages[idx]
}

// Pages returns the pages in order
func (d *Document) Pages() []*Page {
	return append([]*Page(nil), d.pages...)
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Text returns the text of all pages
func (d *Document) Text() string {
	var text string
	for _, p := range d.pages {
		text += p.Text() + "\n"
	}
	return text
}

type documentJSON struct {
	PDFInfo []*Page `json:"pdf_info"`
}

// MarshalJSON encodes the document in the middle format
func (d *Document) MarshalJSON() ([]byte, error) {
	pages := d.pages
	if pages == nil {
		pages = []*Page{}
	}
	return json.Marshal(documentJSON{PDFInfo: pages})
}

// UnmarshalJSON decodes the middle format
func (d *Document) UnmarshalJSON(data []byte) error {
	var v documentJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	d.pages = v.PDFInfo
	return nil
}
