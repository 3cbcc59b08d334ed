package pipeline

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/folio/detect"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/source"
)

// Document is a source document split into pages
type Document interface {
	Bytes() []byte
	PageCount() int
	Page(i int) (source.Page, error)
}

// ParagraphSplitter post-processes a built document, typically filling
// each page's ParaBlocks
type ParagraphSplitter interface {
	Split(doc *model.Document) error
}

// NopSplitter leaves the document unchanged
type NopSplitter struct{}

// Split does nothing
func (NopSplitter) Split(*model.Document) error { return nil }

// SplitterFunc adapts a plain function to the ParagraphSplitter interface
type SplitterFunc func(doc *model.Document) error

// Split calls f
func (f SplitterFunc) Split(doc *model.Document) error { return f(doc) }

// Digest returns the hex MD5 of data, used to key a document's artifacts
func Digest(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// PageRange resolves the configured page range against a page count.
// A nil or negative end selects the last page; an end past the last page
// is clamped with a warning.
func (p *Parser) PageRange(pageCount int) (start, end int) {
	last := pageCount - 1
	start = p.config.StartPage
	if start < 0 {
		start = 0
	}

	switch e := p.config.EndPage; {
	case e == nil || *e < 0:
		end = last
	case *e > last:
		p.logger.WithFields(logrus.Fields{
			"end_page": *e,
			"last":     last,
		}).Warn("end page out of range, using last page")
		end = last
	default:
		end = *e
	}
	return start, end
}

// ParseDocument parses the configured page range of doc. Pages outside
// the range are returned as skipped placeholders with their size.
func (p *Parser) ParseDocument(ctx context.Context, doc Document, det detect.Source) (*model.Document, error) {
	if err := p.config.Mode.Validate(); err != nil {
		return nil, err
	}

	digest := Digest(doc.Bytes())
	count := doc.PageCount()
	if n := det.PageCount(); n != count {
		p.logger.WithFields(logrus.Fields{
			"pdf_pages":       count,
			"detection_pages": n,
		}).Warn("detections and document page counts differ, pages without detections will be empty")
	}
	start, end := p.PageRange(count)

	pages := make([]*model.Page, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := doc.Page(i)
		if err != nil {
			return nil, fmt.Errorf("failed to open page %d: %w", i, err)
		}

		if i < start || i > end {
			w, h := page.Size()
			pages = append(pages, model.NewSkippedPage(i, w, h))
			continue
		}

		result, err := p.ParsePage(ctx, page, det, digest)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %d: %w", i, err)
		}
		p.logger.WithFields(logrus.Fields{
			"page_id": i,
			"blocks":  len(result.Blocks),
		}).Info("page parsed")
		pages = append(pages, result)
	}

	out := model.NewDocument(digest, pages)
	if err := p.splitter.Split(out); err != nil {
		return nil, fmt.Errorf("paragraph split failed: %w", err)
	}

	if p.config.FreeMemory {
		debug.FreeOSMemory()
	}
	return out, nil
}
