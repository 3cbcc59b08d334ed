// Package folio provides a fluent API for reconstructing the layout of PDF
// pages from layout-detection output.
//
// Basic usage:
//
//	doc, err := folio.Open("paper.pdf").
//	    DetectionsFile("paper.layout.json").
//	    Document(ctx)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(doc.Text())
//
// With options:
//
//	data, err := folio.Open("paper.pdf").
//	    DetectionsFile("paper.layout.json").
//	    PageRange(1, 5).
//	    Ranker(ranker.NewHTTPRanker(ranker.DefaultHTTPConfig())).
//	    MediaDir("out/images").
//	    PageImagesDir("out/pages").
//	    JSON(ctx)
//
// For advanced use cases, the pipeline package is also available.
package folio

import (
	"github.com/tsawler/folio/pipeline"
)

// Open returns an Extractor for a PDF file. The file is read when a
// terminal operation such as Document runs.
//
// Example:
//
//	doc, err := folio.Open("paper.pdf").DetectionsFile("paper.json").Document(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument creates an Extractor over an already opened document, such
// as a *source.Document.
func FromDocument(doc pipeline.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := folio.Must(folio.Open("paper.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
