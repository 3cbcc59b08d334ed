// Package pipeline assembles reconstructed pages and documents.
//
// A Parser turns one source page plus the detector output for that page
// into a model.Page: it normalizes the detected blocks, filters and
// assigns spans, rebuilds span text, crops figures and tables, orders the
// blocks for reading and regroups figure and table parts. ParseDocument
// runs the page assembler over a page range and hands the result to an
// optional paragraph splitter.
//
// Basic usage:
//
//	doc, _ := source.Open("paper.pdf")
//	det, _ := detect.LoadFile("paper.layout.json")
//	p := pipeline.NewParser(models.Default(opts, nil), raster.NewDirWriter("out/images"))
//	result, err := p.ParseDocument(ctx, doc, det)
package pipeline
