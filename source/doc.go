// Package source provides page handles over a PDF file.
//
// A Page reports its size, its positioned characters and, when available,
// a rendered raster. Page geometry comes from pdfcpu; characters come from
// the ledongthuc/pdf text layer and are converted to top-left page space.
// Rasters are not rendered here: they are supplied by an ImageSource, for
// example a directory of images produced by an external renderer.
package source
