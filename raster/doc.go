// Package raster crops regions out of rendered page images and stores them.
//
// Image and table spans reference their crop by a content-hash name, so the
// same region of the same source always maps to the same file. Crops are
// written through a Writer; DirWriter and MemoryWriter are provided.
//
// Page rasters may be PNG, JPEG, TIFF or BMP.
package raster
