// Package model defines the structured page representation produced by
// layout reconstruction.
//
// # Document Structure
//
// A [Document] is an ordered list of [Page] values. Each page holds its
// [Block] values in reading order, the blocks that were discarded from the
// reading flow, and diagnostics explaining why content was dropped:
//
//	for _, page := range doc.Pages() {
//	    if page.NeedDrop {
//	        log.Println(page.DropReason)
//	    }
//	}
//
// Blocks contain [Line] values which contain [Span] values, the smallest
// content units (text runs, images, tables, equations).
//
// # Composite Blocks
//
// Figures and tables are detected as a body plus any captions and
// footnotes. After ordering they are reassembled into one block of type
// [BlockTypeImage] or [BlockTypeTable] whose Blocks field holds the
// members.
//
// # Geometry
//
// [BBox] uses (x0, y0, x1, y1) corners in page space with the origin at
// the top-left. [BBox.OverlapRatio] is the only similarity measure used by
// the library.
//
// # Serialization
//
// Documents encode to JSON as {"pdf_info": [...]} with one object per page.
package model
