// Package layout reconciles detected regions into ordered page blocks.
//
// The package covers the geometric half of page reconstruction:
//
//   - [Normalizer] turns raw detections into kept and discarded blocks,
//     removing duplicates, nested boxes and horizontal-overlap conflicts
//   - [FlattenGroups] and [RevertGroups] split figure and table groups into
//     parts before ordering and reassemble them afterwards
//   - [FixBlocks] and [MergeSpansToLines] build lines from assigned spans
//   - [ReadingOrder] ranks blocks and lines with a model or with [XYCut]
//
// # Reading Order
//
// The engine first makes sure every block offers at least one line to
// rank, cutting empty blocks into bands with [InsertBands]:
//
//	engine := layout.NewReadingOrder(r)
//	res, err := engine.Order(ctx, blocks, pageW, pageH, layout.LineHeight(blocks))
//
// Pages with at most [ReadingOrderConfig].MaxModelLines lines are ranked by
// the model; larger pages, or engines without a ranker, fall back to XY-cut
// over block boxes. Both paths are deterministic.
package layout
