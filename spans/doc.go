// Package spans filters detected content spans and assigns them to blocks.
//
// A page's spans pass through these steps in order:
//
//   - [RemoveOutside] drops spans that do not belong to any kept or
//     discarded region
//   - [RemoveLowConfidence] and [RemoveMinOverlaps] resolve duplicate
//     detections
//   - [Reconstructor.Reconstruct] rebuilds text spans from the PDF text
//     layer, falling back to OCR for spans left empty
//   - [Fill] places each span into the block it overlaps most
package spans
