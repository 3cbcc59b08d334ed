// Package detect defines the contract for upstream perception output and
// provides sources that read it.
//
// A [Source] exposes, per page, the layout regions found by a detector
// (figure and table groups, text, titles, equations, discarded regions),
// the page size in detector coordinates, and the content spans found by
// OCR, formula and table recognizers.
//
// Three sources are provided:
//
//   - [Result] decoded from JSON with [Load] or [LoadFile]
//   - [FromHOCR] for Tesseract hOCR output
//   - [FromDocumentAI] for Google Document AI responses
//
// All sources validate boxes and labels when they are built, so the rest
// of the library only sees typed, well-formed detections.
package detect
