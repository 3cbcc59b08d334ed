package folio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/folio/detect"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/models"
	"github.com/tsawler/folio/ocr"
	"github.com/tsawler/folio/pipeline"
	"github.com/tsawler/folio/ranker"
	"github.com/tsawler/folio/raster"
	"github.com/tsawler/folio/source"
)

// Extractor provides a fluent interface for reconstructing PDF layout.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	doc      pipeline.Document

	// Detector output
	detections detect.Source
	detectPath string
	detectKind detectKind
	hocrOpts   detect.HOCROptions

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

type detectKind int

const (
	detectJSON detectKind = iota
	detectHOCR
	detectDocumentAI
)

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:   e.filename,
		doc:        e.doc,
		detections: e.detections,
		detectPath: e.detectPath,
		detectKind: e.detectKind,
		hocrOpts:   e.hocrOpts,
		options:    e.options.clone(),
		err:        e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Detections sets the detector output for the document.
func (e *Extractor) Detections(src detect.Source) *Extractor {
	newExt := e.clone()
	newExt.detections = src
	newExt.detectPath = ""
	return newExt
}

// DetectionsFile reads detector output from a file when the extractor
// runs. Files ending in .hocr, .html or .xhtml are read as hOCR; anything
// else as folio's JSON detection format.
//
// Example:
//
//	doc, err := folio.Open("scan.pdf").DetectionsFile("scan.hocr").Document(ctx)
func (e *Extractor) DetectionsFile(path string) *Extractor {
	newExt := e.clone()
	newExt.detections = nil
	newExt.detectPath = path
	newExt.detectKind = detectJSON
	newExt.hocrOpts = detect.HOCROptions{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hocr", ".html", ".xhtml":
		newExt.detectKind = detectHOCR
	}
	return newExt
}

// HOCRFile reads detector output from an hOCR file. Coordinates are
// divided by opts.Scale; pixel coordinates left unscaled are mapped to
// the PDF page through the ocr_page bounding box.
func (e *Extractor) HOCRFile(path string, opts detect.HOCROptions) *Extractor {
	newExt := e.clone()
	newExt.detections = nil
	newExt.detectPath = path
	newExt.detectKind = detectHOCR
	newExt.hocrOpts = opts
	return newExt
}

// DocumentAIFile reads detector output from a Google Document AI response
// saved as JSON.
func (e *Extractor) DocumentAIFile(path string) *Extractor {
	newExt := e.clone()
	newExt.detections = nil
	newExt.detectPath = path
	newExt.detectKind = detectDocumentAI
	return newExt
}

// Mode sets where span text comes from. Unknown modes fail when the
// extractor runs.
func (e *Extractor) Mode(mode pipeline.ParseMode) *Extractor {
	newExt := e.clone()
	newExt.options.config.Mode = mode
	return newExt
}

// PageRange limits reconstruction to pages start through end (1-indexed,
// inclusive). Pages outside the range are kept as skipped placeholders.
// An end of 0 means the last page.
//
// Example:
//
//	doc, err := folio.Open("paper.pdf").DetectionsFile("paper.json").PageRange(2, 4).Document(ctx)
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start < 1 || (end != 0 && end < start) {
		newExt.err = fmt.Errorf("invalid page range %d-%d", start, end)
		return newExt
	}
	newExt.options.firstPage = start
	newExt.options.lastPage = end
	return newExt
}

// Config replaces the pipeline configuration. The page range set with
// PageRange still applies on top.
func (e *Extractor) Config(config pipeline.Config) *Extractor {
	newExt := e.clone()
	newExt.options.config = config
	newExt.options = newExt.options.clone()
	return newExt
}

// Ranker sets the ranking model used for reading order. Without one, every
// page is ordered geometrically.
func (e *Extractor) Ranker(r ranker.Ranker) *Extractor {
	newExt := e.clone()
	newExt.options.ranker = r
	return newExt
}

// OCR sets the engine used to re-read spans the text layer misses.
func (e *Extractor) OCR(engine ocr.Engine) *Extractor {
	newExt := e.clone()
	newExt.options.engine = engine
	return newExt
}

// Models sets a model provider, overriding Ranker and OCR.
func (e *Extractor) Models(p *models.Provider) *Extractor {
	newExt := e.clone()
	newExt.options.provider = p
	return newExt
}

// MediaWriter sets where figure and table crops are stored.
func (e *Extractor) MediaWriter(w raster.Writer) *Extractor {
	newExt := e.clone()
	newExt.options.writer = w
	return newExt
}

// MediaDir stores figure and table crops as files under dir.
func (e *Extractor) MediaDir(dir string) *Extractor {
	return e.MediaWriter(raster.NewDirWriter(dir))
}

// PageImages sets the source of rendered page rasters, used for crops and
// OCR.
func (e *Extractor) PageImages(images source.ImageSource) *Extractor {
	newExt := e.clone()
	newExt.options.images = images
	return newExt
}

// PageImagesDir reads rendered page rasters named page-<n>.<ext> from dir,
// with n 0-based.
func (e *Extractor) PageImagesDir(dir string) *Extractor {
	return e.PageImages(source.NewDirImages(dir))
}

// Splitter sets the paragraph splitter run on the finished document.
func (e *Extractor) Splitter(s pipeline.ParagraphSplitter) *Extractor {
	newExt := e.clone()
	newExt.options.splitter = s
	return newExt
}

// Logger sets the logger. The default is the logrus standard logger.
func (e *Extractor) Logger(l logrus.FieldLogger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document reconstructs the document.
func (e *Extractor) Document(ctx context.Context) (*model.Document, error) {
	if e.err != nil {
		return nil, e.err
	}

	doc, err := e.openDocument()
	if err != nil {
		return nil, err
	}
	det, err := e.loadDetections()
	if err != nil {
		return nil, err
	}

	config := e.options.pipelineConfig()
	if err := config.Mode.Validate(); err != nil {
		return nil, err
	}

	parser := pipeline.NewParserWithConfig(config, e.options.modelProvider(), e.options.writer, e.options.logger).
		WithSplitter(e.options.splitter)
	return parser.ParseDocument(ctx, doc, det)
}

// Text reconstructs the document and returns its text in reading order.
func (e *Extractor) Text(ctx context.Context) (string, error) {
	doc, err := e.Document(ctx)
	if err != nil {
		return "", err
	}
	return doc.Text(), nil
}

// JSON reconstructs the document and returns it as indented JSON of the
// form {"pdf_info": [...]}.
func (e *Extractor) JSON(ctx context.Context) ([]byte, error) {
	doc, err := e.Document(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// PageCount returns the number of pages in the source document.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	doc, err := e.openDocument()
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// ============================================================================
// Helpers
// ============================================================================

func (e *Extractor) openDocument() (pipeline.Document, error) {
	if e.doc != nil {
		return e.withImages(e.doc), nil
	}
	if e.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}
	doc, err := source.Open(e.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return e.withImages(doc), nil
}

// withImages attaches the raster source to documents that accept one
func (e *Extractor) withImages(doc pipeline.Document) pipeline.Document {
	if e.options.images == nil {
		return doc
	}
	if sd, ok := doc.(*source.Document); ok {
		return sd.WithImages(e.options.images)
	}
	return doc
}

func (e *Extractor) loadDetections() (detect.Source, error) {
	if e.detections != nil {
		return e.detections, nil
	}
	if e.detectPath == "" {
		return nil, fmt.Errorf("no detections specified")
	}

	switch e.detectKind {
	case detectHOCR:
		data, err := os.ReadFile(e.detectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read hOCR: %w", err)
		}
		return detect.FromHOCR(data, e.hocrOpts)
	case detectDocumentAI:
		return detect.LoadDocumentAIFile(e.detectPath)
	default:
		return detect.LoadFile(e.detectPath)
	}
}
