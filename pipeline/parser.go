package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/folio/detect"
	"github.com/tsawler/folio/layout"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/models"
	"github.com/tsawler/folio/ocr"
	"github.com/tsawler/folio/raster"
	"github.com/tsawler/folio/source"
	"github.com/tsawler/folio/spans"
)

// Parser reconstructs pages from a source document and detector output.
// A Parser is not safe for concurrent use.
type Parser struct {
	config     Config
	models     *models.Provider
	cropper    *raster.Cropper
	normalizer *layout.Normalizer
	splitter   ParagraphSplitter
	logger     logrus.FieldLogger
}

// NewParser creates a parser with default configuration. A nil provider
// means no ranking model and no OCR; a nil writer means crops are named
// but not stored.
func NewParser(provider *models.Provider, writer raster.Writer) *Parser {
	return NewParserWithConfig(DefaultConfig(), provider, writer, nil)
}

// NewParserWithConfig creates a parser with custom configuration
func NewParserWithConfig(config Config, provider *models.Provider, writer raster.Writer, logger logrus.FieldLogger) *Parser {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if provider == nil {
		provider = models.Static(nil, nil)
	}
	return &Parser{
		config:     config,
		models:     provider,
		cropper:    raster.NewCropperWithConfig(writer, config.Crop, logger),
		normalizer: layout.NewNormalizerWithConfig(config.Normalize),
		splitter:   NopSplitter{},
		logger:     logger,
	}
}

// WithSplitter sets the paragraph splitter run after a document is built
func (p *Parser) WithSplitter(s ParagraphSplitter) *Parser {
	if s == nil {
		s = NopSplitter{}
	}
	p.splitter = s
	return p
}

// Config returns the parser configuration
func (p *Parser) Config() Config {
	return p.config
}

// ParsePage reconstructs one page. digest names the source document and
// keys the crops of figures and tables.
//
// The returned page is never nil when err is nil. Layout conflicts and
// pages without usable blocks are reported through the page's drop
// reasons, not as errors.
func (p *Parser) ParsePage(ctx context.Context, page source.Page, det detect.Source, digest string) (*model.Page, error) {
	if err := p.config.Mode.Validate(); err != nil {
		return nil, err
	}

	idx := page.Index()
	pageW, pageH := page.Size()
	log := p.logger.WithField("page_id", idx)

	// Detections may be in raster pixels; everything below runs in page space
	dp := detect.PageIn(det, idx, pageW, pageH)
	images := layout.FlattenGroups(dp.ImageGroups, layout.ImageGroup)
	tables := layout.FlattenGroups(dp.TableGroups, layout.TableGroup)
	equations := dp.Equations

	norm := p.normalizer.Normalize(layout.NormalizeInput{
		Images:             images,
		Tables:             tables,
		Discarded:          dp.Discarded,
		Text:               dp.Text,
		Titles:             dp.Titles,
		InterlineEquations: equations.Interline,
		PageWidth:          pageW,
		PageHeight:         pageH,
	})

	result := model.NewPage(idx, pageW, pageH)
	for _, c := range norm.Conflicts {
		log.WithFields(logrus.Fields{
			"removed": c.Removed.BBox.String(),
			"kept":    c.Kept.BBox.String(),
		}).Warn("removed block overlapping another horizontally")
		result.AddDropReason(model.DropReasonHorizontalOverlap)
	}

	sc := p.config.Spans
	pageSpans := spans.RemoveOutside(dp.Spans, norm.Blocks, norm.Discarded, sc)

	discarded, pageSpans := spans.Fill(norm.Discarded, pageSpans, sc.DiscardedFillThreshold)
	result.DiscardedBlocks = layout.FixDiscarded(discarded)

	if len(norm.Blocks) == 0 {
		log.Warn("skipping page, no usable blocks found")
		result.InterlineEquations = layout.BlocksFromRegions(equations.Interline, model.BlockTypeInterlineEquation)
		result.AddDropReason(model.DropReasonNoUsableContent)
		return result, nil
	}

	pageSpans, _ = spans.RemoveLowConfidence(pageSpans, sc)
	pageSpans, _ = spans.RemoveMinOverlaps(pageSpans, sc)

	raw, err := p.pageImage(page)
	if err != nil {
		return nil, err
	}

	switch p.config.Mode {
	case ModeTXT:
		chars, err := page.Chars()
		if err != nil {
			return nil, fmt.Errorf("failed to read text layer of page %d: %w", idx, err)
		}
		var recognizer spans.Recognizer
		if engine := p.models.OCR(); engine != nil && raw != nil {
			recognizer = &regionRecognizer{
				engine: engine,
				page:   raw,
				width:  pageW,
				height: pageH,
				zoom:   p.config.Crop.Zoom,
			}
		}
		rec := spans.NewReconstructor(sc, recognizer, log)
		pageSpans, err = rec.Reconstruct(ctx, pageSpans, norm.Blocks, norm.Discarded, chars)
		if err != nil {
			return nil, err
		}
	case ModeOCR:
	default:
		return nil, p.config.Mode.Validate()
	}

	pageSpans, err = p.cropSpans(pageSpans, raw, pageW, pageH, digest, idx)
	if err != nil {
		return nil, err
	}

	blocks, _ := spans.Fill(norm.Blocks, pageSpans, sc.FillThreshold)
	blocks = layout.FixBlocks(blocks)
	lineHeight := layout.LineHeight(blocks)

	ro := layout.NewReadingOrderWithConfig(p.models.Ranker(), p.config.ReadingOrder, log)
	order, err := ro.Order(ctx, blocks, pageW, pageH, lineHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to order page %d: %w", idx, err)
	}
	log.WithFields(logrus.Fields{
		"path":  order.Path.String(),
		"lines": order.LineCount,
	}).Debug("page ordered")

	blocks = layout.RevertGroups(order.Blocks)
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Index < blocks[j].Index
	})

	result.Blocks = blocks
	result.Images, result.Tables, result.InterlineEquations = qaLists(blocks)
	return result, nil
}

// pageImage returns the page raster, or nil when the page has none
func (p *Parser) pageImage(page source.Page) (image.Image, error) {
	img, err := page.Image()
	if errors.Is(err, source.ErrNoRaster) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load raster of page %d: %w", page.Index(), err)
	}
	return img, nil
}

// cropSpans stores the region of every image and table span and records
// the storage name on the span. Spans with unusable boxes keep an empty
// path.
func (p *Parser) cropSpans(in []model.Span, raw image.Image, pageW, pageH float64, digest string, idx int) ([]model.Span, error) {
	out := make([]model.Span, len(in))
	copy(out, in)
	for i := range out {
		var kind raster.Kind
		switch out[i].Type {
		case model.SpanTypeImage:
			kind = raster.KindImage
		case model.SpanTypeTable:
			kind = raster.KindTable
		default:
			continue
		}

		if raw == nil {
			p.logger.WithFields(logrus.Fields{
				"page_id": idx,
				"bbox":    out[i].BBox.String(),
			}).Debug("no page raster, crop not stored")
			continue
		}

		name, err := p.cropper.Save(raw, pageW, pageH, out[i].BBox, digest, kind, idx)
		if errors.Is(err, raster.ErrInvalidBox) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to crop %s on page %d: %w", kind, idx, err)
		}
		out[i].ImagePath = name
	}
	return out, nil
}

// qaLists collects the blocks checked downstream: composite images and
// tables, and interline equations
func qaLists(blocks []model.Block) (images, tables, equations []model.Block) {
	images, tables, equations = []model.Block{}, []model.Block{}, []model.Block{}
	for _, b := range blocks {
		switch b.Type {
		case model.BlockTypeImage:
			images = append(images, b.Clone())
		case model.BlockTypeTable:
			tables = append(tables, b.Clone())
		case model.BlockTypeInterlineEquation:
			equations = append(equations, b.Clone())
		}
	}
	return images, tables, equations
}

// regionRecognizer reads page regions through an OCR engine
type regionRecognizer struct {
	engine ocr.Engine
	page   image.Image
	width  float64
	height float64
	zoom   float64
}

func (r *regionRecognizer) RecognizeRegion(ctx context.Context, bbox model.BBox) (string, float64, error) {
	img, err := raster.Crop(r.page, r.width, r.height, bbox, r.zoom)
	if errors.Is(err, raster.ErrInvalidBox) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, err
	}
	res, err := r.engine.Recognize(ctx, img)
	if err != nil {
		return "", 0, err
	}
	return res.Text, res.Confidence, nil
}
