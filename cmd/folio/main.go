// folio is a command-line tool for reconstructing the layout of PDF pages
// from layout-detection output.
//
// It reads a PDF and the regions and spans a layout detector found on each
// page, and writes the reconstructed document as JSON. Blocks are ordered
// for reading by a ranking model when one is configured, and geometrically
// otherwise.
//
// Configuration:
//
// An optional YAML configuration file overrides the defaults:
//
//	parse:
//	  mode: txt
//	  lang: en
//	ranker:
//	  endpoint: "http://127.0.0.1:8000/predict"
//	ocr:
//	  enabled: true
//	output:
//	  media_dir: images
//
// Usage:
//
//	folio -pdf input.pdf -detections input.json -out output.json [options]
//
// Required flags:
//
//	-pdf string         Path to the input PDF file
//	-detections string  Path to the detector output
//	-out string         Path to save the reconstructed document as JSON
//
// Options:
//
//	-config string     Path to the YAML configuration file
//	-format string     Detector output format: json, hocr or docai (default "json")
//	-hocr-scale float  Divisor for hOCR coordinates, e.g. DPI/72 (default 1)
//	-images string     Directory of rendered page images named page-<n>.<ext>
//	-text string       Path to save the document text in reading order
//	-overlay string    Path to save a PDF with the layout drawn over each page
//
// Example:
//
//	folio -pdf paper.pdf -detections paper.json -images pages -out paper.middle.json -overlay paper.layout.pdf
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/folio/config"
	"github.com/tsawler/folio/debugdraw"
	"github.com/tsawler/folio/detect"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/models"
	"github.com/tsawler/folio/pipeline"
	"github.com/tsawler/folio/raster"
	"github.com/tsawler/folio/source"
)

func main() {
	// Required flags
	pdfPath := flag.String("pdf", "", "Path to the input PDF file (required)")
	detPath := flag.String("detections", "", "Path to the detector output (required)")
	outPath := flag.String("out", "", "Path to save the reconstructed document as JSON (required)")

	// Optional flags
	configPath := flag.String("config", "", "Path to the config YAML file")
	format := flag.String("format", "json", "Detector output format: json, hocr or docai")
	hocrScale := flag.Float64("hocr-scale", 1, "Divisor for hOCR coordinates, e.g. DPI/72")
	imagesDir := flag.String("images", "", "Directory of rendered page images named page-<n>.<ext>")
	textPath := flag.String("text", "", "Path to save the document text in reading order")
	overlayPath := flag.String("overlay", "", "Path to save a PDF with the layout drawn over each page")

	flag.Parse()

	if *pdfPath == "" || *detPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -pdf, -detections and -out flags are required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}
	}

	logger, err := cfg.Logger()
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	doc, err := source.Open(*pdfPath)
	if err != nil {
		logger.Fatalf("Failed to open PDF: %v", err)
	}
	if *imagesDir != "" {
		doc = doc.WithImages(source.NewDirImages(*imagesDir))
	}

	det, err := loadDetections(*detPath, *format, *hocrScale)
	if err != nil {
		logger.Fatalf("Failed to load detections: %v", err)
	}

	provider := models.Default(cfg.Models(), logger)
	defer provider.Close()

	var writer raster.Writer
	if cfg.Output.MediaDir != "" {
		writer = raster.NewDirWriter(cfg.Output.MediaDir)
	}

	parser := pipeline.NewParserWithConfig(cfg.Pipeline(), provider, writer, logger)
	result, err := parser.ParseDocument(ctx, doc, det)
	if err != nil {
		logger.Fatalf("Error processing document: %v", err)
	}

	if err := writeJSON(*outPath, result); err != nil {
		logger.Fatalf("Failed to save document: %v", err)
	}
	logger.WithField("path", *outPath).Info("document saved")

	if *textPath != "" {
		if err := os.WriteFile(*textPath, []byte(result.Text()), 0o644); err != nil {
			logger.Fatalf("Failed to save text: %v", err)
		}
		logger.WithField("path", *textPath).Info("text saved")
	}

	if *overlayPath != "" {
		if err := writeOverlay(*overlayPath, result, doc.Bytes()); err != nil {
			logger.Fatalf("Failed to save overlay: %v", err)
		}
		logger.WithField("path", *overlayPath).Info("overlay saved")
	}
}

// loadDetections reads detector output in the given format
func loadDetections(path, format string, hocrScale float64) (detect.Source, error) {
	switch format {
	case "json":
		return detect.LoadFile(path)
	case "hocr":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return detect.FromHOCR(data, detect.HOCROptions{Scale: hocrScale})
	case "docai":
		return detect.LoadDocumentAIFile(path)
	default:
		return nil, fmt.Errorf("unknown detections format %q", format)
	}
}

func writeJSON(path string, doc *model.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return f.Close()
}

func writeOverlay(path string, doc *model.Document, src []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := debugdraw.DefaultOptions()
	opts.Source = src
	if err := debugdraw.Draw(f, doc, opts); err != nil {
		return err
	}
	return f.Close()
}
