package folio

import (
	"github.com/sirupsen/logrus"

	"github.com/tsawler/folio/models"
	"github.com/tsawler/folio/ocr"
	"github.com/tsawler/folio/pipeline"
	"github.com/tsawler/folio/ranker"
	"github.com/tsawler/folio/raster"
	"github.com/tsawler/folio/source"
)

// ExtractOptions holds configuration for reconstruction.
type ExtractOptions struct {
	config pipeline.Config

	// Page range (1-indexed in the API, 0 means open-ended)
	firstPage int
	lastPage  int

	// Collaborators
	ranker   ranker.Ranker
	engine   ocr.Engine
	provider *models.Provider
	writer   raster.Writer
	images   source.ImageSource
	splitter pipeline.ParagraphSplitter
	logger   logrus.FieldLogger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	config := pipeline.DefaultConfig()
	config.FreeMemory = false
	return ExtractOptions{
		config: config,
	}
}

// clone creates a copy of ExtractOptions that shares no mutable state.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.config.EndPage != nil {
		end := *o.config.EndPage
		newOpts.config.EndPage = &end
	}
	return newOpts
}

// pipelineConfig returns the parser configuration with the page range
// applied
func (o ExtractOptions) pipelineConfig() pipeline.Config {
	c := o.clone().config
	if o.firstPage > 0 {
		c.StartPage = o.firstPage - 1
	}
	if o.lastPage > 0 {
		end := o.lastPage - 1
		c.EndPage = &end
	}
	return c
}

// modelProvider returns the configured provider, or one built from the
// individual collaborators
func (o ExtractOptions) modelProvider() *models.Provider {
	if o.provider != nil {
		return o.provider
	}
	return models.Static(o.ranker, o.engine)
}
