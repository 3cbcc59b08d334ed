package spans

// Config holds the overlap thresholds used when filtering and assigning spans
type Config struct {
	// DiscardedOverlap is the overlap with a discarded block that keeps a
	// span as abandoned content. Default: 0.4
	DiscardedOverlap float64

	// KeptOverlap is the overlap with a kept block of the matching family
	// that keeps a span. Default: 0.5
	KeptOverlap float64

	// DuplicateOverlap is the mutual overlap above which the lower-scored of
	// two spans is dropped. Default: 0.9
	DuplicateOverlap float64

	// ContainedOverlap is the share of a span covered by a larger span above
	// which the smaller is dropped. Default: 0.65
	ContainedOverlap float64

	// FillThreshold is the minimum overlap for assigning a span to a kept
	// block. Default: 0.5
	FillThreshold float64

	// DiscardedFillThreshold is the minimum overlap for assigning a span to
	// a discarded block. Default: 0.4
	DiscardedFillThreshold float64

	// MinOCRConfidence is the confidence an OCR result must exceed to
	// replace an empty text span. Default: 0.5
	MinOCRConfidence float64
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		DiscardedOverlap:       0.4,
		KeptOverlap:            0.5,
		DuplicateOverlap:       0.9,
		ContainedOverlap:       0.65,
		FillThreshold:          0.5,
		DiscardedFillThreshold: 0.4,
		MinOCRConfidence:       0.5,
	}
}
