package detect

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// Load decodes and validates detections from JSON.
// Pages are ordered by page_idx, which must be contiguous from 0.
func Load(r io.Reader) (*Result, error) {
	var res Result
	dec := json.NewDecoder(r)
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode detections: %w", err)
	}

	sort.SliceStable(res.Pages, func(i, j int) bool {
		return res.Pages[i].PageIdx < res.Pages[j].PageIdx
	})
	for i, p := range res.Pages {
		if p.PageIdx != i {
			return nil, fmt.Errorf("detections: expected page %d, got %d", i, p.PageIdx)
		}
	}

	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detections: %w", err)
	}
	return &res, nil
}

// LoadFile reads detections from a JSON file
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open detections: %w", err)
	}
	defer f.Close()
	return Load(f)
}
