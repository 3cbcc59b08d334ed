package ranker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPConfig holds configuration for a remote LayoutReader service
type HTTPConfig struct {
	// Endpoint is the URL that accepts ranking requests
	Endpoint string

	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
}

// DefaultHTTPConfig returns the configuration for a local service
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Endpoint: "http://127.0.0.1:8000/predict",
		Timeout:  30 * time.Second,
	}
}

// HTTPRanker calls a LayoutReader model served over HTTP.
//
// The request body is {"boxes": [[x0, y0, x1, y1], ...]} in the 0-1000
// space and the response is {"order": [i, ...]}.
type HTTPRanker struct {
	config HTTPConfig
	client *http.Client
}

type rankRequest struct {
	Boxes [][4]int `json:"boxes"`
}

type rankResponse struct {
	Order []int  `json:"order"`
	Error string `json:"error,omitempty"`
}

// NewHTTPRanker creates a ranker for the given service
func NewHTTPRanker(config HTTPConfig) *HTTPRanker {
	return &HTTPRanker{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Rank implements Ranker
func (r *HTTPRanker) Rank(ctx context.Context, boxes [][4]int) ([]int, error) {
	body, err := json.Marshal(rankRequest{Boxes: boxes})
	if err != nil {
		return nil, fmt.Errorf("failed to encode ranking request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create ranking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ranking request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking response: %w", err)
	}

	var out rankResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode ranking response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ranking service returned %d: %s", resp.StatusCode, out.Error)
	}
	return out.Order, nil
}
