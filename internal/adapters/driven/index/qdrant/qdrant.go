// Package qdrant is a minimal REST client for the Qdrant vector index.
// It speaks the collection-exists / create / upsert / search subset of
// the HTTP API and assumes cosine distance throughout.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultTimeout bounds each request to the index.
const DefaultTimeout = 60 * time.Second

const distanceCosine = "Cosine"

// Config holds connection details for a Qdrant server.
type Config struct {
	// URL is the Qdrant base URL (e.g. http://localhost:6333).
	URL string

	// APIKey is sent as the api-key header when non-empty.
	APIKey string

	// Timeout bounds each request (default: 60s).
	Timeout time.Duration
}

// Index is a Qdrant-backed vector index.
type Index struct {
	url    string
	apiKey string
	client *http.Client
}

// New creates a Qdrant index client.
func New(cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Index{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

// CollectionExists reports whether the named collection exists.
func (q *Index) CollectionExists(ctx context.Context, name string) (bool, error) {
	var resp struct {
		Result struct {
			Exists bool `json:"exists"`
		} `json:"result"`
	}
	err := q.do(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s/exists", q.url, name), nil, &resp)
	if err != nil {
		return false, err
	}
	return resp.Result.Exists, nil
}

// CollectionDimensions returns the vector size of an existing collection.
func (q *Index) CollectionDimensions(ctx context.Context, name string) (int, error) {
	var resp struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size     int    `json:"size"`
						Distance string `json:"distance"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	err := q.do(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", q.url, name), nil, &resp)
	if err != nil {
		return 0, err
	}
	return resp.Result.Config.Params.Vectors.Size, nil
}

// CreateCollection creates a collection with the given vector size and
// cosine distance.
func (q *Index) CreateCollection(ctx context.Context, name string, dim int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": distanceCosine,
		},
	}
	return q.do(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", q.url, name), body, nil)
}

// UpsertPoints inserts or overwrites points by id.
func (q *Index) UpsertPoints(ctx context.Context, name string, points []driven.Point) error {
	if len(points) == 0 {
		return nil
	}
	payload := make([]map[string]any, len(points))
	for i, p := range points {
		payload[i] = map[string]any{
			"id":     p.ID,
			"vector": p.Vector,
			"payload": map[string]any{
				"text": p.Text,
			},
		}
	}
	body := map[string]any{"points": payload}
	return q.do(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s/points?wait=true", q.url, name), body, nil)
}

// Query returns the top-k nearest neighbours with payloads.
func (q *Index) Query(ctx context.Context, name string, vector []float32, k int) ([]driven.Hit, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      int64   `json:"id"`
			Score   float64 `json:"score"`
			Payload struct {
				Text string `json:"text"`
			} `json:"payload"`
		} `json:"result"`
	}
	err := q.do(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/search", q.url, name), body, &resp)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, driven.Hit{
			ID:    r.ID,
			Score: r.Score,
			Text:  r.Payload.Text,
		})
	}
	return hits, nil
}

func (q *Index) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrVectorIndexUnavailable, method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("qdrant %s %s failed: %s: %s", method, url, resp.Status, string(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
