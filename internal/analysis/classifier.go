package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/lumina/glow-platform/internal/config"
	"github.com/lumina/glow-platform/internal/domain"
)

// Classifier ranks style labels for an image. Implementations make a single
// attempt; the pipeline falls back to defaults on any failure.
type Classifier interface {
	Classify(ctx context.Context, imageData []byte) ([]domain.StyleTag, error)
}

// HTTPClassifier calls an external classification endpoint. One attempt per
// call, no retry: a stale style label is worse than a default one.
type HTTPClassifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClassifier builds a classifier client from config.
func NewHTTPClassifier(cfg config.ClassifierConfig) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout()},
	}
}

type classifyResponse struct {
	Tags []domain.StyleTag `json:"tags"`
}

// Classify posts the image and returns the ranked tags, highest score first.
func (c *HTTPClassifier) Classify(ctx context.Context, imageData []byte) ([]domain.StyleTag, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("building classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, string(body))
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding classifier response: %w", err)
	}

	tags := out.Tags
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Score > tags[j].Score })
	return tags, nil
}
