// Package recognizer is the client for the external NER analyzer service.
// It satisfies the detector's EntityRecognizer interface; any failure here
// makes the detector fall back to its regex cascade.
package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ul8ziz/Integrated-Data-Protection-System/pkg/dlp/types"
)

// Config configures the analyzer client.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Client calls the analyzer's REST interface.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates an analyzer client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "recognizer").Logger(),
	}
}

type analyzeRequest struct {
	Text     string   `json:"text"`
	Language string   `json:"language"`
	Entities []string `json:"entities,omitempty"`
}

type analyzeFinding struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"`
}

// Analyze sends text to the analyzer and maps its findings to detections.
// Findings with spans outside the text are dropped with a warning rather
// than failing the whole call.
func (c *Client) Analyze(ctx context.Context, text, language string, entityTypes []types.EntityType) ([]types.Detection, error) {
	entities := make([]string, 0, len(entityTypes))
	for _, et := range entityTypes {
		entities = append(entities, string(et))
	}

	body, err := json.Marshal(analyzeRequest{Text: text, Language: language, Entities: entities})
	if err != nil {
		return nil, fmt.Errorf("recognizer: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("recognizer: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognizer: calling analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognizer: analyzer returned status %d", resp.StatusCode)
	}

	var findings []analyzeFinding
	if err := json.NewDecoder(resp.Body).Decode(&findings); err != nil {
		return nil, fmt.Errorf("recognizer: decoding response: %w", err)
	}

	detections := make([]types.Detection, 0, len(findings))
	for _, f := range findings {
		if f.Start < 0 || f.End > len(text) || f.Start >= f.End {
			c.logger.Warn().Str("entity_type", f.EntityType).
				Int("start", f.Start).Int("end", f.End).
				Msg("dropping finding with out-of-range span")
			continue
		}
		detections = append(detections, types.Detection{
			EntityType: types.EntityType(f.EntityType),
			Start:      f.Start,
			End:        f.End,
			Score:      f.Score,
			Value:      text[f.Start:f.End],
		})
	}
	return detections, nil
}

// Healthy probes the analyzer's health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
