// Package blocker is the client for the external network-blocking agent.
// When the agent is disabled or unreachable, blocks are simulated so policy
// enforcement never depends on its availability.
package blocker

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

// Config configures the blocking agent client.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// Client talks to the agent's REST interface.
type Client struct {
	baseURL string
	enabled bool
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a blocking agent client.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		enabled: cfg.Enabled,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "blocker").Logger(),
	}
}

// Enabled reports whether the client calls a real agent.
func (c *Client) Enabled() bool { return c.enabled }

type blockRequest struct {
	SourceIP    string   `json:"source_ip,omitempty"`
	Destination string   `json:"destination,omitempty"`
	EmailID     string   `json:"email_id,omitempty"`
	EntityTypes []string `json:"entity_types,omitempty"`
	Reason      string   `json:"reason"`
}

type blockResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BlockTransfer asks the agent to block a network transfer. With the agent
// disabled the block is simulated and reported as successful.
func (c *Client) BlockTransfer(ctx context.Context, sourceIP, destination string, entities []types.Detection, reason string) (bool, error) {
	if !c.enabled {
		c.logger.Debug().Str("source_ip", sourceIP).Msg("agent disabled, simulating transfer block")
		return true, nil
	}

	entityTypes := make([]string, 0, len(entities))
	for _, det := range entities {
		entityTypes = append(entityTypes, string(det.EntityType))
	}
	req := blockRequest{
		SourceIP:    sourceIP,
		Destination: destination,
		EntityTypes: entityTypes,
		Reason:      reason,
	}

	resp, err := c.post(ctx, "/api/v1/block", req)
	if err != nil {
		return false, fmt.Errorf("blocker: block transfer: %w", err)
	}
	return resp.Success, nil
}

// BlockEmail asks the agent to quarantine an outbound email.
func (c *Client) BlockEmail(ctx context.Context, emailID, reason string) (bool, error) {
	if !c.enabled {
		c.logger.Debug().Str("email_id", emailID).Msg("agent disabled, simulating email block")
		return true, nil
	}

	resp, err := c.post(ctx, "/api/v1/block-email", blockRequest{EmailID: emailID, Reason: reason})
	if err != nil {
		return false, fmt.Errorf("blocker: block email: %w", err)
	}
	return resp.Success, nil
}

func (c *Client) post(ctx context.Context, path string, payload blockRequest) (*blockResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent returned status %d", resp.StatusCode)
	}

	var out blockResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}
