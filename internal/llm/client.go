// Package llm is a minimal client for a local Ollama-compatible
// model server, used by the style engine for in-context translation.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "http://localhost:11434"

// Config holds connection settings for the model server.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultConfig reads OLLAMA_HOST when set, otherwise targets the
// standard local port.
func DefaultConfig(model string) *Config {
	baseURL := os.Getenv("OLLAMA_HOST")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Config{
		BaseURL: baseURL,
		Model:   model,
		Timeout: 120 * time.Second,
	}
}

// Client talks to the model server. Safe for concurrent use.
type Client struct {
	config *Config
	http   *http.Client
}

// NewClient builds a Client from config.
func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
	}
}

type generateRequest struct {
	Model     string           `json:"model"`
	Prompt    string           `json:"prompt"`
	Stream    bool             `json:"stream"`
	KeepAlive *int             `json:"keep_alive,omitempty"`
	Options   *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Generate sends one non-streaming completion request. Temperature
// is pinned to zero; subtitle translation wants determinism.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.generate(ctx, generateRequest{
		Model:   c.config.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: &generateOptions{Temperature: 0},
	})
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Unload asks the server to evict the model immediately so the next
// pipeline stage gets its accelerator memory back.
func (c *Client) Unload(ctx context.Context) error {
	zero := 0
	_, err := c.generate(ctx, generateRequest{
		Model:     c.config.Model,
		Stream:    false,
		KeepAlive: &zero,
	})
	return err
}

func (c *Client) generate(ctx context.Context, reqBody generateRequest) (*generateResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned %d: %s", resp.StatusCode, body)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("model server error: %s", out.Error)
	}
	return &out, nil
}
