// Package mt is a client for a LibreTranslate-compatible local
// translation endpoint, the last-resort stage of the English
// translation cascade. Its output is Simplified script; the style
// engine normalizes it before acceptance.
package mt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds connection settings for the translation server.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig targets the standard local LibreTranslate port.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:5000",
		Timeout: 30 * time.Second,
	}
}

// Client talks to the translation server. Safe for concurrent use.
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

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// Translate translates English text to Chinese.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: "en",
		Target: "zh",
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation server request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation server returned %d: %s", resp.StatusCode, body)
	}

	var out translateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("translation server error: %s", out.Error)
	}
	return out.TranslatedText, nil
}
