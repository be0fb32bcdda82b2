// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/healthpulse/internal/httputil"
	"github.com/pdiddy/healthpulse/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// claudeMaxTokens leaves room for a 3000-word article.
const claudeMaxTokens = 8192

// ClaudeBackend calls the Claude Messages API.
type ClaudeBackend struct {
	APIKey  string
	Model   string
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// NewClaude builds a Claude backend from cfg.
func NewClaude(cfg types.ModelConfig) *ClaudeBackend {
	url := claudeAPIURL
	if cfg.BaseURL != "" {
		url = strings.TrimRight(cfg.BaseURL, "/") + "/v1/messages"
	}
	return &ClaudeBackend{
		APIKey:  cfg.APIKey,
		Model:   cfg.ModelID,
		URL:     url,
		Timeout: cfg.Timeout(),
	}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Name implements Backend.
func (c *ClaudeBackend) Name() string { return "claude" }

// Complete implements Backend.
func (c *ClaudeBackend) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	body := claudeRequest{
		Model:     c.Model,
		MaxTokens: claudeMaxTokens,
		System:    req.System,
		Messages:  []claudeMessage{{Role: "user", Content: req.User}},
	}
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": "2023-06-01",
	}

	url := c.URL
	if url == "" {
		url = claudeAPIURL
	}

	var resp claudeResponse
	if err := httputil.PostJSON(ctx, c.Client, url, headers, body, &resp); err != nil {
		return "", classify(c.Name(), c.Timeout, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("claude: no text content in response")
	}
	return text.String(), nil
}
