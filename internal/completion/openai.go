// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/healthpulse/pkg/types"
)

// OpenAIBackend calls the OpenAI chat completions API.
type OpenAIBackend struct {
	Model   string
	Timeout time.Duration
	Opts    []option.RequestOption
}

// NewOpenAI builds an OpenAI backend from cfg. The SDK's own retries are
// disabled; a failed call is reported once.
func NewOpenAI(cfg types.ModelConfig) *OpenAIBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIBackend{Model: cfg.ModelID, Timeout: cfg.Timeout(), Opts: opts}
}

// Name implements Backend.
func (o *OpenAIBackend) Name() string { return "openai" }

// Complete implements Backend.
func (o *OpenAIBackend) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	client := openai.NewClient(o.Opts...)

	var msgs []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.User))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.Model),
		Messages: msgs,
	})
	if err != nil {
		return "", classify(o.Name(), o.Timeout, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// isUnavailableAPIError reports OpenAI API errors that mean the service is
// overloaded or down.
func isUnavailableAPIError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}
