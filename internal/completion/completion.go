// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package completion defines the text-completion capability the pipeline
// stages depend on, with live OpenAI and Claude implementations and a
// deterministic demo implementation selected by configuration.
package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/healthpulse/internal/httputil"
	"github.com/pdiddy/healthpulse/pkg/types"
)

// Task tells a backend what kind of text is being requested. Live backends
// only need the prompts; the demo backend synthesises from the task and the
// brief.
type Task string

const (
	TaskTrendFraming Task = "trend_framing"
	TaskArticle      Task = "article"
)

// Brief carries the structured inputs behind a request.
type Brief struct {
	Title             string
	Focus             string
	PrimaryKeyword    string
	SecondaryKeywords []string
	Sources           []string
	Category          string
	Subcategory       string
	Specific          string
}

// Request is a single completion request.
type Request struct {
	Task   Task
	System string
	User   string
	Brief  Brief
}

// Backend is an opaque text-completion service.
type Backend interface {
	// Name identifies the backend in logs and errors ("openai", "claude", "demo").
	Name() string

	// Complete returns the generated text for req.
	Complete(ctx context.Context, req Request) (string, error)
}

// New selects the backend for cfg. Demo configurations, and configurations
// without an API key, get the demo backend.
func New(cfg types.ModelConfig) (Backend, error) {
	if cfg.Demo() {
		return Demo{}, nil
	}
	switch cfg.Provider() {
	case types.ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case types.ProviderAnthropic:
		return NewClaude(cfg), nil
	}
	return nil, &types.ConfigError{Field: "model_id", Message: fmt.Sprintf("no backend for model %q", cfg.ModelID)}
}

// classify wraps transport-level failures in a BackendTimeoutError and adds
// the backend name to everything else.
func classify(backend string, timeout time.Duration, err error) error {
	if httputil.IsUnavailable(err) || isUnavailableAPIError(err) {
		return &types.BackendTimeoutError{Backend: backend, Timeout: timeout, Err: err}
	}
	return fmt.Errorf("%s: %w", backend, err)
}
