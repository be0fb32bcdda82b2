package types

import (
	"fmt"
	"strings"
	"time"
)

// Provider identifies the vendor behind a live completion model.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderDemo      Provider = "demo"
)

// SupportedModels is the model allow-list mapped to the provider that serves
// each model.
var SupportedModels = map[string]Provider{
	"gpt-4o":                     ProviderOpenAI,
	"gpt-4-turbo":                ProviderOpenAI,
	"gpt-4":                      ProviderOpenAI,
	"gpt-3.5-turbo":              ProviderOpenAI,
	"claude-sonnet-4-5-20250929": ProviderAnthropic,
	"claude-haiku-4-5":           ProviderAnthropic,
}

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o"

// DefaultTimeoutSeconds bounds each backend call when no timeout is set.
const DefaultTimeoutSeconds = 60

// ModelConfig selects and parameterises the text-completion backend for a run.
type ModelConfig struct {
	// APIKey authenticates the live backend. Empty selects demo mode.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ModelID must be one of SupportedModels.
	ModelID string `json:"model_id" yaml:"model_id"`

	// UseDemoMode forces the deterministic demo backend.
	UseDemoMode bool `json:"use_demo_mode" yaml:"use_demo_mode"`

	// TimeoutSeconds bounds each backend call. Zero means DefaultTimeoutSeconds.
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`

	// FallbackToDemo lets a stage re-issue a failed live request to the demo
	// backend instead of failing the run.
	FallbackToDemo bool `json:"fallback_to_demo" yaml:"fallback_to_demo"`

	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// Provider returns the provider for ModelID, or "" when the model is unknown.
func (c ModelConfig) Provider() Provider {
	return SupportedModels[c.ModelID]
}

// Demo reports whether the run uses the demo backend for every stage.
func (c ModelConfig) Demo() bool {
	return c.UseDemoMode || strings.TrimSpace(c.APIKey) == ""
}

// Timeout returns the per-call timeout.
func (c ModelConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the model against the allow-list and the timeout range.
func (c ModelConfig) Validate() error {
	if _, ok := SupportedModels[c.ModelID]; !ok {
		return &ConfigError{Field: "model_id", Message: fmt.Sprintf("unsupported model %q", c.ModelID)}
	}
	if c.TimeoutSeconds < 0 {
		return &ConfigError{Field: "timeout_seconds", Message: "must not be negative"}
	}
	return nil
}

// ArchiveConfig holds settings for the run archive.
type ArchiveConfig struct {
	// Enabled controls whether completed runs are stored.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default "output/healthpulse.db").
	Path string `json:"path" yaml:"path"`
}

// ExportConfig holds settings for writing finished packages to disk.
type ExportConfig struct {
	// OutputDir is the directory for exported documents (default "output/articles").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Formats lists export formats: markdown, html, txt, yaml, json.
	Formats []string `json:"formats" yaml:"formats"`
}

// LoggingConfig holds settings for structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is text or json.
	Format string `json:"format" yaml:"format"`
}

// AppConfig is the full configuration read from healthpulse.yaml.
type AppConfig struct {
	Model   ModelConfig   `json:"model" yaml:"model"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Catalog optionally replaces the embedded topic catalog at start-up.
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty"`

	// MetricsFile receives Prometheus metrics in text format after each command.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
}
