// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/healthpulse/internal/archive"
	"github.com/pdiddy/healthpulse/internal/export"
	"github.com/pdiddy/healthpulse/internal/secrets"
	"github.com/pdiddy/healthpulse/pkg/types"
)

func init() {
	viper.SetDefault("model.model_id", types.DefaultModel)
	viper.SetDefault("model.timeout_seconds", types.DefaultTimeoutSeconds)
	viper.SetDefault("model.use_demo_mode", false)
	viper.SetDefault("model.fallback_to_demo", false)
	viper.SetDefault("archive.enabled", true)
	viper.SetDefault("archive.path", archive.DefaultPath)
	viper.SetDefault("export.output_dir", export.DefaultDir)
	viper.SetDefault("export.formats", []string{string(export.Markdown)})
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

// loadConfig assembles the application configuration from viper. Keys
// mirror the yaml tags of types.AppConfig.
func loadConfig() types.AppConfig {
	return types.AppConfig{
		Model: types.ModelConfig{
			APIKey:         viper.GetString("model.api_key"),
			ModelID:        viper.GetString("model.model_id"),
			UseDemoMode:    viper.GetBool("model.use_demo_mode"),
			TimeoutSeconds: viper.GetInt("model.timeout_seconds"),
			FallbackToDemo: viper.GetBool("model.fallback_to_demo"),
			BaseURL:        viper.GetString("model.base_url"),
		},
		Archive: types.ArchiveConfig{
			Enabled: viper.GetBool("archive.enabled"),
			Path:    viper.GetString("archive.path"),
		},
		Export: types.ExportConfig{
			OutputDir: viper.GetString("export.output_dir"),
			Formats:   viper.GetStringSlice("export.formats"),
		},
		Logging: types.LoggingConfig{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		},
		Catalog:     viper.GetString("catalog"),
		MetricsFile: viper.GetString("metrics_file"),
	}
}

// addModelFlags registers the flags that override the model section of the
// configuration.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "model id (gpt-4o, gpt-4-turbo, gpt-4, gpt-3.5-turbo, claude-sonnet-4-5-20250929, claude-haiku-4-5)")
	cmd.Flags().String("api-key", "", "API key for the model provider (default: env or .secrets/)")
	cmd.Flags().Bool("demo", false, "use deterministic demo synthesis for every stage")
	cmd.Flags().Int("timeout", 0, "per-call backend timeout in seconds")
	cmd.Flags().Bool("fallback", false, "fall back to demo synthesis when the live backend is unavailable")
}

// modelConfig merges the model flags of cmd over the configured model and
// resolves the API key for the selected provider.
func modelConfig(cmd *cobra.Command) types.ModelConfig {
	cfg := appConfig.Model
	if cmd.Flags().Changed("model") {
		cfg.ModelID, _ = cmd.Flags().GetString("model")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds, _ = cmd.Flags().GetInt("timeout")
	}
	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		cfg.UseDemoMode = true
	}
	if fallback, _ := cmd.Flags().GetBool("fallback"); fallback {
		cfg.FallbackToDemo = true
	}

	explicit, _ := cmd.Flags().GetString("api-key")
	if strings.TrimSpace(explicit) == "" {
		explicit = cfg.APIKey
	}
	cfg.APIKey = secrets.Resolver{Secrets: loadedSecrets}.APIKey(cfg.Provider(), explicit)
	return cfg
}

// addOutputFlags registers the export and archive flags shared by the
// generating commands.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("format", nil, "export formats: markdown, html, txt, yaml, json (default from config)")
	cmd.Flags().String("output-dir", "", "directory for exported articles (default from config)")
	cmd.Flags().Bool("no-archive", false, "do not record the run in the archive")
}

// outputSettings resolves the export formats, directory and archive switch
// for cmd.
func outputSettings(cmd *cobra.Command) ([]export.Format, string, bool, error) {
	names := appConfig.Export.Formats
	if cmd.Flags().Changed("format") {
		names, _ = cmd.Flags().GetStringSlice("format")
	}
	formats, err := export.ParseFormats(names)
	if err != nil {
		return nil, "", false, err
	}

	dir := appConfig.Export.OutputDir
	if d, _ := cmd.Flags().GetString("output-dir"); d != "" {
		dir = d
	}
	if dir == "" {
		dir = export.DefaultDir
	}

	noArchive, _ := cmd.Flags().GetBool("no-archive")
	return formats, dir, appConfig.Archive.Enabled && !noArchive, nil
}

func archivePath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("archive"); p != "" {
		return p
	}
	return appConfig.Archive.Path
}
