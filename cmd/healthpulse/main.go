// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the healthpulse CLI. It generates SEO
// articles about US healthcare topics through the four-stage pipeline and
// manages the archive of past runs.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/healthpulse/internal/catalog"
	"github.com/pdiddy/healthpulse/internal/logging"
	"github.com/pdiddy/healthpulse/internal/metrics"
	"github.com/pdiddy/healthpulse/internal/secrets"
	"github.com/pdiddy/healthpulse/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Process-wide state prepared by the root command before any subcommand runs.
var (
	loadedSecrets map[string]string
	appConfig     types.AppConfig
	logger        = logging.Discard()
	appMetrics    *metrics.Metrics
	appCatalog    = catalog.Default()
)

// rootCmd is the base command for the healthpulse CLI.
var rootCmd = &cobra.Command{
	Use:   "healthpulse",
	Short: "Multi-agent SEO content generation for US healthcare topics",
	Long: `healthpulse turns a topic from the US healthcare catalog into a publishable,
SEO-scored article. Each run passes through four stages: trend discovery,
content writing, SEO examination and consolidation.

Without an API key every stage uses deterministic demo synthesis, so the
whole pipeline can be exercised offline. Finished packages are exported to
output/articles/ and recorded in a local SQLite archive.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		appConfig = loadConfig()
		logger = logging.New(os.Stderr, appConfig.Logging.Level, appConfig.Logging.Format)
		appMetrics = metrics.New()

		if appConfig.Catalog != "" {
			c, err := catalog.Load(appConfig.Catalog)
			if err != nil {
				return err
			}
			appCatalog = c
			logger.Info("catalog loaded", "path", appConfig.Catalog, "categories", len(c.Categories))
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appConfig.MetricsFile == "" {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(appConfig.MetricsFile), 0o755); err != nil {
			return fmt.Errorf("creating metrics directory: %w", err)
		}
		return appMetrics.WriteTextfile(appConfig.MetricsFile)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./healthpulse.yaml or ~/.config/healthpulse/config.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of API key files")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")

	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("healthpulse")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "healthpulse"))
		}
	}

	viper.SetEnvPrefix("HEALTHPULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("model.model_id", "HEALTHPULSE_MODEL_MODEL_ID", "OPENAI_MODEL")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// commandLogger tags the process logger with the running command.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	return logger.With("command", cmd.Name())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
