// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/healthpulse/internal/archive"
	"github.com/pdiddy/healthpulse/internal/consolidate"
	"github.com/pdiddy/healthpulse/internal/export"
	"github.com/pdiddy/healthpulse/internal/pipeline"
	"github.com/pdiddy/healthpulse/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an SEO article for a healthcare topic",
	Long: `Generate runs the four-stage pipeline for one topic selection: trend
discovery picks the subtopic and keywords, the content writer drafts the
article, the SEO examiner scores it out of 100 and the consolidator packages
everything with an APPROVED or NEEDS_REVISION verdict.

The package is exported in the configured formats and recorded in the
archive. Use "healthpulse topics" to browse the catalog.`,
	Example: `  healthpulse generate --main "GOVERNMENT PLANS" --sub Medicare --topic "Part D" --demo
  healthpulse generate --main EXCHANGE --sub ALL --format markdown,html`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	sel := selectionFromFlags(cmd)
	cfg := modelConfig(cmd)
	formats, dir, archiveOn, err := outputSettings(cmd)
	if err != nil {
		return err
	}
	log := commandLogger(cmd)
	if !appCatalog.Known(sel) {
		log.Warn("selection is not in the catalog, using fallback title and keywords", "category", sel.Path())
	}
	if cfg.Demo() {
		fmt.Fprintln(os.Stderr, "Running in demo mode: no live model backend is used.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := pipeline.New(appCatalog, log, appMetrics)
	o.Progress = progressPrinter(os.Stderr)
	pkg, err := o.Run(ctx, sel, cfg)
	if err != nil {
		return explainRunError(err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(pkg); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(os.Stdout)
		fmt.Fprint(os.Stdout, consolidate.Summary(pkg))
		fmt.Fprintln(os.Stdout)
		if err := printFindings(os.Stdout, pkg.Validation); err != nil {
			return err
		}
	}

	return deliver(ctx, os.Stderr, []*types.FinalPackage{pkg}, formats, dir, archiveOn, archivePath(cmd))
}

// deliver exports each package and records it in the archive.
func deliver(ctx context.Context, w io.Writer, pkgs []*types.FinalPackage, formats []export.Format, dir string, archiveOn bool, dbPath string) error {
	for _, pkg := range pkgs {
		files, err := export.Write(dir, pkg, formats)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(w, "Wrote %s\n", f)
		}
	}
	if !archiveOn || len(pkgs) == 0 {
		return nil
	}

	store, err := archive.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	for _, pkg := range pkgs {
		if err := store.Save(ctx, pkg); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "Archived %d run(s) in %s\n", len(pkgs), dbPath)
	return nil
}

// explainRunError adds a hint to errors a user can act on.
func explainRunError(err error) error {
	var genErr *types.GenerationError
	if errors.As(err, &genErr) {
		return fmt.Errorf("%s failed: %w (use --demo to run without a live backend, or --fallback to fall back automatically)",
			stageLabel(genErr.Stage), err)
	}
	return err
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("main", "", "main category, e.g. \"GOVERNMENT PLANS\"")
	cmd.Flags().String("sub", types.AllTopics, "subcategory, or ALL for the whole category")
	cmd.Flags().String("topic", "", "specific topic below the subcategory")
}

func selectionFromFlags(cmd *cobra.Command) types.TopicSelection {
	category, _ := cmd.Flags().GetString("main")
	sub, _ := cmd.Flags().GetString("sub")
	topic, _ := cmd.Flags().GetString("topic")
	return types.TopicSelection{MainCategory: category, SubCategory: sub, SpecificTopic: topic}
}

func init() {
	addSelectionFlags(generateCmd)
	addModelFlags(generateCmd)
	addOutputFlags(generateCmd)
	generateCmd.Flags().Bool("json", false, "print the final package as JSON instead of the report")

	rootCmd.AddCommand(generateCmd)
}
