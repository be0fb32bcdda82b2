// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/healthpulse/internal/export"
	"github.com/pdiddy/healthpulse/internal/pipeline"
	"github.com/pdiddy/healthpulse/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch [topics.yaml]",
	Short: "Generate articles for many topics concurrently",
	Long: `Batch runs the pipeline for every selection in a topics file, or for
every selection in the catalog with --all. Runs are independent and execute
concurrently up to --concurrency. A failed run does not stop the others;
the command fails if any run failed.

The topics file is YAML:

  topics:
    - main_category: GOVERNMENT PLANS
      sub_category: Medicare
      specific_topic: Part D
    - main_category: EXCHANGE
      sub_category: ALL`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatchCmd,
}

// topicsFile is the on-disk format of a batch topics file.
type topicsFile struct {
	Topics []types.TopicSelection `yaml:"topics"`
}

func loadTopics(path string) ([]types.TopicSelection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file: %w", err)
	}
	var f topicsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing topics file %s: %w", path, err)
	}
	if len(f.Topics) == 0 {
		return nil, fmt.Errorf("topics file %s lists no topics", path)
	}
	for i, sel := range f.Topics {
		if err := sel.Validate(); err != nil {
			return nil, fmt.Errorf("topic %d in %s: %w", i+1, path, err)
		}
	}
	return f.Topics, nil
}

// batchSelections resolves the selections named by the batch flags and
// arguments of cmd.
func batchSelections(cmd *cobra.Command, args []string) ([]types.TopicSelection, error) {
	all, _ := cmd.Flags().GetBool("all")
	switch {
	case all && len(args) > 0:
		return nil, fmt.Errorf("use either a topics file or --all, not both")
	case all:
		return appCatalog.Selections(), nil
	case len(args) == 1:
		return loadTopics(args[0])
	}
	return nil, fmt.Errorf("a topics file or --all is required")
}

// batchResult is the outcome of one run in a batch.
type batchResult struct {
	Selection types.TopicSelection
	Package   *types.FinalPackage
	Err       error
}

// runBatch runs o for every selection with at most limit runs in flight.
// Results are returned in selection order.
func runBatch(ctx context.Context, o *pipeline.Orchestrator, sels []types.TopicSelection, cfg types.ModelConfig, limit int, log *slog.Logger) []batchResult {
	if limit < 1 {
		limit = 1
	}
	results := make([]batchResult, len(sels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, sel := range sels {
		g.Go(func() error {
			pkg, err := o.Run(gctx, sel, cfg)
			results[i] = batchResult{Selection: sel, Package: pkg, Err: err}
			if err != nil {
				log.Error("batch run failed", "category", sel.Path(), "error", err)
			} else {
				log.Info("batch run finished", "category", sel.Path(), "score", pkg.Validation.TotalScore, "status", pkg.Metadata.Status)
			}
			// Failures are reported per result so one run cannot cancel the rest.
			return nil
		})
	}
	g.Wait()
	return results
}

func printBatchResults(w io.Writer, results []batchResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			rows = append(rows, []string{r.Selection.Path(), "-", statusFailed, "-", r.Err.Error()})
			continue
		}
		p := r.Package
		rows = append(rows, []string{
			r.Selection.Path(),
			scoreString(p.Validation.TotalScore),
			statusString(p.Metadata.Status),
			strconv.Itoa(p.WordCount()),
			p.Draft.Title,
		})
	}
	return renderTable(w, []string{"Selection", "Score", "Status", "Words", "Title"}, rows)
}

const statusFailed = "FAILED"

func runBatchCmd(cmd *cobra.Command, args []string) error {
	sels, err := batchSelections(cmd, args)
	if err != nil {
		return err
	}
	cfg := modelConfig(cmd)
	formats, dir, archiveOn, err := outputSettings(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("concurrency")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := commandLogger(cmd)
	fmt.Fprintf(os.Stderr, "Generating %d article(s), %d at a time\n", len(sels), limit)
	results := runBatch(ctx, pipeline.New(appCatalog, log, appMetrics), sels, cfg, limit, log)

	if err := printBatchResults(os.Stdout, results); err != nil {
		return err
	}
	return deliverBatch(ctx, results, formats, dir, archiveOn, archivePath(cmd))
}

// deliverBatch exports and archives the successful runs and reports how
// many failed.
func deliverBatch(ctx context.Context, results []batchResult, formats []export.Format, dir string, archiveOn bool, dbPath string) error {
	var (
		pkgs   []*types.FinalPackage
		failed int
	)
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		pkgs = append(pkgs, r.Package)
	}
	if err := deliver(ctx, os.Stderr, pkgs, formats, dir, archiveOn, dbPath); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d run(s) failed", failed, len(results))
	}
	return nil
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("all", false, "generate every selection in the catalog")
	cmd.Flags().Int("concurrency", 2, "maximum runs in flight")
	addModelFlags(cmd)
	addOutputFlags(cmd)
}

func init() {
	addBatchFlags(batchCmd)
	rootCmd.AddCommand(batchCmd)
}
