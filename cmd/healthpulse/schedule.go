// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/healthpulse/internal/pipeline"
	"github.com/pdiddy/healthpulse/pkg/types"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [topics.yaml]",
	Short: "Generate articles on a cron schedule",
	Long: `Schedule runs a batch on a standard five-field cron expression until
interrupted. Each tick generates the next --per-tick selections from the
topics file (or the catalog with --all), cycling back to the start when the
list is exhausted. Ticks that fire while a previous tick is still running
are skipped.`,
	Example: `  healthpulse schedule --all --cron "0 6 * * 1-5" --per-tick 3
  healthpulse schedule topics.yaml --cron "@hourly" --demo`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchedule,
}

// rotation hands out selections round-robin.
type rotation struct {
	mu   sync.Mutex
	sels []types.TopicSelection
	next int
}

func (r *rotation) take(n int) []types.TopicSelection {
	r.mu.Lock()
	defer r.mu.Unlock()
	n = max(1, min(n, len(r.sels)))
	out := make([]types.TopicSelection, 0, n)
	for range n {
		out = append(out, r.sels[r.next])
		r.next = (r.next + 1) % len(r.sels)
	}
	return out
}

func runSchedule(cmd *cobra.Command, args []string) error {
	sels, err := batchSelections(cmd, args)
	if err != nil {
		return err
	}
	cfg := modelConfig(cmd)
	formats, dir, archiveOn, err := outputSettings(cmd)
	if err != nil {
		return err
	}
	spec, _ := cmd.Flags().GetString("cron")
	perTick, _ := cmd.Flags().GetInt("per-tick")
	limit, _ := cmd.Flags().GetInt("concurrency")
	dbPath := archivePath(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := commandLogger(cmd)
	o := pipeline.New(appCatalog, log, appMetrics)
	rot := &rotation{sels: sels}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = c.AddFunc(spec, func() {
		batch := rot.take(perTick)
		log.Info("scheduled batch started", "runs", len(batch))
		results := runBatch(ctx, o, batch, cfg, limit, log)
		if err := deliverBatch(ctx, results, formats, dir, archiveOn, dbPath); err != nil {
			log.Error("scheduled batch incomplete", "error", err)
		}
		if appConfig.MetricsFile != "" {
			if err := appMetrics.WriteTextfile(appConfig.MetricsFile); err != nil {
				log.Error("writing metrics", "error", err)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	c.Start()
	fmt.Fprintf(os.Stderr, "Scheduled %d selection(s) on %q, %d per tick. Press Ctrl+C to stop.\n", len(sels), spec, perTick)
	<-ctx.Done()

	fmt.Fprintln(os.Stderr, "Stopping scheduler, waiting for the running batch...")
	<-c.Stop().Done()
	return nil
}

func init() {
	scheduleCmd.Flags().String("cron", "0 6 * * *", "cron expression for batch ticks")
	scheduleCmd.Flags().Int("per-tick", 1, "selections generated per tick")
	addBatchFlags(scheduleCmd)

	rootCmd.AddCommand(scheduleCmd)
}
