// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the four content stages in order and turns their
// artifacts into a final package. It owns backend selection, progress
// reporting, demo fallback bookkeeping and error classification.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/healthpulse/internal/catalog"
	"github.com/pdiddy/healthpulse/internal/completion"
	"github.com/pdiddy/healthpulse/internal/consolidate"
	"github.com/pdiddy/healthpulse/internal/logging"
	"github.com/pdiddy/healthpulse/internal/metrics"
	"github.com/pdiddy/healthpulse/internal/seo"
	"github.com/pdiddy/healthpulse/internal/trend"
	"github.com/pdiddy/healthpulse/internal/writer"
	"github.com/pdiddy/healthpulse/pkg/types"
)

// Stage is one step of the pipeline. Each stage receives only its
// contractual inputs and returns exactly one artifact.
type Stage[In, Out any] interface {
	Name() types.StageName
	Run(ctx context.Context, in In) (Out, error)
}

var (
	_ Stage[types.TopicSelection, types.TrendArtifact] = (*trend.Discoverer)(nil)
	_ Stage[writer.Input, types.ArticleDraft]          = (*writer.Writer)(nil)
	_ Stage[seo.Input, types.ValidationResult]         = (*seo.Examiner)(nil)
	_ Stage[consolidate.Input, *types.FinalPackage]    = (*consolidate.Consolidator)(nil)
)

// ProgressFunc receives stage transitions in run order.
type ProgressFunc func(types.ProgressEvent)

// Orchestrator runs the pipeline. The zero value is usable: it scores with
// the embedded catalog, logs nothing and records no metrics.
type Orchestrator struct {
	Catalog  *catalog.Catalog
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Progress ProgressFunc

	// Now stamps GeneratedAt. Defaults to time.Now.
	Now func() time.Time

	// NewBackend selects the completion backend. Defaults to completion.New.
	NewBackend func(types.ModelConfig) (completion.Backend, error)

	// NewRunID returns a run identifier. Defaults to a random UUID.
	NewRunID func() string
}

// New returns an Orchestrator over cat.
func New(cat *catalog.Catalog, logger *slog.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{Catalog: cat, Logger: logger, Metrics: m}
}

// Run generates the content package for topic. Configuration problems are
// reported as *types.ConfigError before any stage runs or any progress
// event is emitted. The first failing stage ends the run with a
// *types.GenerationError; a cancelled context ends it between stages with a
// GenerationError naming the stage that did not start.
func (o *Orchestrator) Run(ctx context.Context, topic types.TopicSelection, cfg types.ModelConfig) (*types.FinalPackage, error) {
	pkg, err := o.run(ctx, topic, cfg)
	o.Metrics.RecordRun(pkg, cfg.Demo(), err)
	return pkg, err
}

func (o *Orchestrator) run(ctx context.Context, topic types.TopicSelection, cfg types.ModelConfig) (*types.FinalPackage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := topic.Validate(); err != nil {
		return nil, err
	}
	newBackend := o.NewBackend
	if newBackend == nil {
		newBackend = completion.New
	}
	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	cat := o.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	newRunID := o.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}
	runID := newRunID()
	logger := o.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	r := &run{
		log:      logger.With("run_id", runID),
		metrics:  o.Metrics,
		progress: o.Progress,
		meta: types.PackageMetadata{
			RunID:        runID,
			CategoryPath: topic.Path(),
			ModelID:      cfg.ModelID,
			DemoMode:     cfg.Demo(),
		},
	}
	r.log.Info("run started", "category", r.meta.CategoryPath, "model", cfg.ModelID, "backend", backend.Name(), "demo", cfg.Demo())

	discoverer := trend.New(cat, r.backendFor(types.StageTrendDiscovery, backend, cfg))
	drafter := writer.New(r.backendFor(types.StageContentWriter, backend, cfg))
	examiner := seo.New(cat)
	consolidator := &consolidate.Consolidator{Now: o.Now}

	art, err := runStage[types.TopicSelection, types.TrendArtifact](ctx, r, discoverer, topic)
	if err != nil {
		return nil, err
	}
	draft, err := runStage[writer.Input, types.ArticleDraft](ctx, r, drafter, writer.Input{Topic: topic, Trend: art.Clone()})
	if err != nil {
		return nil, err
	}
	result, err := runStage[seo.Input, types.ValidationResult](ctx, r, examiner, seo.Input{Draft: draft.Clone(), Trend: art.Clone()})
	if err != nil {
		return nil, err
	}
	pkg, err := runStage[consolidate.Input, *types.FinalPackage](ctx, r, consolidator, consolidate.Input{
		Draft:      draft,
		Validation: result,
		Trend:      art,
		Metadata:   r.meta,
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("run finished",
		"score", pkg.Validation.TotalScore,
		"status", pkg.Metadata.Status,
		"words", pkg.WordCount(),
		"fallback_stages", len(pkg.Metadata.FallbackStages))
	return pkg, nil
}

// run is the per-run state shared by the stages.
type run struct {
	log      *slog.Logger
	metrics  *metrics.Metrics
	progress ProgressFunc
	meta     types.PackageMetadata
}

func (r *run) emit(ev types.ProgressEvent) {
	if r.progress != nil {
		r.progress(ev)
	}
}

// backendFor wraps a live backend so an unavailable backend falls back to
// demo synthesis for stage, when the configuration allows it.
func (r *run) backendFor(stage types.StageName, backend completion.Backend, cfg types.ModelConfig) completion.Backend {
	if cfg.Demo() || !cfg.FallbackToDemo {
		return backend
	}
	return &completion.Fallback{
		Primary:   backend,
		Secondary: completion.Demo{},
		OnFallback: func(err error) {
			r.log.Warn("backend unavailable, using demo synthesis", "stage", stage, "error", err)
			r.meta.FallbackStages = append(r.meta.FallbackStages, stage)
			r.metrics.RecordFallback(stage)
		},
	}
}

func runStage[In, Out any](ctx context.Context, r *run, s Stage[In, Out], in In) (Out, error) {
	var zero Out
	name := s.Name()
	if err := ctx.Err(); err != nil {
		r.log.Warn("run cancelled", "stage", name, "error", err)
		return zero, &types.GenerationError{Stage: name, Detail: "run cancelled before stage started", Err: err}
	}

	r.emit(types.ProgressEvent{Stage: name, Status: types.StageStarted})
	start := time.Now()
	out, err := s.Run(ctx, in)
	elapsed := time.Since(start)

	if err != nil {
		err = asGenerationError(name, err)
		r.metrics.ObserveStage(name, types.StageFailed, elapsed)
		r.log.Error("stage failed", "stage", name, "elapsed", elapsed, "error", err)
		r.emit(types.ProgressEvent{Stage: name, Status: types.StageFailed, ElapsedMs: elapsed.Milliseconds(), Err: err})
		return zero, err
	}

	r.metrics.ObserveStage(name, types.StageCompleted, elapsed)
	r.log.Debug("stage completed", "stage", name, "elapsed", elapsed)
	r.emit(types.ProgressEvent{Stage: name, Status: types.StageCompleted, ElapsedMs: elapsed.Milliseconds()})
	return out, nil
}

func asGenerationError(stage types.StageName, err error) error {
	var genErr *types.GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &types.GenerationError{Stage: stage, Detail: "stage failed", Err: err}
}
