// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records pipeline stage durations, run outcomes and SEO
// scores in a Prometheus registry. A CLI run writes the registry to a
// node-exporter textfile; a nil *Metrics records nothing.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/healthpulse/pkg/types"
)

const namespace = "healthpulse"

// Run outcomes.
const (
	OutcomeApproved      = "approved"
	OutcomeNeedsRevision = "needs_revision"
	OutcomeConfigError   = "config_error"
	OutcomeFailed        = "failed"
)

// Metrics holds the collectors of one process.
type Metrics struct {
	Registry *prometheus.Registry

	StageDuration *prometheus.HistogramVec
	Runs          *prometheus.CounterVec
	Fallbacks     *prometheus.CounterVec
	Score         prometheus.Histogram
	WordCount     prometheus.Histogram
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
			},
			[]string{"stage", "status"},
		),
		Runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of pipeline runs by outcome",
			},
			[]string{"outcome", "demo"},
		),
		Fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "demo_fallbacks_total",
				Help:      "Stages that fell back to demo synthesis after a backend failure",
			},
			[]string{"stage"},
		),
		Score: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "seo_score",
			Help:      "Distribution of SEO total scores",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		WordCount: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "article_words",
			Help:      "Distribution of article body word counts",
			Buckets:   []float64{300, 750, 1500, 2000, 2500, 3000, 4500},
		}),
	}
}

// ObserveStage records one finished stage.
func (m *Metrics) ObserveStage(stage types.StageName, status types.StageStatus, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(string(stage), string(status)).Observe(d.Seconds())
}

// RecordFallback counts a stage that switched to the demo backend.
func (m *Metrics) RecordFallback(stage types.StageName) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(string(stage)).Inc()
}

// RecordRun records the outcome of a run. pkg is nil when err is set.
func (m *Metrics) RecordRun(pkg *types.FinalPackage, demo bool, err error) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(Outcome(pkg, err), boolLabel(demo)).Inc()
	if pkg != nil {
		m.Score.Observe(float64(pkg.Validation.TotalScore))
		m.WordCount.Observe(float64(pkg.WordCount()))
	}
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}

// Outcome classifies a run result.
func Outcome(pkg *types.FinalPackage, err error) string {
	var cfgErr *types.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return OutcomeConfigError
	case err != nil || pkg == nil:
		return OutcomeFailed
	case pkg.Metadata.Status == types.StatusApproved:
		return OutcomeApproved
	default:
		return OutcomeNeedsRevision
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
