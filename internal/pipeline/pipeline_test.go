// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/healthpulse/internal/completion"
	"github.com/pdiddy/healthpulse/internal/metrics"
	"github.com/pdiddy/healthpulse/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	partD    = types.TopicSelection{MainCategory: "GOVERNMENT PLANS", SubCategory: "Medicare", SpecificTopic: "Part D"}
	medicare = types.TopicSelection{MainCategory: "GOVERNMENT PLANS", SubCategory: "Medicare"}
	fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	demoCfg  = types.ModelConfig{ModelID: "gpt-4o", UseDemoMode: true}
	liveCfg  = types.ModelConfig{ModelID: "gpt-4o", APIKey: "sk-test", TimeoutSeconds: 5}
)

// liveStub plays a live backend: tasks listed in fail return that error,
// everything else is answered by the demo backend.
type liveStub struct {
	fail  map[completion.Task]error
	calls []completion.Task
}

func (s *liveStub) Name() string { return "openai" }

func (s *liveStub) Complete(ctx context.Context, req completion.Request) (string, error) {
	s.calls = append(s.calls, req.Task)
	if err := s.fail[req.Task]; err != nil {
		return "", err
	}
	return completion.Demo{}.Complete(ctx, req)
}

type recorder struct {
	events []types.ProgressEvent
}

func (r *recorder) record(ev types.ProgressEvent) { r.events = append(r.events, ev) }

func (r *recorder) statuses() []string {
	var out []string
	for _, ev := range r.events {
		out = append(out, string(ev.Stage)+":"+string(ev.Status))
	}
	return out
}

func newTestOrchestrator(rec *recorder, backend completion.Backend) *Orchestrator {
	o := &Orchestrator{
		Progress: rec.record,
		Now:      func() time.Time { return fixedNow },
		NewRunID: func() string { return "run-test" },
	}
	if backend != nil {
		o.NewBackend = func(types.ModelConfig) (completion.Backend, error) { return backend, nil }
	}
	return o
}

var allCompleted = []string{
	"trend_discovery:started", "trend_discovery:completed",
	"content_writer:started", "content_writer:completed",
	"seo_examiner:started", "seo_examiner:completed",
	"consolidator:started", "consolidator:completed",
}

func TestRun_DemoMode(t *testing.T) {
	rec := &recorder{}
	pkg, err := newTestOrchestrator(rec, nil).Run(context.Background(), medicare, demoCfg)
	require.NoError(t, err)
	require.NotNil(t, pkg)

	assert.Equal(t, allCompleted, rec.statuses())
	for _, ev := range rec.events {
		assert.GreaterOrEqual(t, ev.ElapsedMs, int64(0))
		assert.NoError(t, ev.Err)
	}

	assert.Contains(t, pkg.Draft.Title, "Medicare")
	assert.Equal(t, "Medicare", pkg.Trend.PrimaryKeyword)
	assert.NotEmpty(t, pkg.Trend.Sources)
	assert.Equal(t, 1, pkg.Draft.HeadingCount(types.H1))
	assert.GreaterOrEqual(t, pkg.Validation.TotalScore, 70)
	assert.True(t, pkg.Validation.Passed)
	assert.Equal(t, types.StatusApproved, pkg.Metadata.Status)
	assert.True(t, pkg.Metadata.DemoMode)
	assert.Empty(t, pkg.Metadata.FallbackStages)
	assert.Equal(t, "run-test", pkg.Metadata.RunID)
	assert.Equal(t, "GOVERNMENT PLANS - Medicare", pkg.Metadata.CategoryPath)
	assert.Equal(t, "gpt-4o", pkg.Metadata.ModelID)
	assert.Equal(t, fixedNow, pkg.GeneratedAt)
}

func TestRun_NoAPIKeyMeansDemo(t *testing.T) {
	pkg, err := newTestOrchestrator(&recorder{}, nil).Run(context.Background(), partD, types.ModelConfig{ModelID: "claude-haiku-4-5"})
	require.NoError(t, err)
	assert.True(t, pkg.Metadata.DemoMode)
}

func TestRun_Deterministic(t *testing.T) {
	a, err := newTestOrchestrator(&recorder{}, nil).Run(context.Background(), partD, demoCfg)
	require.NoError(t, err)
	b, err := newTestOrchestrator(&recorder{}, nil).Run(context.Background(), partD, demoCfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_ConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		topic types.TopicSelection
		cfg   types.ModelConfig
		field string
	}{
		{"unsupported model", partD, types.ModelConfig{ModelID: "gpt-5", UseDemoMode: true}, "model_id"},
		{"empty model", partD, types.ModelConfig{UseDemoMode: true}, "model_id"},
		{"negative timeout", partD, types.ModelConfig{ModelID: "gpt-4o", TimeoutSeconds: -1}, "timeout_seconds"},
		{"empty main category", types.TopicSelection{SubCategory: "Medicare"}, demoCfg, "main_category"},
		{"empty subcategory", types.TopicSelection{MainCategory: "EXCHANGE"}, demoCfg, "sub_category"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			pkg, err := newTestOrchestrator(rec, nil).Run(context.Background(), tc.topic, tc.cfg)
			assert.Nil(t, pkg)

			var cfgErr *types.ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tc.field, cfgErr.Field)
			assert.Empty(t, rec.events)
		})
	}
}

func TestRun_BackendSelectionError(t *testing.T) {
	o := newTestOrchestrator(&recorder{}, nil)
	o.NewBackend = func(types.ModelConfig) (completion.Backend, error) {
		return nil, &types.ConfigError{Field: "model_id", Message: "no backend"}
	}
	_, err := o.Run(context.Background(), partD, liveCfg)
	var cfgErr *types.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestRun_BackendTimeoutFailsStage(t *testing.T) {
	timeout := &types.BackendTimeoutError{Backend: "openai", Timeout: 5 * time.Second, Err: context.DeadlineExceeded}
	live := &liveStub{fail: map[completion.Task]error{completion.TaskTrendFraming: timeout}}
	rec := &recorder{}

	pkg, err := newTestOrchestrator(rec, live).Run(context.Background(), partD, liveCfg)
	assert.Nil(t, pkg)

	var genErr *types.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, types.StageTrendDiscovery, genErr.Stage)
	var timeoutErr *types.BackendTimeoutError
	assert.True(t, errors.As(err, &timeoutErr))

	assert.Equal(t, []string{"trend_discovery:started", "trend_discovery:failed"}, rec.statuses())
	assert.Equal(t, err, rec.events[1].Err)
}

func TestRun_WriterFailureStopsRun(t *testing.T) {
	live := &liveStub{fail: map[completion.Task]error{completion.TaskArticle: errors.New("openai: 401 unauthorized")}}
	rec := &recorder{}

	_, err := newTestOrchestrator(rec, live).Run(context.Background(), partD, liveCfg)
	var genErr *types.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, types.StageContentWriter, genErr.Stage)
	assert.Equal(t, []string{
		"trend_discovery:started", "trend_discovery:completed",
		"content_writer:started", "content_writer:failed",
	}, rec.statuses())
}

func TestRun_FallbackToDemo(t *testing.T) {
	timeout := &types.BackendTimeoutError{Backend: "openai", Err: context.DeadlineExceeded}
	live := &liveStub{fail: map[completion.Task]error{
		completion.TaskTrendFraming: timeout,
		completion.TaskArticle:      timeout,
	}}
	cfg := liveCfg
	cfg.FallbackToDemo = true
	rec := &recorder{}
	m := metrics.New()
	o := newTestOrchestrator(rec, live)
	o.Metrics = m

	pkg, err := o.Run(context.Background(), partD, cfg)
	require.NoError(t, err)
	assert.Equal(t, allCompleted, rec.statuses())
	assert.False(t, pkg.Metadata.DemoMode)
	assert.Equal(t, []types.StageName{types.StageTrendDiscovery, types.StageContentWriter}, pkg.Metadata.FallbackStages)
	assert.Equal(t, types.StatusApproved, pkg.Metadata.Status)
	assert.Equal(t, []completion.Task{completion.TaskTrendFraming, completion.TaskArticle}, live.calls)

	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `healthpulse_demo_fallbacks_total{stage="content_writer"} 1`)
	assert.Contains(t, string(data), `healthpulse_runs_total{demo="false",outcome="approved"} 1`)
}

func TestRun_FallbackIgnoresNonTransportErrors(t *testing.T) {
	live := &liveStub{fail: map[completion.Task]error{completion.TaskArticle: errors.New("openai: 400 bad request")}}
	cfg := liveCfg
	cfg.FallbackToDemo = true

	_, err := newTestOrchestrator(&recorder{}, live).Run(context.Background(), partD, cfg)
	var genErr *types.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, types.StageContentWriter, genErr.Stage)
}

func TestRun_CancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{}
	o := newTestOrchestrator(rec, nil)
	o.Progress = func(ev types.ProgressEvent) {
		rec.record(ev)
		if ev.Stage == types.StageTrendDiscovery && ev.Status == types.StageCompleted {
			cancel()
		}
	}

	pkg, err := o.Run(ctx, partD, demoCfg)
	assert.Nil(t, pkg)
	assert.True(t, errors.Is(err, context.Canceled))
	var genErr *types.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, types.StageContentWriter, genErr.Stage)
	assert.Equal(t, []string{"trend_discovery:started", "trend_discovery:completed"}, rec.statuses())
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}

	_, err := newTestOrchestrator(rec, nil).Run(ctx, partD, demoCfg)
	var genErr *types.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, types.StageTrendDiscovery, genErr.Stage)
	assert.Empty(t, rec.events)
}

func TestRun_ZeroOrchestrator(t *testing.T) {
	pkg, err := (&Orchestrator{}).Run(context.Background(), partD, demoCfg)
	require.NoError(t, err)
	assert.Len(t, pkg.Metadata.RunID, 36)
	assert.False(t, pkg.GeneratedAt.IsZero())
}
