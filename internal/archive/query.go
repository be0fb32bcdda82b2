// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/pdiddy/healthpulse/pkg/types"
)

// ListOptions filters archived runs. Zero values mean no filter.
type ListOptions struct {
	// Query is an FTS5 match expression over title and body. Results are
	// ranked by relevance when set, newest first otherwise. Without FTS5 the
	// query is matched as a plain substring.
	Query string

	// Status keeps runs with this package status.
	Status types.PackageStatus

	// Category keeps runs whose category path starts with this prefix.
	Category string

	// MinScore keeps runs scoring at least this much.
	MinScore int

	// Since keeps runs generated at or after this time.
	Since time.Time

	// Limit caps the result count. Zero uses the default of 20.
	Limit int
}

// RunSummary is the listing view of an archived run.
type RunSummary struct {
	ID             string              `json:"id" yaml:"id"`
	Title          string              `json:"title" yaml:"title"`
	CategoryPath   string              `json:"category_path" yaml:"category_path"`
	PrimaryKeyword string              `json:"primary_keyword" yaml:"primary_keyword"`
	ModelID        string              `json:"model_id" yaml:"model_id"`
	DemoMode       bool                `json:"demo_mode" yaml:"demo_mode"`
	Status         types.PackageStatus `json:"status" yaml:"status"`
	TotalScore     int                 `json:"total_score" yaml:"total_score"`
	WordCount      int                 `json:"word_count" yaml:"word_count"`
	GeneratedAt    time.Time           `json:"generated_at" yaml:"generated_at"`
}

// List returns archived runs matching opts.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]RunSummary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	q := sq.Select("r.id", "r.title", "r.category_path", "r.primary_keyword", "r.model_id",
		"r.demo_mode", "r.status", "r.total_score", "r.word_count", "r.generated_at")
	switch {
	case opts.Query != "" && s.fts:
		q = q.From("runs_fts").
			Join("runs r ON r.rowid = runs_fts.rowid").
			Where("runs_fts MATCH ?", opts.Query).
			OrderBy("runs_fts.rank")
	case opts.Query != "":
		like := "%" + opts.Query + "%"
		q = q.From("runs r").
			Where(sq.Or{sq.Like{"r.title": like}, sq.Like{"r.body": like}}).
			OrderBy("r.generated_at DESC", "r.rowid DESC")
	default:
		q = q.From("runs r").OrderBy("r.generated_at DESC", "r.rowid DESC")
	}
	if opts.Status != "" {
		q = q.Where(sq.Eq{"r.status": string(opts.Status)})
	}
	if opts.Category != "" {
		q = q.Where(sq.Like{"r.category_path": opts.Category + "%"})
	}
	if opts.MinScore > 0 {
		q = q.Where(sq.GtOrEq{"r.total_score": opts.MinScore})
	}
	if !opts.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"r.generated_at": opts.Since.UTC().Format(time.RFC3339Nano)})
	}
	q = q.Limit(uint64(limit))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			r         RunSummary
			status    string
			generated string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.CategoryPath, &r.PrimaryKeyword, &r.ModelID,
			&r.DemoMode, &status, &r.TotalScore, &r.WordCount, &generated); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Status = types.PackageStatus(status)
		if t, err := time.Parse(time.RFC3339Nano, generated); err == nil {
			r.GeneratedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CriterionStat aggregates one criterion over the archive.
type CriterionStat struct {
	Criterion     types.Criterion `json:"criterion" yaml:"criterion"`
	Runs          int             `json:"runs" yaml:"runs"`
	AverageEarned float64         `json:"average_earned" yaml:"average_earned"`
	Possible      int             `json:"possible" yaml:"possible"`
	PassRate      float64         `json:"pass_rate" yaml:"pass_rate"`
}

// CriterionStats reports how runs matching opts fared on each criterion,
// in scoring order. Query and Limit are ignored.
func (s *Store) CriterionStats(ctx context.Context, opts ListOptions) ([]CriterionStat, error) {
	q := sq.Select("f.criterion", "count(*)", "avg(f.points_earned)", "max(f.points_possible)", "avg(f.passed)").
		From("findings f").
		Join("runs r ON r.id = f.run_id").
		GroupBy("f.criterion")
	if opts.Status != "" {
		q = q.Where(sq.Eq{"r.status": string(opts.Status)})
	}
	if opts.Category != "" {
		q = q.Where(sq.Like{"r.category_path": opts.Category + "%"})
	}
	if !opts.Since.IsZero() {
		q = q.Where(sq.GtOrEq{"r.generated_at": opts.Since.UTC().Format(time.RFC3339Nano)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	byCriterion := make(map[types.Criterion]CriterionStat)
	for rows.Next() {
		var (
			st   CriterionStat
			crit string
		)
		if err := rows.Scan(&crit, &st.Runs, &st.AverageEarned, &st.Possible, &st.PassRate); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		st.Criterion = types.Criterion(crit)
		byCriterion[st.Criterion] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []CriterionStat
	for _, c := range types.Criteria {
		if st, ok := byCriterion[c]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}
