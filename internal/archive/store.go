// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists finished content packages in SQLite so past runs
// can be listed, searched and exported. Each run stores its full package as
// JSON alongside queryable columns, one row per SEO finding, and an FTS5
// index over title and body.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/healthpulse/pkg/types"
)

// DefaultPath is used when no archive path is configured.
const DefaultPath = "output/healthpulse.db"

const defaultLimit = 20

// ErrNotFound is returned when a run id is not in the archive.
var ErrNotFound = errors.New("run not found")

// Store manages the archive database.
type Store struct {
	db *sql.DB

	// fts is false when the SQLite build lacks FTS5 (the driver needs the
	// sqlite_fts5 build tag); searches then fall back to LIKE matching.
	fts bool
}

// Open opens or creates the archive at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			category_path TEXT NOT NULL,
			primary_keyword TEXT,
			model_id TEXT,
			demo_mode INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			total_score INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			generated_at TEXT NOT NULL,
			body TEXT NOT NULL,
			package TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
		`CREATE TABLE IF NOT EXISTS findings (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			criterion TEXT NOT NULL,
			points_earned INTEGER NOT NULL,
			points_possible INTEGER NOT NULL,
			passed INTEGER NOT NULL,
			detail TEXT,
			PRIMARY KEY (run_id, criterion)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='runs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE runs_fts USING fts5(title, body, content=runs, content_rowid=rowid)`,
		`CREATE TRIGGER runs_ai AFTER INSERT ON runs BEGIN
			INSERT INTO runs_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
		END`,
		`CREATE TRIGGER runs_ad AFTER DELETE ON runs BEGIN
			INSERT INTO runs_fts(runs_fts, rowid, title, body) VALUES('delete', old.rowid, old.title, old.body);
		END`,
		`CREATE TRIGGER runs_au AFTER UPDATE ON runs BEGIN
			INSERT INTO runs_fts(runs_fts, rowid, title, body) VALUES('delete', old.rowid, old.title, old.body);
			INSERT INTO runs_fts(rowid, title, body) VALUES (new.rowid, new.title, new.body);
		END`,
	}
	for i, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			if i == 0 && strings.Contains(err.Error(), "no such module") {
				return nil
			}
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// Save stores pkg, replacing an earlier run with the same id.
func (s *Store) Save(ctx context.Context, pkg *types.FinalPackage) error {
	if pkg.Metadata.RunID == "" {
		return fmt.Errorf("saving run: package has no run id")
	}
	data, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("marshaling package: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Deleting first keeps the FTS triggers and the findings cascade in step.
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, pkg.Metadata.RunID); err != nil {
		return fmt.Errorf("deleting previous run: %w", err)
	}

	m := pkg.Metadata
	query, args, err := sq.Insert("runs").
		Columns("id", "title", "category_path", "primary_keyword", "model_id", "demo_mode",
			"status", "total_score", "word_count", "generated_at", "body", "package").
		Values(m.RunID, pkg.Draft.Title, m.CategoryPath, pkg.Trend.PrimaryKeyword, m.ModelID, m.DemoMode,
			string(m.Status), pkg.Validation.TotalScore, pkg.WordCount(),
			pkg.GeneratedAt.UTC().Format(time.RFC3339Nano), pkg.Draft.Markdown(), string(data)).
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (run_id, criterion, points_earned, points_possible, passed, detail)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range pkg.Validation.Findings {
		if _, err := stmt.ExecContext(ctx, m.RunID, string(f.Criterion), f.PointsEarned, f.PointsPossible, f.Passed, f.Detail); err != nil {
			return fmt.Errorf("inserting finding %s: %w", f.Criterion, err)
		}
	}

	return tx.Commit()
}

// Get returns the full package stored under runID.
func (s *Store) Get(ctx context.Context, runID string) (*types.FinalPackage, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT package FROM runs WHERE id = ?`, runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up run: %w", err)
	}

	var pkg types.FinalPackage
	if err := json.Unmarshal([]byte(data), &pkg); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", runID, err)
	}
	return &pkg, nil
}

// Delete removes a run and its findings.
func (s *Store) Delete(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", runID, ErrNotFound)
	}
	return nil
}
