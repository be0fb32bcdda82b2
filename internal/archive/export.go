// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/healthpulse/pkg/types"
)

// ExportEntry is one archived run with its findings.
type ExportEntry struct {
	RunSummary `yaml:",inline"`
	Findings   []types.SeoFinding `json:"findings" yaml:"findings"`
}

const exportLimit = 100000

// Export writes the runs matching opts to path. The extension picks the
// format: .json for JSON, anything else for YAML.
func (s *Store) Export(ctx context.Context, path string, opts ListOptions) (int, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return 0, err
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(entries, "", "  ")
	} else {
		data, err = yaml.Marshal(entries)
	}
	if err != nil {
		return 0, fmt.Errorf("marshaling export: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(entries), nil
}

func (s *Store) exportEntries(ctx context.Context, opts ListOptions) ([]ExportEntry, error) {
	opts.Limit = exportLimit
	runs, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(runs))
	for i, r := range runs {
		findings, err := s.findings(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		entries[i] = ExportEntry{RunSummary: r, Findings: findings}
	}
	return entries, nil
}

func (s *Store) findings(ctx context.Context, runID string) ([]types.SeoFinding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT criterion, points_earned, points_possible, passed, detail FROM findings WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	byCriterion := make(map[types.Criterion]types.SeoFinding)
	for rows.Next() {
		var (
			f    types.SeoFinding
			crit string
		)
		if err := rows.Scan(&crit, &f.PointsEarned, &f.PointsPossible, &f.Passed, &f.Detail); err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		f.Criterion = types.Criterion(crit)
		byCriterion[f.Criterion] = f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]types.SeoFinding, 0, len(byCriterion))
	for _, c := range types.Criteria {
		if f, ok := byCriterion[c]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}
