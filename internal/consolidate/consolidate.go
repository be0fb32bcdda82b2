// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package consolidate merges the stage artifacts of a run into the final
// content package. It performs no generation.
package consolidate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/healthpulse/pkg/types"
)

// Input carries the upstream artifacts and the run metadata the
// orchestrator has collected. Metadata.Status is derived, not read.
type Input struct {
	Draft      types.ArticleDraft
	Validation types.ValidationResult
	Trend      types.TrendArtifact
	Metadata   types.PackageMetadata
}

// Consolidator runs the consolidation stage.
type Consolidator struct {
	// Now stamps GeneratedAt. Tests replace it with a fixed clock.
	Now func() time.Time
}

// New returns a Consolidator using the wall clock.
func New() *Consolidator {
	return &Consolidator{Now: time.Now}
}

// Name returns the stage name.
func (c *Consolidator) Name() types.StageName { return types.StageConsolidator }

// Run builds the final package. A below-threshold score yields a package
// with status NEEDS_REVISION; it is never dropped. Missing upstream
// artifacts are a programming error and panic.
func (c *Consolidator) Run(_ context.Context, in Input) (*types.FinalPackage, error) {
	mustHave(in)

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	meta := in.Metadata
	meta.FallbackStages = append([]types.StageName(nil), in.Metadata.FallbackStages...)
	meta.Status = types.StatusNeedsRevision
	if in.Validation.Passed {
		meta.Status = types.StatusApproved
	}

	return &types.FinalPackage{
		Draft:       in.Draft.Clone(),
		Validation:  in.Validation.Clone(),
		Trend:       in.Trend.Clone(),
		GeneratedAt: now().UTC(),
		Metadata:    meta,
	}, nil
}

func mustHave(in Input) {
	switch {
	case in.Draft.Title == "":
		panic("consolidate: draft has no title")
	case len(in.Validation.Findings) != len(types.Criteria):
		panic(fmt.Sprintf("consolidate: validation has %d findings, want %d", len(in.Validation.Findings), len(types.Criteria)))
	case in.Trend.TopicTitle == "":
		panic("consolidate: trend artifact has no title")
	}
}

// Summary renders the consolidation report for pkg as plain text.
func Summary(pkg *types.FinalPackage) string {
	var b strings.Builder
	m := pkg.Metadata

	b.WriteString("HealthPulse Content Package\n")
	b.WriteString("===========================\n")
	fmt.Fprintf(&b, "Title:        %s\n", pkg.Draft.Title)
	fmt.Fprintf(&b, "Category:     %s\n", m.CategoryPath)
	fmt.Fprintf(&b, "Generated:    %s\n", pkg.GeneratedAt.Format(time.RFC3339))
	if m.RunID != "" {
		fmt.Fprintf(&b, "Run:          %s\n", m.RunID)
	}
	model := m.ModelID
	if m.DemoMode {
		model += " (demo mode)"
	}
	fmt.Fprintf(&b, "Model:        %s\n", model)
	if len(m.FallbackStages) > 0 {
		names := make([]string, len(m.FallbackStages))
		for i, s := range m.FallbackStages {
			names[i] = string(s)
		}
		fmt.Fprintf(&b, "Fallback:     %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "Word count:   %d\n", pkg.WordCount())
	fmt.Fprintf(&b, "SEO score:    %d/100\n", pkg.Validation.TotalScore)
	fmt.Fprintf(&b, "Status:       %s\n", m.Status)

	b.WriteString("\nSEO findings\n")
	for _, f := range pkg.Validation.Findings {
		mark := "PASS"
		if !f.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "  [%s] %-18s %2d/%-2d  %s\n", mark, f.Criterion.Label(), f.PointsEarned, f.PointsPossible, f.Detail)
	}

	if len(pkg.Validation.Recommendations) > 0 {
		b.WriteString("\nRecommendations\n")
		for _, r := range pkg.Validation.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}

	b.WriteString("\nKeywords\n")
	fmt.Fprintf(&b, "  Primary:   %s\n", pkg.Trend.PrimaryKeyword)
	fmt.Fprintf(&b, "  Secondary: %s\n", strings.Join(pkg.Trend.SecondaryKeywords, ", "))
	b.WriteString("\nSources\n")
	for _, s := range pkg.Trend.Sources {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	return b.String()
}
