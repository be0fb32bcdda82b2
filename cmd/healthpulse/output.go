// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pdiddy/healthpulse/internal/pipeline"
	"github.com/pdiddy/healthpulse/pkg/types"
)

var stageLabels = map[types.StageName]string{
	types.StageTrendDiscovery: "Trend Discovery",
	types.StageContentWriter:  "Content Writer",
	types.StageSeoExaminer:    "SEO Examiner",
	types.StageConsolidator:   "Consolidator",
}

func stageLabel(s types.StageName) string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// progressPrinter reports stage transitions as one line each.
func progressPrinter(w io.Writer) pipeline.ProgressFunc {
	return func(ev types.ProgressEvent) {
		label := stageLabel(ev.Stage)
		switch ev.Status {
		case types.StageStarted:
			color.New(color.FgCyan).Fprintf(w, "→ %s...\n", label)
		case types.StageCompleted:
			color.New(color.FgGreen).Fprintf(w, "✓ %s (%dms)\n", label, ev.ElapsedMs)
		case types.StageFailed:
			color.New(color.FgRed).Fprintf(w, "✗ %s failed after %dms: %v\n", label, ev.ElapsedMs, ev.Err)
		}
	}
}

func statusString(s types.PackageStatus) string {
	if s == types.StatusApproved {
		return color.GreenString(string(s))
	}
	return color.YellowString(string(s))
}

func scoreString(score int) string {
	text := fmt.Sprintf("%d/100", score)
	switch {
	case score >= types.PassThreshold:
		return color.GreenString(text)
	case score >= 50:
		return color.YellowString(text)
	}
	return color.RedString(text)
}

// newTable returns a borderless, left-aligned table.
func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	t := newTable(w)
	t.Header(header)
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

// printFindings renders the per-criterion breakdown of a validation result.
func printFindings(w io.Writer, v types.ValidationResult) error {
	rows := make([][]string, 0, len(v.Findings))
	for _, f := range v.Findings {
		mark := color.GreenString("PASS")
		if !f.Passed {
			mark = color.RedString("FAIL")
		}
		rows = append(rows, []string{
			f.Criterion.Label(),
			fmt.Sprintf("%d/%d", f.PointsEarned, f.PointsPossible),
			mark,
			f.Detail,
		})
	}
	if err := renderTable(w, []string{"Criterion", "Points", "Result", "Detail"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nSEO score: %s\n", scoreString(v.TotalScore))
	if len(v.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range v.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
	return nil
}
