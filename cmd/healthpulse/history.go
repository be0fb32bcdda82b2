// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/healthpulse/internal/archive"
	"github.com/pdiddy/healthpulse/internal/consolidate"
	"github.com/pdiddy/healthpulse/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse, search and export archived runs",
	Long: `History queries the local SQLite archive of finished runs. Use
subcommands to list or search runs, show one run's report, aggregate scores
per SEO criterion, delete runs or export them to YAML or JSON.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRuns(cmd, "")
	},
}

// --- search subcommand ---

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over archived titles and articles",
	Long: `Search matches the query against the title and body of every archived
article. With FTS5 available the query uses FTS5 syntax and results are
ranked by relevance; otherwise it is matched as a plain substring.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listRuns(cmd, strings.Join(args, " "))
	},
}

func listRuns(cmd *cobra.Command, query string) error {
	opts, err := listOptionsFromFlags(cmd)
	if err != nil {
		return err
	}
	opts.Query = query

	store, err := archive.Open(archivePath(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background(), opts)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		model := r.ModelID
		if r.DemoMode {
			model += " (demo)"
		}
		rows = append(rows, []string{
			r.ID,
			r.GeneratedAt.Local().Format("2006-01-02 15:04"),
			scoreString(r.TotalScore),
			statusString(r.Status),
			strconv.Itoa(r.WordCount),
			model,
			truncate(r.Title, 60),
		})
	}
	if err := renderTable(os.Stdout, []string{"ID", "Generated", "Score", "Status", "Words", "Model", "Title"}, rows); err != nil {
		return err
	}
	fmt.Printf("\n%d run(s)\n", len(runs))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the consolidation report of an archived run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(archivePath(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		pkg, err := store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(pkg)
		}
		if article, _ := cmd.Flags().GetBool("article"); article {
			fmt.Print(pkg.Draft.Markdown())
			return nil
		}
		fmt.Print(consolidate.Summary(pkg))
		return nil
	},
}

// --- stats subcommand ---

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Average points and pass rate per SEO criterion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := listOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		store, err := archive.Open(archivePath(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.CriterionStats(context.Background(), opts)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(stats)
		}
		if len(stats) == 0 {
			fmt.Println("No runs found.")
			return nil
		}

		rows := make([][]string, 0, len(stats))
		for _, st := range stats {
			rows = append(rows, []string{
				st.Criterion.Label(),
				strconv.Itoa(st.Runs),
				fmt.Sprintf("%.1f/%d", st.AverageEarned, st.Possible),
				fmt.Sprintf("%.0f%%", st.PassRate*100),
			})
		}
		return renderTable(os.Stdout, []string{"Criterion", "Runs", "Average", "Pass rate"}, rows)
	},
}

// --- delete subcommand ---

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>...",
	Short: "Remove runs from the archive",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(archivePath(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		for _, id := range args {
			if err := store.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", id)
		}
		return nil
	},
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export archived runs with their findings to YAML or JSON",
	Long: `Export writes every run matching the filter flags, with its per-criterion
findings, to path. A .json extension selects JSON; anything else is YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := listOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		opts.Query, _ = cmd.Flags().GetString("query")

		store, err := archive.Open(archivePath(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Export(context.Background(), args[0], opts)
		if err != nil {
			return err
		}
		fmt.Printf("Exported %d run(s) to %s\n", n, args[0])
		return nil
	},
}

// --- shared helpers ---

func listOptionsFromFlags(cmd *cobra.Command) (archive.ListOptions, error) {
	status, _ := cmd.Flags().GetString("status")
	category, _ := cmd.Flags().GetString("category")
	minScore, _ := cmd.Flags().GetInt("min-score")
	since, _ := cmd.Flags().GetString("since")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := archive.ListOptions{
		Status:   types.PackageStatus(strings.ToUpper(status)),
		Category: category,
		MinScore: minScore,
		Limit:    limit,
	}
	if since != "" {
		t, err := parseSince(since, time.Now())
		if err != nil {
			return opts, err
		}
		opts.Since = t
	}
	return opts, nil
}

// parseSince accepts a duration back from now ("72h"), a number of days
// ("7d") or a date ("2025-06-01").
func parseSince(s string, now time.Time) (time.Time, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n >= 0 {
			return now.AddDate(0, 0, -n), nil
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --since %q: use a duration (72h), days (7d) or a date (2006-01-02)", s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("status", "", "filter by status: APPROVED or NEEDS_REVISION")
	cmd.Flags().String("category", "", "filter by category path prefix, e.g. \"GOVERNMENT PLANS\"")
	cmd.Flags().Int("min-score", 0, "minimum SEO score")
	cmd.Flags().String("since", "", "only runs since a duration (72h), days (7d) or date (2006-01-02)")
}

func init() {
	historyCmd.PersistentFlags().String("archive", "", "archive database (default from config)")

	for _, c := range []*cobra.Command{historyListCmd, historySearchCmd, historyStatsCmd, historyExportCmd} {
		addFilterFlags(c)
	}
	for _, c := range []*cobra.Command{historyListCmd, historySearchCmd} {
		c.Flags().Int("limit", 20, "maximum runs to list")
	}
	for _, c := range []*cobra.Command{historyListCmd, historySearchCmd, historyShowCmd, historyStatsCmd} {
		c.Flags().Bool("json", false, "output as JSON")
	}
	historyShowCmd.Flags().Bool("article", false, "print the article markdown instead of the report")
	historyExportCmd.Flags().String("query", "", "full-text filter for a partial export")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
