// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/healthpulse/internal/export"
	"github.com/pdiddy/healthpulse/internal/seo"
	"github.com/pdiddy/healthpulse/internal/trend"
	"github.com/pdiddy/healthpulse/internal/writer"
	"github.com/pdiddy/healthpulse/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score <article.md>",
	Short: "Score an existing markdown article with the SEO examiner",
	Long: `Score parses a markdown article and runs the seven-criterion SEO
examination on it without calling any model backend.

Keywords and the meta description come from, in order: the flags, the YAML
front matter written by "healthpulse generate", and finally keywords
derived from --main/--sub/--topic (or from the article title) and a meta
description built from the first paragraph.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading article: %w", err)
	}
	fm, body, err := export.SplitFrontMatter(string(data))
	if err != nil {
		return err
	}

	draft := writer.Parse(body, fm.Title)
	if strings.TrimSpace(draft.Title) == "" || len(draft.Paragraphs) == 0 {
		return fmt.Errorf("%s has no article content", args[0])
	}

	sel := selectionFromFlags(cmd)
	art := types.TrendArtifact{
		TopicTitle:        draft.Title,
		PrimaryKeyword:    fm.PrimaryKeyword,
		SecondaryKeywords: fm.SecondaryKeywords,
	}
	if art.PrimaryKeyword == "" {
		art.PrimaryKeyword, art.SecondaryKeywords = trend.DeriveKeywords(appCatalog, sel, draft.Title)
	}
	if kw, _ := cmd.Flags().GetString("keyword"); kw != "" {
		art.PrimaryKeyword = kw
	}
	if cmd.Flags().Changed("secondary") {
		art.SecondaryKeywords, _ = cmd.Flags().GetStringSlice("secondary")
	}

	draft.MetaDescription = fm.Description
	if meta, _ := cmd.Flags().GetString("meta"); meta != "" {
		draft.MetaDescription = meta
	}
	if draft.MetaDescription == "" {
		draft.MetaDescription = writer.MetaDescription(draft.Paragraphs, art.PrimaryKeyword, draft.Title)
	}

	result := seo.Score(appCatalog, draft, art)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(result)
	}

	fmt.Printf("Title:     %s\n", draft.Title)
	fmt.Printf("Keyword:   %s\n", art.PrimaryKeyword)
	fmt.Printf("Secondary: %s\n", strings.Join(art.SecondaryKeywords, ", "))
	fmt.Printf("Words:     %d\n\n", draft.WordCount())
	if err := printFindings(os.Stdout, result); err != nil {
		return err
	}
	if minScore, _ := cmd.Flags().GetInt("min-score"); minScore > 0 && result.TotalScore < minScore {
		return fmt.Errorf("score %d is below %d", result.TotalScore, minScore)
	}
	return nil
}

func init() {
	addSelectionFlags(scoreCmd)
	scoreCmd.Flags().String("keyword", "", "primary keyword")
	scoreCmd.Flags().StringSlice("secondary", nil, "secondary keywords (comma-separated)")
	scoreCmd.Flags().String("meta", "", "meta description to score")
	scoreCmd.Flags().Int("min-score", 0, "exit with an error when the score is below this value")
	scoreCmd.Flags().Bool("json", false, "output the validation result as JSON")

	rootCmd.AddCommand(scoreCmd)
}
