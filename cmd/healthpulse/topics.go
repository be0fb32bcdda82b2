// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/healthpulse/pkg/types"
)

var topicsCmd = &cobra.Command{
	Use:   "topics [main-category [subcategory]]",
	Short: "Browse the topic catalog",
	Long: `Topics lists the catalog hierarchy one level at a time. Without
arguments it lists the main categories; with a main category it lists its
subcategories; with both it lists the specific topics and their details.
Each row shows the canonical article title for that selection.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runTopics,
}

func runTopics(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		rows := make([][]string, 0, len(appCatalog.Categories))
		for _, c := range appCatalog.Categories {
			sel := types.TopicSelection{MainCategory: c.Name, SubCategory: types.AllTopics}
			rows = append(rows, []string{c.Name, strconv.Itoa(len(c.Subcategories)), appCatalog.Title(sel)})
		}
		return renderTable(os.Stdout, []string{"Category", "Subcategories", "Title"}, rows)

	case 1:
		category := args[0]
		subs := appCatalog.Subcategories(category)
		if subs == nil {
			return fmt.Errorf("unknown main category %q: run \"healthpulse topics\" to list them", category)
		}
		rows := make([][]string, 0, len(subs))
		for _, s := range subs {
			sel := types.TopicSelection{MainCategory: category, SubCategory: s}
			rows = append(rows, []string{s, strconv.Itoa(len(appCatalog.Topics(category, s))), appCatalog.Title(sel)})
		}
		return renderTable(os.Stdout, []string{"Subcategory", "Topics", "Title"}, rows)
	}

	category, sub := args[0], args[1]
	s, ok := appCatalog.Subcategory(category, sub)
	if !ok {
		return fmt.Errorf("unknown subcategory %q of %q", sub, category)
	}
	rows := make([][]string, 0, len(s.Topics))
	for _, t := range s.Topics {
		sel := types.TopicSelection{MainCategory: category, SubCategory: sub, SpecificTopic: t.Name}
		rows = append(rows, []string{t.Name, appCatalog.Title(sel), strings.Join(t.Details, ", ")})
	}
	if err := renderTable(os.Stdout, []string{"Topic", "Title", "Details"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nKeywords: %s\n", strings.Join(appCatalog.Keywords(category, sub), ", "))
	fmt.Fprintf(os.Stdout, "Sources:  %s\n", strings.Join(appCatalog.Sources(category), ", "))
	return nil
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
