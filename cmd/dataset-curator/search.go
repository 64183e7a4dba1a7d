// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-curator/internal/httputil"
	"github.com/pdiddy/dataset-curator/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the source site for candidate dataset pages",
	Long: `Search runs a free-text query against the PhysioNet content search and
prints up to five candidate links as JSON. A query that is already a URL
is passed through unchanged as a single result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (default 5)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.Search.MaxResults = n
	}

	query := strings.Join(args, " ")

	client := httputil.NewClient(cfg.Search.HTTPConfig)
	results := search.Search(cmd.Context(), client, query, cfg.Search)
	return printJSON(results)
}
