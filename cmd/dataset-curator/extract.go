// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-curator/internal/httputil"
)

var extractCmd = &cobra.Command{
	Use:   "extract [url]",
	Short: "Extract a structured record from one dataset page",
	Long: `Extract fetches a dataset-description page, runs the heuristic field
extractors over it, and prints the assembled record as JSON. Nothing is
persisted; use curate to save the record.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	extractor, err := newExtractor(cfg.Extraction)
	if err != nil {
		return err
	}

	client := httputil.NewClient(cfg.Extraction.HTTPConfig)
	rec, err := extractor.FromURL(cmd.Context(), client, args[0], cfg.Extraction)
	if err != nil {
		return err
	}
	return printJSON(rec)
}
