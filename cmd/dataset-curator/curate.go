// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-curator/internal/catalog"
	"github.com/pdiddy/dataset-curator/internal/curate"
	"github.com/pdiddy/dataset-curator/internal/httputil"
)

var curateCmd = &cobra.Command{
	Use:   "curate [url]",
	Short: "Extract a dataset record and save it to the catalog",
	Long: `Curate fetches a dataset page, assembles its record, and persists it.
A URL already in the catalog resolves per the duplicate policy: update
replaces the entry in place, skip leaves the catalog unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runCurate,
}

func init() {
	rootCmd.AddCommand(curateCmd)
}

func runCurate(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	extractor, err := newExtractor(cfg.Extraction)
	if err != nil {
		return err
	}
	store, err := openStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	deps := curate.Deps{
		Client:    httputil.NewClient(cfg.Extraction.HTTPConfig),
		Extractor: extractor,
		Store:     store,
		Config:    cfg.Extraction,
	}

	rec, saveResult, err := curate.One(cmd.Context(), deps, args[0])
	if err != nil {
		return err
	}

	if err := printJSON(map[string]any{
		"metadata":    rec,
		"save_result": saveResult,
	}); err != nil {
		return err
	}

	if saveResult.Status == catalog.StatusError {
		return fmt.Errorf("save failed: %s", saveResult.Message)
	}
	return nil
}
