// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/dataset-curator/internal/curate"
	"github.com/pdiddy/dataset-curator/internal/httputil"
)

var batchCmd = &cobra.Command{
	Use:   "batch [urls...]",
	Short: "Curate multiple dataset URLs sequentially",
	Long: `Batch processes a list of dataset URLs one at a time with a fixed delay
between fetches. One URL's failure never aborts the rest; the summary
partitions outcomes by status and preserves input order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Duration("delay", 0, "delay between consecutive fetches (default 2s)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)
	delay := cfg.Batch.RequestDelay
	if flag, _ := cmd.Flags().GetDuration("delay"); flag > 0 {
		delay = flag
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}

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

	summary, err := curate.Batch(cmd.Context(), deps, args, delay, os.Stderr)
	if err != nil {
		return err
	}

	if err := printJSON(summary); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d URL(s) failed curation", summary.Failed)
	}
	return nil
}
