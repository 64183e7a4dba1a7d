// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dataset-curator CLI. Each
// pipeline operation is a subcommand: search, extract, curate, batch,
// stats; serve exposes the same operations as a JSON tool surface.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dataset-curator/internal/catalog"
	"github.com/pdiddy/dataset-curator/internal/extract"
	"github.com/pdiddy/dataset-curator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 2 * time.Second
	defaultUserAgent = "dataset-curator/0.1"
	defaultBaseURL   = "https://physionet.org"
)

// rootCmd is the base command for the dataset-curator CLI.
var rootCmd = &cobra.Command{
	Use:   "dataset-curator",
	Short: "Curate structured metadata from PhysioNet dataset pages",
	Long: `dataset-curator turns public dataset-description pages into structured,
schema-conformant records and accumulates them into a persistent catalog.

Each operation is a subcommand: search finds candidate dataset pages,
extract derives a record from one page, curate extracts and saves, batch
drives a URL list sequentially, and stats summarizes the catalog. serve
exposes the same operations as JSON tools over stdio.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dataset-curator.yaml or ~/.config/dataset-curator/config.yaml)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog path (default curated_datasets.json)")
	rootCmd.PersistentFlags().String("backend", "", "catalog backend: json or sqlite (default json)")
	rootCmd.PersistentFlags().String("policy", "", "duplicate policy: skip or update (default update)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dataset-curator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dataset-curator"))
		}
	}

	viper.SetEnvPrefix("DATASET_CURATOR")
	viper.AutomaticEnv()

	viper.SetDefault("http.timeout", defaultTimeout)
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("search.base_url", defaultBaseURL)
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("catalog.backend", string(types.BackendJSON))
	viper.SetDefault("catalog.policy", string(types.PolicyUpdate))
	viper.SetDefault("batch.request_delay", defaultDelay)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig resolves the stage configurations from config file, env,
// and persistent flags (flags win).
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}

	catalogPath := viper.GetString("catalog.path")
	if flag, _ := cmd.Flags().GetString("catalog"); flag != "" {
		catalogPath = flag
	}
	backend := types.CatalogBackend(viper.GetString("catalog.backend"))
	if flag, _ := cmd.Flags().GetString("backend"); flag != "" {
		backend = types.CatalogBackend(flag)
	}
	policy := types.SavePolicy(viper.GetString("catalog.policy"))
	if flag, _ := cmd.Flags().GetString("policy"); flag != "" {
		policy = types.SavePolicy(flag)
	}

	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: httpCfg,
			BaseURL:    viper.GetString("search.base_url"),
			MaxResults: viper.GetInt("search.max_results"),
		},
		Extraction: types.ExtractionConfig{
			HTTPConfig: httpCfg,
			RulesFile:  viper.GetString("extraction.rules_file"),
		},
		Catalog: types.CatalogConfig{
			Path:    catalogPath,
			Backend: backend,
			Policy:  policy,
		},
		Batch: types.BatchConfig{
			RequestDelay: viper.GetDuration("batch.request_delay"),
		},
	}
}

// newExtractor builds the extractor with optional rule-table overrides.
func newExtractor(cfg types.ExtractionConfig) (*extract.Extractor, error) {
	rules, err := extract.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	return extract.New(rules), nil
}

// openStore opens the configured catalog backend.
func openStore(cfg types.CatalogConfig) (catalog.Store, error) {
	return catalog.Open(cfg)
}

// printJSON writes v as indented JSON to stdout, non-ASCII preserved.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
