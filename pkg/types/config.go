// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that fetch pages.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "dataset-curator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the dataset search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the source site root (default "https://physionet.org").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxResults is the maximum number of search results to return (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ExtractionConfig holds settings for the metadata extraction stage.
type ExtractionConfig struct {
	HTTPConfig `yaml:",inline"`

	// RulesFile optionally points to a YAML file overriding the built-in
	// keyword rule tables. Empty keeps the compiled-in defaults.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`
}

// CatalogBackend identifies the catalog persistence backend.
type CatalogBackend string

const (
	// BackendJSON stores the catalog as a single indented JSON array,
	// the document external consumers read directly.
	BackendJSON CatalogBackend = "json"

	// BackendSQLite stores records in a SQLite table keyed by URL. Safe
	// under concurrent writers, at the cost of the readable document.
	BackendSQLite CatalogBackend = "sqlite"
)

// SavePolicy selects how the catalog treats a record whose URL is already
// present.
type SavePolicy string

const (
	// PolicySkip rejects the write with an "exists" outcome.
	PolicySkip SavePolicy = "skip"

	// PolicyUpdate replaces the existing entry in place.
	PolicyUpdate SavePolicy = "update"
)

// CatalogConfig holds settings for the catalog store.
type CatalogConfig struct {
	// Path is the backing document location (default "curated_datasets.json",
	// or "curated_datasets.db" for the sqlite backend).
	Path string `json:"path" yaml:"path"`

	// Backend selects the persistence backend: json or sqlite.
	Backend CatalogBackend `json:"backend" yaml:"backend"`

	// Policy selects duplicate handling: skip or update.
	Policy SavePolicy `json:"policy" yaml:"policy"`
}

// BatchConfig holds settings for batch curation.
type BatchConfig struct {
	// RequestDelay is the fixed delay between consecutive page fetches
	// (default 2s). Politeness toward the source site, not correctness.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	Batch      BatchConfig      `json:"batch" yaml:"batch"`
}
