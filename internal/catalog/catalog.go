// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists curated DatasetRecords. The catalog holds at
// most one record per Dataset_URL; duplicate handling is a policy choice
// (skip or update) made when the store is opened. Records are ordered
// newest-first by insertion time, and an update keeps the entry's
// position.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/dataset-curator/pkg/types"
)

// Save outcome statuses.
const (
	StatusSaved   = "saved"
	StatusUpdated = "updated"
	StatusExists  = "exists"
	StatusError   = "error"
)

// nowFunc returns the current time; tests substitute a fixed clock.
var nowFunc = time.Now

// SaveResult reports the outcome of a save.
type SaveResult struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	DatasetCount int    `json:"dataset_count"`
}

// ErrorResult wraps a store failure as a reportable save outcome.
func ErrorResult(err error) *SaveResult {
	return &SaveResult{Status: StatusError, Message: err.Error()}
}

// RecentDataset is one entry in the stats summary.
type RecentDataset struct {
	Title       string `json:"title"`
	Year        string `json:"year"`
	CuratedDate string `json:"curated_date"`
}

// Stats summarizes the catalog contents.
type Stats struct {
	TotalDatasets  int             `json:"total_datasets"`
	RecentDatasets []RecentDataset `json:"recent_datasets"`
}

// Store is the catalog persistence contract. Save assigns the record's
// identity and timestamp; a duplicate URL resolves per the store's policy
// and is never an error. Load returns records newest-first.
type Store interface {
	Save(ctx context.Context, rec *types.DatasetRecord) (*SaveResult, error)
	Load(ctx context.Context) ([]types.DatasetRecord, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Open builds the store selected by cfg.Backend. An empty backend means
// the JSON document store.
func Open(cfg types.CatalogConfig) (Store, error) {
	policy := cfg.Policy
	if policy == "" {
		policy = types.PolicyUpdate
	}
	if policy != types.PolicySkip && policy != types.PolicyUpdate {
		return nil, fmt.Errorf("unknown save policy %q: use skip or update", policy)
	}

	switch cfg.Backend {
	case types.BackendJSON, "":
		return NewJSONStore(cfg.Path, policy), nil
	case types.BackendSQLite:
		return NewSQLiteStore(cfg.Path, policy)
	default:
		return nil, fmt.Errorf("unknown catalog backend %q: use json or sqlite", cfg.Backend)
	}
}

// stamp assigns identity and curation timestamp. This happens exactly
// once, at persistence time, never during extraction.
func stamp(rec *types.DatasetRecord) {
	now := nowFunc()
	rec.ID = now.UnixMilli()
	rec.CuratedDate = now.Format(time.RFC3339)
}

// recentOf builds the top-N stats entries from newest-first records.
func recentOf(records []types.DatasetRecord, n int) []RecentDataset {
	if len(records) < n {
		n = len(records)
	}
	recent := make([]RecentDataset, 0, n)
	for _, rec := range records[:n] {
		recent = append(recent, RecentDataset{
			Title:       rec.Title,
			Year:        rec.Year,
			CuratedDate: rec.CuratedDate,
		})
	}
	return recent
}
