// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdiddy/dataset-curator/pkg/types"
)

// JSONStore keeps the catalog in a single JSON array document, the file
// external consumers read directly. Every mutation performs a full
// load → modify → rewrite cycle; the mutex serializes those cycles so two
// saves in one process cannot lose an update. Cross-process writers are
// still unguarded; use the sqlite backend when that matters.
type JSONStore struct {
	path   string
	policy types.SavePolicy

	mu sync.Mutex

	// errw receives corruption warnings; defaults to os.Stderr.
	errw io.Writer
}

// NewJSONStore builds a JSON document store at path.
func NewJSONStore(path string, policy types.SavePolicy) *JSONStore {
	if path == "" {
		path = "curated_datasets.json"
	}
	return &JSONStore{path: path, policy: policy, errw: os.Stderr}
}

// Save assigns identity and timestamp to rec and writes it into the
// catalog document. A new URL inserts at the front; an existing URL
// resolves per the store policy: skip leaves the document untouched and
// reports StatusExists, update replaces the entry in place.
func (s *JSONStore) Save(ctx context.Context, rec *types.DatasetRecord) (*SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	stamp(rec)

	existing := -1
	for i, r := range records {
		if r.DatasetURL == rec.DatasetURL {
			existing = i
			break
		}
	}

	if existing >= 0 && s.policy == types.PolicySkip {
		return &SaveResult{
			Status:       StatusExists,
			Message:      "Dataset already in database",
			DatasetCount: len(records),
		}, nil
	}

	result := &SaveResult{}
	if existing >= 0 {
		records[existing] = *rec
		result.Status = StatusUpdated
		result.Message = "Dataset updated in database"
	} else {
		records = append([]types.DatasetRecord{*rec}, records...)
		result.Status = StatusSaved
		result.Message = fmt.Sprintf("Successfully saved. Total datasets: %d", len(records))
	}
	result.DatasetCount = len(records)

	if err := s.write(records); err != nil {
		return nil, err
	}
	return result, nil
}

// Load returns the catalog contents, newest-first.
func (s *JSONStore) Load(ctx context.Context) ([]types.DatasetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// Stats returns the catalog size and the five most recent entries.
func (s *JSONStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	return &Stats{
		TotalDatasets:  len(records),
		RecentDatasets: recentOf(records, 5),
	}, nil
}

// Close is a no-op; the document is reopened on every operation.
func (s *JSONStore) Close() error { return nil }

// load reads the backing document. A missing file is the expected first
// run and yields an empty catalog silently; a corrupt one is logged and
// degrades to empty rather than failing the operation. Order is kept as
// stored, never resorted.
func (s *JSONStore) load() []types.DatasetRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(s.errw, "error loading catalog %s: %v\n", s.path, err)
		}
		return nil
	}

	var records []types.DatasetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		fmt.Fprintf(s.errw, "error loading catalog %s: %v\n", s.path, err)
		return nil
	}
	return records
}

// write rewrites the whole document: indented, HTML-safe escaping off so
// non-ASCII and punctuation survive verbatim. Written to a temp file and
// renamed so readers never observe a partial catalog.
func (s *JSONStore) write(records []types.DatasetRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing catalog: %w", err)
	}
	return nil
}
