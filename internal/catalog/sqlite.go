// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/dataset-curator/pkg/types"
)

// SQLiteStore keeps the catalog in a SQLite table keyed by Dataset_URL.
// Unlike the JSON document it is safe under concurrent writers: the
// read-modify-write cycle the document store needs becomes a single
// statement here. Insertion order is preserved through the seq column;
// updates keep their seq, so an updated entry keeps its position.
type SQLiteStore struct {
	db     *sql.DB
	policy types.SavePolicy
}

// NewSQLiteStore opens or creates the catalog database at path.
func NewSQLiteStore(path string, policy types.SavePolicy) (*SQLiteStore, error) {
	if path == "" {
		path = "curated_datasets.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS datasets (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		record TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}

	return &SQLiteStore{db: db, policy: policy}, nil
}

// Save assigns identity and timestamp to rec and upserts it per the store
// policy.
func (s *SQLiteStore) Save(ctx context.Context, rec *types.DatasetRecord) (*SaveResult, error) {
	stamp(rec)

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx,
		`SELECT seq FROM datasets WHERE url = ?`, rec.DatasetURL,
	).Scan(&seq)

	result := &SaveResult{}
	switch {
	case err == nil && s.policy == types.PolicySkip:
		result.Status = StatusExists
		result.Message = "Dataset already in database"

	case err == nil:
		if _, err := tx.ExecContext(ctx,
			`UPDATE datasets SET record = ? WHERE seq = ?`, string(data), seq,
		); err != nil {
			return nil, fmt.Errorf("updating record: %w", err)
		}
		result.Status = StatusUpdated
		result.Message = "Dataset updated in database"

	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO datasets (url, record) VALUES (?, ?)`,
			rec.DatasetURL, string(data),
		); err != nil {
			return nil, fmt.Errorf("inserting record: %w", err)
		}
		result.Status = StatusSaved

	default:
		return nil, fmt.Errorf("querying catalog: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM datasets`).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}
	result.DatasetCount = count
	if result.Status == StatusSaved {
		result.Message = fmt.Sprintf("Successfully saved. Total datasets: %d", count)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing save: %w", err)
	}
	return result, nil
}

// Load returns the catalog contents, newest-first.
func (s *SQLiteStore) Load(ctx context.Context) ([]types.DatasetRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM datasets ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var records []types.DatasetRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var rec types.DatasetRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats returns the catalog size and the five most recent entries.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalDatasets:  len(records),
		RecentDatasets: recentOf(records, 5),
	}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
