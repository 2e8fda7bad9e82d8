package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const IndexFile = "index.db"

const indexSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	timestamp  INTEGER NOT NULL,
	seed       INTEGER NOT NULL,
	candidates INTEGER NOT NULL,
	workers    INTEGER NOT NULL,
	step       REAL NOT NULL,
	field      TEXT NOT NULL,
	summary    TEXT NOT NULL,
	elapsed_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
`

// Index is a SQLite table of run metadata for querying runs without
// reading every run directory. Module descriptions are not indexed.
type Index struct {
	db *sql.DB
}

// OpenIndex opens or creates the index database at path.
func OpenIndex(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize index schema: %w", err)
	}
	return &Index{db: db}, nil
}

func (x *Index) Close() error {
	return x.db.Close()
}

// Put inserts meta, replacing any row with the same run id.
func (x *Index) Put(ctx context.Context, meta RunMetadata) error {
	summary, err := json.Marshal(meta.Summary)
	if err != nil {
		return err
	}
	_, err = x.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, name, timestamp, seed, candidates, workers, step, field, summary, elapsed_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Name, meta.Timestamp.UnixNano(), meta.Seed, meta.Candidates,
		meta.Workers, meta.Step, meta.Field, string(summary), int64(meta.Elapsed))
	if err != nil {
		return fmt.Errorf("failed to index run %s: %w", meta.ID, err)
	}
	return nil
}

// Count returns the number of indexed runs.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// Find returns the indexed runs named name, oldest first. An empty name
// matches every run.
func (x *Index) Find(ctx context.Context, name string) ([]RunMetadata, error) {
	query := `SELECT id, name, timestamp, seed, candidates, workers, step, field, summary, elapsed_ns FROM runs`
	var args []any
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY timestamp, id`

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var (
			meta    RunMetadata
			ts      int64
			summary string
			elapsed int64
		)
		if err := rows.Scan(&meta.ID, &meta.Name, &ts, &meta.Seed, &meta.Candidates,
			&meta.Workers, &meta.Step, &meta.Field, &summary, &elapsed); err != nil {
			return nil, err
		}
		meta.Timestamp = time.Unix(0, ts)
		meta.Elapsed = time.Duration(elapsed)
		if err := json.Unmarshal([]byte(summary), &meta.Summary); err != nil {
			return nil, fmt.Errorf("run %s: bad summary: %w", meta.ID, err)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// Rebuild replaces the index content with the runs found in st and returns
// how many were indexed.
func (x *Index) Rebuild(ctx context.Context, st *Store) (int, error) {
	runs, err := st.List()
	if err != nil {
		return 0, err
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return 0, err
	}
	for _, meta := range runs {
		summary, err := json.Marshal(meta.Summary)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO runs
				(id, name, timestamp, seed, candidates, workers, step, field, summary, elapsed_ns)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			meta.ID, meta.Name, meta.Timestamp.UnixNano(), meta.Seed, meta.Candidates,
			meta.Workers, meta.Step, meta.Field, string(summary), int64(meta.Elapsed)); err != nil {
			return 0, fmt.Errorf("failed to index run %s: %w", meta.ID, err)
		}
	}
	return len(runs), tx.Commit()
}

// IndexPath returns the default index location inside the store directory.
func (s *Store) IndexPath() string {
	return filepath.Join(s.baseDir, IndexFile)
}
