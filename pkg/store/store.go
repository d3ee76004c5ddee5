// Package store keeps searchable text entries in SQLite and matches them with
// the fold and icu fragment builders.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hazyhaar/unifold/pkg/icu"
)

var (
	ErrEmptyQuery   = errors.New("empty search text")
	ErrUnknownField = errors.New("unknown field")
	ErrUnknownMatch = errors.New("unknown match mode")
)

// Entry is one searchable row.
type Entry struct {
	ID        string `json:"id"`
	Term      string `json:"term"`
	Body      string `json:"body,omitempty"`
	Source    string `json:"source,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Import is a row of the imports table.
type Import struct {
	DatasetID  string  `json:"dataset_id"`
	SourceURL  string  `json:"source_url"`
	License    string  `json:"license"`
	Rows       int     `json:"rows"`
	LastError  *string `json:"last_error,omitempty"`
	ImportedAt int64   `json:"imported_at"`
	LastStatus *int    `json:"last_status,omitempty"`
	CheckedAt  *int64  `json:"checked_at,omitempty"`
}

// Options configures Open.
type Options struct {
	// Driver is icu.DriverName (default) or icu.CgoDriverName.
	Driver string
	// Probe runs the ICU probe and strategy detection once after opening.
	Probe  bool
	Logger *slog.Logger
}

// Store manages the entries and imports tables.
type Store struct {
	db       *sql.DB
	logger   *slog.Logger
	strategy icu.Strategy
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         TEXT PRIMARY KEY,
	term       TEXT NOT NULL,
	body       TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_term ON entries(term);
CREATE TABLE IF NOT EXISTS imports (
	dataset_id  TEXT PRIMARY KEY,
	source_url  TEXT NOT NULL,
	license     TEXT NOT NULL DEFAULT '',
	row_count   INTEGER NOT NULL DEFAULT 0,
	last_error  TEXT,
	imported_at INTEGER NOT NULL,
	last_status INTEGER,
	checked_at  INTEGER
)`

// Open opens (or creates) the SQLite database at path and ensures the schema.
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Driver == "" {
		opts.Driver = icu.DriverName
	}

	db, err := sql.Open(opts.Driver, dsn(opts.Driver, path))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s := &Store{db: db, logger: opts.Logger, strategy: icu.StrategyNone}
	if opts.Probe {
		if err := s.probe(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

func dsn(driver, path string) string {
	if driver == icu.CgoDriverName {
		return "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	return path + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
}

// probe runs the ICU probes on one dedicated connection.
func (s *Store) probe(ctx context.Context) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("probe conn: %w", err)
	}
	defer conn.Close()

	icu.EnableICUSupport(ctx, conn, s.logger)
	s.strategy = icu.DetectStrategy(ctx, conn, s.logger)
	return nil
}

// Strategy returns the strategy found by the probe, or icu.StrategyNone.
func (s *Store) Strategy() icu.Strategy {
	return s.strategy
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts entries in a single transaction and returns how many were
// written. Entries without an ID get a random UUID.
func (s *Store) Add(ctx context.Context, entries []Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO entries
		(id, term, body, source, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	n := 0
	for i := range entries {
		e := &entries[i]
		if strings.TrimSpace(e.Term) == "" {
			continue
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt == 0 {
			e.CreatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Term, e.Body, e.Source, e.CreatedAt); err != nil {
			return 0, fmt.Errorf("insert %s: %w", e.ID, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Get returns a single entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT id, term, body, source, created_at FROM entries WHERE id = ?`, id,
	).Scan(&e.ID, &e.Term, &e.Body, &e.Source, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	return &e, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// RecordImport upserts the outcome of a dataset import.
func (s *Store) RecordImport(ctx context.Context, imp Import) error {
	if imp.ImportedAt == 0 {
		imp.ImportedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO imports
		(dataset_id, source_url, license, row_count, last_error, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(dataset_id) DO UPDATE SET
			source_url = excluded.source_url,
			license = excluded.license,
			row_count = excluded.row_count,
			last_error = excluded.last_error,
			imported_at = excluded.imported_at`,
		imp.DatasetID, imp.SourceURL, imp.License, imp.Rows, imp.LastError, imp.ImportedAt)
	if err != nil {
		return fmt.Errorf("record import %s: %w", imp.DatasetID, err)
	}
	return nil
}

// RecordCheck stores the result of a source availability check. A passing
// check (empty checkErr) clears last_error.
func (s *Store) RecordCheck(ctx context.Context, datasetID string, status int, checkErr string) error {
	var errVal *string
	if checkErr != "" {
		errVal = &checkErr
	}
	_, err := s.db.ExecContext(ctx, `UPDATE imports SET last_status = ?, checked_at = ?,
		last_error = ? WHERE dataset_id = ?`,
		status, time.Now().Unix(), errVal, datasetID)
	if err != nil {
		return fmt.Errorf("record check %s: %w", datasetID, err)
	}
	return nil
}

// ListImports returns all rows from imports ordered by dataset_id.
func (s *Store) ListImports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT dataset_id, source_url, license, row_count,
		last_error, imported_at, last_status, checked_at FROM imports ORDER BY dataset_id`)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.DatasetID, &imp.SourceURL, &imp.License, &imp.Rows,
			&imp.LastError, &imp.ImportedAt, &imp.LastStatus, &imp.CheckedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}
