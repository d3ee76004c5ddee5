// Package icu probes a SQLite connection for ICU and collation support and
// registers pure-Go replacements when the engine ships without ICU.
package icu

import (
	"context"
	"database/sql"
	"log/slog"
)

// ExtensionName is the loadable ICU module tried first.
const ExtensionName = "libsqliteicu"

// Execer is the slice of *sql.DB, *sql.Conn and *sql.Tx used by the probes.
// Temp tables and pragmas are per connection, so pass a *sql.Conn (or a DB
// limited to one open connection) when the results matter.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// EnableICUSupport tries, in order, to load the ICU extension, to confirm a
// case-insensitive collation works, and to turn off case-sensitive LIKE.
// Every step runs regardless of the previous one failing. Nothing is returned:
// the outcome of each step is only visible in the log.
func EnableICUSupport(ctx context.Context, db Execer, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("sqlite: failed to enable ICU support", "error", r)
		}
	}()
	if db == nil {
		return
	}

	guard(logger, "load extension", func() { loadExtension(ctx, db, logger) })
	guard(logger, "collation test", func() { testCollation(ctx, db, logger) })
	guard(logger, "case-insensitive like", func() { disableCaseSensitiveLike(ctx, db, logger) })
}

// guard runs one probe step, turning a panic into a warning.
func guard(logger *slog.Logger, step string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("sqlite: ICU probe step failed", "step", step, "error", r)
		}
	}()
	fn()
}

func loadExtension(ctx context.Context, db Execer, logger *slog.Logger) {
	if _, err := db.ExecContext(ctx, "SELECT load_extension('"+ExtensionName+"')"); err != nil {
		logger.Warn("sqlite: ICU extension not available as loadable module, checking built-in support",
			"extension", ExtensionName, "error", err)
		return
	}
	logger.Info("sqlite: ICU extension loaded", "extension", ExtensionName)
}

func testCollation(ctx context.Context, db Execer, logger *slog.Logger) {
	if _, err := db.ExecContext(ctx, `CREATE TEMP TABLE icu_test (text TEXT COLLATE NOCASE)`); err != nil {
		logger.Warn("sqlite: ICU collation test failed", "error", err)
		return
	}
	defer db.ExecContext(ctx, `DROP TABLE IF EXISTS temp.icu_test`)

	if _, err := db.ExecContext(ctx, `INSERT INTO icu_test VALUES ('Test'), ('test'), ('TEST')`); err != nil {
		logger.Warn("sqlite: ICU collation test failed", "error", err)
		return
	}
	n, err := countRows(ctx, db, `SELECT * FROM icu_test WHERE text = 'test' COLLATE NOCASE`)
	if err != nil {
		logger.Warn("sqlite: ICU collation test failed", "error", err)
		return
	}
	if n == 0 {
		logger.Warn("sqlite: ICU collation test matched no rows")
		return
	}
	logger.Info("sqlite: ICU collation support confirmed", "matches", n)
}

func disableCaseSensitiveLike(ctx context.Context, db Execer, logger *slog.Logger) {
	if _, err := db.ExecContext(ctx, `PRAGMA case_sensitive_like = OFF`); err != nil {
		logger.Warn("sqlite: failed to apply Unicode settings", "error", err)
		return
	}
	logger.Info("sqlite: Unicode-aware settings applied")
}

// countRows runs query and counts the rows it yields.
func countRows(ctx context.Context, db Execer, query string) (int, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}

// scanCount runs a SELECT COUNT(*) query.
func scanCount(ctx context.Context, db Execer, query string) (int, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}
