package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/JonMunkholm/LaborStats/internal/core"
)

const sqliteRunsDDL = `
CREATE TABLE IF NOT EXISTS load_runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	sheet TEXT,
	profile TEXT NOT NULL,
	triggered_by TEXT,
	row_count INTEGER NOT NULL,
	placeholders INTEGER NOT NULL,
	built_at TEXT NOT NULL
)`

// builtAtLayout is fixed width so built_at sorts chronologically as text.
const builtAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// maxSQLiteVariables is SQLite's default bound-parameter limit.
const maxSQLiteVariables = 32766

// maxSQLiteBatchSize is the largest batch whose INSERT stays within
// maxSQLiteVariables.
var maxSQLiteBatchSize = maxSQLiteVariables / len(columns)

// SQLite caches snapshots in a local SQLite file.
type SQLite struct {
	db        *sql.DB
	table     string
	batchSize int
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(ctx context.Context, path, table string, batchSize int) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite cache: empty path")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize > maxSQLiteBatchSize {
		slog.Warn("sqlite batch size exceeds variable limit, clamping",
			"requested", batchSize,
			"max", maxSQLiteBatchSize,
		)
		batchSize = maxSQLiteBatchSize
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteRunsDDL); err != nil {
		db.Close() // nolint:errcheck
		return nil, fmt.Errorf("error creating load_runs: %w", err)
	}

	return &SQLite{db: db, table: table, batchSize: batchSize}, nil
}

// DB exposes the underlying handle for read-only inspection.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Write replaces the cache table with the snapshot rows.
func (s *SQLite) Write(ctx context.Context, snap *core.Snapshot) error {
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", core.ErrCacheWrite, err)
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.ExecContext(ctx, dropTableSQL(s.table)); err != nil {
		return fmt.Errorf("%w: drop table: %w", core.ErrCacheWrite, err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(s.table)); err != nil {
		return fmt.Errorf("%w: create table: %w", core.ErrCacheWrite, err)
	}

	rows := snap.Rows()
	for lo := 0; lo < len(rows); lo += s.batchSize {
		hi := min(lo+s.batchSize, len(rows))
		query, args := s.insertBatch(rows[lo:hi], lo)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: insert rows %d-%d: %w", core.ErrCacheWrite, lo, hi-1, err)
		}
	}

	info := snap.Info()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO load_runs (id, source, sheet, profile, triggered_by, row_count, placeholders, built_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		info.ID.String(), info.Source, info.Sheet, info.Profile,
		core.GetTriggerFromContext(ctx), info.Rows, info.Placeholders,
		info.BuiltAt.UTC().Format(builtAtLayout),
	)
	if err != nil {
		return fmt.Errorf("%w: record run: %w", core.ErrCacheWrite, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", core.ErrCacheWrite, err)
	}

	slog.Debug("sqlite cache written",
		"table", s.table,
		"rows", len(rows),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// insertBatch builds one multi-row INSERT. offset is the row_index of rows[0].
func (s *SQLite) insertBatch(rows []core.Observation, offset int) (string, []any) {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", quoteIdent(s.table), strings.Join(columnNames(), ", "))

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(placeholder)
		args = append(args, rowValues(offset+i, row)...)
	}
	return b.String(), args
}

// Runs returns the most recent writes, newest first.
func (s *SQLite) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, COALESCE(sheet, ''), profile, COALESCE(triggered_by, ''), row_count, placeholders, built_at
		 FROM load_runs ORDER BY built_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query load_runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var builtAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.Sheet, &r.Profile, &r.Trigger, &r.Rows, &r.Placeholders, &builtAt); err != nil {
			return nil, fmt.Errorf("scan load_runs: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, builtAt); err == nil {
			r.BuiltAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DropTable removes the cache table.
func (s *SQLite) DropTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, dropTableSQL(s.table)); err != nil {
		return fmt.Errorf("drop %s: %w", s.table, err)
	}
	return nil
}

// ClearRuns deletes the load_runs history.
func (s *SQLite) ClearRuns(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM load_runs"); err != nil {
		return fmt.Errorf("clear load_runs: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
