package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/LaborStats/internal/core"
)

const postgresRunsDDL = `
CREATE TABLE IF NOT EXISTS load_runs (
	id UUID PRIMARY KEY,
	source TEXT NOT NULL,
	sheet TEXT,
	profile TEXT NOT NULL,
	triggered_by TEXT,
	row_count INTEGER NOT NULL,
	placeholders INTEGER NOT NULL,
	built_at TIMESTAMPTZ NOT NULL
)`

// Postgres caches snapshots in a PostgreSQL table using COPY.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// OpenPostgres connects a pool and ensures load_runs exists.
func OpenPostgres(ctx context.Context, url, table string, maxConns int) (*Postgres, error) {
	if url == "" {
		return nil, fmt.Errorf("postgres cache: empty connection string")
	}

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresRunsDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create load_runs: %w", err)
	}

	return &Postgres{pool: pool, table: table}, nil
}

// Write replaces the cache table with the snapshot rows.
func (p *Postgres) Write(ctx context.Context, snap *core.Snapshot) error {
	start := time.Now()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", core.ErrCacheWrite, err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, dropTableSQL(p.table)); err != nil {
		return fmt.Errorf("%w: drop table: %w", core.ErrCacheWrite, err)
	}
	if _, err := tx.Exec(ctx, createTableSQL(p.table)); err != nil {
		return fmt.Errorf("%w: create table: %w", core.ErrCacheWrite, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{p.table}, columnNames(), pgx.CopyFromRows(copyRows(snap)))
	if err != nil {
		return fmt.Errorf("%w: copy rows: %w", core.ErrCacheWrite, err)
	}

	info := snap.Info()
	_, err = tx.Exec(ctx,
		`INSERT INTO load_runs (id, source, sheet, profile, triggered_by, row_count, placeholders, built_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		info.ID, info.Source, core.ToPgText(info.Sheet), info.Profile,
		core.ToPgText(core.GetTriggerFromContext(ctx)), info.Rows, info.Placeholders, info.BuiltAt,
	)
	if err != nil {
		return fmt.Errorf("%w: record run: %w", core.ErrCacheWrite, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %w", core.ErrCacheWrite, err)
	}

	slog.Debug("postgres cache written",
		"table", p.table,
		"rows", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// copyRows converts snapshot rows to pgtype values for CopyFrom.
func copyRows(snap *core.Snapshot) [][]any {
	out := make([][]any, 0, snap.Len())
	i := 0
	_ = snap.Each(func(o core.Observation) error {
		out = append(out, []any{
			int32(i),
			core.ToPgText(o.Country),
			core.ToPgText(o.CountryCode),
			core.ToPgText(o.RegionCode),
			core.ToPgText(o.IncomeLevel),
			core.ToPgInt4(o.Year),
			core.ToPgFloat8(o.EmploymentRate),
			core.ToPgFloat8(o.UnemploymentRate),
			core.ToPgFloat8(o.LaborForceParticipationRate),
			core.ToPgFloat8(o.YouthUnemploymentRate),
			o.Continent,
			o.Placeholder,
		})
		i++
		return nil
	})
	return out
}

// Runs returns the most recent writes, newest first.
func (p *Postgres) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := p.pool.Query(ctx,
		`SELECT id::text, source, COALESCE(sheet, ''), profile, COALESCE(triggered_by, ''), row_count, placeholders, built_at
		 FROM load_runs ORDER BY built_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query load_runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.Sheet, &r.Profile, &r.Trigger, &r.Rows, &r.Placeholders, &r.BuiltAt); err != nil {
			return nil, fmt.Errorf("scan load_runs: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DropTable removes the cache table.
func (p *Postgres) DropTable(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, dropTableSQL(p.table)); err != nil {
		return fmt.Errorf("drop %s: %w", p.table, err)
	}
	return nil
}

// ClearRuns deletes the load_runs history.
func (p *Postgres) ClearRuns(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, "DELETE FROM load_runs"); err != nil {
		return fmt.Errorf("clear load_runs: %w", err)
	}
	return nil
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
