// Package cache persists built snapshots to a relational store.
//
// Each write replaces the cache table wholesale inside one transaction
// (drop, create, insert) and appends a row to load_runs. The cache is a
// convenience copy for ad-hoc SQL; the service keeps serving from memory
// when a write fails.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/LaborStats/internal/core"
)

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// DefaultBatchSize is the number of rows per insert statement when Config
// does not set one.
const DefaultBatchSize = 500

// Config selects and configures a cache backend.
type Config struct {
	Driver    string
	Path      string // SQLite file
	URL       string // PostgreSQL connection string
	Table     string
	BatchSize int
	MaxConns  int
}

// Run is one recorded snapshot write.
type Run struct {
	ID           string
	Source       string
	Sheet        string
	Profile      string
	Trigger      string
	Rows         int
	Placeholders int
	BuiltAt      time.Time
}

// Store is a cache backend.
type Store interface {
	core.CacheWriter

	// Runs returns the most recent writes, newest first.
	Runs(ctx context.Context, limit int) ([]Run, error)

	// DropTable removes the cache table.
	DropTable(ctx context.Context) error

	// ClearRuns deletes the load_runs history.
	ClearRuns(ctx context.Context) error
}

// Open returns the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Table == "" {
		cfg.Table = "employment"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "":
		s, err := OpenSQLite(ctx, cfg.Path, cfg.Table, cfg.BatchSize)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		p, err := OpenPostgres(ctx, cfg.URL, cfg.Table, cfg.MaxConns)
		if err != nil {
			return nil, err
		}
		return p, nil
	case DriverNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Nop discards writes.
type Nop struct{}

func (Nop) Write(context.Context, *core.Snapshot) error { return nil }

func (Nop) Runs(context.Context, int) ([]Run, error) { return nil, nil }

func (Nop) DropTable(context.Context) error { return nil }

func (Nop) ClearRuns(context.Context) error { return nil }

func (Nop) Close() error { return nil }
