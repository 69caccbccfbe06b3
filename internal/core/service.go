package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultCacheTimeout bounds a single cache write when the service config
// does not set one.
var DefaultCacheTimeout = 30 * time.Second

// Loader produces the raw source table.
type Loader interface {
	Load(ctx context.Context) (*RawTable, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*RawTable, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (*RawTable, error) {
	return f(ctx)
}

// CacheWriter persists a snapshot, replacing any previous contents.
type CacheWriter interface {
	Write(ctx context.Context, snap *Snapshot) error
	Close() error
}

// ServiceConfig holds the dataset options for a Service.
type ServiceConfig struct {
	Profile Profile

	// Pad overrides Profile.PadContinents when non-nil.
	Pad *bool

	// RequireSelection rejects queries with an empty selection.
	RequireSelection bool

	// CacheTimeout bounds each cache write (default: DefaultCacheTimeout).
	CacheTimeout time.Duration
}

// Service provides the pipeline and query operations over the active snapshot.
type Service struct {
	loader Loader
	cache  CacheWriter
	cfg    ServiceConfig
	store  Store

	refreshMu sync.Mutex // one builder at a time

	statusMu     sync.RWMutex
	lastCacheErr error
	lastRefresh  time.Time
}

// RefreshResult reports the outcome of a rebuild.
type RefreshResult struct {
	Snapshot *Snapshot
	Previous *Snapshot
	CacheErr error // non-nil when the snapshot is live but was not cached
}

// NewService creates a new Service instance. cache may be nil.
func NewService(loader Loader, cache CacheWriter, cfg ServiceConfig) (*Service, error) {
	if loader == nil {
		return nil, errors.New("loader is required")
	}
	if cfg.Profile.Key == "" {
		return nil, fmt.Errorf("%w: empty profile", ErrUnknownProfile)
	}
	if cfg.CacheTimeout <= 0 {
		cfg.CacheTimeout = DefaultCacheTimeout
	}
	return &Service{
		loader: loader,
		cache:  cache,
		cfg:    cfg,
	}, nil
}

// Refresh loads the source, builds a new snapshot off to the side, publishes
// it, and then writes it to the cache.
//
// Load and schema failures return an error and leave the active snapshot
// untouched. A cache failure does not: the new snapshot is already serving
// and the failure is reported in RefreshResult.CacheErr.
func (s *Service) Refresh(ctx context.Context) (*RefreshResult, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	logger := slog.Default().With(
		"profile", s.cfg.Profile.Key,
		"trigger", GetTriggerFromContext(ctx),
	)

	raw, err := s.loader.Load(ctx)
	if err != nil {
		logger.Error("source load failed", "error", err)
		return nil, err
	}

	snap, err := Build(ctx, raw, s.cfg.Profile, BuildOptions{Pad: s.cfg.Pad})
	if err != nil {
		logger.Error("snapshot build failed", "error", err)
		return nil, err
	}

	prev := s.store.Swap(snap)
	info := snap.Info()
	logger.Info("snapshot published",
		"snapshot_id", info.ID,
		"rows", info.Rows,
		"placeholders", info.Placeholders,
		"unknown_continent", info.Unknown,
		"missing_country", info.Normalize.MissingCountry,
		"duration_ms", info.Duration.Milliseconds(),
	)

	result := &RefreshResult{Snapshot: snap, Previous: prev}
	result.CacheErr = s.writeCache(ctx, snap)
	if result.CacheErr != nil {
		logger.Warn("cache write failed, serving from memory",
			"snapshot_id", info.ID,
			"error", result.CacheErr,
		)
	}

	s.statusMu.Lock()
	s.lastCacheErr = result.CacheErr
	s.lastRefresh = time.Now()
	s.statusMu.Unlock()

	return result, nil
}

func (s *Service) writeCache(ctx context.Context, snap *Snapshot) error {
	if s.cache == nil {
		return nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.cfg.CacheTimeout)
	defer cancel()

	if err := s.cache.Write(writeCtx, snap); err != nil {
		if errors.Is(err, ErrCacheWrite) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	return nil
}

// Snapshot returns the active snapshot or ErrNoSnapshot.
func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.store.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Profile returns the configured dataset profile.
func (s *Service) Profile() Profile {
	return s.cfg.Profile
}

// Query filters the active snapshot. The service-wide RequireSelection
// setting applies in addition to q.RequireSelection.
func (s *Service) Query(q Query) ([]Observation, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	q.RequireSelection = q.RequireSelection || s.cfg.RequireSelection
	return snap.Filter(q)
}

// Options lists the values presentation clients need to build selection widgets.
type Options struct {
	SnapshotID string   `json:"snapshotId"`
	Modes      []Mode   `json:"modes"`
	YearFilter bool     `json:"yearFilter"`
	Years      []int    `json:"years"`
	Countries  []string `json:"countries"`
	Continents []string `json:"continents"`
}

// Options returns the selection values of the active snapshot. Continents
// include every continent known to the profile followed by any others
// present in the table (such as UnknownContinent).
func (s *Service) Options() (Options, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return Options{}, err
	}

	continents := s.cfg.Profile.KnownContinents()
	seen := make(map[string]bool, len(continents))
	for _, c := range continents {
		seen[c] = true
	}
	for _, c := range snap.Continents() {
		if !seen[c] {
			seen[c] = true
			continents = append(continents, c)
		}
	}

	return Options{
		SnapshotID: snap.Info().ID.String(),
		Modes:      Modes,
		YearFilter: s.cfg.Profile.YearFilter,
		Years:      snap.Years(),
		Countries:  snap.Countries(),
		Continents: continents,
	}, nil
}

// Status describes the service state for health and diagnostics endpoints.
type Status struct {
	Loaded       bool
	Info         BuildInfo
	LastRefresh  time.Time
	LastCacheErr string
}

// Status returns the current service state.
func (s *Service) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()

	st := Status{LastRefresh: s.lastRefresh}
	if s.lastCacheErr != nil {
		st.LastCacheErr = s.lastCacheErr.Error()
	}
	if snap := s.store.Load(); snap != nil {
		st.Loaded = true
		st.Info = snap.Info()
	}
	return st
}

// Close releases the cache store.
func (s *Service) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}
