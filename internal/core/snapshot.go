package core

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// BuildOptions controls a single table build.
type BuildOptions struct {
	// Pad overrides Profile.PadContinents when non-nil.
	Pad *bool
}

// Snapshot is an immutable, fully classified table. Accessors return copies.
type Snapshot struct {
	info    BuildInfo
	profile Profile
	rows    []Observation
}

// Build runs normalize, classify and (optionally) pad over a raw table and
// returns a new snapshot. The raw table is not modified.
func Build(ctx context.Context, raw *RawTable, profile Profile, opts BuildOptions) (*Snapshot, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: no table", ErrSchema)
	}

	rows, stats, err := Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", raw.Source, err)
	}

	rows = profile.Classifier().ClassifyAll(rows)

	pad := profile.PadContinents
	if opts.Pad != nil {
		pad = *opts.Pad
	}

	realRows := len(rows)
	if pad {
		rows = PadContinents(rows, profile.RegionCodes.Values())
	}

	unknown := 0
	for _, row := range rows {
		if row.Continent == UnknownContinent {
			unknown++
		}
	}

	return &Snapshot{
		info: BuildInfo{
			ID:           uuid.New(),
			Source:       raw.Source,
			Sheet:        raw.Sheet,
			Profile:      profile.Key,
			BuiltAt:      start.UTC(),
			Duration:     time.Since(start),
			Rows:         len(rows),
			Placeholders: len(rows) - realRows,
			Unknown:      unknown,
			Normalize:    stats,
		},
		profile: profile,
		rows:    rows,
	}, nil
}

// NewSnapshot wraps already classified rows. Used by tests and by callers
// that rebuild a snapshot from a cache.
func NewSnapshot(profile Profile, rows []Observation) *Snapshot {
	cp := make([]Observation, len(rows))
	copy(cp, rows)
	return &Snapshot{
		info: BuildInfo{
			ID:      uuid.New(),
			Profile: profile.Key,
			BuiltAt: time.Now().UTC(),
			Rows:    len(cp),
		},
		profile: profile,
		rows:    cp,
	}
}

// Info returns the build metadata.
func (s *Snapshot) Info() BuildInfo {
	return s.info
}

// Profile returns the profile the snapshot was built with.
func (s *Snapshot) Profile() Profile {
	return s.profile
}

// Len returns the number of rows, including placeholders.
func (s *Snapshot) Len() int {
	return len(s.rows)
}

// Rows returns a copy of all rows in table order.
func (s *Snapshot) Rows() []Observation {
	out := make([]Observation, len(s.rows))
	copy(out, s.rows)
	return out
}

// Each calls fn for every row in table order without copying the table.
// Iteration stops at the first error.
func (s *Snapshot) Each(fn func(Observation) error) error {
	for _, row := range s.rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// Years returns the distinct survey years, newest first.
func (s *Snapshot) Years() []int {
	seen := make(map[int]bool)
	var out []int
	for _, row := range s.rows {
		if row.Year.Valid && !seen[row.Year.Value] {
			seen[row.Year.Value] = true
			out = append(out, row.Year.Value)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// Countries returns the distinct non-empty country names in order of first
// appearance.
func (s *Snapshot) Countries() []string {
	return s.distinct(func(o Observation) string { return o.Country })
}

// Continents returns the distinct continents present in the table in order
// of first appearance.
func (s *Snapshot) Continents() []string {
	return s.distinct(func(o Observation) string { return o.Continent })
}

func (s *Snapshot) distinct(field func(Observation) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range s.rows {
		v := field(row)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Store holds the active snapshot. Swaps are atomic; readers always see a
// complete snapshot or none.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// Load returns the active snapshot, or nil before the first Swap.
func (st *Store) Load() *Snapshot {
	return st.current.Load()
}

// Swap publishes snap and returns the previous snapshot.
func (st *Store) Swap(snap *Snapshot) *Snapshot {
	return st.current.Swap(snap)
}
