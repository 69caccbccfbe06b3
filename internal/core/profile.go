package core

import "strings"

// MappingEntry is one key/value pair of a reference mapping.
type MappingEntry struct {
	Key   string
	Value string
}

// Mapping is an immutable lookup table that remembers declaration order.
// A repeated key keeps its first position and takes the last value, the
// same as a map literal with a duplicate key.
type Mapping struct {
	keys  []string
	index map[string]string
}

// NewMapping copies entries into a Mapping.
func NewMapping(entries []MappingEntry) Mapping {
	m := Mapping{index: make(map[string]string, len(entries))}
	for _, e := range entries {
		if _, exists := m.index[e.Key]; !exists {
			m.keys = append(m.keys, e.Key)
		}
		m.index[e.Key] = e.Value
	}
	return m
}

// Lookup returns the value for key. Surrounding whitespace is ignored;
// matching is otherwise exact.
func (m Mapping) Lookup(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	v, ok := m.index[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (m Mapping) Len() int {
	return len(m.keys)
}

// Entries returns the entries in declaration order.
func (m Mapping) Entries() []MappingEntry {
	out := make([]MappingEntry, len(m.keys))
	for i, k := range m.keys {
		out[i] = MappingEntry{Key: k, Value: m.index[k]}
	}
	return out
}

// Values returns the distinct values in order of first appearance.
func (m Mapping) Values() []string {
	seen := make(map[string]bool, len(m.keys))
	out := make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		v := m.index[k]
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Profile groups the reference data and options for one dataset variant.
type Profile struct {
	Key   string // Unique identifier: "worldbank"
	Label string // Display name

	// RegionCodes maps source region codes ("AFR") to continents.
	RegionCodes Mapping

	// Countries maps exact country names to continents. A match always
	// overrides the region code result.
	Countries Mapping

	// PadContinents appends a placeholder row for every RegionCodes value
	// with no observations.
	PadContinents bool

	// YearFilter reports whether presentation clients should offer a year
	// selector for this dataset.
	YearFilter bool
}

// Classifier returns the classifier for this profile's reference maps.
func (p Profile) Classifier() Classifier {
	return NewClassifier(p.RegionCodes, p.Countries)
}

// KnownContinents returns the continents a selection UI should offer:
// every region code continent, then fallback-only continents, in
// declaration order.
func (p Profile) KnownContinents() []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range [][]string{p.RegionCodes.Values(), p.Countries.Values()} {
		for _, c := range list {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}
