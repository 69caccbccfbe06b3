package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]Profile)
	registryMu sync.RWMutex
)

// Register adds a dataset profile to the registry.
// Panics if a profile with the same key is already registered.
func Register(p Profile) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if p.Key == "" {
		panic("profile key is empty")
	}
	if _, exists := registry[p.Key]; exists {
		panic(fmt.Sprintf("profile already registered: %s", p.Key))
	}

	if p.Label == "" {
		p.Label = p.Key
	}

	registry[p.Key] = p
}

// Get returns a profile by key.
// Returns false if not found.
func Get(key string) (Profile, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[key]
	return p, ok
}

// MustGet returns a profile by key or an error wrapping ErrUnknownProfile.
func MustGet(key string) (Profile, error) {
	p, ok := Get(key)
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, key)
	}
	return p, nil
}

// All returns all registered profiles sorted by key.
func All() []Profile {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Profile, 0, len(registry))
	for _, p := range registry {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// ProfileCount returns the number of registered profiles.
func ProfileCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered profiles.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Profile)
}
