package core

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	saved := All()
	t.Cleanup(func() {
		Clear()
		for _, p := range saved {
			Register(p)
		}
	})
	Clear()

	Register(Profile{Key: "b"})
	Register(Profile{Key: "a", Label: "Alpha"})

	if ProfileCount() != 2 {
		t.Fatalf("ProfileCount() = %d, want 2", ProfileCount())
	}

	p, ok := Get("b")
	if !ok || p.Label != "b" {
		t.Errorf("Get(b) = %+v, %v; label should default to key", p, ok)
	}

	all := All()
	if all[0].Key != "a" || all[1].Key != "b" {
		t.Errorf("All() not sorted: %v, %v", all[0].Key, all[1].Key)
	}

	if _, err := MustGet("missing"); !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("MustGet(missing) error = %v, want ErrUnknownProfile", err)
	}
}

func TestRegister_Panics(t *testing.T) {
	saved := All()
	t.Cleanup(func() {
		Clear()
		for _, p := range saved {
			Register(p)
		}
	})
	Clear()

	assertPanics := func(name string, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		fn()
	}

	assertPanics("empty key", func() { Register(Profile{}) })

	Register(Profile{Key: "dup"})
	assertPanics("duplicate key", func() { Register(Profile{Key: "dup"}) })
}

func TestMapping(t *testing.T) {
	m := NewMapping([]MappingEntry{
		{Key: "New Zealand", Value: "East Asia & Pacific"},
		{Key: "Kenya", Value: "Africa"},
		{Key: "New Zealand", Value: "Oceania"},
	})

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if v, ok := m.Lookup("New Zealand"); !ok || v != "Oceania" {
		t.Errorf("duplicate key: Lookup = %q, %v; want last value Oceania", v, ok)
	}
	if v, ok := m.Lookup("  Kenya "); !ok || v != "Africa" {
		t.Errorf("trimmed Lookup = %q, %v", v, ok)
	}
	if _, ok := m.Lookup(""); ok {
		t.Error("empty key should not match")
	}

	entries := m.Entries()
	if entries[0].Key != "New Zealand" || entries[1].Key != "Kenya" {
		t.Errorf("Entries() order = %v; duplicate should keep first position", entries)
	}

	values := m.Values()
	if len(values) != 2 || values[0] != "Oceania" || values[1] != "Africa" {
		t.Errorf("Values() = %v", values)
	}
}

func TestProfile_KnownContinents(t *testing.T) {
	got := testProfile().KnownContinents()
	want := []string{"Africa", "Europe & Central Asia", "South Asia", "Oceania", "North America"}
	if len(got) != len(want) {
		t.Fatalf("KnownContinents() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
