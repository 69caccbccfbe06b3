package core

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestBuild(t *testing.T) {
	snap, err := Build(context.Background(), testRaw(), testProfile(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	info := snap.Info()
	if info.Rows != 6 || snap.Len() != 6 {
		t.Errorf("rows = %d / %d, want 6", info.Rows, snap.Len())
	}
	if info.Placeholders != 0 {
		t.Errorf("Placeholders = %d, want 0 (profile does not pad)", info.Placeholders)
	}
	if info.Unknown != 1 {
		t.Errorf("Unknown = %d, want 1 (Atlantis)", info.Unknown)
	}
	if info.Source != "fixture.xlsx" || info.Sheet != "Sheet1" || info.Profile != "test" {
		t.Errorf("info = %+v", info)
	}

	rows := snap.Rows()
	if rows[3].Country != "United States" || rows[3].Continent != "North America" {
		t.Errorf("fallback not applied: %+v", rows[3])
	}
}

func TestBuild_PadOverride(t *testing.T) {
	pad := true
	snap, err := Build(context.Background(), testRaw(), testProfile(), BuildOptions{Pad: &pad})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Region continents without data: Oceania. Europe & Central Asia is
	// present through the empty-country row.
	info := snap.Info()
	if info.Placeholders != 1 {
		t.Fatalf("Placeholders = %d, want 1", info.Placeholders)
	}
	last := snap.Rows()[snap.Len()-1]
	if last.Continent != "Oceania" || !last.Placeholder {
		t.Errorf("last row = %+v, want Oceania placeholder", last)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	raw := testRaw()
	a, err := Build(context.Background(), raw, testProfile(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	b, err := Build(context.Background(), raw, testProfile(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if !reflect.DeepEqual(a.Rows(), b.Rows()) {
		t.Error("two builds from the same input differ")
	}
	if a.Info().ID == b.Info().ID {
		t.Error("each build should get its own ID")
	}
	if !reflect.DeepEqual(raw, testRaw()) {
		t.Error("Build modified the raw table")
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, err := Build(context.Background(), nil, testProfile(), BuildOptions{}); !errors.Is(err, ErrSchema) {
		t.Errorf("nil raw: error = %v, want ErrSchema", err)
	}

	bad := &RawTable{Headers: []string{"Country Name"}}
	if _, err := Build(context.Background(), bad, testProfile(), BuildOptions{}); !errors.Is(err, ErrSchema) {
		t.Errorf("bad headers: error = %v, want ErrSchema", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, testRaw(), testProfile(), BuildOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled ctx: error = %v, want context.Canceled", err)
	}
}

func TestSnapshot_RowsReturnsCopy(t *testing.T) {
	snap, err := Build(context.Background(), testRaw(), testProfile(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	rows := snap.Rows()
	rows[0].Country = "Mutated"

	if snap.Rows()[0].Country != "Kenya" {
		t.Error("mutating Rows() result changed the snapshot")
	}
}

func TestSnapshot_Accessors(t *testing.T) {
	snap, err := Build(context.Background(), testRaw(), testProfile(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got, want := snap.Years(), []int{2020, 2019}; !reflect.DeepEqual(got, want) {
		t.Errorf("Years() = %v, want %v", got, want)
	}
	if got, want := snap.Countries(), []string{"Kenya", "India", "United States", "Atlantis"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Countries() = %v, want %v", got, want)
	}
	wantContinents := []string{"Africa", "South Asia", "North America", UnknownContinent, "Europe & Central Asia"}
	if got := snap.Continents(); !reflect.DeepEqual(got, wantContinents) {
		t.Errorf("Continents() = %v, want %v", got, wantContinents)
	}

	count := 0
	stop := errors.New("stop")
	err = snap.Each(func(Observation) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || count != 2 {
		t.Errorf("Each() = %v after %d rows, want stop after 2", err, count)
	}
}

func TestStore_Swap(t *testing.T) {
	var st Store
	if st.Load() != nil {
		t.Fatal("zero Store should be empty")
	}

	first := NewSnapshot(testProfile(), []Observation{{Country: "Kenya"}})
	second := NewSnapshot(testProfile(), []Observation{{Country: "India"}})

	if prev := st.Swap(first); prev != nil {
		t.Errorf("first Swap returned %v, want nil", prev)
	}
	if prev := st.Swap(second); prev != first {
		t.Error("second Swap should return the first snapshot")
	}
	if st.Load() != second {
		t.Error("Load should return the latest snapshot")
	}
}

func TestStore_ConcurrentReaders(t *testing.T) {
	var st Store
	st.Swap(NewSnapshot(testProfile(), []Observation{{Country: "Kenya"}, {Country: "India"}}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				// Every snapshot published here has exactly two rows
				if n := st.Load().Len(); n != 2 {
					t.Errorf("observed partial snapshot with %d rows", n)
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		st.Swap(NewSnapshot(testProfile(), []Observation{{Country: "A"}, {Country: "B"}}))
	}
	wg.Wait()
}
