package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects which field a query's names are matched against.
type Mode string

const (
	ModeCountry   Mode = "countries"
	ModeContinent Mode = "continents"
)

// Modes lists the supported display modes in display order.
var Modes = []Mode{ModeCountry, ModeContinent}

// ParseMode accepts singular or plural, case-insensitive mode names.
// An empty string selects ModeCountry.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "country", "countries":
		return ModeCountry, nil
	case "continent", "continents":
		return ModeContinent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Field returns the observation field the mode filters and groups on.
func (m Mode) Field(o Observation) string {
	if m == ModeContinent {
		return o.Continent
	}
	return o.Country
}

// Label returns the canonical column name the mode groups on.
func (m Mode) Label() string {
	if m == ModeContinent {
		return ColContinent
	}
	return ColCountry
}

// ParseYearParam parses an optional year filter. Empty input means no filter.
func ParseYearParam(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return &y, nil
}

// Query describes one filter request from a presentation client.
type Query struct {
	Mode  Mode
	Year  *int     // nil means any year
	Names []string // countries or continents, depending on Mode

	// RequireSelection turns an empty Names list into ErrInvalidSelection
	// instead of an empty result.
	RequireSelection bool
}

// Filter returns the rows whose mode field is one of q.Names and, when a
// year is given, whose year equals it. Rows keep their table order. No
// match yields an empty, non-nil slice.
func (s *Snapshot) Filter(q Query) ([]Observation, error) {
	if q.Mode == "" {
		q.Mode = ModeCountry
	}
	if q.Mode != ModeCountry && q.Mode != ModeContinent {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, q.Mode)
	}

	selected := make(map[string]bool, len(q.Names))
	for _, name := range q.Names {
		name = strings.TrimSpace(name)
		if name != "" {
			selected[name] = true
		}
	}

	if len(selected) == 0 {
		if q.RequireSelection {
			return nil, fmt.Errorf("%w: no %s selected", ErrInvalidSelection, q.Mode)
		}
		return []Observation{}, nil
	}

	out := []Observation{}
	for _, row := range s.rows {
		if !selected[q.Mode.Field(row)] {
			continue
		}
		if q.Year != nil && (!row.Year.Valid || row.Year.Value != *q.Year) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// MapPoint is one marker for a geographic plot keyed by country code.
type MapPoint struct {
	CountryCode string `json:"countryCode"`
	Label       string `json:"label"`    // hover text: country or continent
	Category    string `json:"category"` // color group
	Year        *int   `json:"year,omitempty"`
}

// MapPoints converts filtered rows to map markers. Rows without a country
// code (placeholders included) have no location and are skipped.
func MapPoints(mode Mode, rows []Observation) []MapPoint {
	out := make([]MapPoint, 0, len(rows))
	for _, row := range rows {
		if row.CountryCode == "" {
			continue
		}
		out = append(out, MapPoint{
			CountryCode: row.CountryCode,
			Label:       mode.Field(row),
			Category:    mode.Field(row),
			Year:        row.Year.Ptr(),
		})
	}
	return out
}
