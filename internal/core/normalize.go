package core

import (
	"fmt"
	"log/slog"
	"strings"
)

// Normalize renames the source columns to canonical fields and coerces the
// year and indicator columns. Rows are kept in source order, including rows
// without a country name. Cells that fail to parse become absent and are
// counted in the returned stats; they never produce an error.
//
// The only error is a header row that lacks a required column (ErrSchema).
func Normalize(raw *RawTable) ([]Observation, NormalizeStats, error) {
	stats := NormalizeStats{CoercionFailures: make(map[string]int)}
	if raw == nil {
		return nil, stats, fmt.Errorf("%w: no table", ErrSchema)
	}

	idx, err := ValidateHeaders(raw.Headers, SourceColumns)
	if err != nil {
		return nil, stats, err
	}

	out := make([]Observation, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		obs := normalizeRow(row, idx, &stats)
		if obs.Country == "" {
			stats.MissingCountry++
		}
		out = append(out, obs)
	}
	stats.Rows = len(out)

	for col, n := range stats.CoercionFailures {
		slog.Debug("coerced unparseable cells to absent", "column", col, "cells", n)
	}

	return out, stats, nil
}

// normalizeRow builds one observation from SourceColumns. A non-empty year
// or indicator cell that does not parse counts as a coercion failure.
func normalizeRow(row []string, idx HeaderIndex, stats *NormalizeStats) Observation {
	var obs Observation
	for _, spec := range SourceColumns {
		pos, ok := idx[strings.ToLower(spec.Name)]
		cell := rawCell(row, pos, ok)

		switch spec.Type {
		case FieldYear:
			obs.Year = ParseYear(cell)
			if cell != "" && !obs.Year.Valid {
				stats.CoercionFailures[spec.Canonical]++
			}
		case FieldNumeric:
			f := ParseFloat(cell)
			if cell != "" && !f.Valid {
				stats.CoercionFailures[spec.Canonical]++
			}
			obs.setMetric(spec.Canonical, f)
		default:
			obs.setText(spec.Canonical, ParseText(cell))
		}
	}
	return obs
}
