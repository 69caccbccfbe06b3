package core

// convert.go provides conversion functions for spreadsheet cells.
//
// These functions handle the messy reality of exported indicator data:
//   - Thousands separators (well-formed grouping only) and stray whitespace
//   - Placeholder markers such as "..", "n/a" or "-"
//   - Years exported as floats ("2019.0")
//   - Excel formula prefixes (="value")
//
// Every parse failure produces an absent value (Valid=false). Nothing here
// returns an error; a bad cell never aborts a build.

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// groupedRegex matches numbers with comma thousands separators ("1,234.5").
// Anything else containing a comma is text, not a number.
var groupedRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseFloat converts a cell to an optional float.
// Empty, non-numeric, NaN and infinite inputs are absent, as are quoted
// values and commas that are not thousands separators.
func ParseFloat(s string) Float {
	s = unwrapCell(s)
	if s == "" {
		return Float{}
	}

	if strings.Contains(s, ",") {
		if !groupedRegex.MatchString(s) {
			return Float{}
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	if !numericRegex.MatchString(s) {
		return Float{}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Float{}
	}
	return Float{Value: f, Valid: true}
}

// ParseYear converts a cell to an optional survey year.
// Accepts integers and integral floats; zero, negative and fractional values are absent.
func ParseYear(s string) Year {
	f := ParseFloat(s)
	if !f.Valid || f.Value <= 0 || f.Value != math.Trunc(f.Value) || f.Value > math.MaxInt32 {
		return Year{}
	}
	return Year{Value: int(f.Value), Valid: true}
}

// ParseText trims a text cell.
func ParseText(s string) string {
	return CleanCell(s)
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgFloat8 converts an optional float to pgtype.Float8.
func ToPgFloat8(f Float) pgtype.Float8 {
	return pgtype.Float8{Float64: f.Value, Valid: f.Valid}
}

// ToPgInt4 converts an optional year to pgtype.Int4.
func ToPgInt4(y Year) pgtype.Int4 {
	if !y.Valid {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(y.Value), Valid: true}
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching. When a header repeats,
// the first occurrence wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if key == "" {
			continue
		}
		if _, exists := idx[key]; exists {
			continue
		}
		idx[key] = i
	}
	return idx
}

// CleanCell removes common spreadsheet artifacts from a text cell:
// - Trims whitespace (including non-breaking spaces)
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	return strings.TrimSpace(strings.Trim(unwrapCell(s), `"'`))
}

// unwrapCell trims whitespace and the Excel formula prefix but leaves quotes
// in place, so numeric parsing can reject quoted values.
func unwrapCell(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(s)
}

// rawCell returns the unwrapped cell at pos, or "" when the column is
// missing or the row is short.
func rawCell(row []string, pos int, ok bool) string {
	if !ok || pos >= len(row) {
		return ""
	}
	return unwrapCell(row[pos])
}
