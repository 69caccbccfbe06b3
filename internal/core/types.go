package core

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Canonical field names. These are also the column names of the cache table
// and the column headers of CSV exports.
const (
	ColCountry           = "Country"
	ColCountryCode       = "Country Code"
	ColIncomeLevel       = "Income Level"
	ColYear              = "Year"
	ColRegion            = "Region"
	ColEmployment        = "Employment Rate"
	ColUnemployment      = "Unemployment Rate"
	ColLaborForce        = "Labor Force Participation Rate"
	ColYouthUnemployment = "Youth Unemployment Rate"
	ColContinent         = "Continent"
)

// UnknownContinent is assigned when neither the region code nor the country
// name resolves to a continent.
const UnknownContinent = "Unknown"

// PlaceholderCountry is the country name used for rows added by PadContinents.
const PlaceholderCountry = "N/A"

// Metrics lists the four indicator columns in display order.
var Metrics = []string{ColEmployment, ColUnemployment, ColLaborForce, ColYouthUnemployment}

// FieldType represents the expected data type for a source column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldYear
	FieldNumeric
)

// FieldSpec maps one source column header to its canonical field.
type FieldSpec struct {
	Name      string    // Column header as it appears in the source (matched case-insensitively)
	Canonical string    // Canonical field name
	Type      FieldType // Expected data type
	Required  bool      // Column must exist in the source header
}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// RawTable is the loader output: the source header row and the data rows
// below it, each padded or trimmed to the header width.
type RawTable struct {
	Source  string
	Sheet   string
	Headers []string
	Rows    [][]string
}

// Float is an optional indicator value. Valid is false when the source cell
// was empty or could not be parsed.
type Float struct {
	Value float64
	Valid bool
}

// String formats the value for tables and exports. Absent values are empty.
func (f Float) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// Ptr returns nil for absent values so JSON encodes them as null.
func (f Float) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Year is an optional survey year. Valid values are always positive.
type Year struct {
	Value int
	Valid bool
}

// String formats the year. Absent years are empty.
func (y Year) String() string {
	if !y.Valid {
		return ""
	}
	return strconv.Itoa(y.Value)
}

// Ptr returns nil for absent years.
func (y Year) Ptr() *int {
	if !y.Valid {
		return nil
	}
	v := y.Value
	return &v
}

// Observation is one country-year row of the normalized table.
type Observation struct {
	Country                     string
	CountryCode                 string
	RegionCode                  string
	IncomeLevel                 string
	Year                        Year
	EmploymentRate              Float
	UnemploymentRate            Float
	LaborForceParticipationRate Float
	YouthUnemploymentRate       Float
	Continent                   string
	Placeholder                 bool // Added by PadContinents, carries no data
}

// Metric returns the indicator stored under the canonical column name.
func (o Observation) Metric(col string) (Float, bool) {
	switch col {
	case ColEmployment:
		return o.EmploymentRate, true
	case ColUnemployment:
		return o.UnemploymentRate, true
	case ColLaborForce:
		return o.LaborForceParticipationRate, true
	case ColYouthUnemployment:
		return o.YouthUnemploymentRate, true
	default:
		return Float{}, false
	}
}

// setText stores a text cell under its canonical column name.
// Unknown names are ignored.
func (o *Observation) setText(col, v string) {
	switch col {
	case ColCountry:
		o.Country = v
	case ColCountryCode:
		o.CountryCode = v
	case ColRegion:
		o.RegionCode = v
	case ColIncomeLevel:
		o.IncomeLevel = v
	}
}

func (o *Observation) setMetric(col string, f Float) {
	switch col {
	case ColEmployment:
		o.EmploymentRate = f
	case ColUnemployment:
		o.UnemploymentRate = f
	case ColLaborForce:
		o.LaborForceParticipationRate = f
	case ColYouthUnemployment:
		o.YouthUnemploymentRate = f
	}
}

// NormalizeStats summarizes a normalization pass.
type NormalizeStats struct {
	Rows             int
	MissingCountry   int
	CoercionFailures map[string]int // canonical column -> cells that failed to parse
}

// BuildInfo describes how a snapshot was produced.
type BuildInfo struct {
	ID           uuid.UUID
	Source       string
	Sheet        string
	Profile      string
	BuiltAt      time.Time
	Duration     time.Duration
	Rows         int
	Placeholders int
	Unknown      int
	Normalize    NormalizeStats
}
