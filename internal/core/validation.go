package core

// validation.go checks the source header row before normalization.
//
// Only the header is validated. Cell values are never rejected: numeric
// cells that fail to parse become absent values during normalization.

import (
	"fmt"
	"strings"
)

// SourceColumns maps the World Bank export headers to canonical fields.
// Columns not listed here are dropped from the normalized table. Normalize
// reads each cell by Type and stores it under Canonical.
var SourceColumns = []FieldSpec{
	{Name: "Country Name", Canonical: ColCountry, Type: FieldText, Required: true},
	{Name: "Country Code", Canonical: ColCountryCode, Type: FieldText, Required: true},
	{Name: "Income Level Name", Canonical: ColIncomeLevel, Type: FieldText},
	{Name: "Year of survey", Canonical: ColYear, Type: FieldYear, Required: true},
	{Name: "Region Code", Canonical: ColRegion, Type: FieldText, Required: true},
	{Name: "Employment to Population Ratio, aged 15-64", Canonical: ColEmployment, Type: FieldNumeric, Required: true},
	{Name: "Unemployment Rate, aged 15-64", Canonical: ColUnemployment, Type: FieldNumeric, Required: true},
	{Name: "Labor Force Participation Rate, aged 15-64", Canonical: ColLaborForce, Type: FieldNumeric, Required: true},
	{Name: "Youth Unemployment Rate, aged 15-24", Canonical: ColYouthUnemployment, Type: FieldNumeric, Required: true},
}

// ValidateHeaders validates that all required columns exist in the header row.
// Returns the header index, or an error wrapping ErrSchema that lists every
// missing column.
func ValidateHeaders(headers []string, specs []FieldSpec) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)
	var missing []string

	for _, spec := range specs {
		if !spec.Required {
			continue
		}
		if _, ok := idx[strings.ToLower(spec.Name)]; !ok {
			missing = append(missing, spec.Name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrSchema, strings.Join(missing, ", "))
	}

	return idx, nil
}
