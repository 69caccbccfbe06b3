package cache

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/LaborStats/internal/core"
)

// column is one cache table column. The type names are valid in both
// SQLite and PostgreSQL.
type column struct {
	name string
	typ  string
}

var columns = []column{
	{"row_index", "INTEGER NOT NULL"},
	{"country", "TEXT"},
	{"country_code", "TEXT"},
	{"region_code", "TEXT"},
	{"income_level", "TEXT"},
	{"year", "INTEGER"},
	{"employment_rate", "DOUBLE PRECISION"},
	{"unemployment_rate", "DOUBLE PRECISION"},
	{"labor_force_participation_rate", "DOUBLE PRECISION"},
	{"youth_unemployment_rate", "DOUBLE PRECISION"},
	{"continent", "TEXT NOT NULL"},
	{"placeholder", "BOOLEAN NOT NULL"},
}

func columnNames() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// quoteIdent quotes a table name for use in SQL text.
func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func dropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + quoteIdent(table)
}

func createTableSQL(table string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = c.name + " " + c.typ
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", quoteIdent(table), strings.Join(defs, ",\n\t"))
}

// rowValues returns the column values of one observation in column order.
// Absent values become nil.
func rowValues(i int, o core.Observation) []any {
	return []any{
		i,
		nullText(o.Country),
		nullText(o.CountryCode),
		nullText(o.RegionCode),
		nullText(o.IncomeLevel),
		nullYear(o.Year),
		nullFloat(o.EmploymentRate),
		nullFloat(o.UnemploymentRate),
		nullFloat(o.LaborForceParticipationRate),
		nullFloat(o.YouthUnemploymentRate),
		o.Continent,
		o.Placeholder,
	}
}

func nullText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullYear(y core.Year) any {
	if !y.Valid {
		return nil
	}
	return int64(y.Value)
}

func nullFloat(f core.Float) any {
	if !f.Valid {
		return nil
	}
	return f.Value
}
