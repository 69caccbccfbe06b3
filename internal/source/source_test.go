package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/LaborStats/internal/core"
)

var fixtureHeader = []interface{}{
	"Country Name", "Country Code", "Region Code", "Income Level Name", "Year of survey",
	"Employment to Population Ratio, aged 15-64", "Unemployment Rate, aged 15-64",
	"Labor Force Participation Rate, aged 15-64", "Youth Unemployment Rate, aged 15-24",
}

// writeWorkbook writes a workbook with three preamble rows before the header,
// matching the published export layout.
func writeWorkbook(t *testing.T, sheet string) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}

	rows := [][]interface{}{
		{"Labor market indicators"},
		{"Source: household surveys"},
		{},
		fixtureHeader,
		{"Kenya", "KEN", "AFR", "Lower middle income", 2020, 70.1, 5.2, 74, 12.5},
		{"India", "IND", "SAS", "Lower middle income", 2019, 46.3, "..", 49.8},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "indicators.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad_XLSX(t *testing.T) {
	path := writeWorkbook(t, "Sheet1")

	raw, err := Load(context.Background(), Options{Path: path, Sheet: "Sheet1", SkipRows: 3})
	require.NoError(t, err)

	assert.Equal(t, path, raw.Source)
	assert.Equal(t, "Sheet1", raw.Sheet)
	assert.Equal(t, "Country Name", raw.Headers[0])
	assert.Len(t, raw.Headers, len(fixtureHeader))
	require.Len(t, raw.Rows, 2)

	assert.Equal(t, "Kenya", raw.Rows[0][0])
	assert.Equal(t, "2020", raw.Rows[0][4])
	assert.Equal(t, "70.1", raw.Rows[0][5])

	// Short row padded to header width
	assert.Len(t, raw.Rows[1], len(fixtureHeader))
	assert.Equal(t, "", raw.Rows[1][8])
}

func TestLoad_XLSXFeedsNormalize(t *testing.T) {
	path := writeWorkbook(t, "Sheet1")

	raw, err := Load(context.Background(), Options{Path: path, SkipRows: 3})
	require.NoError(t, err)

	rows, stats, err := core.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2020, rows[0].Year.Value)
	assert.InDelta(t, 70.1, rows[0].EmploymentRate.Value, 1e-9)
	assert.False(t, rows[1].UnemploymentRate.Valid)
	assert.Equal(t, 1, stats.CoercionFailures[core.ColUnemployment])
}

func TestLoad_XLSXNamedSheet(t *testing.T) {
	path := writeWorkbook(t, "Data")

	raw, err := Load(context.Background(), Options{Path: path, Sheet: "Data", SkipRows: 3})
	require.NoError(t, err)
	assert.Equal(t, "Data", raw.Sheet)
	assert.Len(t, raw.Rows, 2)
}

func TestLoad_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Sheet1")

	_, err := Load(context.Background(), Options{Path: path, Sheet: "Nope", SkipRows: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSourceUnreadable)
	assert.Contains(t, err.Error(), "Nope")
}

func TestLoad_MissingFile(t *testing.T) {
	for _, name := range []string{"missing.xlsx", "missing.xls", "missing.csv"} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(context.Background(), Options{Path: filepath.Join(t.TempDir(), name)})
			assert.ErrorIs(t, err, core.ErrSourceUnreadable)
		})
	}
}

func TestLoad_CorruptXLS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xls")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o600))

	_, err := Load(context.Background(), Options{Path: path})
	assert.ErrorIs(t, err, core.ErrSourceUnreadable)
}

func TestLoad_CSV(t *testing.T) {
	content := "\xEF\xBB\xBFpreamble\n" +
		"Country Name,Country Code,Year of survey\n" +
		"Kenya,KEN,2020\n" +
		"C\xF4te d'Ivoire,CIV,2019\n" +
		",,\n"
	path := filepath.Join(t.TempDir(), "indicators.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	raw, err := Load(context.Background(), Options{Path: path, Sheet: "ignored", SkipRows: 1})
	require.NoError(t, err)

	assert.Equal(t, "", raw.Sheet)
	assert.Equal(t, []string{"Country Name", "Country Code", "Year of survey"}, raw.Headers)
	require.Len(t, raw.Rows, 2, "trailing blank row should be dropped")
	assert.Equal(t, "C?te d'Ivoire", raw.Rows[1][0])
}

func TestLoad_SkipPastEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o600))

	_, err := Load(context.Background(), Options{Path: path, SkipRows: 3})
	assert.ErrorIs(t, err, core.ErrSourceUnreadable)
}

func TestLoad_Validation(t *testing.T) {
	_, err := Load(context.Background(), Options{})
	assert.ErrorIs(t, err, core.ErrSourceUnreadable)

	_, err = Load(context.Background(), Options{Path: "data.xlsx", SkipRows: -1})
	assert.ErrorIs(t, err, core.ErrSourceUnreadable)

	_, err = Load(context.Background(), Options{Path: "data.json"})
	assert.ErrorIs(t, err, core.ErrSourceUnreadable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Load(ctx, Options{Path: "data.xlsx"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLoader(t *testing.T) {
	path := writeWorkbook(t, "Sheet1")

	raw, err := NewLoader(Options{Path: path, SkipRows: 3}).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, raw.Rows, 2)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "auto": FormatAuto, "XLSX": FormatXLSX, "xls": FormatXLS, " csv ": FormatCSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("parquet")
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"FIdataWB.xlsx", FormatXLSX},
		{"old.XLS", FormatXLS},
		{"export.csv", FormatCSV},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path, FormatAuto)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}

	got, err := DetectFormat("data.bin", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, got, "explicit format wins")
}
