package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceCSV = `Country Name,Country Code,Region Code,Income Level Name,Year of survey,"Employment to Population Ratio, aged 15-64","Unemployment Rate, aged 15-64","Labor Force Participation Rate, aged 15-64","Youth Unemployment Rate, aged 15-24"
Kenya,KEN,AFR,Lower middle income,2020,70.1,5.2,74,12.5
Kenya,KEN,AFR,Lower middle income,2019,69.5,n/a,73.2,
India,IND,SAS,Lower middle income,2020,46.3,7.1,49.8,23
United States,USA,AFR,High income,2020,66,8.1,72,14.9
`

type env struct {
	dir  string
	args []string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "indicators.csv")
	require.NoError(t, os.WriteFile(src, []byte(sourceCSV), 0o644))

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	return &env{
		dir: dir,
		args: []string{
			"--env-file", filepath.Join(dir, "missing.env"),
			"--source", src,
			"--skip-rows", "0",
			"--profile", "worldbank",
			"--cache-driver", "sqlite",
			"--cache-path", filepath.Join(dir, "cache.db"),
			"--log-level", "error",
		},
	}
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, e.args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadAndRuns(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "load")
	require.NoError(t, err)
	assert.Contains(t, out, "written (sqlite)")
	assert.Contains(t, out, "Unparsed cells")
	assert.Contains(t, out, "worldbank")

	out, err = e.run(t, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "cli")
	assert.Contains(t, out, "indicators.csv")
}

func TestReset(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "load")
	require.NoError(t, err)

	_, err = e.run(t, "reset")
	assert.ErrorContains(t, err, "--yes")

	out, err := e.run(t, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache reset")

	out, err = e.run(t, "runs")
	require.NoError(t, err)
	assert.NotContains(t, out, "indicators.csv")
}

func TestQuery(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "query", "Kenya", "--year", "2020")
	require.NoError(t, err)
	assert.Contains(t, out, "KEN")
	assert.Contains(t, out, "70.1")
	assert.NotContains(t, out, "69.5")
	assert.NoFileExists(t, filepath.Join(e.dir, "cache.db"), "query must not write the cache")
}

func TestQuery_ContinentFallback(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "query", "--mode", "continents", "North America")
	require.NoError(t, err)
	assert.Contains(t, out, "United States")
	assert.NotContains(t, out, "Kenya")
}

func TestQuery_NoSelection(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "query")
	require.NoError(t, err)
	assert.Equal(t, "Select at least one option and submit.\n", out)

	_, err = e.run(t, "query", "--require")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QRY001")
}

func TestQuery_BadFlags(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "query", "--mode", "planets", "Kenya")
	assert.ErrorContains(t, err, "invalid display mode")

	_, err = e.run(t, "query", "--year", "soon", "Kenya")
	assert.ErrorContains(t, err, "invalid year")
}

func TestStats(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "stats", "--mode", "continents", "Africa")
	require.NoError(t, err)
	assert.Contains(t, out, "Employment Rate")
	assert.Contains(t, out, "69.80", "mean of 70.1 and 69.5")
}

func TestOptions(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "options")
	require.NoError(t, err)
	assert.Contains(t, out, "2020, 2019")
	assert.Contains(t, out, "Oceania")
	assert.Contains(t, out, "3 (")
}

func TestProfiles(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "profiles")
	require.NoError(t, err)
	assert.Contains(t, out, "worldbank")
	assert.Contains(t, out, "compact")
}

func TestMissingSource(t *testing.T) {
	e := newEnv(t)

	e.args[3] = filepath.Join(e.dir, "nope.xlsx")

	_, err := e.run(t, "load")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be read")
}

func TestParseNames(t *testing.T) {
	got := parseNames([]string{" Kenya ", "", "Korea, Rep."})
	assert.Equal(t, []string{"Kenya", "Korea, Rep."}, got)
	assert.Nil(t, parseNames(nil))
}
