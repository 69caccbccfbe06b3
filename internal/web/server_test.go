package web

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/LaborStats/internal/config"
	"github.com/JonMunkholm/LaborStats/internal/core"
)

var fixtureHeaders = []string{
	"Country Name", "Country Code", "Region Code", "Income Level Name", "Year of survey",
	"Employment to Population Ratio, aged 15-64",
	"Unemployment Rate, aged 15-64",
	"Labor Force Participation Rate, aged 15-64",
	"Youth Unemployment Rate, aged 15-24",
}

func fixtureRaw() *core.RawTable {
	return &core.RawTable{
		Source:  "fixture.xlsx",
		Sheet:   "Sheet1",
		Headers: fixtureHeaders,
		Rows: [][]string{
			{"Kenya", "KEN", "AFR", "Lower middle income", "2020", "70.1", "5.2", "74", "12.5"},
			{"Kenya", "KEN", "AFR", "Lower middle income", "2019", "69.5", "n/a", "73.2", ""},
			{"India", "IND", "SAS", "Lower middle income", "2020", "46.3", "7.1", "49.8", "23"},
			{"United States", "USA", "AFR", "High income", "2020", "66", "8.1", "72", "14.9"},
		},
	}
}

func fixtureProfile() core.Profile {
	return core.Profile{
		Key: "webtest",
		RegionCodes: core.NewMapping([]core.MappingEntry{
			{Key: "AFR", Value: "Africa"},
			{Key: "SAS", Value: "South Asia"},
		}),
		Countries: core.NewMapping([]core.MappingEntry{
			{Key: "United States", Value: "North America"},
		}),
		YearFilter: true,
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			RequestTimeout: 5 * time.Second,
		},
		Rate: config.RateLimitConfig{
			RequestsPerMinute: 100,
			RefreshLimit:      5,
		},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

type fixture struct {
	server  *Server
	service *core.Service
	fail    *atomic.Bool
}

// newFixture builds a server over the fixture table. When load is true the
// first snapshot is built before returning.
func newFixture(t *testing.T, cfg *config.Config, load bool) *fixture {
	t.Helper()

	fail := &atomic.Bool{}
	loader := core.LoaderFunc(func(ctx context.Context) (*core.RawTable, error) {
		if fail.Load() {
			return nil, core.ErrSourceUnreadable
		}
		return fixtureRaw(), nil
	})

	svc, err := core.NewService(loader, nil, core.ServiceConfig{Profile: fixtureProfile()})
	require.NoError(t, err)

	if load {
		_, err := svc.Refresh(context.Background())
		require.NoError(t, err)
	}

	srv := NewServer(svc, cfg)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return &fixture{server: srv, service: svc, fail: fail}
}

func (f *fixture) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type observationsResponse struct {
	Mode    string            `json:"mode"`
	Rows    []observationJSON `json:"rows"`
	Message string            `json:"message"`
}

func TestOptions(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	opts := decode[core.Options](t, rec)
	assert.Equal(t, []core.Mode{core.ModeCountry, core.ModeContinent}, opts.Modes)
	assert.Equal(t, []int{2020, 2019}, opts.Years)
	assert.ElementsMatch(t, []string{"India", "Kenya", "United States"}, opts.Countries)
	assert.Equal(t, []string{"Africa", "South Asia", "North America"}, opts.Continents)
	assert.True(t, opts.YearFilter)
	assert.NotEmpty(t, opts.SnapshotID)
}

func TestObservations_NoSelection(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/observations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[observationsResponse](t, rec)
	assert.Empty(t, resp.Rows)
	assert.NotNil(t, resp.Rows)
	assert.Equal(t, noSelectionMessage, resp.Message)
	assert.Contains(t, rec.Body.String(), `"rows":[]`)
}

func TestObservations_RequireSelection(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/observations?require=true&name=+", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "QRY001", resp.Code)
	assert.Equal(t, "Select at least one option and submit", resp.Action)
}

func TestObservations_CountryAndYear(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/observations?mode=countries&name=Kenya&year=2020", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[observationsResponse](t, rec)
	require.Len(t, resp.Rows, 1)
	row := resp.Rows[0]
	assert.Equal(t, "Kenya", row.Country)
	assert.Equal(t, "Africa", row.Continent)
	require.NotNil(t, row.Year)
	assert.Equal(t, 2020, *row.Year)
	require.NotNil(t, row.EmploymentRate)
	assert.InDelta(t, 70.1, *row.EmploymentRate, 1e-9)
	assert.Empty(t, resp.Message)
}

func TestObservations_AbsentValuesAreNull(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/observations?name=Kenya&year=2019", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[observationsResponse](t, rec)
	require.Len(t, resp.Rows, 1)
	assert.Nil(t, resp.Rows[0].UnemploymentRate)
	assert.Nil(t, resp.Rows[0].YouthUnemploymentRate)
	assert.Contains(t, rec.Body.String(), `"unemploymentRate":null`)
}

func TestObservations_ContinentMode(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/observations?mode=continents&name=Africa", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[observationsResponse](t, rec)
	assert.Equal(t, "continents", resp.Mode)
	require.Len(t, resp.Rows, 2)
	for _, row := range resp.Rows {
		assert.Equal(t, "Kenya", row.Country)
	}
}

func TestObservations_BadParams(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	tests := []struct {
		query string
		code  string
	}{
		{"mode=planets&name=Kenya", "QRY002"},
		{"year=twenty&name=Kenya", "QRY003"},
		{"year=-1&name=Kenya", "QRY003"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/api/observations?"+tt.query, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestDistribution(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/distribution?mode=continents&name=Africa&name=South+Asia", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[struct {
		Categories []core.CategorySummary `json:"categories"`
	}](t, rec)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, "Africa", resp.Categories[0].Category)
	assert.Equal(t, "South Asia", resp.Categories[1].Category)
	require.Len(t, resp.Categories[0].Metrics, len(core.Metrics))
	assert.Equal(t, 2, resp.Categories[0].Metrics[0].Count)
}

func TestMap(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/map?name=India&name=United+States", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[struct {
		Points []core.MapPoint `json:"points"`
	}](t, rec)
	require.Len(t, resp.Points, 2)
	assert.Equal(t, "IND", resp.Points[0].CountryCode)
	assert.Equal(t, "USA", resp.Points[1].CountryCode)
}

func TestExport(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/export?name=Kenya", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "countries_")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportColumns, records[0])
	assert.Equal(t, "Kenya", records[1][0])
	assert.Equal(t, "2019", records[2][4])
	assert.Equal(t, "", records[2][6], "absent unemployment exports as empty")
}

func TestExport_NoSelectionHeaderOnly(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/api/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decode[snapshotJSON](t, rec)
	assert.Equal(t, 4, snap.Rows)
	assert.Equal(t, "webtest", snap.Profile)
	assert.Equal(t, "fixture.xlsx", snap.Source)
	assert.Equal(t, 1, snap.CoercionFailures[core.ColUnemployment])
	assert.NotNil(t, snap.LastRefresh)
}

func TestNotLoaded(t *testing.T) {
	f := newFixture(t, testConfig(), false)

	for _, path := range []string{"/api/options", "/api/observations?name=Kenya", "/api/snapshot"} {
		rec := f.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, "SNAP001", decode[ErrorResponse](t, rec).Code, path)
	}

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	t.Run("no selection", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), noSelectionMessage)
		assert.NotContains(t, rec.Body.String(), "<table>")
	})

	t.Run("with selection", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/?name=India", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "<td>India</td>")
		assert.Contains(t, body, `<option value="India" selected>India</option>`)
	})

	t.Run("bad mode renders error page", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/?mode=planets", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "QRY002")
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	})

	t.Run("json accept gets json error", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/?mode=planets", http.Header{"Accept": {"application/json"}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "QRY002", decode[ErrorResponse](t, rec).Code)
	})
}

func TestRefresh(t *testing.T) {
	f := newFixture(t, testConfig(), true)
	before := f.service.Status().Info.ID

	rec := f.do(t, http.MethodPost, "/api/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[struct {
		Snapshot snapshotJSON `json:"snapshot"`
		Cached   bool         `json:"cached"`
	}](t, rec)
	assert.True(t, resp.Cached)
	assert.NotEqual(t, before.String(), resp.Snapshot.ID)
	assert.Equal(t, resp.Snapshot.ID, f.service.Status().Info.ID.String())
}

func TestRefresh_FailureKeepsSnapshot(t *testing.T) {
	f := newFixture(t, testConfig(), true)
	before := f.service.Status().Info.ID
	f.fail.Store(true)

	rec := f.do(t, http.MethodPost, "/api/refresh", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "SRC001", decode[ErrorResponse](t, rec).Code)

	assert.Equal(t, before, f.service.Status().Info.ID)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/observations?name=Kenya", nil).Code)
}

func TestRefresh_RequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = []string{"secret"}
	f := newFixture(t, cfg, true)

	rec := f.do(t, http.MethodPost, "/api/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/refresh", http.Header{"X-Api-Key": {"secret"}})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Read endpoints stay open
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/options", nil).Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RequestsPerMinute = 2
	f := newFixture(t, cfg, true)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/options", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/options", nil).Code)

	rec := f.do(t, http.MethodGet, "/api/options", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", decode[ErrorResponse](t, rec).Code)
}

func TestRefreshRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate.Enabled = true
	cfg.Rate.RefreshLimit = 1
	f := newFixture(t, cfg, true)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/refresh", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, f.do(t, http.MethodPost, "/api/refresh", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/options", nil).Code)
}

func TestSecurityHeaders(t *testing.T) {
	f := newFixture(t, testConfig(), true)

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'none'")

	cfg := testConfig()
	cfg.Security.EnableCSP = false
	rec = newFixture(t, cfg, true).do(t, http.MethodGet, "/healthz", nil)
	assert.Empty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrInvalidSelection, http.StatusBadRequest},
		{core.ErrNoSnapshot, http.StatusServiceUnavailable},
		{core.ErrSchema, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := newRateLimiter(1, 10*time.Millisecond)
	defer rl.stop()

	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))
	assert.True(t, rl.allow("b"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.allow("a"))

	rl.stop()
	rl.stop()
}
