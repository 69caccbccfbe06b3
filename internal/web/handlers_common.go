// Package web provides HTTP handlers for the indicator query interface.
// This file contains request parsing and response shapes shared across handlers.
package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/LaborStats/internal/core"
)

// noSelectionMessage is shown instead of a table when nothing is selected.
const noSelectionMessage = "Select at least one option and submit."

// parseQuery reads mode, year, the repeated name parameter and require from
// the URL. Blank names are dropped.
func parseQuery(r *http.Request) (core.Query, error) {
	params := r.URL.Query()

	mode, err := core.ParseMode(params.Get("mode"))
	if err != nil {
		return core.Query{}, err
	}

	year, err := core.ParseYearParam(params.Get("year"))
	if err != nil {
		return core.Query{}, err
	}

	var names []string
	for _, n := range params["name"] {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}

	require, _ := strconv.ParseBool(params.Get("require"))

	return core.Query{
		Mode:             mode,
		Year:             year,
		Names:            names,
		RequireSelection: require,
	}, nil
}

// filter parses the request and runs it against the active snapshot.
// On failure the error response is already written and ok is false.
func (s *Server) filter(w http.ResponseWriter, r *http.Request) (q core.Query, rows []core.Observation, ok bool) {
	q, err := parseQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return q, nil, false
	}

	rows, err = s.service.Query(q)
	if err != nil {
		s.respondError(w, r, err)
		return q, nil, false
	}
	return q, rows, true
}

// observationJSON is the API shape of one row. Absent values encode as null.
type observationJSON struct {
	Country                     string   `json:"country"`
	CountryCode                 string   `json:"countryCode"`
	RegionCode                  string   `json:"regionCode"`
	IncomeLevel                 string   `json:"incomeLevel"`
	Year                        *int     `json:"year"`
	EmploymentRate              *float64 `json:"employmentRate"`
	UnemploymentRate            *float64 `json:"unemploymentRate"`
	LaborForceParticipationRate *float64 `json:"laborForceParticipationRate"`
	YouthUnemploymentRate       *float64 `json:"youthUnemploymentRate"`
	Continent                   string   `json:"continent"`
	Placeholder                 bool     `json:"placeholder,omitempty"`
}

func toObservationJSON(rows []core.Observation) []observationJSON {
	out := make([]observationJSON, len(rows))
	for i, o := range rows {
		out[i] = observationJSON{
			Country:                     o.Country,
			CountryCode:                 o.CountryCode,
			RegionCode:                  o.RegionCode,
			IncomeLevel:                 o.IncomeLevel,
			Year:                        o.Year.Ptr(),
			EmploymentRate:              o.EmploymentRate.Ptr(),
			UnemploymentRate:            o.UnemploymentRate.Ptr(),
			LaborForceParticipationRate: o.LaborForceParticipationRate.Ptr(),
			YouthUnemploymentRate:       o.YouthUnemploymentRate.Ptr(),
			Continent:                   o.Continent,
			Placeholder:                 o.Placeholder,
		}
	}
	return out
}

// snapshotJSON describes the active snapshot and the last refresh.
type snapshotJSON struct {
	ID               string         `json:"id"`
	Source           string         `json:"source"`
	Sheet            string         `json:"sheet,omitempty"`
	Profile          string         `json:"profile"`
	BuiltAt          time.Time      `json:"builtAt"`
	DurationMs       int64          `json:"durationMs"`
	Rows             int            `json:"rows"`
	Placeholders     int            `json:"placeholders"`
	Unknown          int            `json:"unknown"`
	SourceRows       int            `json:"sourceRows"`
	MissingCountry   int            `json:"missingCountry"`
	CoercionFailures map[string]int `json:"coercionFailures"`
	LastRefresh      *time.Time     `json:"lastRefresh,omitempty"`
	LastCacheError   string         `json:"lastCacheError,omitempty"`
}

func toSnapshotJSON(info core.BuildInfo, st core.Status) snapshotJSON {
	out := snapshotJSON{
		ID:               info.ID.String(),
		Source:           info.Source,
		Sheet:            info.Sheet,
		Profile:          info.Profile,
		BuiltAt:          info.BuiltAt,
		DurationMs:       info.Duration.Milliseconds(),
		Rows:             info.Rows,
		Placeholders:     info.Placeholders,
		Unknown:          info.Unknown,
		SourceRows:       info.Normalize.Rows,
		MissingCountry:   info.Normalize.MissingCountry,
		CoercionFailures: info.Normalize.CoercionFailures,
		LastCacheError:   st.LastCacheErr,
	}
	if out.CoercionFailures == nil {
		out.CoercionFailures = map[string]int{}
	}
	if !st.LastRefresh.IsZero() {
		t := st.LastRefresh
		out.LastRefresh = &t
	}
	return out
}
