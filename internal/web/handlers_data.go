package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/LaborStats/internal/core"
	"github.com/JonMunkholm/LaborStats/internal/logging"
)

// exportColumns is the CSV header of /api/export.
var exportColumns = []string{
	core.ColCountry,
	core.ColCountryCode,
	core.ColRegion,
	core.ColIncomeLevel,
	core.ColYear,
	core.ColEmployment,
	core.ColUnemployment,
	core.ColLaborForce,
	core.ColYouthUnemployment,
	core.ColContinent,
}

// exportFlushEvery is how many rows are written between flushes.
const exportFlushEvery = 1000

// handleExport streams the filtered table as CSV. An empty selection
// yields the header row only.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q, rows, ok := s.filter(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", q.Mode, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		logging.FromContext(r.Context()).Error("export header", "error", err)
		return
	}

	flusher, _ := w.(http.Flusher)
	for i, o := range rows {
		record := []string{
			o.Country,
			o.CountryCode,
			o.RegionCode,
			o.IncomeLevel,
			o.Year.String(),
			o.EmploymentRate.String(),
			o.UnemploymentRate.String(),
			o.LaborForceParticipationRate.String(),
			o.YouthUnemploymentRate.String(),
			o.Continent,
		}
		if err := cw.Write(record); err != nil {
			logging.FromContext(r.Context()).Error("export row", "row", i, "error", err)
			return
		}
		if (i+1)%exportFlushEvery == 0 {
			cw.Flush()
			if flusher != nil {
				flusher.Flush()
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.FromContext(r.Context()).Error("export flush", "error", err)
	}
}
