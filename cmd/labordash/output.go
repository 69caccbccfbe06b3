package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/JonMunkholm/LaborStats/internal/core"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	return table
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := newTable(w, header)
	table.AppendBulk(rows)
	table.Render()
}

func renderKeyValues(w io.Writer, pairs [][2]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for _, p := range pairs {
		table.Append([]string{p[0], p[1]})
	}
	table.Render()
}

func renderObservations(w io.Writer, rows []core.Observation) {
	table := newTable(w, []string{
		core.ColCountry, core.ColCountryCode, core.ColYear, core.ColContinent,
		core.ColEmployment, core.ColUnemployment, core.ColLaborForce, core.ColYouthUnemployment,
	})
	for _, o := range rows {
		table.Append([]string{
			o.Country,
			o.CountryCode,
			o.Year.String(),
			o.Continent,
			o.EmploymentRate.String(),
			o.UnemploymentRate.String(),
			o.LaborForceParticipationRate.String(),
			o.YouthUnemploymentRate.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "", "Rows", strconv.Itoa(len(rows))})
	table.Render()
}

func renderDistribution(w io.Writer, mode core.Mode, cats []core.CategorySummary) {
	table := newTable(w, []string{mode.Label(), "Indicator", "N", "Min", "Q1", "Median", "Q3", "Max", "Mean"})
	for _, cat := range cats {
		for _, m := range cat.Metrics {
			table.Append([]string{
				cat.Category,
				m.Metric,
				strconv.Itoa(m.Count),
				formatStat(m.Min),
				formatStat(m.Q1),
				formatStat(m.Median),
				formatStat(m.Q3),
				formatStat(m.Max),
				formatStat(m.Mean),
			})
		}
	}
	table.Render()
}

func formatStat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
