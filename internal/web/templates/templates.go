// Package templates renders the HTML pages of the query interface.
//
// Components are plain templ.Component values so handlers render them the
// same way as generated templ code. All dynamic text goes through
// templ.EscapeString.
package templates

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/LaborStats/internal/core"
)

// DashboardParams is everything the selection page shows.
type DashboardParams struct {
	Title    string
	Options  core.Options
	Mode     core.Mode
	Year     *int
	Selected []string
	Rows     []core.Observation

	// Message replaces the table, e.g. when nothing is selected.
	Message string
}

// htmlWriter stops writing after the first error and reports it once.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func layout(title string, body func(hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>")
		hw.text(title)
		hw.raw("</title><style>")
		hw.raw(pageCSS)
		hw.raw("</style></head><body><main>")
		body(hw)
		hw.raw("</main></body></html>")
		return hw.err
	})
}

const pageCSS = `body{font-family:system-ui,sans-serif;margin:2rem;color:#222}` +
	`table{border-collapse:collapse;margin-top:1rem}th,td{border:1px solid #ccc;padding:.25rem .5rem;text-align:left}` +
	`th{background:#f3f3f3}.muted{color:#777}.alert{border:1px solid #c33;background:#fee;padding:.75rem;margin:1rem 0}` +
	`form{display:flex;gap:1rem;align-items:flex-end;flex-wrap:wrap}select[multiple]{min-width:16rem;min-height:10rem}`

// Dashboard renders the selection form and, below it, either the filtered
// table or Message.
func Dashboard(p DashboardParams) templ.Component {
	title := p.Title
	if title == "" {
		title = "Labor market indicators"
	}

	return layout(title, func(hw *htmlWriter) {
		hw.raw("<h1>")
		hw.text(title)
		hw.raw("</h1>")

		selectionForm(hw, p)

		if p.Message != "" {
			hw.raw(`<p class="muted" role="status">`)
			hw.text(p.Message)
			hw.raw("</p>")
			return
		}
		observationTable(hw, p.Rows)
	})
}

func selectionForm(hw *htmlWriter, p DashboardParams) {
	hw.raw(`<form method="get" action="/">`)

	hw.raw(`<label>Display<br><select name="mode">`)
	for _, m := range p.Options.Modes {
		hw.raw("<option")
		hw.attr("value", string(m))
		if m == p.Mode {
			hw.raw(" selected")
		}
		hw.raw(">")
		hw.text(modeLabel(m))
		hw.raw("</option>")
	}
	hw.raw("</select></label>")

	if p.Options.YearFilter {
		hw.raw(`<label>Year<br><select name="year"><option value="">Any</option>`)
		for _, y := range p.Options.Years {
			hw.raw("<option")
			hw.attr("value", strconv.Itoa(y))
			if p.Year != nil && *p.Year == y {
				hw.raw(" selected")
			}
			hw.raw(">")
			hw.text(strconv.Itoa(y))
			hw.raw("</option>")
		}
		hw.raw("</select></label>")
	}

	names := p.Options.Countries
	if p.Mode == core.ModeContinent {
		names = p.Options.Continents
	}
	selected := make(map[string]bool, len(p.Selected))
	for _, s := range p.Selected {
		selected[s] = true
	}

	hw.raw("<label>")
	hw.text(modeLabel(p.Mode))
	hw.raw(`<br><select name="name" multiple>`)
	for _, n := range names {
		hw.raw("<option")
		hw.attr("value", n)
		if selected[n] {
			hw.raw(" selected")
		}
		hw.raw(">")
		hw.text(n)
		hw.raw("</option>")
	}
	hw.raw("</select></label>")

	hw.raw(`<button type="submit">Submit</button></form>`)
}

var tableColumns = []string{
	core.ColCountry, core.ColCountryCode, core.ColIncomeLevel, core.ColYear, core.ColContinent,
	core.ColEmployment, core.ColUnemployment, core.ColLaborForce, core.ColYouthUnemployment,
}

func observationTable(hw *htmlWriter, rows []core.Observation) {
	hw.raw(`<p class="muted">`)
	hw.text(fmt.Sprintf("%d rows", len(rows)))
	hw.raw("</p><table><thead><tr>")
	for _, c := range tableColumns {
		hw.raw("<th>")
		hw.text(c)
		hw.raw("</th>")
	}
	hw.raw("</tr></thead><tbody>")
	for _, o := range rows {
		hw.raw("<tr>")
		for _, cell := range []string{
			o.Country, o.CountryCode, o.IncomeLevel, o.Year.String(), o.Continent,
			o.EmploymentRate.String(), o.UnemploymentRate.String(),
			o.LaborForceParticipationRate.String(), o.YouthUnemploymentRate.String(),
		} {
			hw.raw("<td>")
			hw.text(cell)
			hw.raw("</td>")
		}
		hw.raw("</tr>")
	}
	hw.raw("</tbody></table>")
}

func modeLabel(m core.Mode) string {
	if m == core.ModeContinent {
		return "Continents"
	}
	return "Countries"
}

// ErrorAlert renders an error box with the user-facing message, the
// suggested action and the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		errorAlert(hw, message, action, code)
		return hw.err
	})
}

func errorAlert(hw *htmlWriter, message, action, code string) {
	hw.raw(`<div class="alert" role="alert"><strong>`)
	hw.text(message)
	hw.raw("</strong>")
	if action != "" {
		hw.raw("<p>")
		hw.text(action)
		hw.raw("</p>")
	}
	hw.raw(`<p class="muted">Code: `)
	hw.text(code)
	hw.raw("</p></div>")
}

// ErrorPage renders a full page around ErrorAlert.
func ErrorPage(msg core.UserMessage) templ.Component {
	return layout("Error", func(hw *htmlWriter) {
		errorAlert(hw, msg.Message, msg.Action, msg.Code)
		hw.raw(`<p><a href="/">Back</a></p>`)
	})
}
