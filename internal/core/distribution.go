package core

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MetricSummary holds the five-number summary of one indicator for one
// category. Statistic fields are nil when the group has no valid values.
type MetricSummary struct {
	Metric string   `json:"metric"`
	Count  int      `json:"count"` // Count of present values
	Min    *float64 `json:"min"`
	Q1     *float64 `json:"q1"`
	Median *float64 `json:"median"`
	Q3     *float64 `json:"q3"`
	Max    *float64 `json:"max"`
	Mean   *float64 `json:"mean"`
}

// CategorySummary groups the per-metric summaries of one country or continent.
type CategorySummary struct {
	Category string          `json:"category"`
	Metrics  []MetricSummary `json:"metrics"`
}

// Distribution summarizes each indicator per category (the mode field) for
// a grouped box plot. Categories follow first appearance in rows; metrics
// follow Metrics. Absent values are ignored.
func Distribution(mode Mode, rows []Observation) []CategorySummary {
	var order []string
	groups := make(map[string][]Observation)
	for _, row := range rows {
		cat := mode.Field(row)
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], row)
	}

	out := make([]CategorySummary, 0, len(order))
	for _, cat := range order {
		summary := CategorySummary{Category: cat}
		for _, metric := range Metrics {
			summary.Metrics = append(summary.Metrics, summarize(metric, groups[cat]))
		}
		out = append(out, summary)
	}
	return out
}

func summarize(metric string, rows []Observation) MetricSummary {
	var values []float64
	for _, row := range rows {
		if f, ok := row.Metric(metric); ok && f.Valid {
			values = append(values, f.Value)
		}
	}

	ms := MetricSummary{Metric: metric, Count: len(values)}
	if len(values) == 0 {
		return ms
	}

	sort.Float64s(values)

	ms.Min = ptr(values[0])
	ms.Max = ptr(values[len(values)-1])
	ms.Q1 = ptr(stat.Quantile(0.25, stat.Empirical, values, nil))
	ms.Median = ptr(stat.Quantile(0.5, stat.Empirical, values, nil))
	ms.Q3 = ptr(stat.Quantile(0.75, stat.Empirical, values, nil))
	ms.Mean = ptr(stat.Mean(values, nil))
	return ms
}

func ptr(f float64) *float64 {
	return &f
}
