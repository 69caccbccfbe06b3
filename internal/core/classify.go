package core

// Classifier assigns continents from a region code map and a country
// fallback map. It holds no mutable state; the zero value classifies every
// row as UnknownContinent.
type Classifier struct {
	regions   Mapping
	countries Mapping
}

// NewClassifier creates a classifier over the given reference maps.
func NewClassifier(regions, countries Mapping) Classifier {
	return Classifier{regions: regions, countries: countries}
}

// Classify returns the continent for a region code and country name.
//
// The region code is looked up first. The country fallback map is consulted
// unconditionally afterwards and wins whenever it has an entry, even if the
// region code already produced a different continent. Rows resolved by
// neither map get UnknownContinent.
func (c Classifier) Classify(regionCode, country string) string {
	continent, _ := c.regions.Lookup(regionCode)

	if fallback, ok := c.countries.Lookup(country); ok {
		continent = fallback
	}

	if continent == "" {
		return UnknownContinent
	}
	return continent
}

// ClassifyAll returns a copy of rows with Continent assigned on every row.
// The input slice is not modified.
func (c Classifier) ClassifyAll(rows []Observation) []Observation {
	out := make([]Observation, len(rows))
	for i, row := range rows {
		row.Continent = c.Classify(row.RegionCode, row.Country)
		out[i] = row
	}
	return out
}

// PadContinents appends one placeholder observation for each continent in
// known that no row carries. Placeholders have Country=PlaceholderCountry,
// Placeholder=true, and every other field absent. Order follows known.
func PadContinents(rows []Observation, known []string) []Observation {
	present := make(map[string]bool, len(known))
	for _, row := range rows {
		if row.Continent != "" {
			present[row.Continent] = true
		}
	}

	out := make([]Observation, len(rows), len(rows)+len(known))
	copy(out, rows)
	for _, continent := range known {
		if present[continent] {
			continue
		}
		present[continent] = true
		out = append(out, Observation{
			Country:     PlaceholderCountry,
			Continent:   continent,
			Placeholder: true,
		})
	}
	return out
}
