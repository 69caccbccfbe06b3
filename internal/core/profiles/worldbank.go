package profiles

import "github.com/JonMunkholm/LaborStats/internal/core"

// WorldBankKey is the default profile: World Bank region labels plus the
// country fallback map.
const WorldBankKey = "worldbank"

func init() {
	registerWorldBank()
}

func registerWorldBank() {
	core.Register(core.Profile{
		Key:           WorldBankKey,
		Label:         "World Bank regions",
		RegionCodes:   core.NewMapping(worldBankRegions),
		Countries:     core.NewMapping(worldBankCountries),
		PadContinents: false,
		YearFilter:    true,
	})
}

var worldBankRegions = []core.MappingEntry{
	{Key: "AFR", Value: "Africa"},
	{Key: "ECS", Value: "Europe & Central Asia"},
	{Key: "LCN", Value: "Latin America & Caribbean"},
	{Key: "MEA", Value: "Middle East & North Africa"},
	{Key: "SAS", Value: "South Asia"},
	{Key: "EAS", Value: "East Asia & Pacific"},
	{Key: "OCE", Value: "Oceania"},
}

// worldBankCountries overrides the region code result for listed countries.
// New Zealand appears twice; the later Oceania entry wins.
var worldBankCountries = []core.MappingEntry{
	// Africa
	{Key: "Mali", Value: "Africa"},
	{Key: "Burkina Faso", Value: "Africa"},
	{Key: "Nigeria", Value: "Africa"},
	{Key: "Ghana", Value: "Africa"},
	{Key: "Kenya", Value: "Africa"},
	{Key: "Ethiopia", Value: "Africa"},
	{Key: "Tanzania", Value: "Africa"},
	{Key: "South Africa", Value: "Africa"},
	{Key: "Egypt", Value: "Africa"},
	{Key: "Algeria", Value: "Africa"},
	{Key: "Morocco", Value: "Africa"},
	{Key: "Uganda", Value: "Africa"},
	{Key: "Rwanda", Value: "Africa"},
	{Key: "Senegal", Value: "Africa"},
	{Key: "Zambia", Value: "Africa"},
	{Key: "Cameroon", Value: "Africa"},
	{Key: "Niger", Value: "Africa"},
	{Key: "Chad", Value: "Africa"},
	{Key: "Sudan", Value: "Africa"},
	{Key: "Tunisia", Value: "Africa"},
	{Key: "Democratic Republic of the Congo", Value: "Africa"},
	{Key: "Republic of the Congo", Value: "Africa"},
	{Key: "Angola", Value: "Africa"},

	// North America
	{Key: "United States", Value: "North America"},
	{Key: "Canada", Value: "North America"},
	{Key: "Mexico", Value: "North America"},

	// Latin America & Caribbean
	{Key: "Brazil", Value: "Latin America & Caribbean"},
	{Key: "Argentina", Value: "Latin America & Caribbean"},
	{Key: "Colombia", Value: "Latin America & Caribbean"},
	{Key: "Chile", Value: "Latin America & Caribbean"},
	{Key: "Peru", Value: "Latin America & Caribbean"},
	{Key: "Venezuela", Value: "Latin America & Caribbean"},

	// Europe & Central Asia
	{Key: "France", Value: "Europe & Central Asia"},
	{Key: "Germany", Value: "Europe & Central Asia"},
	{Key: "United Kingdom", Value: "Europe & Central Asia"},
	{Key: "Russia", Value: "Europe & Central Asia"},
	{Key: "Spain", Value: "Europe & Central Asia"},
	{Key: "Italy", Value: "Europe & Central Asia"},
	{Key: "Ukraine", Value: "Europe & Central Asia"},
	{Key: "Netherlands", Value: "Europe & Central Asia"},
	{Key: "Poland", Value: "Europe & Central Asia"},

	// East Asia & Pacific
	{Key: "China", Value: "East Asia & Pacific"},
	{Key: "Japan", Value: "East Asia & Pacific"},
	{Key: "South Korea", Value: "East Asia & Pacific"},
	{Key: "Philippines", Value: "East Asia & Pacific"},
	{Key: "Indonesia", Value: "East Asia & Pacific"},
	{Key: "Thailand", Value: "East Asia & Pacific"},
	{Key: "Vietnam", Value: "East Asia & Pacific"},
	{Key: "Malaysia", Value: "East Asia & Pacific"},
	{Key: "New Zealand", Value: "East Asia & Pacific"},

	// South Asia
	{Key: "India", Value: "South Asia"},
	{Key: "Pakistan", Value: "South Asia"},
	{Key: "Bangladesh", Value: "South Asia"},
	{Key: "Sri Lanka", Value: "South Asia"},
	{Key: "Nepal", Value: "South Asia"},
	{Key: "Bhutan", Value: "South Asia"},

	// Middle East & North Africa
	{Key: "Saudi Arabia", Value: "Middle East & North Africa"},
	{Key: "United Arab Emirates", Value: "Middle East & North Africa"},
	{Key: "Qatar", Value: "Middle East & North Africa"},
	{Key: "Kuwait", Value: "Middle East & North Africa"},
	{Key: "Iran", Value: "Middle East & North Africa"},

	// Oceania
	{Key: "Australia", Value: "Oceania"},
	{Key: "New Zealand", Value: "Oceania"},
	{Key: "Fiji", Value: "Oceania"},
	{Key: "Papua New Guinea", Value: "Oceania"},
}
