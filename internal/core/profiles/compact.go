package profiles

import "github.com/JonMunkholm/LaborStats/internal/core"

// CompactKey is the profile with short continent labels and continent padding.
const CompactKey = "compact"

func init() {
	registerCompact()
}

// registerCompact registers the short-label variant. South Asia and East Asia
// & Pacific share one "Asia" label, there is no country fallback map, and
// every label is padded so selectors always list it.
func registerCompact() {
	core.Register(core.Profile{
		Key:   CompactKey,
		Label: "Continents (short labels)",
		RegionCodes: core.NewMapping([]core.MappingEntry{
			{Key: "AFR", Value: "Africa"},
			{Key: "ECS", Value: "Europe"},
			{Key: "LCN", Value: "America"},
			{Key: "MEA", Value: "Middle East"},
			{Key: "SAS", Value: "Asia"},
			{Key: "EAS", Value: "Asia"},
			{Key: "OCE", Value: "Oceania"},
		}),
		Countries:     core.NewMapping(nil),
		PadContinents: true,
		YearFilter:    false,
	})
}
