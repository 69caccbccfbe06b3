package core

// Shared fixtures for core tests.

var testHeaders = []string{
	"Country Name",
	"Country Code",
	"Region Code",
	"Income Level Name",
	"Year of survey",
	"Employment to Population Ratio, aged 15-64",
	"Unemployment Rate, aged 15-64",
	"Labor Force Participation Rate, aged 15-64",
	"Youth Unemployment Rate, aged 15-24",
	"Survey Name",
}

func testProfile() Profile {
	return Profile{
		Key: "test",
		RegionCodes: NewMapping([]MappingEntry{
			{Key: "AFR", Value: "Africa"},
			{Key: "ECS", Value: "Europe & Central Asia"},
			{Key: "SAS", Value: "South Asia"},
			{Key: "OCE", Value: "Oceania"},
		}),
		Countries: NewMapping([]MappingEntry{
			{Key: "United States", Value: "North America"},
			{Key: "Kenya", Value: "Africa"},
		}),
		YearFilter: true,
	}
}

func testRaw() *RawTable {
	return &RawTable{
		Source:  "fixture.xlsx",
		Sheet:   "Sheet1",
		Headers: testHeaders,
		Rows: [][]string{
			{"Kenya", "KEN", "AFR", "Lower middle income", "2020", "70.1", "5.2", "74", "12.5", "KIHBS"},
			{"Kenya", "KEN", "AFR", "Lower middle income", "2019", "69.5", "n/a", "73.2", "", "KIHBS"},
			{"India", "IND", "SAS", "Lower middle income", "2020", "46.3", "7.1", "49.8", "23.0", "PLFS"},
			{"United States", "USA", "AFR", "High income", "2020", "66.0", "8.1", "72.0", "14.9", "CPS"},
			{"Atlantis", "ATL", "ZZZ", "", "2020", "1", "2", "3", "4", ""},
			{"", "", "ECS", "", "", "", "", "", "", ""},
		},
	}
}
