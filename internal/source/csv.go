package source

import (
	"encoding/csv"
	"os"
)

// readCSV returns every record of a comma separated file. Rows may have
// differing field counts.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(newTextReader(f))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return r.ReadAll()
}
