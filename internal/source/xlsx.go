package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSX returns every row of the named sheet (or the first sheet) as
// unformatted cell text.
func readXLSX(path, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, "", fmt.Errorf("no worksheet found")
		}
	}

	// GetSheetIndex returns -1 for a missing sheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, "", fmt.Errorf("sheet %q not found (have %v)", sheet, f.GetSheetList())
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", err
	}
	return rows, sheet, nil
}
