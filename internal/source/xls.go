package source

import (
	"fmt"
	"os"

	"github.com/extrame/xls"
)

// readXLS returns every row of the named sheet (or the first sheet) of a
// legacy .xls workbook.
func readXLS(path, sheet string) (grid [][]string, name string, err error) {
	// The BIFF parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			grid, name, err = nil, "", fmt.Errorf("malformed xls workbook: %v", r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, "", err
	}
	if wb.NumSheets() == 0 {
		return nil, "", fmt.Errorf("no worksheet found")
	}

	var ws *xls.WorkSheet
	var names []string
	for i := 0; i < wb.NumSheets(); i++ {
		s := wb.GetSheet(i)
		if s == nil {
			continue
		}
		names = append(names, s.Name)
		if sheet == "" || s.Name == sheet {
			ws = s
			break
		}
	}
	if ws == nil {
		return nil, "", fmt.Errorf("sheet %q not found (have %v)", sheet, names)
	}

	last := int(ws.MaxRow)
	grid = make([][]string, 0, last+1)
	for i := 0; i <= last; i++ {
		row := ws.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		grid = append(grid, cells)
	}
	return grid, ws.Name, nil
}
