// Package source reads the indicator workbook into a core.RawTable.
//
// Three formats are supported, chosen by Options.Format or the file
// extension:
//
//   - xlsx: read with excelize using raw cell values
//   - xls:  legacy BIFF workbooks read with extrame/xls
//   - csv:  UTF-8 text, BOM tolerated, invalid bytes replaced
//
// Options.SkipRows rows are discarded before the header row. Trailing
// blank rows are dropped and short rows are padded to the header width.
// Every failure wraps core.ErrSourceUnreadable.
package source
