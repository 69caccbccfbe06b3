package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/LaborStats/internal/core"
)

// Format identifies a workbook encoding.
type Format string

const (
	FormatAuto Format = ""
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// Options describes where and how to read the source table.
type Options struct {
	Path     string
	Sheet    string // Worksheet name; empty selects the first sheet. Ignored for csv.
	SkipRows int    // Preamble rows before the header
	Format   Format // FormatAuto detects from the extension
}

// ParseFormat parses a configured format name. Empty and "auto" mean FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "auto":
		return FormatAuto, nil
	case FormatXLSX, FormatXLS, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported source format %q", s)
	}
}

// DetectFormat resolves FormatAuto from the file extension.
func DetectFormat(path string, f Format) (Format, error) {
	if f != FormatAuto {
		return f, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: cannot detect format of %q", core.ErrSourceUnreadable, path)
	}
}

// Load reads the configured sheet and returns its header and data rows.
func Load(ctx context.Context, opts Options) (*core.RawTable, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: no source path configured", core.ErrSourceUnreadable)
	}
	if opts.SkipRows < 0 {
		return nil, fmt.Errorf("%w: negative skip rows %d", core.ErrSourceUnreadable, opts.SkipRows)
	}

	format, err := DetectFormat(opts.Path, opts.Format)
	if err != nil {
		return nil, err
	}

	var (
		grid  [][]string
		sheet = opts.Sheet
	)
	switch format {
	case FormatXLSX:
		grid, sheet, err = readXLSX(opts.Path, opts.Sheet)
	case FormatXLS:
		grid, sheet, err = readXLS(opts.Path, opts.Sheet)
	case FormatCSV:
		grid, err = readCSV(opts.Path)
		sheet = ""
	default:
		err = fmt.Errorf("unsupported source format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrSourceUnreadable, opts.Path, err)
	}

	raw, err := buildTable(grid, opts.SkipRows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrSourceUnreadable, opts.Path, err)
	}
	raw.Source = opts.Path
	raw.Sheet = sheet

	slog.Debug("source loaded",
		"path", opts.Path,
		"format", format,
		"sheet", sheet,
		"rows", len(raw.Rows),
		"columns", len(raw.Headers),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return raw, nil
}

// NewLoader binds opts to a core.Loader.
func NewLoader(opts Options) core.Loader {
	return core.LoaderFunc(func(ctx context.Context) (*core.RawTable, error) {
		return Load(ctx, opts)
	})
}

// buildTable splits a cell grid into header and data rows.
func buildTable(grid [][]string, skip int) (*core.RawTable, error) {
	if len(grid) <= skip {
		return nil, fmt.Errorf("no header row after skipping %d rows", skip)
	}

	headers := make([]string, len(grid[skip]))
	for i, h := range grid[skip] {
		headers[i] = strings.TrimSpace(h)
	}
	if isBlank(headers) {
		return nil, fmt.Errorf("header row %d is empty", skip+1)
	}

	body := grid[skip+1:]
	for len(body) > 0 && isBlank(body[len(body)-1]) {
		body = body[:len(body)-1]
	}

	rows := make([][]string, len(body))
	for i, r := range body {
		row := make([]string, len(headers))
		copy(row, r)
		rows[i] = row
	}

	return &core.RawTable{Headers: headers, Rows: rows}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
