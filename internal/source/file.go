package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rshade/resinhook/internal/dataset"
	"github.com/rshade/resinhook/internal/engine/export"
)

// File returns a producer for a local JSON or xlsx file, chosen by extension.
// sheet applies to xlsx input only; empty means the first sheet.
func File(path, sheet string) (export.Producer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSONFile(path), nil
	case ".xlsx", ".xlsm":
		return XLSXFile(path, sheet), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// JSONFile reads a JSON array of objects, or an object with a "data" array.
func JSONFile(path string) export.Producer {
	return func(context.Context) ([]*dataset.Row, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		rows, err := dataset.DecodeJSON(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return rows, nil
	}
}

// XLSXFile reads a worksheet whose first row holds the keys.
func XLSXFile(path, sheet string) export.Producer {
	return func(context.Context) ([]*dataset.Row, error) {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		return readSheet(f, sheet)
	}
}

// ReadXLSX parses a workbook from r the same way XLSXFile does.
func ReadXLSX(r io.Reader, sheet string) ([]*dataset.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) ([]*dataset.Row, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoHeaderRow, sheet)
	}

	keys := headerKeys(grid[0])
	rows := make([]*dataset.Row, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		if blank(cells) {
			continue
		}
		row := dataset.NewRow()
		for i, key := range keys {
			v := ""
			if i < len(cells) {
				v = cells[i]
			}
			row.Set(key, parseCell(v))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// headerKeys names unlabeled columns by their letter and suffixes duplicates.
func headerKeys(cells []string) []string {
	keys := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, c := range cells {
		key := strings.TrimSpace(c)
		if key == "" {
			key, _ = excelize.ColumnNumberToName(i + 1)
		}
		if n := seen[key]; n > 0 {
			seen[key]++
			key = fmt.Sprintf("%s_%d", key, n+1)
		} else {
			seen[key] = 1
		}
		keys[i] = key
	}
	return keys
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseCell keeps numbers numeric. Values with a leading zero stay strings
// so account numbers and codes survive.
func parseCell(s string) any {
	if s == "" || (len(s) > 1 && s[0] == '0' && s[1] != '.') {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
