package xlsx

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rshade/resinhook/internal/engine/header"
)

// DefaultSheetName is used when no sheet name is configured.
const DefaultSheetName = "Sheet1"

// Builder errors.
var (
	ErrFinalized    = errors.New("workbook already finalized")
	ErrHeaderOrder  = errors.New("header rows must be written before data rows")
	ErrInvalidSheet = errors.New("invalid sheet name")
)

// Builder appends rows to a single worksheet in order. A Builder belongs to
// exactly one export job and is not safe for concurrent use.
type Builder struct {
	file        *excelize.File
	stream      *excelize.StreamWriter
	sheet       string
	headerStyle int

	nextRow    int // 1-based row the next SetRow writes to
	headerRows int
	dataRows   int
	merges     []header.Rect
	finalized  bool
}

// NewBuilder creates a workbook with one sheet named sheetName.
func NewBuilder(sheetName string) (*Builder, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	if sheetName != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidSheet, sheetName, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("opening stream writer for %q: %w", sheetName, err)
	}

	return &Builder{
		file:        f,
		stream:      sw,
		sheet:       sheetName,
		headerStyle: style,
		nextRow:     1,
	}, nil
}

// SheetName returns the worksheet name.
func (b *Builder) SheetName() string {
	return b.sheet
}

// HeaderRows returns the number of header rows written.
func (b *Builder) HeaderRows() int {
	return b.headerRows
}

// DataRows returns the number of data rows written.
func (b *Builder) DataRows() int {
	return b.dataRows
}

// WriteHeader writes the header block and records merges to apply at
// finalization. It must run before any data row.
func (b *Builder) WriteHeader(rows [][]string, merges []header.Rect) error {
	if b.finalized {
		return ErrFinalized
	}
	if b.dataRows > 0 {
		return ErrHeaderOrder
	}

	for _, row := range rows {
		values := make([]any, len(row))
		for i, label := range row {
			values[i] = label
		}
		if err := b.setRow(values, excelize.RowOpts{StyleID: b.headerStyle}); err != nil {
			return err
		}
		b.headerRows++
	}

	b.merges = append(b.merges, merges...)
	return nil
}

// AppendRows writes rows after everything written so far.
func (b *Builder) AppendRows(rows [][]any) error {
	if b.finalized {
		return ErrFinalized
	}

	for _, row := range rows {
		if err := b.setRow(row); err != nil {
			return err
		}
		b.dataRows++
	}
	return nil
}

func (b *Builder) setRow(values []any, opts ...excelize.RowOpts) error {
	cell, err := excelize.CoordinatesToCellName(1, b.nextRow)
	if err != nil {
		return err
	}
	if err = b.stream.SetRow(cell, values, opts...); err != nil {
		return fmt.Errorf("writing row %d: %w", b.nextRow, err)
	}
	b.nextRow++
	return nil
}

// Finalize applies merge regions, flushes the stream, and returns the
// document. Single-cell regions are skipped. The caller owns the returned file
// and must Close it.
func (b *Builder) Finalize() (*excelize.File, error) {
	if b.finalized {
		return nil, ErrFinalized
	}

	for _, m := range b.merges {
		if m.Width() <= 1 {
			continue
		}
		topLeft, err := excelize.CoordinatesToCellName(m.StartCol+1, m.Row+1)
		if err != nil {
			return nil, err
		}
		bottomRight, err := excelize.CoordinatesToCellName(m.EndCol+1, m.Row+1)
		if err != nil {
			return nil, err
		}
		if err = b.stream.MergeCell(topLeft, bottomRight); err != nil {
			return nil, fmt.Errorf("merging %s:%s: %w", topLeft, bottomRight, err)
		}
	}

	if err := b.stream.Flush(); err != nil {
		return nil, fmt.Errorf("flushing worksheet: %w", err)
	}

	b.finalized = true
	return b.file, nil
}

// Discard releases the workbook without producing a document. It is a no-op
// after Finalize, since the file then belongs to the caller.
func (b *Builder) Discard() error {
	if b.finalized {
		return nil
	}
	b.finalized = true
	return b.file.Close()
}
