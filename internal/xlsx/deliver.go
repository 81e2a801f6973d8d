package xlsx

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Extension is appended to delivered filenames that lack it.
const Extension = ".xlsx"

// Deliverer hands a finished document to its destination.
type Deliverer interface {
	Deliver(ctx context.Context, doc *excelize.File, filename, sheetName string) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, doc *excelize.File, filename, sheetName string) error

// Deliver calls fn.
func (fn DelivererFunc) Deliver(ctx context.Context, doc *excelize.File, filename, sheetName string) error {
	return fn(ctx, doc, filename, sheetName)
}

// FileName normalizes name into a bare file name ending in .xlsx.
func FileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "export"
	}
	if !strings.EqualFold(filepath.Ext(name), Extension) {
		name += Extension
	}
	return name
}

// FileDeliverer saves documents into Dir.
type FileDeliverer struct {
	Dir string

	// LastPath is the path of the most recent successful delivery.
	LastPath string
}

// Deliver writes doc to Dir/filename.xlsx via a temporary file and rename.
func (d *FileDeliverer) Deliver(ctx context.Context, doc *excelize.File, filename, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".resinhook-*"+Extension)
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if err = doc.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing workbook: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing workbook: %w", err)
	}

	target := filepath.Join(dir, FileName(filename))
	if err = os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming workbook: %w", err)
	}

	d.LastPath = target
	return nil
}

// WriterDeliverer streams documents to W, e.g. an HTTP response.
type WriterDeliverer struct {
	W io.Writer
}

// Deliver writes doc to W.
func (d WriterDeliverer) Deliver(ctx context.Context, doc *excelize.File, _, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.Write(d.W); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
