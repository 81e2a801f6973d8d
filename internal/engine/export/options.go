package export

import (
	"github.com/rshade/resinhook/internal/engine/batch"
	"github.com/rshade/resinhook/internal/engine/header"
	"github.com/rshade/resinhook/internal/xlsx"
)

// DefaultFilename is used when Options.Filename is empty.
const DefaultFilename = "export"

// HeadersTransform receives the keys discovered on the first row and returns
// the exact columns to export, overriding every other column option.
type HeadersTransform func(discoveredKeys []string) []header.Column

// Options configures a single export.
type Options struct {
	// Filename is the output name without extension.
	Filename string
	// SheetName names the worksheet.
	SheetName string
	// ChunkSize is the number of rows per chunk (default batch.DefaultBatchSize).
	ChunkSize int
	// HeadersMap maps a data key to its column label.
	HeadersMap map[string]string
	// Columns selects and orders the keys to export.
	Columns []string
	// Headers is a header tree for multi-row headers.
	Headers []header.Node
	// HeadersTransform, when set, decides the columns on its own.
	HeadersTransform HeadersTransform
	// Yielder runs after each chunk; nil means batch.Gosched.
	Yielder batch.Yielder
}

func (o Options) filename() string {
	if o.Filename == "" {
		return DefaultFilename
	}
	return o.Filename
}

func (o Options) sheetName() string {
	if o.SheetName == "" {
		return xlsx.DefaultSheetName
	}
	return o.SheetName
}

// chunkSize caps ChunkSize at batch.MaxBatchSize. A larger value only means
// fewer cancellation points, so it is clamped rather than rejected.
func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return batch.DefaultBatchSize
	}
	return min(o.ChunkSize, batch.MaxBatchSize)
}

func (o Options) label(key string) string {
	if label, ok := o.HeadersMap[key]; ok {
		return label
	}
	return key
}
