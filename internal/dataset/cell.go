package dataset

import (
	"encoding/json"
	"fmt"
	"time"
)

// CellValue normalizes a row value into something a spreadsheet cell can hold.
// Scalars pass through; nil becomes ""; nested objects and arrays are rendered
// as compact JSON.
func CellValue(v any) any {
	switch val := v.(type) {
	case nil:
		return ""
	case string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// Cells maps r onto keys, filling missing fields with "".
func Cells(r *Row, keys []string) []any {
	cells := make([]any, len(keys))
	for i, k := range keys {
		cells[i] = CellValue(Lookup(r, k))
	}
	return cells
}

// FormatValue renders a value for terminal display.
func FormatValue(v any) string {
	switch val := CellValue(v).(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}
