package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Row is a single record. Keys keep their insertion order.
type Row = orderedmap.OrderedMap[string, any]

// Field is a key/value pair used to build rows in a fixed order.
type Field struct {
	Key   string
	Value any
}

// Common decoding errors.
var (
	ErrNotSequence = errors.New("row data must be a JSON array of objects")
	ErrEmptyInput  = errors.New("row data is empty")
)

// NewRow returns an empty row.
func NewRow() *Row {
	return orderedmap.New[string, any]()
}

// RowOf builds a row from fields, preserving their order.
func RowOf(fields ...Field) *Row {
	r := NewRow()
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// FromMap converts a plain map into a row. Go maps are unordered, so keys are
// sorted to keep column discovery deterministic.
func FromMap(m map[string]any) *Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := NewRow()
	for _, k := range keys {
		r.Set(k, m[k])
	}
	return r
}

// Keys returns the keys of r in insertion order. A nil row has no keys.
func Keys(r *Row) []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, r.Len())
	for pair := r.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Value returns the value stored under key.
func Value(r *Row, key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	return r.Get(key)
}

// Lookup returns the value stored under key, or "" when the key is absent or nil.
func Lookup(r *Row, key string) any {
	v, ok := Value(r, key)
	if !ok || v == nil {
		return ""
	}
	return v
}

// envelope is the response shape of the mock API: {"ok":true,"data":[...],"total":n}.
type envelope struct {
	Data []*Row `json:"data"`
}

// DecodeJSON reads rows from r. It accepts either a bare JSON array of objects
// or an object with a "data" array.
func DecodeJSON(r io.Reader) ([]*Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading row data: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	var rows []*Row
	switch raw[0] {
	case '[':
		if err = json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decoding row array: %w", err)
		}
	case '{':
		var env envelope
		if err = json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decoding row envelope: %w", err)
		}
		if env.Data == nil {
			return nil, ErrNotSequence
		}
		rows = env.Data
	default:
		return nil, ErrNotSequence
	}

	out := rows[:0]
	for _, row := range rows {
		if row != nil {
			out = append(out, row)
		}
	}
	return out, nil
}

// EncodeJSON writes rows as a JSON array, keeping key order.
func EncodeJSON(w io.Writer, rows []*Row) error {
	if rows == nil {
		rows = []*Row{}
	}
	return json.NewEncoder(w).Encode(rows)
}
