package dataset_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/resinhook/internal/dataset"
)

func TestDecodeJSON_PreservesKeyOrder(t *testing.T) {
	rows, err := dataset.DecodeJSON(strings.NewReader(`[{"zeta":1,"alpha":"a","mid":true},{"alpha":"b"}]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, dataset.Keys(rows[0]))
	assert.Equal(t, []string{"alpha"}, dataset.Keys(rows[1]))
}

func TestDecodeJSON_Envelope(t *testing.T) {
	rows, err := dataset.DecodeJSON(strings.NewReader(`{"ok":true,"data":[{"a":1}],"total":1}`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, dataset.Lookup(rows[0], "a"))
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: "   ", wantErr: dataset.ErrEmptyInput},
		{name: "scalar", input: "42", wantErr: dataset.ErrNotSequence},
		{name: "envelope without data", input: `{"ok":false}`, wantErr: dataset.ErrNotSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.DecodeJSON(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := dataset.DecodeJSON(strings.NewReader(`[{"a":`))
	assert.Error(t, err)
}

func TestEncodeJSON_RoundTripOrder(t *testing.T) {
	row := dataset.RowOf(
		dataset.Field{Key: "b", Value: "x"},
		dataset.Field{Key: "a", Value: 2},
	)

	var buf bytes.Buffer
	require.NoError(t, dataset.EncodeJSON(&buf, []*dataset.Row{row}))
	assert.JSONEq(t, `[{"b":"x","a":2}]`, buf.String())
	assert.True(t, strings.Index(buf.String(), `"b"`) < strings.Index(buf.String(), `"a"`))
}

func TestFromMap_SortsKeys(t *testing.T) {
	row := dataset.FromMap(map[string]any{"c": 3, "a": 1, "b": 2})
	assert.Equal(t, []string{"a", "b", "c"}, dataset.Keys(row))
}

func TestCells(t *testing.T) {
	row := dataset.RowOf(
		dataset.Field{Key: "name", Value: "Ann"},
		dataset.Field{Key: "age", Value: nil},
		dataset.Field{Key: "tags", Value: []any{"x", "y"}},
	)

	cells := dataset.Cells(row, []string{"name", "age", "missing", "tags"})
	assert.Equal(t, []any{"Ann", "", "", `["x","y"]`}, cells)
	assert.Nil(t, dataset.Keys(nil))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12", dataset.FormatValue(12.0))
	assert.Equal(t, "1.5", dataset.FormatValue(1.5))
	assert.Equal(t, "", dataset.FormatValue(nil))
	assert.Equal(t, "true", dataset.FormatValue(true))
}
