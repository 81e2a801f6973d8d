package export_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/resinhook/internal/dataset"
	"github.com/rshade/resinhook/internal/engine/export"
	"github.com/rshade/resinhook/internal/engine/header"
)

func TestResolveColumns(t *testing.T) {
	first := dataset.RowOf(
		dataset.Field{Key: "a", Value: 1},
		dataset.Field{Key: "b", Value: 2},
		dataset.Field{Key: "c", Value: 3},
	)
	tree := []header.Node{{Label: "Group", Children: []header.Node{
		{Label: "A", Key: "a"},
		{Label: "B", Key: "b"},
	}}}

	tests := []struct {
		name       string
		opts       export.Options
		wantKeys   []string
		wantLabels []string
		wantDepth  int
	}{
		{
			name:       "default uses discovered keys",
			wantKeys:   []string{"a", "b", "c"},
			wantLabels: []string{"a", "b", "c"},
			wantDepth:  1,
		},
		{
			name:       "headers map labels default keys",
			opts:       export.Options{HeadersMap: map[string]string{"a": "Alpha"}},
			wantKeys:   []string{"a", "b", "c"},
			wantLabels: []string{"Alpha", "b", "c"},
			wantDepth:  1,
		},
		{
			name: "columns filter and order",
			opts: export.Options{
				Columns:    []string{"c", "missing", "a", "c"},
				HeadersMap: map[string]string{"c": "Gamma"},
			},
			wantKeys:   []string{"c", "a"},
			wantLabels: []string{"Gamma", "a"},
			wantDepth:  1,
		},
		{
			name:       "columns beat header tree",
			opts:       export.Options{Columns: []string{"b"}, Headers: tree},
			wantKeys:   []string{"b"},
			wantLabels: []string{"b"},
			wantDepth:  1,
		},
		{
			name:       "columns with no match fall through to tree",
			opts:       export.Options{Columns: []string{"zzz"}, Headers: tree},
			wantKeys:   []string{"a", "b"},
			wantLabels: []string{"A", "B"},
			wantDepth:  2,
		},
		{
			name: "transform wins over everything",
			opts: export.Options{
				Columns: []string{"a"},
				Headers: tree,
				HeadersTransform: func(keys []string) []header.Column {
					return []header.Column{{Key: keys[2], Label: "Last"}}
				},
			},
			wantKeys:   []string{"c"},
			wantLabels: []string{"Last"},
			wantDepth:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := export.ResolveColumns(first, tt.opts)
			require.NoError(t, err)

			layout := plan.Layout()
			assert.Equal(t, tt.wantKeys, layout.DataKeys)
			assert.Equal(t, tt.wantLabels, layout.Labels)
			assert.Equal(t, tt.wantDepth, layout.Depth())
		})
	}
}

func TestResolveColumns_PlanKinds(t *testing.T) {
	first := dataset.RowOf(dataset.Field{Key: "a", Value: 1})

	flat, err := export.ResolveColumns(first, export.Options{})
	require.NoError(t, err)
	assert.IsType(t, export.FlatColumns{}, flat)

	tree, err := export.ResolveColumns(first, export.Options{
		Headers: []header.Node{{Label: "A", Key: "a"}},
	})
	require.NoError(t, err)
	assert.IsType(t, export.HierarchicalColumns{}, tree)
}

func TestResolveColumns_Errors(t *testing.T) {
	first := dataset.RowOf(dataset.Field{Key: "a", Value: 1})

	_, err := export.ResolveColumns(first, export.Options{
		HeadersTransform: func([]string) []header.Column { return nil },
	})
	require.ErrorIs(t, err, export.ErrNoColumns)

	_, err = export.ResolveColumns(dataset.NewRow(), export.Options{})
	require.ErrorIs(t, err, export.ErrNoColumns)
}
