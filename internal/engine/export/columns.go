package export

import (
	"slices"

	"github.com/rshade/resinhook/internal/dataset"
	"github.com/rshade/resinhook/internal/engine/header"
)

// ColumnPlan is the resolved header layout of one export. It is either
// FlatColumns or HierarchicalColumns.
type ColumnPlan interface {
	// Layout returns the header rows, merges and data key order.
	Layout() header.Plan
	isColumnPlan()
}

// FlatColumns is a single header row.
type FlatColumns struct {
	Columns []header.Column
}

// Layout implements ColumnPlan.
func (f FlatColumns) Layout() header.Plan {
	return header.FlatPlan(f.Columns)
}

func (FlatColumns) isColumnPlan() {}

// HierarchicalColumns is a multi-row header built from a header tree.
type HierarchicalColumns struct {
	Plan header.Plan
}

// Layout implements ColumnPlan.
func (h HierarchicalColumns) Layout() header.Plan {
	return h.Plan
}

func (HierarchicalColumns) isColumnPlan() {}

// ResolveColumns decides the header layout from the first row's keys. The
// first applicable rule wins:
//
//  1. HeadersTransform, given the discovered keys.
//  2. Columns that exist on the first row, labelled through HeadersMap.
//  3. The Headers tree.
//  4. Every discovered key, labelled through HeadersMap.
func ResolveColumns(first *dataset.Row, opts Options) (ColumnPlan, error) {
	keys := dataset.Keys(first)

	if opts.HeadersTransform != nil {
		cols := opts.HeadersTransform(slices.Clone(keys))
		if len(cols) == 0 {
			return nil, ErrNoColumns
		}
		return FlatColumns{Columns: cols}, nil
	}

	if len(opts.Columns) > 0 {
		if selected := selectColumns(opts.Columns, keys); len(selected) > 0 {
			return FlatColumns{Columns: opts.labelled(selected)}, nil
		}
	}

	if len(opts.Headers) > 0 {
		plan, err := header.BuildPlan(opts.Headers)
		if err != nil {
			return nil, err
		}
		return HierarchicalColumns{Plan: plan}, nil
	}

	if len(keys) == 0 {
		return nil, ErrNoColumns
	}
	return FlatColumns{Columns: opts.labelled(keys)}, nil
}

// selectColumns keeps the requested keys present in available, in request
// order and without duplicates.
func selectColumns(requested, available []string) []string {
	present := make(map[string]bool, len(available))
	for _, k := range available {
		present[k] = true
	}

	selected := make([]string, 0, len(requested))
	for _, k := range requested {
		if present[k] {
			selected = append(selected, k)
			present[k] = false
		}
	}
	return selected
}

func (o Options) labelled(keys []string) []header.Column {
	cols := make([]header.Column, len(keys))
	for i, k := range keys {
		cols[i] = header.Column{Key: k, Label: o.label(k)}
	}
	return cols
}
