package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Sorter orders items of type T by named fields.
type Sorter[T any] struct {
	fields map[string]func(a, b T) int
}

// NewSorter creates a sorter from field comparators.
func NewSorter[T any](fields map[string]func(a, b T) int) *Sorter[T] {
	return &Sorter[T]{fields: fields}
}

// IsValidField reports whether field can be sorted on.
func (s *Sorter[T]) IsValidField(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// ValidFields returns the sortable fields in order.
func (s *Sorter[T]) ValidFields() []string {
	fields := make([]string, 0, len(s.fields))
	for f := range s.fields {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Sort returns a sorted copy of items. An empty field keeps the input order.
func (s *Sorter[T]) Sort(items []T, field, order string) ([]T, error) {
	if field == "" {
		return items, nil
	}
	compare, ok := s.fields[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field,
			strings.Join(s.ValidFields(), ", "))
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		if order == SortOrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted, nil
}

// By adapts a key function to a comparator.
func By[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}
