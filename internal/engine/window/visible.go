package window

import "math"

// Range is a half-open index range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether index falls inside the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// Item is one visible entry: the source datum, its index and its draw offset.
type Item[T any] struct {
	Data   T
	Index  int
	Offset float64
}

// Configure builds the offset table for a list configuration. The viewport
// height and overscan do not affect the table; they are accepted so hosts can
// treat configuration as one call.
func Configure(itemCount int, rule HeightRule, _ float64, _ int) OffsetTable {
	return Build(itemCount, rule)
}

// ComputeVisibleRange returns the indices that intersect the viewport starting
// at scrollOffset, widened by overscan items on each side and clamped to
// [0, t.Len()].
func ComputeVisibleRange(scrollOffset float64, t OffsetTable, viewportHeight float64, overscan int) Range {
	n := t.Len()
	if n == 0 || t.Total() <= 0 {
		return Range{}
	}

	scrollOffset = math.Max(scrollOffset, 0)
	viewportHeight = math.Max(viewportHeight, 0)
	overscan = max(overscan, 0)
	visibleEnd := scrollOffset + viewportHeight

	var start, end int
	if t.isFixed {
		start = int(math.Floor(scrollOffset / t.fixed))
		end = int(math.Ceil(visibleEnd / t.fixed))
	} else {
		// Largest index whose offset is <= scrollOffset.
		start = t.search(func(off float64) bool { return off > scrollOffset }) - 1
		// First index whose offset reaches the bottom edge, or n.
		end = t.search(func(off float64) bool { return off >= visibleEnd })
	}

	start = clamp(start, 0, n)
	end = clamp(end, start, n)

	return Range{
		Start: max(0, start-overscan),
		End:   min(n, end+overscan),
	}
}

// Project returns the visible items of source for range r. Indices past the
// end of source are skipped.
func Project[T any](source []T, r Range, t OffsetTable) []Item[T] {
	if r.Len() <= 0 {
		return nil
	}

	items := make([]Item[T], 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		if i < 0 || i >= len(source) {
			continue
		}
		off, _ := t.Offset(i)
		items = append(items, Item[T]{Data: source[i], Index: i, Offset: off})
	}
	return items
}

// IndexToOffset returns the scroll offset of index. ok is false when index is
// out of bounds, in which case callers must not scroll.
func IndexToOffset(index int, t OffsetTable) (float64, bool) {
	return t.Offset(index)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
