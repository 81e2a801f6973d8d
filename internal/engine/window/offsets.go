package window

import (
	"math"
	"sort"
)

// HeightFunc returns the height of the item at index.
type HeightFunc func(index int) float64

// HeightRule describes how tall each item is. The zero value is a fixed rule
// with height 0, which yields an empty extent.
type HeightRule struct {
	fixed float64
	fn    HeightFunc
}

// Fixed returns a rule where every item has height h.
func Fixed(h float64) HeightRule {
	return HeightRule{fixed: h}
}

// Variable returns a rule that asks fn for each item's height.
// A nil fn behaves like Fixed(0).
func Variable(fn HeightFunc) HeightRule {
	return HeightRule{fn: fn}
}

// IsFixed reports whether every item shares the same height.
func (r HeightRule) IsFixed() bool {
	return r.fn == nil
}

// Height returns the height of the item at index, never negative.
func (r HeightRule) Height(index int) float64 {
	if r.fn == nil {
		return math.Max(r.fixed, 0)
	}
	return math.Max(r.fn(index), 0)
}

// OffsetTable maps an item index to its distance from the top of the list.
// Fixed rules store no per-item array.
type OffsetTable struct {
	n       int
	fixed   float64
	isFixed bool
	offsets []float64
	total   float64
}

// Build computes the offset table for itemCount items. It runs in O(1) for a
// fixed rule and O(n) for a variable one.
func Build(itemCount int, rule HeightRule) OffsetTable {
	if itemCount < 0 {
		itemCount = 0
	}

	if rule.IsFixed() {
		h := rule.Height(0)
		return OffsetTable{
			n:       itemCount,
			fixed:   h,
			isFixed: true,
			total:   float64(itemCount) * h,
		}
	}

	offsets := make([]float64, itemCount)
	current := 0.0
	for i := range itemCount {
		offsets[i] = current
		current += rule.Height(i)
	}

	return OffsetTable{
		n:       itemCount,
		offsets: offsets,
		total:   current,
	}
}

// Len returns the number of items the table describes.
func (t OffsetTable) Len() int {
	return t.n
}

// Total returns the full scrollable extent of the list.
func (t OffsetTable) Total() float64 {
	return t.total
}

// Offset returns the offset of the item at index. ok is false when index is
// outside [0, Len()).
func (t OffsetTable) Offset(index int) (float64, bool) {
	if index < 0 || index >= t.n {
		return 0, false
	}
	if t.isFixed {
		return float64(index) * t.fixed, true
	}
	return t.offsets[index], true
}

// offsetAt is Offset without the bounds flag, for callers that already checked.
func (t OffsetTable) offsetAt(index int) float64 {
	if t.isFixed {
		return float64(index) * t.fixed
	}
	return t.offsets[index]
}

// search returns the smallest index in [0, n) for which pred holds, or n.
// pred must be monotone over the table's offsets.
func (t OffsetTable) search(pred func(offset float64) bool) int {
	return sort.Search(t.n, func(i int) bool {
		return pred(t.offsetAt(i))
	})
}
