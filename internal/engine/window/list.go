package window

// Defaults mirror a typical list: 400px viewport, 50px rows, 5 rows of overscan.
const (
	DefaultViewportHeight = 400
	DefaultItemHeight     = 50
	DefaultOverscan       = 5
)

// ScrollFunc asks the host to move its viewport to offset.
type ScrollFunc func(offset float64)

// Options configures a List.
type Options struct {
	// ViewportHeight is the height of the visible region.
	ViewportHeight float64
	// Height is the per-item height rule. The zero value means DefaultItemHeight.
	Height *HeightRule
	// Overscan is the number of extra items kept on each side of the viewport.
	Overscan int
	// OnScroll is invoked by ScrollTo/ScrollToOffset. May be nil.
	OnScroll ScrollFunc
}

// DefaultOptions returns options with the package defaults.
func DefaultOptions() Options {
	rule := Fixed(DefaultItemHeight)
	return Options{
		ViewportHeight: DefaultViewportHeight,
		Height:         &rule,
		Overscan:       DefaultOverscan,
	}
}

// List keeps the offset table for a slice of items and answers visibility
// queries as the host scrolls. The table is rebuilt only when the items or the
// height rule change.
type List[T any] struct {
	items    []T
	rule     HeightRule
	viewport float64
	overscan int
	scroll   float64
	onScroll ScrollFunc

	table    OffsetTable
	rebuilds int
}

// New creates a List over items.
func New[T any](items []T, opts Options) *List[T] {
	rule := Fixed(DefaultItemHeight)
	if opts.Height != nil {
		rule = *opts.Height
	}

	l := &List[T]{
		items:    items,
		rule:     rule,
		viewport: opts.ViewportHeight,
		overscan: max(opts.Overscan, 0),
		onScroll: opts.OnScroll,
	}
	l.rebuild()
	return l
}

func (l *List[T]) rebuild() {
	l.table = Configure(len(l.items), l.rule, l.viewport, l.overscan)
	l.rebuilds++
}

// SetItems replaces the items and rebuilds the offset table.
func (l *List[T]) SetItems(items []T) {
	l.items = items
	l.rebuild()
}

// SetHeightRule replaces the height rule and rebuilds the offset table.
func (l *List[T]) SetHeightRule(rule HeightRule) {
	l.rule = rule
	l.rebuild()
}

// SetViewport updates the viewport height.
func (l *List[T]) SetViewport(height float64) {
	l.viewport = height
}

// SetOverscan updates the overscan margin.
func (l *List[T]) SetOverscan(overscan int) {
	l.overscan = max(overscan, 0)
}

// OnScroll records a scroll offset reported by the host.
func (l *List[T]) OnScroll(offset float64) {
	l.scroll = max(offset, 0)
}

// ScrollOffset returns the last known scroll offset.
func (l *List[T]) ScrollOffset() float64 {
	return l.scroll
}

// Range returns the current visible range including overscan.
func (l *List[T]) Range() Range {
	return ComputeVisibleRange(l.scroll, l.table, l.viewport, l.overscan)
}

// Visible returns the items the host should render.
func (l *List[T]) Visible() []Item[T] {
	return Project(l.items, l.Range(), l.table)
}

// TotalExtent returns the height of the spacer the host should size its
// scroll content to.
func (l *List[T]) TotalExtent() float64 {
	return l.table.Total()
}

// Table exposes the cached offset table.
func (l *List[T]) Table() OffsetTable {
	return l.table
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Rebuilds returns how many times the offset table has been built.
func (l *List[T]) Rebuilds() int {
	return l.rebuilds
}

// ScrollToOffset moves the viewport to offset and notifies the host.
func (l *List[T]) ScrollToOffset(offset float64) {
	l.OnScroll(offset)
	if l.onScroll != nil {
		l.onScroll(l.scroll)
	}
}

// ScrollTo moves the viewport so that index sits at the top. It returns false
// and does nothing when index is out of range.
func (l *List[T]) ScrollTo(index int) bool {
	off, ok := IndexToOffset(index, l.table)
	if !ok {
		return false
	}
	l.ScrollToOffset(off)
	return true
}
