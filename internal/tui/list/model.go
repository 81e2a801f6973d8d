package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/resinhook/internal/engine/window"
)

// defaultOverscan is the number of extra items rendered above and below the
// viewport.
const defaultOverscan = 5

// RenderFunc renders one item. The result must have exactly as many lines as
// the item's height.
type RenderFunc[T any] func(item T, selected bool) string

// HeightFunc returns the number of lines item occupies.
type HeightFunc[T any] func(item T) int

// Option configures a VirtualListModel.
type Option[T any] func(*VirtualListModel[T])

// WithOverscan sets the overscan margin.
func WithOverscan[T any](n int) Option[T] {
	return func(m *VirtualListModel[T]) {
		m.overscan = max(n, 0)
	}
}

// WithItemHeight gives items variable heights.
func WithItemHeight[T any](fn HeightFunc[T]) Option[T] {
	return func(m *VirtualListModel[T]) {
		m.heightOf = fn
	}
}

// VirtualListModel is a keyboard-driven list over a window.List.
type VirtualListModel[T any] struct {
	items    []T
	list     *window.List[T]
	render   RenderFunc[T]
	heightOf HeightFunc[T]

	selected int
	height   int
	width    int
	overscan int
}

// NewVirtualListModel creates a list of items in a height x width viewport.
func NewVirtualListModel[T any](items []T, height, width int, render RenderFunc[T], opts ...Option[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		items:    items,
		render:   render,
		height:   height,
		width:    width,
		overscan: defaultOverscan,
	}
	for _, opt := range opts {
		opt(m)
	}

	rule := m.rule()
	m.list = window.New(items, window.Options{
		ViewportHeight: float64(height),
		Height:         &rule,
		Overscan:       m.overscan,
	})
	return m
}

func (m *VirtualListModel[T]) rule() window.HeightRule {
	if m.heightOf == nil {
		return window.Fixed(1)
	}
	return window.Variable(func(i int) float64 {
		return float64(m.heightOf(m.items[i]))
	})
}

// Init implements tea.Model.
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resizes.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

//nolint:exhaustive // Only navigation keys matter here.
func (m *VirtualListModel[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}

	switch msg.Type {
	case tea.KeyUp:
		m.SetSelected(m.selected - 1)
	case tea.KeyDown:
		m.SetSelected(m.selected + 1)
	case tea.KeyPgUp:
		m.SetSelected(m.selected - m.pageItems())
	case tea.KeyPgDown:
		m.SetSelected(m.selected + m.pageItems())
	case tea.KeyHome:
		m.SetSelected(0)
	case tea.KeyEnd:
		m.SetSelected(len(m.items) - 1)
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return
		}
		switch msg.Runes[0] {
		case 'j':
			m.SetSelected(m.selected + 1)
		case 'k':
			m.SetSelected(m.selected - 1)
		case 'g':
			m.SetSelected(0)
		case 'G':
			m.SetSelected(len(m.items) - 1)
		}
	}
}

// pageItems is the number of items in the viewport right now, at least one.
func (m *VirtualListModel[T]) pageItems() int {
	return max(m.viewportRange().Len(), 1)
}

// SetSize resizes the viewport. The offset table is kept.
func (m *VirtualListModel[T]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetViewport(float64(height))
	m.ensureVisible()
}

// SetItems replaces the items and resets the selection.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items
	m.list.SetItems(items)
	m.selected = 0
	m.list.OnScroll(0)
}

// Relayout rebuilds item heights, e.g. after an item expanded.
func (m *VirtualListModel[T]) Relayout() {
	m.list.SetHeightRule(m.rule())
	m.ensureVisible()
}

// SetSelected selects index, clamped to the item bounds, and scrolls it into
// view.
func (m *VirtualListModel[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.selected = 0
		return
	}
	m.selected = min(max(index, 0), len(m.items)-1)
	m.ensureVisible()
}

// ensureVisible scrolls the minimum distance that shows the selected item,
// preferring its first line when it is taller than the viewport.
func (m *VirtualListModel[T]) ensureVisible() {
	if len(m.items) == 0 {
		m.list.OnScroll(0)
		return
	}

	top, _ := window.IndexToOffset(m.selected, m.list.Table())
	bottom := top + m.extent(m.selected)
	scroll := m.list.ScrollOffset()
	viewport := float64(m.height)

	switch {
	case top < scroll:
		m.list.OnScroll(top)
	case bottom > scroll+viewport:
		m.list.OnScroll(min(top, bottom-viewport))
	}
}

func (m *VirtualListModel[T]) extent(index int) float64 {
	t := m.list.Table()
	top, _ := t.Offset(index)
	if next, ok := t.Offset(index + 1); ok {
		return next - top
	}
	return t.Total() - top
}

func (m *VirtualListModel[T]) viewportRange() window.Range {
	return window.ComputeVisibleRange(m.list.ScrollOffset(), m.list.Table(), float64(m.height), 0)
}

// View renders the lines inside the viewport.
func (m *VirtualListModel[T]) View() string {
	if len(m.items) == 0 || m.height <= 0 {
		return ""
	}

	scroll := int(m.list.ScrollOffset())
	lines := make([]string, 0, m.height)
	for _, it := range m.list.Visible() {
		for j, line := range strings.Split(m.render(it.Data, it.Index == m.selected), "\n") {
			if y := int(it.Offset) + j; y >= scroll && y < scroll+m.height {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// ItemCount returns the total number of items.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the selected index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// VisibleFrom returns the first item in the viewport.
func (m *VirtualListModel[T]) VisibleFrom() int {
	return m.viewportRange().Start
}

// VisibleTo returns one past the last item in the viewport.
func (m *VirtualListModel[T]) VisibleTo() int {
	return m.viewportRange().End
}

// Rendered returns the range materialized on each View, overscan included.
func (m *VirtualListModel[T]) Rendered() window.Range {
	return m.list.Range()
}

// ScrollOffset returns the first visible line.
func (m *VirtualListModel[T]) ScrollOffset() int {
	return int(m.list.ScrollOffset())
}

// TotalLines returns the height of the whole list in lines.
func (m *VirtualListModel[T]) TotalLines() int {
	return int(m.list.TotalExtent())
}

// Layouts returns how many times item offsets were computed.
func (m *VirtualListModel[T]) Layouts() int {
	return m.list.Rebuilds()
}

// Height returns the viewport height.
func (m *VirtualListModel[T]) Height() int {
	return m.height
}

// Width returns the viewport width.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}

// GetSelectedItem returns the selected item, or nil for an empty list.
func (m *VirtualListModel[T]) GetSelectedItem() *T {
	if len(m.items) == 0 {
		return nil
	}
	return &m.items[m.selected]
}
