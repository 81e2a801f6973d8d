package listview_test

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listview "github.com/rshade/resinhook/internal/tui/list"
)

func plain(item string, _ bool) string { return item }

func numbered(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("item%d", i)
	}
	return items
}

func TestVirtualListModel_NewModel(t *testing.T) {
	model := listview.NewVirtualListModel(numbered(5), 20, 80, plain)

	assert.Equal(t, 5, model.ItemCount())
	assert.Equal(t, 20, model.Height())
	assert.Equal(t, 80, model.Width())
	assert.Equal(t, 0, model.Selected())
	assert.Equal(t, 0, model.VisibleFrom())
	assert.Equal(t, 5, model.VisibleTo())
	assert.Equal(t, 5, model.TotalLines())
}

func TestVirtualListModel_VisibleRange(t *testing.T) {
	tests := []struct {
		name           string
		totalItems     int
		viewportHeight int
		selectedIndex  int
		expectFrom     int
		expectTo       int
	}{
		{"first page", 100, 20, 0, 0, 20},
		{"selection below viewport scrolls minimally", 100, 20, 50, 31, 51},
		{"last page", 100, 20, 99, 80, 100},
		{"fewer items than viewport", 10, 20, 5, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := listview.NewVirtualListModel(numbered(tt.totalItems), tt.viewportHeight, 80, plain)
			model.SetSelected(tt.selectedIndex)

			assert.Equal(t, tt.expectFrom, model.VisibleFrom())
			assert.Equal(t, tt.expectTo, model.VisibleTo())
		})
	}
}

func TestVirtualListModel_ScrollBackUp(t *testing.T) {
	model := listview.NewVirtualListModel(numbered(100), 20, 80, plain)
	model.SetSelected(99)
	model.SetSelected(10)

	assert.Equal(t, 10, model.ScrollOffset())
	assert.Equal(t, 10, model.VisibleFrom())
}

func TestVirtualListModel_Keys(t *testing.T) {
	tests := []struct {
		name          string
		key           tea.KeyMsg
		initialIndex  int
		expectedIndex int
	}{
		{"down arrow", tea.KeyMsg{Type: tea.KeyDown}, 5, 6},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, 10, 9},
		{"up at start", tea.KeyMsg{Type: tea.KeyUp}, 0, 0},
		{"down at end", tea.KeyMsg{Type: tea.KeyDown}, 49, 49},
		{"j", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, 5, 6},
		{"k", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, 10, 9},
		{"g", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}, 30, 0},
		{"G", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}, 3, 49},
		{"home", tea.KeyMsg{Type: tea.KeyHome}, 25, 0},
		{"end", tea.KeyMsg{Type: tea.KeyEnd}, 5, 49},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, 0, 20},
		{"page down clamps", tea.KeyMsg{Type: tea.KeyPgDown}, 45, 49},
		{"page up clamps", tea.KeyMsg{Type: tea.KeyPgUp}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := listview.NewVirtualListModel(numbered(50), 20, 80, plain)
			model.SetSelected(tt.initialIndex)

			_, cmd := model.Update(tt.key)

			assert.Nil(t, cmd)
			assert.Equal(t, tt.expectedIndex, model.Selected())
		})
	}
}

func TestVirtualListModel_Empty(t *testing.T) {
	model := listview.NewVirtualListModel([]string{}, 20, 80, plain)

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, model.Selected())
	assert.Empty(t, model.View())
	assert.Nil(t, model.GetSelectedItem())
	assert.Nil(t, model.Init())
}

func TestVirtualListModel_ViewRendersViewportOnly(t *testing.T) {
	calls := 0
	render := func(item string, selected bool) string {
		calls++
		if selected {
			return "> " + item
		}
		return "  " + item
	}

	model := listview.NewVirtualListModel(numbered(10000), 5, 80, render)
	model.SetSelected(5000)

	lines := strings.Split(model.View(), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "  item4996", lines[0])
	assert.Equal(t, "> item5000", lines[4])

	// Overscan items are rendered but clipped.
	assert.Equal(t, model.Rendered().Len(), calls)
	assert.Equal(t, 15, calls)
}

type entry struct {
	id   int
	tall bool
}

func entryHeight(e entry) int {
	if e.tall {
		return 3
	}
	return 1
}

func renderEntry(e entry, _ bool) string {
	if e.tall {
		return fmt.Sprintf("%d:a\n%d:b\n%d:c", e.id, e.id, e.id)
	}
	return fmt.Sprint(e.id)
}

func TestVirtualListModel_VariableHeights(t *testing.T) {
	items := make([]entry, 10)
	for i := range items {
		items[i] = entry{id: i, tall: i%2 == 1}
	}

	model := listview.NewVirtualListModel(items, 5, 40, renderEntry,
		listview.WithItemHeight(entryHeight), listview.WithOverscan[entry](5))
	assert.Equal(t, 20, model.TotalLines())

	model.SetSelected(3)
	assert.Equal(t, 3, model.ScrollOffset())
	assert.Equal(t, 1, model.VisibleFrom())
	assert.Equal(t, 4, model.VisibleTo())
	assert.Equal(t, "1:c\n2\n3:a\n3:b\n3:c", model.View())
	assert.Equal(t, 0, model.Rendered().Start)
	assert.Equal(t, 9, model.Rendered().End)
}

func TestVirtualListModel_RelayoutOnly(t *testing.T) {
	items := []entry{{id: 0}, {id: 1}, {id: 2}}
	model := listview.NewVirtualListModel(items, 2, 40, renderEntry, listview.WithItemHeight(entryHeight))
	require.Equal(t, 1, model.Layouts())

	_, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 3})
	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, model.Layouts())
	assert.Equal(t, 100, model.Width())

	items[1].tall = true
	model.Relayout()
	assert.Equal(t, 2, model.Layouts())
	assert.Equal(t, 5, model.TotalLines())
}

func TestVirtualListModel_SetItems(t *testing.T) {
	model := listview.NewVirtualListModel(numbered(100), 10, 80, plain)
	model.SetSelected(90)

	model.SetItems(numbered(3))
	assert.Equal(t, 0, model.Selected())
	assert.Equal(t, 0, model.ScrollOffset())
	assert.Equal(t, 3, model.VisibleTo())
	assert.Equal(t, "item0", *model.GetSelectedItem())
}
