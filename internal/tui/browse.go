package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/resinhook/internal/dataset"
	"github.com/rshade/resinhook/internal/engine/header"
	listview "github.com/rshade/resinhook/internal/tui/list"
)

const (
	defaultWidth  = 100
	defaultHeight = 24

	// chromeLines is the title line plus the status line.
	chromeLines = 2
)

// BrowseModel shows rows in a virtual list. Rows are one line each until
// expanded, when they grow one line per column.
type BrowseModel struct {
	title    string
	rows     []*dataset.Row
	columns  []header.Column
	expanded map[int]bool
	list     *listview.VirtualListModel[int]

	width    int
	height   int
	quitting bool
}

// NewBrowseModel creates a browser over rows. With no columns, the keys of the
// first row are shown under their own names. opts tune the underlying list.
func NewBrowseModel(
	title string,
	rows []*dataset.Row,
	columns []header.Column,
	opts ...listview.Option[int],
) *BrowseModel {
	if len(columns) == 0 && len(rows) > 0 {
		for _, k := range dataset.Keys(rows[0]) {
			columns = append(columns, header.Column{Key: k, Label: k})
		}
	}

	m := &BrowseModel{
		title:    title,
		rows:     rows,
		columns:  columns,
		expanded: make(map[int]bool),
		width:    defaultWidth,
		height:   defaultHeight,
	}

	indexes := make([]int, len(rows))
	for i := range indexes {
		indexes[i] = i
	}
	opts = append([]listview.Option[int]{listview.WithItemHeight(m.rowHeight)}, opts...)
	m.list = listview.NewVirtualListModel(indexes, m.listHeight(), m.width, m.renderRow, opts...)
	return m
}

func (m *BrowseModel) listHeight() int {
	return max(m.height-chromeLines, 1)
}

func (m *BrowseModel) rowHeight(i int) int {
	if m.expanded[i] {
		return 1 + len(m.columns)
	}
	return 1
}

func (m *BrowseModel) renderRow(i int, selected bool) string {
	row := m.rows[i]
	cursor := "  "
	if selected {
		cursor = "> "
	}

	cells := make([]string, len(m.columns))
	for c, col := range m.columns {
		cells[c] = dataset.FormatValue(dataset.Lookup(row, col.Key))
	}
	line := fmt.Sprintf("%s%6d  %s", cursor, i+1, strings.Join(cells, " | "))
	line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	if selected {
		line = SelectedStyle.Render(line)
	}
	if !m.expanded[i] {
		return line
	}

	lines := make([]string, 0, 1+len(m.columns))
	lines = append(lines, line)
	for c, col := range m.columns {
		detail := "          " + LabelStyle.Render(col.Label+": ") + ValueStyle.Render(cells[c])
		lines = append(lines, lipgloss.NewStyle().MaxWidth(m.width).Render(detail))
	}
	return strings.Join(lines, "\n")
}

// Init implements tea.Model.
func (m *BrowseModel) Init() tea.Cmd {
	return nil
}

// Update handles keys and resizes.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.listHeight())
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "e", "enter":
			m.toggle(m.list.Selected())
			return m, nil
		}
	}

	_, cmd := m.list.Update(msg)
	return m, cmd
}

func (m *BrowseModel) toggle(i int) {
	if i < 0 || i >= len(m.rows) {
		return
	}
	if m.expanded[i] {
		delete(m.expanded, i)
	} else {
		m.expanded[i] = true
	}
	m.list.Relayout()
}

// View renders the title, the visible rows and a status line.
func (m *BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(SubtleStyle.Render("no rows"))
		return b.String()
	}

	b.WriteString(m.list.View())
	b.WriteString("\n")
	status := fmt.Sprintf("row %d/%d  lines %d-%d of %d  e expand  q quit",
		m.list.Selected()+1, len(m.rows),
		m.list.ScrollOffset()+1, min(m.list.ScrollOffset()+m.listHeight(), m.list.TotalLines()),
		m.list.TotalLines())
	b.WriteString(SubtleStyle.Render(status))
	return b.String()
}

// Selected returns the index of the selected row.
func (m *BrowseModel) Selected() int {
	return m.list.Selected()
}

// Expanded reports whether row i is expanded.
func (m *BrowseModel) Expanded(i int) bool {
	return m.expanded[i]
}

// List exposes the underlying list.
func (m *BrowseModel) List() *listview.VirtualListModel[int] {
	return m.list
}
