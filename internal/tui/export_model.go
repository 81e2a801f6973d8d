package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/resinhook/internal/engine/export"
)

const (
	progressWidth    = 50
	progressMaxWidth = 80
	borderPadding    = 4
)

// StateMsg carries an exporter state into the program.
type StateMsg export.State

// Forward returns an exporter subscriber that sends every state to p.
func Forward(p *tea.Program) func(export.State) {
	return func(s export.State) {
		p.Send(StateMsg(s))
	}
}

// ExportModel shows the progress of a single export job. Quitting while the
// job is active cancels it and waits for the cancelled state.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type ExportModel struct {
	state      export.State
	bar        progress.Model
	cancel     func()
	cancelling bool
	done       bool
}

// NewExportModel creates a progress view. cancel is called when the user
// presses q or ctrl+c.
func NewExportModel(filename string, cancel func()) ExportModel {
	return ExportModel{
		state:  export.State{Status: export.StatusLoading, Filename: filename},
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		cancel: cancel,
	}
}

// Init implements tea.Model.
func (m ExportModel) Init() tea.Cmd {
	return nil
}

// Update handles state messages, keys and resizes.
func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		m.state = export.State(msg)
		if m.state.Status.Terminal() {
			m.done = true
			return m, tea.Quit
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.done || !m.state.Status.Active() {
				m.done = true
				return m, tea.Quit
			}
			if !m.cancelling && m.cancel != nil {
				m.cancelling = true
				m.cancel()
			}
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-borderPadding, 10), progressMaxWidth)
	}
	return m, nil
}

// View renders the job status, the bar and a row counter.
func (m ExportModel) View() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Exporting " + m.state.Filename))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(m.state.Progress / 100))
	b.WriteString("\n\n")

	if m.state.RowsTotal > 0 {
		b.WriteString(LabelStyle.Render("Rows: "))
		b.WriteString(ValueStyle.Render(fmt.Sprintf("%d/%d", m.state.RowsProcessed, m.state.RowsTotal)))
		b.WriteString("  ")
	}
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if !m.done {
		b.WriteString(SubtleStyle.Render("q cancel"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ExportModel) statusLine() string {
	switch m.state.Status {
	case export.StatusDone:
		return OKStyle.Render("done")
	case export.StatusCancelled:
		return WarningStyle.Render("cancelled")
	case export.StatusError:
		return CriticalStyle.Render("error: " + m.state.Message)
	default:
		if m.cancelling {
			return WarningStyle.Render("cancelling...")
		}
		return ValueStyle.Render(string(m.state.Status))
	}
}

// State returns the last state received.
func (m ExportModel) State() export.State {
	return m.state
}

// Cancelling reports whether cancellation was requested.
func (m ExportModel) Cancelling() bool {
	return m.cancelling
}
