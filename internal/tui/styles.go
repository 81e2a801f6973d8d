package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette.
const (
	ColorHeader  = lipgloss.Color("12")
	ColorLabel   = lipgloss.Color("245")
	ColorValue   = lipgloss.Color("255")
	ColorOK      = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError   = lipgloss.Color("9")
	ColorSubtle  = lipgloss.Color("241")
	ColorCursor  = lipgloss.Color("63")
)

// Shared styles.
//
//nolint:gochecknoglobals // Styles are immutable values shared by all views.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	OKStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorOK)
	WarningStyle  = lipgloss.NewStyle().Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorSubtle)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCursor)
	BoxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1)
)

// OutputMode selects how results are presented.
type OutputMode int

const (
	// OutputPlain writes log lines with no ANSI styling.
	OutputPlain OutputMode = iota
	// OutputStyled writes styled text but is not interactive.
	OutputStyled
	// OutputInteractive runs a bubbletea program.
	OutputInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputPlain:
		return "plain"
	case OutputStyled:
		return "styled"
	case OutputInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode picks a mode from the terminal and the environment.
// forcePlain wins over everything; NO_COLOR and CI disable interactivity.
func DetectOutputMode(forcePlain bool) OutputMode {
	if forcePlain {
		return OutputPlain
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return OutputPlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return OutputPlain
	}
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return OutputStyled
	}
	return OutputInteractive
}
