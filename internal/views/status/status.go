// Package status renders the top status bar: feed connection, wizard step
// and session intent.
package status

import (
	"fmt"

	"github.com/MarcoPinkman/Hawkeye/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the status bar state.
type Model struct {
	Connected bool
	FeedURL   string // empty when no feed is configured
	Step      int
	Steps     int
	StepTitle string
	Intent    string
	Events    int
	Width     int
}

// New creates a status bar model.
func New(steps int) Model {
	return Model{Steps: steps, Intent: "inactive"}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	switch {
	case m.FeedURL == "":
		connStr = theme.StyleDimmed.Render("○ No feed")
	case m.Connected:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● Feed")
	default:
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Connecting...")
	}

	step := fmt.Sprintf("Step %d/%d  %s", m.Step, m.Steps, m.StepTitle)
	intent := lipgloss.NewStyle().Foreground(theme.IntentColor(m.Intent)).
		Render(theme.IntentGlyph(m.Intent) + " " + m.Intent)
	events := fmt.Sprintf("%d events", m.Events)

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := theme.StyleHeader.Render("HAWKEYE") + sep + step + sep + intent + sep + events + sep + connStr

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
