// Package live renders the live detection step: the running indicator,
// the collapsible session config panel and the session controls.
package live

import (
	"fmt"
	"strings"

	"github.com/MarcoPinkman/Hawkeye/internal/events"
	"github.com/MarcoPinkman/Hawkeye/internal/session"
	"github.com/MarcoPinkman/Hawkeye/internal/theme"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shades the indicator cycles through, dim to bright.
var pulseShades = []lipgloss.Color{
	lipgloss.Color("#14532d"),
	lipgloss.Color("#15803d"),
	lipgloss.Color("#16a34a"),
	lipgloss.Color("#22c55e"),
	lipgloss.Color("#4ade80"),
}

// Model holds the live step's presentation state.
type Model struct {
	Intent     session.Intent
	Settings   session.Settings
	Events     []events.Definition
	Disk       string // free space summary for the output dir
	DiskErr    string
	ShowConfig bool

	spinner spinner.Model
	pulse   Pulse
}

// New creates the live view.
func New() Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorTransitioning)
	return Model{spinner: sp, pulse: NewPulse(10)}
}

// Tick starts the spinner, which also paces the pulse.
func (m Model) Tick() tea.Cmd {
	return m.spinner.Tick
}

// Update advances the animations.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		return m, nil
	}
	m.pulse.Step()
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// Indicator renders the one-line session state.
func (m Model) Indicator() string {
	switch m.Intent {
	case session.IntentActive:
		i := int(m.pulse.Level() * float64(len(pulseShades)-1))
		dot := lipgloss.NewStyle().Foreground(pulseShades[i]).Render("●")
		return dot + " " + lipgloss.NewStyle().Foreground(theme.ColorActive).Bold(true).Render("Detection in progress")
	case session.IntentTransitioning:
		return m.spinner.View() + " " + lipgloss.NewStyle().Foreground(theme.ColorTransitioning).Render("Working...")
	default:
		return theme.StyleDimmed.Render("○ Detection stopped")
	}
}

// View renders the live panel above the event log.
func (m Model) View(width int) string {
	var b strings.Builder
	b.WriteString(m.Indicator() + "\n")

	if m.ShowConfig {
		b.WriteString("\n" + m.configPanel(width) + "\n")
	}

	b.WriteString("\n" + theme.StyleDimmed.Render(m.controls()))
	return b.String()
}

func (m Model) controls() string {
	parts := []string{"c:" + toggleLabel(m.ShowConfig), "e:edit events", "R:restart"}
	if m.Intent == session.IntentActive {
		parts = append(parts, "S:stop")
	}
	parts = append(parts, "r:refresh", "enter:details", "esc:back")
	return "  " + strings.Join(parts, "  ")
}

func toggleLabel(open bool) string {
	if open {
		return "hide config"
	}
	return "show config"
}

func (m Model) configPanel(width int) string {
	label := lipgloss.NewStyle().Foreground(theme.ColorDimmed).Width(14)
	row := func(k, v string) string { return label.Render(k+":") + v + "\n" }

	var b strings.Builder
	b.WriteString(theme.StyleHeader.Render("Session config") + "\n")
	b.WriteString(row("Model", m.Settings.Model))
	b.WriteString(row("Base URL", m.Settings.BaseURL))
	b.WriteString(row("Preview", m.Settings.PreviewURL))
	b.WriteString(row("RTSP", m.Settings.RTSPURL))
	b.WriteString(row("Chunk", fmt.Sprintf("%ds", m.Settings.ChunkDuration)))
	out := m.Settings.OutputDir
	switch {
	case m.DiskErr != "":
		out += "  " + theme.StyleError.Render(m.DiskErr)
	case m.Disk != "":
		out += "  " + theme.StyleDimmed.Render(m.Disk)
	}
	b.WriteString(row("Output", out))
	if m.Settings.Context != "" {
		b.WriteString(row("Context", m.Settings.Context))
	}
	b.WriteString(label.Render("Events:") + fmt.Sprintf("%d\n", len(m.Events)))
	for _, e := range m.Events {
		code := lipgloss.NewStyle().Foreground(theme.EventColor(e.Code)).Render(e.Code)
		b.WriteString("  " + code + "  " + e.Description + "\n")
	}

	return theme.StyleBorder.Width(max(width-4, 40)).Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}
