// Package detail renders the event record overlay: identity, timing, the
// clip URL and the model's explanation rendered as markdown.
package detail

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
	"github.com/MarcoPinkman/Hawkeye/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const labelWidth = 14

var (
	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(0, 1)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed).
			Width(labelWidth)

	styleValue = lipgloss.NewStyle().
			Foreground(theme.ColorBright)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)

	styleFooter = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)
)

// Model holds the state for the detail overlay.
type Model struct {
	Record    eventlog.Record
	OpenError string
	width     int
	rendered  string
}

// New renders rec for a panel of the given width. The markdown is rendered
// once here, not on every frame.
func New(rec eventlog.Record, width int) Model {
	if width < 40 {
		width = 40
	}
	m := Model{Record: rec, width: width}
	m.rendered = renderMarkdown(rec.Explanation, width-6)
	return m
}

// View renders the panel.
func (m Model) View() string {
	r := m.Record
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("Event #%d  ", r.ID)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.EventColor(r.Code)).Bold(true).Render(r.Code) + "\n")
	b.WriteString(strings.Repeat("─", m.width-4) + "\n")

	writeRow(&b, "Description", r.Description)
	writeRow(&b, "Recorded", formatTime(r.Timestamp))
	if r.VideoURL != "" {
		writeRow(&b, "Clip", r.VideoURL)
	} else {
		writeRow(&b, "Clip", theme.StyleDimmed.Render("none"))
	}

	b.WriteString("\n")
	b.WriteString(m.rendered)

	if m.OpenError != "" {
		b.WriteString("\n" + theme.StyleError.Render("Open failed: "+m.OpenError) + "\n")
	}

	footer := "[o] open clip  [esc] close"
	if r.VideoURL == "" {
		footer = "[esc] close"
	}
	b.WriteString("\n" + styleFooter.Render(footer))

	return stylePanel.Width(m.width).Render(b.String())
}

func renderMarkdown(md string, wrap int) string {
	if strings.TrimSpace(md) == "" {
		return theme.StyleDimmed.Render("No explanation recorded.") + "\n"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(styleLabel.Render(label+":") + styleValue.Render(value) + "\n")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// OpenedMsg reports the outcome of handing a clip URL to the system opener.
type OpenedMsg struct {
	URL string
	Err error
}

// OpenCmd opens url with the platform's default handler.
func OpenCmd(url string) tea.Cmd {
	return func() tea.Msg {
		name, args := opener(runtime.GOOS)
		path, err := exec.LookPath(name)
		if err != nil {
			return OpenedMsg{URL: url, Err: fmt.Errorf("%s not found: %w", name, err)}
		}
		if err := exec.Command(path, append(args, url)...).Start(); err != nil {
			return OpenedMsg{URL: url, Err: fmt.Errorf("%s: %w", name, err)}
		}
		return OpenedMsg{URL: url}
	}
}

func opener(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}
