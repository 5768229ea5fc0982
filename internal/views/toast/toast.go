// Package toast renders the single visible notification.
package toast

import (
	"github.com/MarcoPinkman/Hawkeye/internal/notify"
	"github.com/MarcoPinkman/Hawkeye/internal/theme"
	"github.com/charmbracelet/lipgloss"
)

// Source is the part of the notification queue the toast reads.
type Source interface {
	Current() (n notify.Notification, visible bool, ok bool)
}

// View renders the current notification, or "" when nothing is visible.
func View(src Source, width int) string {
	n, visible, ok := src.Current()
	if !ok || !visible {
		return ""
	}
	if width < 20 {
		width = 20
	}
	color := theme.SeverityColor(n.Severity.String())
	label := "INFO"
	if n.Severity == notify.Error {
		label = "ERROR"
	}
	badge := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBright).Background(color).Padding(0, 1).Render(label)
	body := lipgloss.NewStyle().Foreground(color).Render(n.Text)
	hint := theme.StyleDimmed.Render("  ctrl+x dismiss")

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(badge + " " + body + hint)
}
