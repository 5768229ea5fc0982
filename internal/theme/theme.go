// Package theme provides the Lip Gloss color palette and reusable styles
// for the Hawkeye console. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

// Session intent colors.
var (
	ColorActive        = lipgloss.Color("#22c55e")
	ColorTransitioning = lipgloss.Color("#d97706")
	ColorInactive      = lipgloss.Color("#6b7280")
)

// Notification colors.
var (
	ColorInfo  = lipgloss.Color("#2563eb")
	ColorError = lipgloss.Color("#dc2626")
)

// Event code badge palette.
var eventPalette = []lipgloss.Color{
	lipgloss.Color("#a855f7"),
	lipgloss.Color("#3b82f6"),
	lipgloss.Color("#06b6d4"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#ec4899"),
	lipgloss.Color("#10b981"),
}

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorBg      = lipgloss.Color("#111827")
	ColorAccent  = lipgloss.Color("#7c3aed")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// IntentColor returns the color for a session intent name.
func IntentColor(intent string) lipgloss.Color {
	switch intent {
	case "active":
		return ColorActive
	case "transitioning":
		return ColorTransitioning
	default:
		return ColorInactive
	}
}

// IntentGlyph returns a Unicode glyph for a session intent name.
func IntentGlyph(intent string) string {
	switch intent {
	case "active":
		return "●"
	case "transitioning":
		return "◌"
	default:
		return "○"
	}
}

// SeverityColor returns the toast color for a severity name.
func SeverityColor(severity string) lipgloss.Color {
	if severity == "error" {
		return ColorError
	}
	return ColorInfo
}

// EventColor picks a stable color for an event code.
func EventColor(code string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(code))
	return eventPalette[h.Sum32()%uint32(len(eventPalette))]
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorDanger)

	StyleAccent = lipgloss.NewStyle().
			Foreground(ColorAccent)
)
