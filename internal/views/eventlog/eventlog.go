// Package eventlog renders the recent detection events as a table.
package eventlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
	"github.com/MarcoPinkman/Hawkeye/internal/theme"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model wraps a bubbles table over the latest records.
type Model struct {
	table     table.Model
	records   []eventlog.Record
	updatedAt time.Time
	width     int
}

// New creates an empty, focused table.
func New() Model {
	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(theme.ColorBright).
		Background(theme.ColorAccent)
	t.SetStyles(s)
	return Model{table: t}
}

func columns(width int) []table.Column {
	desc := max(width-6-20-14-28-10, 16)
	return []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Time", Width: 20},
		{Title: "Code", Width: 14},
		{Title: "Description", Width: desc},
		{Title: "Clip", Width: 28},
	}
}

// SetSize fits the table to the available area.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.table.SetColumns(columns(width))
	m.table.SetHeight(max(height, 3))
}

// SetRecords replaces the rows, keeping the cursor on the same record id
// when it is still present.
func (m *Model) SetRecords(recs []eventlog.Record, at time.Time) {
	var selectedID int64 = -1
	if sel, ok := m.Selected(); ok {
		selectedID = sel.ID
	}

	m.records = recs
	m.updatedAt = at
	rows := make([]table.Row, 0, len(recs))
	cursor := 0
	for i, r := range recs {
		if r.ID == selectedID {
			cursor = i
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.ID),
			formatTime(r.Timestamp),
			r.Code,
			r.Description,
			clipName(r.VideoURL),
		})
	}
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(cursor)
	}
}

// Len is the number of rows.
func (m Model) Len() int { return len(m.records) }

// Selected returns the record under the cursor.
func (m Model) Selected() (eventlog.Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.records) {
		return eventlog.Record{}, false
	}
	return m.records[i], true
}

// Update forwards navigation keys to the table.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table with a caption.
func (m Model) View() string {
	caption := theme.StyleHeader.Render("Event log")
	if !m.updatedAt.IsZero() {
		caption += theme.StyleDimmed.Render(fmt.Sprintf("  %d records, updated %s", len(m.records), m.updatedAt.Format("15:04:05")))
	}
	if len(m.records) == 0 {
		return caption + "\n" + theme.StyleDimmed.Render("  No events recorded yet.")
	}
	return caption + "\n" + m.table.View()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func clipName(u string) string {
	if u == "" {
		return "-"
	}
	if i := strings.LastIndex(u, "/"); i >= 0 && i < len(u)-1 {
		return u[i+1:]
	}
	return u
}
