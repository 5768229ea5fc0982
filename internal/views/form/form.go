// Package form is a small multi-field text form built on bubbles
// textinput, used by the setup steps and the event editor.
package form

import (
	"strings"

	"github.com/MarcoPinkman/Hawkeye/internal/theme"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Field describes one input.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Value       string
	CharLimit   int
}

// SubmitMsg is emitted when the operator presses enter on the last field.
type SubmitMsg struct {
	ID     string
	Values map[string]string
}

// CancelMsg is emitted on esc.
type CancelMsg struct{ ID string }

var (
	nextKey   = key.NewBinding(key.WithKeys("tab", "down"))
	prevKey   = key.NewBinding(key.WithKeys("shift+tab", "up"))
	submitKey = key.NewBinding(key.WithKeys("enter"))
	cancelKey = key.NewBinding(key.WithKeys("esc"))

	styleLabel   = lipgloss.NewStyle().Foreground(theme.ColorDimmed).Width(18)
	styleFocused = lipgloss.NewStyle().Foreground(theme.ColorAccent).Bold(true).Width(18)
)

// Model is a focused list of text inputs.
type Model struct {
	ID     string
	Title  string
	Err    string
	keys   []string
	labels []string
	inputs []textinput.Model
	focus  int
}

// New builds a form; the first field is focused.
func New(id, title string, fields ...Field) Model {
	m := Model{ID: id, Title: title}
	for _, f := range fields {
		in := textinput.New()
		in.Placeholder = f.Placeholder
		in.SetValue(f.Value)
		in.CharLimit = f.CharLimit
		in.Prompt = "› "
		in.Width = 48
		m.keys = append(m.keys, f.Key)
		m.labels = append(m.labels, f.Label)
		m.inputs = append(m.inputs, in)
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

// Value returns the current text of the field with the given key.
func (m Model) Value(k string) string {
	for i, fk := range m.keys {
		if fk == k {
			return m.inputs[i].Value()
		}
	}
	return ""
}

// Values returns all field values keyed by field key.
func (m Model) Values() map[string]string {
	out := make(map[string]string, len(m.keys))
	for i, k := range m.keys {
		out[k] = strings.TrimSpace(m.inputs[i].Value())
	}
	return out
}

// Focused is the index of the focused field.
func (m Model) Focused() int { return m.focus }

// Update handles navigation and text entry. Enter on a field other than
// the last moves focus forward; on the last it submits.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, cancelKey):
			id := m.ID
			return m, func() tea.Msg { return CancelMsg{ID: id} }
		case key.Matches(km, nextKey):
			m.setFocus(m.focus + 1)
			return m, nil
		case key.Matches(km, prevKey):
			m.setFocus(m.focus - 1)
			return m, nil
		case key.Matches(km, submitKey):
			if m.focus < len(m.inputs)-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			sub := SubmitMsg{ID: m.ID, Values: m.Values()}
			return m, func() tea.Msg { return sub }
		}
	}
	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	if len(m.inputs) == 0 {
		return
	}
	i = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder
	if m.Title != "" {
		b.WriteString(theme.StyleHeader.Render(m.Title) + "\n\n")
	}
	for i, in := range m.inputs {
		label := styleLabel
		if i == m.focus {
			label = styleFocused
		}
		b.WriteString(label.Render(m.labels[i]) + in.View() + "\n")
	}
	if m.Err != "" {
		b.WriteString("\n" + theme.StyleError.Render("✗ "+m.Err) + "\n")
	}
	b.WriteString("\n" + theme.StyleDimmed.Render("tab/shift+tab:field  enter:next  esc:back"))
	return b.String()
}
