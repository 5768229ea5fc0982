package app

import (
	"fmt"
	"strings"

	"github.com/MarcoPinkman/Hawkeye/internal/events"
	"github.com/MarcoPinkman/Hawkeye/internal/theme"
	"github.com/MarcoPinkman/Hawkeye/internal/views/form"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const eventFormID = "event"

// eventsEditor is the list of event definitions with an add/edit form.
// It is used on the event step and as the live step's overlay.
type eventsEditor struct {
	reg     *events.Registry
	keys    KeyMap
	cursor  int
	editing bool
	form    form.Model
}

func newEventsEditor(reg *events.Registry, keys KeyMap) eventsEditor {
	return eventsEditor{reg: reg, keys: keys}
}

// typing reports whether the form has focus.
func (e eventsEditor) typing() bool { return e.editing }

// eventsChangedMsg tells the app the definitions changed and must be
// republished.
type eventsChangedMsg struct{}

func (e eventsEditor) Update(msg tea.Msg) (eventsEditor, tea.Cmd) {
	switch msg := msg.(type) {
	case form.SubmitMsg:
		if msg.ID != eventFormID {
			return e, nil
		}
		def := events.Definition{
			Code:        msg.Values["code"],
			Description: msg.Values["description"],
			Guidelines:  msg.Values["guidelines"],
		}
		_, updating := e.reg.Editing()
		if err := e.reg.Submit(def); err != nil {
			e.form.Err = err.Error()
			return e, nil
		}
		if !updating {
			e.cursor = e.reg.Len() - 1
		}
		e.editing = false
		return e, changed

	case form.CancelMsg:
		if msg.ID != eventFormID {
			return e, nil
		}
		e.reg.CancelEdit()
		e.editing = false
		return e, nil

	case tea.KeyMsg:
		if e.editing {
			var cmd tea.Cmd
			e.form, cmd = e.form.Update(msg)
			return e, cmd
		}
		return e.handleListKey(msg)
	}

	if e.editing {
		var cmd tea.Cmd
		e.form, cmd = e.form.Update(msg)
		return e, cmd
	}
	return e, nil
}

func (e eventsEditor) handleListKey(msg tea.KeyMsg) (eventsEditor, tea.Cmd) {
	n := e.reg.Len()
	switch {
	case key.Matches(msg, e.keys.Down):
		if n > 0 {
			e.cursor = (e.cursor + 1) % n
		}
	case key.Matches(msg, e.keys.Up):
		if n > 0 {
			e.cursor = (e.cursor - 1 + n) % n
		}
	case key.Matches(msg, e.keys.Add):
		e.reg.CancelEdit()
		e.form = newEventForm("New event", events.Definition{})
		e.editing = true
		return e, nil
	case key.Matches(msg, e.keys.Edit):
		if n == 0 {
			return e, nil
		}
		def := e.reg.BeginEdit(e.cursor)
		e.form = newEventForm(fmt.Sprintf("Edit event %d", e.cursor+1), def)
		e.editing = true
	case key.Matches(msg, e.keys.Delete):
		if n == 0 {
			return e, nil
		}
		e.reg.Remove(e.cursor)
		if e.cursor >= e.reg.Len() && e.cursor > 0 {
			e.cursor--
		}
		return e, changed
	}
	return e, nil
}

func changed() tea.Msg { return eventsChangedMsg{} }

func newEventForm(title string, def events.Definition) form.Model {
	return form.New(eventFormID, title,
		form.Field{Key: "code", Label: "Event code", Placeholder: "person-down", Value: def.Code, CharLimit: 64},
		form.Field{Key: "description", Label: "Description", Placeholder: "What to watch for", Value: def.Description},
		form.Field{Key: "guidelines", Label: "Guidelines", Placeholder: "When to report it", Value: def.Guidelines},
	)
}

func (e eventsEditor) View(width int) string {
	if e.editing {
		return e.form.View()
	}

	var b strings.Builder
	if e.reg.Len() == 0 {
		b.WriteString(theme.StyleDimmed.Render("  No events yet. Press a to add one.") + "\n")
	}
	descW := max(width-28, 20)
	for i, def := range e.reg.List() {
		prefix := "  "
		if i == e.cursor {
			prefix = theme.StyleAccent.Render("> ")
		}
		code := lipgloss.NewStyle().Foreground(theme.EventColor(def.Code)).Bold(true).Width(22).Render(truncate(def.Code, 21))
		b.WriteString(prefix + code + truncate(def.Description, descW) + "\n")
		if i == e.cursor {
			b.WriteString(theme.StyleDimmed.Render("    "+truncate(def.Guidelines, descW+20)) + "\n")
		}
	}
	return b.String()
}

// truncate fits s into n terminal cells.
func truncate(s string, n int) string {
	if n <= 1 {
		return s
	}
	return ansi.Truncate(s, n, "…")
}
