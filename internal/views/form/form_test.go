package form

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testForm() Model {
	return New("event", "New event",
		Field{Key: "code", Label: "Code", Value: "FALL"},
		Field{Key: "desc", Label: "Description"},
	)
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestEnterAdvancesThenSubmits(t *testing.T) {
	m := testForm()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Focused())

	m = typeText(m, "Person falls ")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sub, ok := cmd().(SubmitMsg)
	require.True(t, ok)
	assert.Equal(t, "event", sub.ID)
	assert.Equal(t, "FALL", sub.Values["code"])
	assert.Equal(t, "Person falls", sub.Values["desc"], "values are trimmed")
}

func TestTabWraps(t *testing.T) {
	m := testForm()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.Focused())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, m.Focused())
}

func TestEscCancels(t *testing.T) {
	_, cmd := testForm().Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CancelMsg{ID: "event"}, cmd())
}

func TestViewShowsError(t *testing.T) {
	m := testForm()
	m.Err = "description is required"
	v := m.View()
	assert.True(t, strings.Contains(v, "New event"))
	assert.True(t, strings.Contains(v, "description is required"))
	assert.Equal(t, "FALL", m.Value("code"))
	assert.Equal(t, "", m.Value("missing"))
}
