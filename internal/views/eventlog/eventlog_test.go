package eventlog

import (
	"strings"
	"testing"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(ids ...int64) []eventlog.Record {
	out := make([]eventlog.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, eventlog.Record{
			ID:          id,
			Timestamp:   time.Date(2025, 5, 1, 9, 0, int(id), 0, time.UTC),
			Code:        "FALL",
			Description: "Person falls",
			VideoURL:    "file:///tmp/clips/fall-" + string(rune('a'+id)) + ".mp4",
		})
	}
	return out
}

func TestEmpty(t *testing.T) {
	m := New()
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "No events recorded")
}

func TestSelectionFollowsRecord(t *testing.T) {
	m := New()
	m.SetSize(120, 10)
	m.SetRecords(records(3, 2, 1), time.Now())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.EqualValues(t, 2, sel.ID)

	// A newer record arrives on top; the cursor stays on record 2.
	m.SetRecords(records(4, 3, 2, 1), time.Now())
	sel, _ = m.Selected()
	assert.EqualValues(t, 2, sel.ID)
	assert.Equal(t, 4, m.Len())
}

func TestView(t *testing.T) {
	m := New()
	m.SetSize(140, 10)
	m.SetRecords(records(1), time.Date(2025, 5, 1, 9, 0, 0, 0, time.Local))
	v := m.View()
	assert.True(t, strings.Contains(v, "1 records"))
	assert.True(t, strings.Contains(v, "FALL"))
	assert.True(t, strings.Contains(v, "fall-b.mp4"))
}

func TestClipName(t *testing.T) {
	assert.Equal(t, "-", clipName(""))
	assert.Equal(t, "a.mp4", clipName("http://host/videos/a.mp4"))
	assert.Equal(t, "http://host/", clipName("http://host/"))
}
