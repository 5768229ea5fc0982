package live

import (
	"strings"
	"testing"

	"github.com/MarcoPinkman/Hawkeye/internal/events"
	"github.com/MarcoPinkman/Hawkeye/internal/session"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
)

func TestIndicator(t *testing.T) {
	m := New()
	assert.Contains(t, m.Indicator(), "Detection stopped")

	m.Intent = session.IntentActive
	assert.Contains(t, m.Indicator(), "Detection in progress")

	m.Intent = session.IntentTransitioning
	assert.Contains(t, m.Indicator(), "Working")
}

func TestStopShownOnlyWhileActive(t *testing.T) {
	m := New()
	assert.NotContains(t, m.View(80), "S:stop")
	m.Intent = session.IntentActive
	assert.Contains(t, m.View(80), "S:stop")
}

func TestConfigPanel(t *testing.T) {
	m := New()
	m.Settings = session.Settings{Model: "qwen-vl-max", RTSPURL: "rtsp://cam/live", ChunkDuration: 5, OutputDir: "/data/clips"}
	m.Events = []events.Definition{{Code: "FALL", Description: "Person falls"}}
	m.Disk = "12 GB free"

	assert.NotContains(t, m.View(100), "qwen-vl-max")
	m.ShowConfig = true
	v := m.View(100)
	for _, want := range []string{"qwen-vl-max", "rtsp://cam/live", "5s", "12 GB free", "FALL", "Person falls"} {
		assert.True(t, strings.Contains(v, want), want)
	}
}

func TestPulseOscillates(t *testing.T) {
	p := NewPulse(10)
	sawHigh, sawLowAgain := false, false
	for i := 0; i < 400; i++ {
		p.Step()
		lvl := p.Level()
		assert.GreaterOrEqual(t, lvl, 0.0)
		assert.LessOrEqual(t, lvl, 1.0)
		if lvl > 0.9 {
			sawHigh = true
		}
		if sawHigh && lvl < 0.1 {
			sawLowAgain = true
		}
	}
	assert.True(t, sawHigh)
	assert.True(t, sawLowAgain)
}

func TestUpdateIgnoresOtherMessages(t *testing.T) {
	m := New()
	m2, cmd := m.Update("noise")
	assert.Nil(t, cmd)
	assert.Equal(t, m.pulse.Level(), m2.pulse.Level())

	_, cmd = m.Update(spinner.TickMsg{})
	assert.NotNil(t, cmd, "a spinner tick schedules the next one")
}
