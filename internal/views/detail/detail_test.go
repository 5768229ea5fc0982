package detail

import (
	"strings"
	"testing"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/eventlog"
)

func TestView(t *testing.T) {
	rec := eventlog.Record{
		ID:          42,
		Timestamp:   time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC),
		Code:        "FALL",
		Description: "Person falls",
		VideoURL:    "file:///tmp/clips/fall.mp4",
		Explanation: "## Person falls\n\n- **Confidence:** 91%",
	}
	v := New(rec, 80).View()
	for _, want := range []string{"Event #42", "FALL", "Person falls", "fall.mp4", "Confidence", "[o] open clip"} {
		if !strings.Contains(v, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
	if strings.Contains(v, "**Confidence:**") {
		t.Error("explanation should be rendered, not shown as raw markdown")
	}
}

func TestView_NoClipNoExplanation(t *testing.T) {
	v := New(eventlog.Record{ID: 1, Code: "E"}, 60).View()
	if strings.Contains(v, "open clip") {
		t.Error("no clip should hide the open hint")
	}
	if !strings.Contains(v, "No explanation") {
		t.Error("missing explanation should be called out")
	}
	if !strings.Contains(v, "unknown") {
		t.Error("zero timestamp should render as unknown")
	}
}

func TestOpener(t *testing.T) {
	tests := map[string]string{"darwin": "open", "linux": "xdg-open", "windows": "rundll32"}
	for goos, want := range tests {
		if got, _ := opener(goos); got != want {
			t.Errorf("opener(%q) = %q, want %q", goos, got, want)
		}
	}
}
