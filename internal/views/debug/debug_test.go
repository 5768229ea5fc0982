package debug

import (
	"strings"
	"testing"
)

func TestAddf(t *testing.T) {
	m := New()
	m.Addf(KindCtl, "start %s", "ok")
	if len(m.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.Entries))
	}
	if m.Entries[0].Kind != KindCtl || m.Entries[0].Message != "start ok" {
		t.Errorf("unexpected entry %+v", m.Entries[0])
	}
}

func TestMaxEntries(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+50; i++ {
		m.Addf(KindFeed, "event %d", i)
	}
	if len(m.Entries) != maxEntries {
		t.Errorf("expected %d entries, got %d", maxEntries, len(m.Entries))
	}
	if m.Entries[0].Message != "event 50" {
		t.Errorf("oldest entries should be dropped first, got %q", m.Entries[0].Message)
	}
}

func TestScroll(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		m.Addf(KindNav, "step")
	}
	m.ScrollUp(3)
	if m.Offset != 3 {
		t.Errorf("expected offset 3, got %d", m.Offset)
	}
	m.ScrollUp(100)
	if m.Offset != 4 {
		t.Errorf("expected offset capped at 4, got %d", m.Offset)
	}
	m.ScrollDown(10)
	if m.Offset != 0 {
		t.Errorf("expected offset 0, got %d", m.Offset)
	}
	m.ScrollUp(2)
	m.Addf(KindNav, "new")
	if m.Offset != 0 {
		t.Error("a new entry should reset scroll")
	}
}

func TestView(t *testing.T) {
	m := New()
	if !strings.Contains(m.View(80, 20), "Nothing logged") {
		t.Error("empty view should say nothing is logged")
	}
	m.Addf(KindErr, "start failed: model unavailable")
	if !strings.Contains(m.View(120, 20), "model unavailable") {
		t.Error("view should contain the entry")
	}
}
