package notify

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeScheduler fires timers only when the test advances its clock.
type fakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func TestNotify_ReplacesAndExpires(t *testing.T) {
	sched := &fakeScheduler{}
	q := New(WithScheduler(sched))

	q.Notify("A", Info)
	sched.Advance(2 * time.Second)
	q.Notify("B", Info)

	n, visible, ok := q.Current()
	require.True(t, ok)
	assert.True(t, visible)
	assert.Equal(t, "B", n.Text)
	assert.Equal(t, 1, sched.pending(), "only the latest timer may be pending")

	// A's original deadline passes; B must stay visible.
	sched.Advance(3 * time.Second)
	assert.True(t, q.Visible())

	sched.Advance(2 * time.Second)
	n, visible, _ = q.Current()
	assert.False(t, visible)
	assert.Equal(t, "B", n.Text, "expiry hides but keeps content")
	assert.Zero(t, sched.pending())
}

func TestNotify_ExactTimeout(t *testing.T) {
	sched := &fakeScheduler{}
	q := New(WithScheduler(sched))

	q.Notify("A", Error)
	sched.Advance(DefaultTimeout - time.Millisecond)
	assert.True(t, q.Visible())
	sched.Advance(time.Millisecond)
	assert.False(t, q.Visible())
}

func TestDismiss_CancelsTimerKeepsContent(t *testing.T) {
	sched := &fakeScheduler{}
	q := New(WithScheduler(sched))

	q.Notify("model unavailable", Error)
	q.Dismiss()

	n, visible, ok := q.Current()
	require.True(t, ok)
	assert.False(t, visible)
	assert.Equal(t, "model unavailable", n.Text)
	assert.Equal(t, Error, n.Severity)
	assert.Zero(t, sched.pending())
}

func TestStaleExpiryIgnored(t *testing.T) {
	// A timer whose Stop lost the race still calls expire; the generation
	// check keeps it from hiding a newer message.
	q := New(WithScheduler(&fakeScheduler{}))
	q.Notify("A", Info)
	q.mu.Lock()
	stale := q.gen
	q.mu.Unlock()

	q.Notify("B", Info)
	q.expire(stale)
	assert.True(t, q.Visible())
}

func TestOnChange(t *testing.T) {
	sched := &fakeScheduler{}
	var calls atomic.Int32
	q := New(WithScheduler(sched), WithOnChange(func() { calls.Add(1) }))

	q.Notify("A", Info)           // 1
	q.Dismiss()                   // 2
	q.Dismiss()                   // already hidden: no call
	q.Notify("B", Info)           // 3
	sched.Advance(DefaultTimeout) // 4
	assert.EqualValues(t, 4, calls.Load())
}

func TestCreatedAtUsesClock(t *testing.T) {
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	q := New(WithScheduler(&fakeScheduler{}), WithClock(func() time.Time { return at }))
	q.Notify("A", Info)
	n, _, _ := q.Current()
	assert.Equal(t, at, n.CreatedAt)
}

func TestRealTimerExpires(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := New(WithTimeout(20 * time.Millisecond))
	q.Notify("A", Info)
	require.Eventually(t, func() bool { return !q.Visible() }, time.Second, 5*time.Millisecond)
	q.Close()
}

func TestCloseStopsTimerAndIgnoresNotify(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := New(WithTimeout(time.Hour))
	q.Notify("A", Info)
	q.Close()
	q.Notify("B", Info)

	n, _, _ := q.Current()
	assert.Equal(t, "A", n.Text)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", Info.String())
	assert.Equal(t, "error", Error.String())
}
