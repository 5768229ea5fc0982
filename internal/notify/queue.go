// Package notify implements the single-slot status notification shown as
// a toast by the console.
package notify

import (
	"sync"
	"time"
)

// DefaultTimeout is how long a notification stays visible.
const DefaultTimeout = 5000 * time.Millisecond

// Severity classifies a notification.
type Severity int

const (
	Info Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "info"
}

// Notification is the message currently held by the queue.
type Notification struct {
	Text      string
	Severity  Severity
	CreatedAt time.Time
}

// Notifier is the write side of the queue, used by the session controller.
type Notifier interface {
	Notify(text string, sev Severity)
}

// Timer is a pending single-shot task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Option configures a Queue.
type Option func(*Queue)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(q *Queue) { q.sched = s }
}

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(q *Queue) { q.timeout = d }
}

// WithOnChange registers a hook run after every visibility change. It runs
// on the goroutine that caused the change (the timer goroutine for expiry)
// and must not block.
func WithOnChange(f func()) Option {
	return func(q *Queue) { q.onChange = f }
}

// Queue holds at most one notification. A new notification replaces the
// previous one and restarts its expiry timer; at most one timer is pending.
type Queue struct {
	sched    Scheduler
	now      func() time.Time
	timeout  time.Duration
	onChange func()

	mu      sync.Mutex
	current Notification
	set     bool
	visible bool
	timer   Timer
	gen     uint64 // bumps on every replace/dismiss so a stale expiry is ignored
	closed  bool
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		sched:   realScheduler{},
		now:     time.Now,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Notify replaces the current message, makes it visible and restarts the
// expiry timer.
func (q *Queue) Notify(text string, sev Severity) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.stopTimerLocked()
	q.gen++
	gen := q.gen
	q.current = Notification{Text: text, Severity: sev, CreatedAt: q.now()}
	q.set = true
	q.visible = true
	q.timer = q.sched.AfterFunc(q.timeout, func() { q.expire(gen) })
	q.mu.Unlock()

	q.changed()
}

// Dismiss hides the message and cancels its timer. The content is kept
// until the next Notify.
func (q *Queue) Dismiss() {
	q.mu.Lock()
	wasVisible := q.visible
	q.stopTimerLocked()
	q.gen++
	q.visible = false
	q.mu.Unlock()

	if wasVisible {
		q.changed()
	}
}

// Current returns the latest message and whether it is visible. ok is
// false only when nothing was ever notified.
func (q *Queue) Current() (n Notification, visible bool, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current, q.visible, q.set
}

// Visible reports whether a message is currently shown.
func (q *Queue) Visible() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.visible
}

// Close cancels the pending timer and ignores later notifications.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopTimerLocked()
	q.gen++
	q.closed = true
}

func (q *Queue) expire(gen uint64) {
	q.mu.Lock()
	if gen != q.gen || !q.visible {
		q.mu.Unlock()
		return
	}
	q.visible = false
	q.timer = nil
	q.mu.Unlock()

	q.changed()
}

func (q *Queue) stopTimerLocked() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}

func (q *Queue) changed() {
	if q.onChange != nil {
		q.onChange()
	}
}
