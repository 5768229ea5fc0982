package eventlog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttled spaces reads of src at least one interval apart. A caller that
// arrives inside the interval waits for the next slot instead of getting a
// stale result, and callers queued behind a read that started after they
// asked share that read.
type Throttled struct {
	src Source
	lim *rate.Limiter

	mu     sync.Mutex // serialises reads
	last   []Record
	readAt time.Time // when the read behind last started
}

// NewThrottled allows one read per every, with no burst.
func NewThrottled(src Source, every time.Duration) *Throttled {
	return &Throttled{
		src:  src,
		lim:  rate.NewLimiter(rate.Every(every), 1),
		last: []Record{},
	}
}

// Recent implements Source. If ctx ends while waiting for a slot, the last
// result is returned.
func (t *Throttled) Recent(ctx context.Context) []Record {
	asked := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.readAt.After(asked) {
		return t.last
	}
	if err := t.lim.Wait(ctx); err != nil {
		return t.last
	}
	start := time.Now()
	t.last = t.src.Recent(ctx)
	t.readAt = start
	return t.last
}
