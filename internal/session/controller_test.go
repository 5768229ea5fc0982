package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/client"
	"github.com/MarcoPinkman/Hawkeye/internal/events"
	"github.com/MarcoPinkman/Hawkeye/internal/metrics"
	"github.com/MarcoPinkman/Hawkeye/internal/notify"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakePlane struct {
	mu       sync.Mutex
	starts   []client.StartRequest
	stops    int
	startErr error
	stopErr  error
	onStart  func()
	onStop   func()
}

func (p *fakePlane) Start(_ context.Context, req client.StartRequest) error {
	if p.onStart != nil {
		p.onStart()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.starts = append(p.starts, req)
	return p.startErr
}

func (p *fakePlane) Stop(context.Context) error {
	if p.onStop != nil {
		p.onStop()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
	return p.stopErr
}

func (p *fakePlane) counts() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.starts), p.stops
}

type recorder struct {
	mu    sync.Mutex
	notes []notify.Notification
}

func (r *recorder) Notify(text string, sev notify.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, notify.Notification{Text: text, Severity: sev})
}

func (r *recorder) errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notes {
		if n.Severity == notify.Error {
			out = append(out, n.Text)
		}
	}
	return out
}

func (r *recorder) last() notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notes[len(r.notes)-1]
}

func noSleep(context.Context, time.Duration) error { return nil }

func testConfig() Config {
	return NewConfig(Settings{
		Model:         "qwen-vl-max",
		BaseURL:       "https://dashscope.example/v1",
		RTSPURL:       "rtsp://cam/stream",
		ChunkDuration: 5,
		OutputDir:     "/tmp/chunks",
		Context:       "shop floor",
	}, []events.Definition{{Code: "E1", Description: "fall", Guidelines: "person on the floor"}})
}

func TestStart_Success(t *testing.T) {
	plane := &fakePlane{}
	notes := &recorder{}
	c := New(plane, notes)

	require.NoError(t, c.Start(context.Background(), testConfig()))
	assert.True(t, c.IsActive())
	assert.Equal(t, IntentActive, c.Intent())
	assert.Equal(t, msgStarted, notes.last().Text)

	require.Len(t, plane.starts, 1)
	req := plane.starts[0]
	assert.Equal(t, "rtsp://cam/stream", req.RTSPURL)
	assert.Equal(t, 5, req.ChunkDuration)
	require.Len(t, req.Events, 1)
	assert.Equal(t, "E1", req.Events[0].EventCode)
}

func TestStart_RejectedWithDetail(t *testing.T) {
	plane := &fakePlane{startErr: &client.APIError{Path: "/start", StatusCode: 500, Detail: "model unavailable"}}
	notes := &recorder{}
	c := New(plane, notes)

	before := testutil.ToFloat64(metrics.SessionCalls.WithLabelValues(metrics.OpStart, metrics.ResultRejected))
	err := c.Start(context.Background(), testConfig())

	var startErr *StartError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, "model unavailable", startErr.Reason())
	assert.False(t, c.IsActive())
	assert.Equal(t, IntentInactive, c.Intent())

	errs := notes.errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "model unavailable")

	after := testutil.ToFloat64(metrics.SessionCalls.WithLabelValues(metrics.OpStart, metrics.ResultRejected))
	assert.Equal(t, before+1, after)
}

func TestStart_TransportFailureIsNotRetried(t *testing.T) {
	plane := &fakePlane{startErr: errors.New("dial tcp: connection refused")}
	notes := &recorder{}
	c := New(plane, notes)

	err := c.Start(context.Background(), testConfig())
	require.Error(t, err)
	assert.Len(t, plane.starts, 1)
	assert.Contains(t, notes.errors()[0], "connection refused")
}

func TestStop_ClearsLatchOnFailure(t *testing.T) {
	plane := &fakePlane{}
	notes := &recorder{}
	c := New(plane, notes)
	require.NoError(t, c.Start(context.Background(), testConfig()))

	plane.stopErr = errors.New("timeout")
	err := c.Stop(context.Background())

	var stopErr *StopError
	require.ErrorAs(t, err, &stopErr)
	assert.False(t, c.IsActive())
	assert.Len(t, notes.errors(), 1)
}

func TestStop_IssuedWhenInactive(t *testing.T) {
	plane := &fakePlane{}
	c := New(plane, &recorder{})

	require.NoError(t, c.Stop(context.Background()))
	_, stops := plane.counts()
	assert.Equal(t, 1, stops)
	assert.False(t, c.IsActive())
}

func TestGuard_EnterLeave(t *testing.T) {
	c := New(&fakePlane{}, &recorder{})

	assert.False(t, c.LeaveLive(), "nothing to stop before the first entry")
	assert.True(t, c.EnterLive())
	assert.False(t, c.EnterLive(), "second entry must not start twice")
	assert.True(t, c.State().Armed)
	assert.True(t, c.LeaveLive())
	assert.False(t, c.LeaveLive())
	assert.False(t, c.State().Armed)
}

func TestPreArm_TransitioningUntilEntry(t *testing.T) {
	c := New(&fakePlane{}, &recorder{})

	c.PreArm()
	st := c.State()
	assert.Equal(t, IntentTransitioning, st.Intent)
	assert.False(t, st.Armed, "pre-arm must not touch the guard")

	assert.True(t, c.EnterLive())
	assert.Equal(t, IntentInactive, c.Intent())
}

func TestEnterLeaveReenter_BeforeStartResolves(t *testing.T) {
	defer goleak.VerifyNone(t)

	release := make(chan struct{})
	var once sync.Once
	plane := &fakePlane{}
	plane.onStart = func() { once.Do(func() { <-release }) }
	c := New(plane, &recorder{})
	ctx := context.Background()

	var wg sync.WaitGroup
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	require.True(t, c.EnterLive())
	run(func() { _ = c.Start(ctx, testConfig()) })

	require.True(t, c.LeaveLive())
	run(func() { _ = c.Stop(ctx) })

	require.True(t, c.EnterLive())
	run(func() { _ = c.Start(ctx, testConfig()) })

	close(release)
	wg.Wait()

	starts, stops := plane.counts()
	assert.Equal(t, 2, starts)
	assert.Equal(t, 1, stops)
	assert.NotEqual(t, IntentTransitioning, c.Intent())
}

func TestGuard_CallsNeverExceedTransitions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		plane := &fakePlane{}
		c := New(plane, &recorder{})
		entries, leaves := 0, 0
		for i := 0; i < 40; i++ {
			switch rng.Intn(4) {
			case 0, 1:
				entries++
				if c.EnterLive() {
					_ = c.Start(context.Background(), testConfig())
				}
			case 2:
				leaves++
				if c.LeaveLive() {
					_ = c.Stop(context.Background())
				}
			case 3:
				// duplicate teardown of the live view
				leaves++
				if c.LeaveLive() {
					_ = c.Stop(context.Background())
				}
			}
		}
		starts, stops := plane.counts()
		assert.LessOrEqual(t, starts, entries)
		assert.LessOrEqual(t, stops, leaves)
		assert.LessOrEqual(t, stops, starts)
	}
}

func TestRestart_StopFailureStillStarts(t *testing.T) {
	plane := &fakePlane{stopErr: errors.New("connection reset")}
	notes := &recorder{}
	c := New(plane, notes, WithSleep(noSleep))
	require.True(t, c.EnterLive())

	require.NoError(t, c.Restart(context.Background(), testConfig))
	assert.True(t, c.IsActive())
	assert.True(t, c.State().Armed)
	assert.Equal(t, IntentActive, c.Intent())
	starts, stops := plane.counts()
	assert.Equal(t, 1, starts)
	assert.Equal(t, 1, stops)
}

func TestRestart_StartFailureLeavesLatchFalse(t *testing.T) {
	plane := &fakePlane{}
	notes := &recorder{}
	c := New(plane, notes, WithSleep(noSleep))
	require.NoError(t, c.Start(context.Background(), testConfig()))

	plane.startErr = &client.APIError{Path: "/start", StatusCode: 503}
	err := c.Restart(context.Background(), testConfig)

	var startErr *StartError
	require.ErrorAs(t, err, &startErr)
	assert.False(t, c.IsActive())
	require.Len(t, notes.errors(), 1)
	assert.Contains(t, notes.errors()[0], "Service Unavailable")
}

func TestRestart_GuardFalseDuringStop(t *testing.T) {
	plane := &fakePlane{}
	c := New(plane, &recorder{}, WithSleep(noSleep))
	require.True(t, c.EnterLive())

	var armedDuringStop, armedDuringStart bool
	plane.onStop = func() { armedDuringStop = c.State().Armed }
	plane.onStart = func() { armedDuringStart = c.State().Armed }

	require.NoError(t, c.Restart(context.Background(), testConfig))
	assert.False(t, armedDuringStop)
	assert.True(t, armedDuringStart)
}

func TestRestart_UsesConfigBuiltAfterDelay(t *testing.T) {
	plane := &fakePlane{}
	model := "before"
	sleep := func(context.Context, time.Duration) error {
		model = "after"
		return nil
	}
	c := New(plane, &recorder{}, WithSleep(sleep))

	latest := func() Config {
		cfg := testConfig()
		cfg.Model = model
		return cfg
	}
	require.NoError(t, c.Restart(context.Background(), latest))
	require.Len(t, plane.starts, 1)
	assert.Equal(t, "after", plane.starts[0].Model)
}

func TestRestart_SupersededByNavigation(t *testing.T) {
	plane := &fakePlane{}
	var c *Controller
	sleep := func(context.Context, time.Duration) error {
		c.LeaveLive()
		return nil
	}
	c = New(plane, &recorder{}, WithSleep(sleep))
	require.True(t, c.EnterLive())

	err := c.Restart(context.Background(), testConfig)
	assert.ErrorIs(t, err, ErrRestartSuperseded)
	assert.False(t, c.IsActive())
	starts, stops := plane.counts()
	assert.Zero(t, starts)
	assert.Equal(t, 1, stops)
}

func TestRestart_NewerRestartSupersedesOlder(t *testing.T) {
	defer goleak.VerifyNone(t)

	plane := &fakePlane{}
	var opsMu sync.Mutex
	var ops []string
	record := func(op string) func() {
		return func() {
			opsMu.Lock()
			ops = append(ops, op)
			opsMu.Unlock()
		}
	}
	plane.onStart = record("start")
	plane.onStop = record("stop")

	release := make(chan struct{})
	sleep := func(ctx context.Context, _ time.Duration) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-release:
			return nil
		}
	}
	c := New(plane, &recorder{}, WithSleep(sleep))
	require.True(t, c.EnterLive())
	require.NoError(t, c.Start(context.Background(), testConfig()))

	first := make(chan error, 1)
	go func() { first <- c.Restart(context.Background(), testConfig) }()
	require.Eventually(t, func() bool {
		_, stops := plane.counts()
		return stops == 1
	}, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- c.Restart(context.Background(), testConfig) }()

	// The older settle delay is cancelled as soon as the newer restart begins.
	assert.ErrorIs(t, <-first, ErrRestartSuperseded)

	require.Eventually(t, func() bool {
		_, stops := plane.counts()
		return stops == 2
	}, time.Second, time.Millisecond)
	close(release)
	require.NoError(t, <-second)

	starts, stops := plane.counts()
	assert.Equal(t, 2, starts)
	assert.Equal(t, 2, stops)
	assert.True(t, c.IsActive())
	assert.True(t, c.State().Armed)
	assert.Equal(t, IntentActive, c.Intent())

	opsMu.Lock()
	defer opsMu.Unlock()
	assert.Equal(t, []string{"start", "stop", "stop", "start"}, ops)
}

func TestRestart_EnterDuringSettleStartsOnce(t *testing.T) {
	plane := &fakePlane{}
	var c *Controller
	var owed bool
	sleep := func(ctx context.Context, _ time.Duration) error {
		c.LeaveLive()
		owed = c.EnterLive()
		return ctx.Err()
	}
	c = New(plane, &recorder{}, WithSleep(sleep))
	require.True(t, c.EnterLive())

	err := c.Restart(context.Background(), testConfig)
	assert.ErrorIs(t, err, ErrRestartSuperseded)
	assert.True(t, owed, "re-entry owns the start")
	starts, _ := plane.counts()
	assert.Zero(t, starts)
}

func TestRestart_CancelledDuringSettle(t *testing.T) {
	defer goleak.VerifyNone(t)

	plane := &fakePlane{}
	notes := &recorder{}
	c := New(plane, notes, WithSettleDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Restart(ctx, testConfig) }()

	require.Eventually(t, func() bool {
		_, stops := plane.counts()
		return stops == 1
	}, time.Second, time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.IsActive())
	assert.Len(t, notes.errors(), 1)
}

func TestRestart_PanicLeavesLatchFalse(t *testing.T) {
	plane := &fakePlane{}
	notes := &recorder{}
	c := New(plane, notes, WithSleep(noSleep))
	require.NoError(t, c.Start(context.Background(), testConfig()))

	err := c.Restart(context.Background(), func() Config { panic("bad config") })
	require.Error(t, err)
	assert.False(t, c.IsActive())
	assert.NotEqual(t, IntentTransitioning, c.Intent())
	require.Len(t, notes.errors(), 1)
	assert.Contains(t, notes.errors()[0], "bad config")
}

func TestNewConfig_CopiesEvents(t *testing.T) {
	defs := []events.Definition{{Code: "A", Description: "a", Guidelines: "a"}}
	cfg := NewConfig(Settings{}, defs)
	defs[0].Code = "changed"
	assert.Equal(t, "A", cfg.Events[0].Code)
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "inactive", IntentInactive.String())
	assert.Equal(t, "active", IntentActive.String())
	assert.Equal(t, "transitioning", IntentTransitioning.String())
}
