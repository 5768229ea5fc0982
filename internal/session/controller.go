// Package session owns the lifecycle of the remote detection session:
// whether one should be running, and the start/stop/restart calls that
// make it so.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MarcoPinkman/Hawkeye/internal/client"
	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/MarcoPinkman/Hawkeye/internal/metrics"
	"github.com/MarcoPinkman/Hawkeye/internal/notify"
	"github.com/rs/zerolog"
)

// SettleDelay separates the stop and start halves of a restart.
const SettleDelay = 1000 * time.Millisecond

// Operator-facing notification texts.
const (
	msgStarting     = "Starting detection..."
	msgStarted      = "Detection started"
	msgStartFailed  = "Detection failed to start: "
	msgStopping     = "Stopping detection..."
	msgStopped      = "Detection stopped"
	msgStopFailed   = "Detection failed to stop: "
	msgRestartFault = "Restarting detection failed: "
)

// Intent is the controller's view of the remote session.
type Intent int

const (
	IntentInactive Intent = iota
	IntentActive
	IntentTransitioning
)

func (i Intent) String() string {
	switch i {
	case IntentActive:
		return "active"
	case IntentTransitioning:
		return "transitioning"
	default:
		return "inactive"
	}
}

// ControlPlane is the remote detection service.
type ControlPlane interface {
	Start(ctx context.Context, req client.StartRequest) error
	Stop(ctx context.Context) error
}

// State is a consistent snapshot of the controller.
type State struct {
	Intent Intent
	Active bool // the active latch
	Armed  bool // the should-be-active guard
}

// Option configures a Controller.
type Option func(*Controller)

// WithSettleDelay overrides SettleDelay.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) { c.settle = d }
}

// WithSleep replaces the settle wait, for tests.
func WithSleep(f func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Controller) { c.sleep = f }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller drives start/stop/restart against the control plane.
//
// Two booleans are kept apart. The active latch records the outcome of the
// last completed call and answers IsActive. The should-be-active guard is
// flipped synchronously by EnterLive/LeaveLive before any call is issued,
// so a second transition that arrives while a call is in flight sees it
// and does not issue a duplicate.
type Controller struct {
	plane  ControlPlane
	notes  notify.Notifier
	log    zerolog.Logger
	settle time.Duration
	sleep  func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	active   bool
	armed    bool
	pending  bool   // pre-armed by the wizard, start not yet issued
	inflight int    // running Start/Stop/Restart calls
	epoch    uint64 // bumps on every live-step transition and restart
	settling context.CancelFunc
}

// New creates a controller with the latch and guard both false.
func New(plane ControlPlane, notes notify.Notifier, opts ...Option) *Controller {
	c := &Controller{
		plane:  plane,
		notes:  notes,
		log:    xlog.WithComponent("session"),
		settle: SettleDelay,
		sleep:  sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnterLive records entry into the live step. It reports true exactly
// when the caller must now issue Start; the guard is already set when it
// returns.
func (c *Controller) EnterLive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.pending = false
	if c.armed {
		return false
	}
	c.armed = true
	return true
}

// LeaveLive records leaving the live step, or teardown of the view that
// shows it. It reports true exactly when the caller must now issue Stop;
// the guard is already cleared when it returns.
func (c *Controller) LeaveLive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.pending = false
	if !c.armed {
		return false
	}
	c.armed = false
	return true
}

// PreArm marks that a start is imminent without issuing it. The wizard
// calls it when the event step is completed; the start itself comes from
// the live step's entry via EnterLive.
func (c *Controller) PreArm() {
	c.mu.Lock()
	c.pending = true
	c.mu.Unlock()
}

// IsActive reports the active latch.
func (c *Controller) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Intent reports whether the session is running, stopped, or has a call
// in flight.
func (c *Controller) Intent() Intent {
	return c.State().Intent
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	intent := IntentInactive
	switch {
	case c.inflight > 0 || c.pending:
		intent = IntentTransitioning
	case c.active:
		intent = IntentActive
	}
	return State{Intent: intent, Active: c.active, Armed: c.armed}
}

// Start sends cfg to the control plane. On failure the latch is false, an
// error notification carries the reason, and a *StartError is returned.
func (c *Controller) Start(ctx context.Context, cfg Config) error {
	c.begin()
	defer c.end()

	c.notes.Notify(msgStarting, notify.Info)
	c.log.Info().
		Str(xlog.FieldOperation, metrics.OpStart).
		Str(xlog.FieldModel, cfg.Model).
		Str(xlog.FieldRTSPURL, cfg.RTSPURL).
		Int(xlog.FieldEvents, len(cfg.Events)).
		Msg("starting detection")

	t0 := time.Now()
	err := c.plane.Start(ctx, cfg.Request())
	if err != nil {
		c.setActive(false)
		metrics.ObserveSessionCall(metrics.OpStart, resultOf(err), time.Since(t0))
		c.log.Error().Err(err).Str(xlog.FieldOperation, metrics.OpStart).Msg("start failed")
		c.notes.Notify(msgStartFailed+client.Reason(err), notify.Error)
		return &StartError{Err: err}
	}

	c.setActive(true)
	metrics.ObserveSessionCall(metrics.OpStart, metrics.ResultOK, time.Since(t0))
	c.log.Info().Str(xlog.FieldOperation, metrics.OpStart).Dur(xlog.FieldDuration, time.Since(t0)).Msg("detection started")
	c.notes.Notify(msgStarted, notify.Info)
	return nil
}

// Stop asks the control plane to stop, whatever the latch says. The latch
// is cleared on success and on failure; a failure is logged, notified on a
// best-effort basis and returned as a *StopError for the caller to discard.
func (c *Controller) Stop(ctx context.Context) error {
	c.begin()
	defer c.end()

	c.notes.Notify(msgStopping, notify.Info)
	c.log.Info().Str(xlog.FieldOperation, metrics.OpStop).Msg("stopping detection")

	t0 := time.Now()
	err := c.plane.Stop(ctx)
	c.setActive(false)
	if err != nil {
		metrics.ObserveSessionCall(metrics.OpStop, resultOf(err), time.Since(t0))
		c.log.Warn().Err(err).Str(xlog.FieldOperation, metrics.OpStop).Msg("stop failed; assuming stopped")
		c.notes.Notify(msgStopFailed+client.Reason(err), notify.Error)
		return &StopError{Err: err}
	}

	metrics.ObserveSessionCall(metrics.OpStop, metrics.ResultOK, time.Since(t0))
	c.log.Info().Str(xlog.FieldOperation, metrics.OpStop).Dur(xlog.FieldDuration, time.Since(t0)).Msg("detection stopped")
	c.notes.Notify(msgStopped, notify.Info)
	return nil
}

// Restart stops, waits the settle delay, then starts with the config
// returned by latest (evaluated after the delay). A stop failure does not
// abort the restart. The guard is false during the stop phase and true
// once the start is issued. The latch always ends true or false.
//
// A newer restart or a live-step transition cancels the pending settle
// delay; the older restart then returns ErrRestartSuperseded without
// starting.
func (c *Controller) Restart(ctx context.Context, latest func() Config) (err error) {
	c.begin()
	defer c.end()

	defer func() {
		if r := recover(); r != nil {
			c.setActive(false)
			err = fmt.Errorf("restart: %v", r)
			c.log.Error().Interface("panic", r).Str(xlog.FieldOperation, metrics.OpRestart).Msg("restart aborted")
			c.notes.Notify(msgRestartFault+fmt.Sprint(r), notify.Error)
		}
	}()

	settleCtx, cancelSettle := context.WithCancel(ctx)
	defer cancelSettle()

	c.mu.Lock()
	c.armed = false
	c.supersedeLocked()
	c.settling = cancelSettle
	epoch := c.epoch
	c.mu.Unlock()

	if stopErr := c.Stop(ctx); stopErr != nil {
		c.log.Info().Err(stopErr).Str(xlog.FieldOperation, metrics.OpRestart).Msg("continuing restart after stop failure")
	}

	sleepErr := c.sleep(settleCtx, c.settle)

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		metrics.ObserveSessionCall(metrics.OpRestart, metrics.ResultSuperseded, 0)
		c.log.Info().Str(xlog.FieldOperation, metrics.OpRestart).Msg("restart superseded; not starting")
		return ErrRestartSuperseded
	}
	c.settling = nil
	if sleepErr != nil {
		c.mu.Unlock()
		c.notes.Notify(msgRestartFault+sleepErr.Error(), notify.Error)
		return fmt.Errorf("restart: %w", sleepErr)
	}
	c.armed = true
	c.mu.Unlock()

	return c.Start(ctx, latest())
}

// supersedeLocked invalidates any pending restart and cancels its settle
// delay.
func (c *Controller) supersedeLocked() {
	c.epoch++
	if c.settling != nil {
		c.settling()
		c.settling = nil
	}
}

func (c *Controller) begin() {
	c.mu.Lock()
	c.inflight++
	c.mu.Unlock()
}

func (c *Controller) end() {
	c.mu.Lock()
	c.inflight--
	c.mu.Unlock()
}

func (c *Controller) setActive(v bool) {
	c.mu.Lock()
	c.active = v
	c.mu.Unlock()
	metrics.SetSessionActive(v)
}

func resultOf(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return metrics.ResultRejected
	}
	return metrics.ResultTransport
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
