// Package wizard implements the linear five-step setup flow and maps step
// transitions onto session start/stop effects.
package wizard

import (
	"errors"
	"fmt"

	xlog "github.com/MarcoPinkman/Hawkeye/internal/log"
	"github.com/rs/zerolog"
)

// Step is a wizard position, 1 through 5.
type Step int

const (
	StepWelcome Step = iota + 1
	StepModel
	StepStream
	StepEvents
	StepLive
)

// Title is the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case StepWelcome:
		return "Welcome"
	case StepModel:
		return "Model setup"
	case StepStream:
		return "Stream setup"
	case StepEvents:
		return "Events of interest"
	case StepLive:
		return "Live detection"
	default:
		return fmt.Sprintf("Step %d", int(s))
	}
}

// Effect is what the caller must do after a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectStart
	EffectStop
)

func (e Effect) String() string {
	switch e {
	case EffectStart:
		return "start"
	case EffectStop:
		return "stop"
	default:
		return "none"
	}
}

// ErrNoEvents blocks leaving the event step with an empty list.
var ErrNoEvents = errors.New("add at least one event before continuing")

// Guard is the session controller's orchestration guard.
type Guard interface {
	EnterLive() bool
	LeaveLive() bool
	PreArm()
}

// Counter reports how many event definitions exist.
type Counter interface {
	Len() int
}

// Option configures a Machine.
type Option func(*Machine)

// WithValidator installs a check run before Next leaves a step.
func WithValidator(v func(Step) error) Option {
	return func(m *Machine) { m.validate = v }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// Machine tracks the current step. It is not safe for concurrent use; the
// UI goroutine owns it.
type Machine struct {
	step     Step
	guard    Guard
	events   Counter
	validate func(Step) error
	log      zerolog.Logger
}

// New starts at the welcome step.
func New(guard Guard, events Counter, opts ...Option) *Machine {
	m := &Machine{
		step:   StepWelcome,
		guard:  guard,
		events: events,
		log:    xlog.WithComponent("wizard"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Step is the current position.
func (m *Machine) Step() Step { return m.step }

// Next advances one step. It returns an error, and stays put, when the
// current step is incomplete. Entering the live step yields EffectStart
// when the guard says a start is owed.
func (m *Machine) Next() (Effect, error) {
	if m.step == StepLive {
		return EffectNone, nil
	}
	if m.validate != nil {
		if err := m.validate(m.step); err != nil {
			return EffectNone, err
		}
	}
	if m.step == StepEvents {
		if m.events.Len() == 0 {
			return EffectNone, ErrNoEvents
		}
		m.guard.PreArm()
	}
	return m.moveTo(m.step + 1), nil
}

// Back goes one step back. Leaving the live step yields EffectStop when
// the guard says a stop is owed.
func (m *Machine) Back() Effect {
	if m.step == StepWelcome {
		return EffectNone
	}
	return m.moveTo(m.step - 1)
}

// Teardown is called when the view hosting the wizard goes away. It
// behaves like leaving the live step.
func (m *Machine) Teardown() Effect {
	if m.guard.LeaveLive() {
		m.log.Info().Int(xlog.FieldStep, int(m.step)).Msg("teardown stops the session")
		return EffectStop
	}
	return EffectNone
}

func (m *Machine) moveTo(to Step) Effect {
	from := m.step
	m.step = to
	m.log.Debug().Int(xlog.FieldFromStep, int(from)).Int(xlog.FieldStep, int(to)).Msg("step changed")

	switch {
	case to == StepLive:
		if m.guard.EnterLive() {
			return EffectStart
		}
	case from == StepLive:
		if m.guard.LeaveLive() {
			return EffectStop
		}
	}
	return EffectNone
}
