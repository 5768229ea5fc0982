package session

import (
	"errors"

	"github.com/MarcoPinkman/Hawkeye/internal/client"
)

// ErrRestartSuperseded is returned by Restart when the operator entered or
// left the live step during the settle delay. The restart then ends
// without issuing its start.
var ErrRestartSuperseded = errors.New("restart superseded by a step change")

// StartError is a failed start: transport failure or control-plane
// rejection. It is never retried.
type StartError struct{ Err error }

func (e *StartError) Error() string { return "start detection: " + e.Err.Error() }
func (e *StartError) Unwrap() error { return e.Err }

// Reason is the operator-facing cause.
func (e *StartError) Reason() string { return client.Reason(e.Err) }

// StopError is a failed stop. Callers log it and move on: the active latch
// has already been cleared.
type StopError struct{ Err error }

func (e *StopError) Error() string { return "stop detection: " + e.Err.Error() }
func (e *StopError) Unwrap() error { return e.Err }

// Reason is the operator-facing cause.
func (e *StopError) Reason() string { return client.Reason(e.Err) }
