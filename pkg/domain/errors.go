package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownStep is reported (never returned to the user) when a state points at a step
// the graph does not define.
var ErrUnknownStep = errors.New("unknown step")
