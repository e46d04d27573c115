package session

import "errors"

// Session errors.
var (
	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNotStarted indicates a command ran before Start.
	ErrNotStarted = errors.New("session not started")
)
