package app

import (
	"errors"
	"fmt"
)

var (
	// ErrQuit is returned by Run when the user quits.
	ErrQuit = errors.New("quit requested")

	ErrAlreadyRunning = errors.New("application already running")

	// ErrNoBackend is returned by Run before SetBackend.
	ErrNoBackend = errors.New("no backend set")
)

// InitError reports which component failed to come up.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CommandError is an editing command that failed. Its message is what
// the status line shows.
type CommandError struct {
	Command string // e.g. "cut", "paste"
	Source  string // optional, e.g. "clipboard"
	Err     error
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}
	name := e.Command
	if e.Source != "" {
		name += " " + e.Source
	}
	if e.Err == nil {
		return name
	}
	return name + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrap tags err with the command that produced it. A nil err stays nil.
func wrap(command string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Err: err}
}
