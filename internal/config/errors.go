package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for a settings file extension with
	// no decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidationFailed matches every ValidationError.
	ErrValidationFailed = errors.New("validation failed")

	ErrWatcherClosed = errors.New("watcher closed")
)

// ParseError reports settings that could not be decoded. Line and Column
// are zero when the decoder does not report a position.
type ParseError struct {
	Path         string
	Line, Column int
	Err          error
}

func (e *ParseError) Error() string {
	where := e.Path
	switch {
	case e.Line > 0 && e.Column > 0:
		where = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	case e.Line > 0:
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return fmt.Sprintf("parse %s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError names one setting with an unusable value.
type ValidationError struct {
	Path    string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.Path, e.Value, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
