package store

import (
	"errors"
	"fmt"
)

// Standard errors returned by the store package.
var (
	// ErrNotFound indicates nothing has been stored yet.
	ErrNotFound = errors.New("not found")

	// ErrMalformedCursor indicates the stored caret could not be decoded.
	ErrMalformedCursor = errors.New("malformed cursor")
)

// PathError represents an error associated with a stored file.
type PathError struct {
	Op   string // Operation that failed (load, save, ...)
	Path string // File path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates nothing was stored.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
