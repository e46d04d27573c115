// Package clipboard moves text between the editor and the system
// clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrEmpty indicates there is nothing to paste.
var ErrEmpty = errors.New("clipboard empty")

// Clipboard reads and writes plain text.
type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// System uses the platform clipboard. It keeps a private copy of the last
// text written so cut and paste still work inside the editor when no
// platform clipboard is reachable (headless sessions, missing xclip).
type System struct {
	mu   sync.Mutex
	last string
}

var _ Clipboard = (*System)(nil)

// NewSystem creates a system clipboard.
func NewSystem() *System {
	return &System{}
}

// Available reports whether a platform clipboard utility was found.
func (s *System) Available() bool {
	return !clipboard.Unsupported
}

// WriteText copies text to the clipboard.
func (s *System) WriteText(text string) error {
	s.mu.Lock()
	s.last = text
	s.mu.Unlock()

	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// ReadText returns the clipboard contents with line endings normalized
// to "\n". If the platform clipboard cannot be read, the last text
// written through s is returned instead.
func (s *System) ReadText() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		s.mu.Lock()
		last := s.last
		s.mu.Unlock()
		if last == "" {
			return "", fmt.Errorf("read clipboard: %w", err)
		}
		text = last
	}
	if text == "" {
		return "", ErrEmpty
	}
	return normalize(text), nil
}

// Memory is an in-process clipboard.
type Memory struct {
	mu     sync.Mutex
	text   string
	writes int
}

var _ Clipboard = (*Memory)(nil)

// NewMemory creates an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// WriteText stores text.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.writes++
	return nil
}

// ReadText returns the stored text.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.text == "" {
		return "", ErrEmpty
	}
	return normalize(m.text), nil
}

// Text returns the stored text as written.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Writes returns how many times WriteText was called.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
