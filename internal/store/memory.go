package store

import (
	"sync"

	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/engine/grid"
)

// Memory is a Store that keeps everything in memory.
type Memory struct {
	mu        sync.Mutex
	text      *string
	cursor    *buffer.Position
	saves     int
	loadErr   error
	cursorErr error
	saveErr   error
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// SetText seeds the stored text without trimming it.
func (m *Memory) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = &text
}

// SetLoadError makes Load fail with err, as an unreadable file would.
func (m *Memory) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetCursorError makes LoadCursor fail with err, as a corrupt record would.
func (m *Memory) SetCursorError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorErr = err
}

// SetSaveError makes every later Save fail with err.
func (m *Memory) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Saves returns how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Load returns the stored text.
func (m *Memory) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return "", m.loadErr
	}
	if m.text == nil {
		return "", ErrNotFound
	}
	return *m.text, nil
}

// Save stores text trimmed of trailing whitespace.
func (m *Memory) Save(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	trimmed := grid.Trim(text)
	m.text = &trimmed
	m.saves++
	return nil
}

// LoadCursor returns the stored caret.
func (m *Memory) LoadCursor() (buffer.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursorErr != nil {
		return buffer.Position{}, m.cursorErr
	}
	if m.cursor == nil {
		return buffer.Position{}, ErrNotFound
	}
	return *m.cursor, nil
}

// SaveCursor stores the caret.
func (m *Memory) SaveCursor(p buffer.Position) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cursor = &p
	return nil
}
