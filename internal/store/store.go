// Package store persists the document text and the caret between runs.
//
// Text is stored trimmed: trailing whitespace is removed from every line
// and from the end of the document, so the padding added by the grid
// never reaches disk. The caret is stored as a small JSON object of the
// form {"line":L,"ch":C}.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/engine/grid"
)

// File names used inside the data directory.
const (
	TextFile   = "blank-editor.txt"
	CursorFile = "blank-editor-cursor.json"
)

// Store loads and saves the document and the caret.
type Store interface {
	// Load returns the stored text, or ErrNotFound.
	Load() (string, error)
	// Save stores text after trimming it.
	Save(text string) error
	// LoadCursor returns the stored caret, or ErrNotFound or
	// ErrMalformedCursor.
	LoadCursor() (buffer.Position, error)
	// SaveCursor stores the caret.
	SaveCursor(p buffer.Position) error
}

// FileStore keeps the text and the caret in two files in one directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &PathError{Op: "open", Path: dir, Err: err}
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Load returns the stored text.
func (s *FileStore) Load() (string, error) {
	path := filepath.Join(s.dir, TextFile)

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &PathError{Op: "load", Path: path, Err: ErrNotFound}
	}
	if err != nil {
		return "", &PathError{Op: "load", Path: path, Err: err}
	}
	return string(data), nil
}

// Save stores text trimmed of trailing whitespace.
func (s *FileStore) Save(text string) error {
	path := filepath.Join(s.dir, TextFile)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(path, []byte(grid.Trim(text)), 0o644); err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// LoadCursor returns the stored caret.
func (s *FileStore) LoadCursor() (buffer.Position, error) {
	path := filepath.Join(s.dir, CursorFile)

	s.mu.Lock()
	data, err := os.ReadFile(path)
	s.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return buffer.Position{}, &PathError{Op: "load", Path: path, Err: ErrNotFound}
	}
	if err != nil {
		return buffer.Position{}, &PathError{Op: "load", Path: path, Err: err}
	}

	p, err := DecodeCursor(data)
	if err != nil {
		return buffer.Position{}, &PathError{Op: "load", Path: path, Err: err}
	}
	return p, nil
}

// SaveCursor stores the caret.
func (s *FileStore) SaveCursor(p buffer.Position) error {
	path := filepath.Join(s.dir, CursorFile)

	data, err := EncodeCursor(p)
	if err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &PathError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// EncodeCursor renders p as {"line":L,"ch":C}.
func EncodeCursor(p buffer.Position) ([]byte, error) {
	out, err := sjson.SetBytes([]byte("{}"), "line", p.Line)
	if err != nil {
		return nil, fmt.Errorf("encode cursor line: %w", err)
	}
	out, err = sjson.SetBytes(out, "ch", p.Ch)
	if err != nil {
		return nil, fmt.Errorf("encode cursor ch: %w", err)
	}
	return out, nil
}

// DecodeCursor parses a stored caret. Both fields must be present,
// integral and non-negative.
func DecodeCursor(data []byte) (buffer.Position, error) {
	if !gjson.ValidBytes(data) {
		return buffer.Position{}, fmt.Errorf("%w: invalid JSON", ErrMalformedCursor)
	}

	line, err := cursorField(data, "line")
	if err != nil {
		return buffer.Position{}, err
	}
	ch, err := cursorField(data, "ch")
	if err != nil {
		return buffer.Position{}, err
	}
	return buffer.Pos(line, ch), nil
}

func cursorField(data []byte, name string) (int, error) {
	v := gjson.GetBytes(data, name)
	if !v.Exists() {
		return 0, fmt.Errorf("%w: missing %q", ErrMalformedCursor, name)
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedCursor, name)
	}
	n := v.Int()
	if float64(n) != v.Num || n < 0 {
		return 0, fmt.Errorf("%w: %q = %s", ErrMalformedCursor, name, v.Raw)
	}
	return int(n), nil
}
