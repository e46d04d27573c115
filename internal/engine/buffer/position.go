package buffer

import "fmt"

// Position represents a cell in the grid.
// Both Line and Ch are 0-indexed; Ch counts runes from the start of the line.
type Position struct {
	Line int `json:"line"`
	Ch   int `json:"ch"`
}

// Pos is shorthand for Position{Line: line, Ch: ch}.
func Pos(line, ch int) Position {
	return Position{Line: line, Ch: ch}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Ch)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
// Ordering is line-major, then column-major.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Ch < other.Ch {
		return -1
	}
	if p.Ch > other.Ch {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Offset returns the position shifted by the given line and column deltas.
// The result is not clipped.
func (p Position) Offset(lines, chs int) Position {
	return Position{Line: p.Line + lines, Ch: p.Ch + chs}
}

// IsZero returns true if this is the zero position (0:0).
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Ch == 0
}
