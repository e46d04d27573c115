package buffer

import "fmt"

// Range is an unordered pair of positions describing one selection segment.
// Either endpoint may be where the drag started. When Anchor == Head the
// range is a bare caret.
type Range struct {
	Anchor Position
	Head   Position
}

// NewRange creates a range from anchor to head.
func NewRange(anchor, head Position) Range {
	return Range{Anchor: anchor, Head: head}
}

// CaretRange creates a collapsed range at p.
func CaretRange(p Position) Range {
	return Range{Anchor: p, Head: p}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	if r.IsCollapsed() {
		return fmt.Sprintf("Caret%s", r.Head)
	}
	return fmt.Sprintf("[%s→%s]", r.Anchor, r.Head)
}

// IsCollapsed returns true if both endpoints are the same cell.
func (r Range) IsCollapsed() bool {
	return r.Anchor == r.Head
}

// Start returns the earlier endpoint in line-major order.
func (r Range) Start() Position {
	if r.Anchor.Before(r.Head) {
		return r.Anchor
	}
	return r.Head
}

// End returns the later endpoint in line-major order.
func (r Range) End() Position {
	if r.Anchor.After(r.Head) {
		return r.Anchor
	}
	return r.Head
}

// Width returns the column distance between the endpoints.
func (r Range) Width() int {
	return abs(r.Head.Ch - r.Anchor.Ch)
}

// LineSpan returns the number of lines the range touches.
func (r Range) LineSpan() int {
	return abs(r.Head.Line-r.Anchor.Line) + 1
}

// Contains returns true if p lies inside the rectangle spanned by the
// endpoints. The column bound is half-open: [minCh, maxCh).
func (r Range) Contains(p Position) bool {
	minLine, maxLine := minMax(r.Anchor.Line, r.Head.Line)
	minCh, maxCh := minMax(r.Anchor.Ch, r.Head.Ch)
	return p.Line >= minLine && p.Line <= maxLine && p.Ch >= minCh && p.Ch < maxCh
}

// IsCaret reports whether a selection is exactly one collapsed range.
func IsCaret(ranges []Range) bool {
	return len(ranges) == 1 && ranges[0].IsCollapsed()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
