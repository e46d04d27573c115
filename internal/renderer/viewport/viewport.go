// Package viewport tracks which part of the grid is on screen.
package viewport

import "sync"

// Margins keep the caret this many cells away from the viewport edges.
type Margins struct {
	Top, Bottom, Left, Right int
}

// DefaultMargins returns the scroll margins used by the editor.
func DefaultMargins() Margins {
	return Margins{Top: 3, Bottom: 3, Left: 8, Right: 8}
}

// Viewport represents the visible portion of the grid.
type Viewport struct {
	mu sync.RWMutex

	// Position in the grid (first visible line and column)
	topLine    int
	leftColumn int

	// Size in screen cells
	width  int
	height int

	margins Margins

	// Grid extent; zero means unbounded
	lines   int
	columns int
}

// NewViewport creates a viewport with the given size.
// Width and height are clamped to a minimum of 1.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:   max(width, 1),
		height:  max(height, 1),
		margins: DefaultMargins(),
	}
}

// Width returns the viewport width.
func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

// Height returns the viewport height.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// LeftColumn returns the first visible column.
func (v *Viewport) LeftColumn() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn
}

// Resize updates the viewport size and keeps the origin in bounds.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width = max(width, 1)
	v.height = max(height, 1)
	v.clamp()
}

// SetExtent sets the size of the grid being viewed.
func (v *Viewport) SetExtent(lines, columns int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lines = max(lines, 0)
	v.columns = max(columns, 0)
	v.clamp()
}

// SetMargins replaces the scroll margins.
func (v *Viewport) SetMargins(m Margins) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.margins = m
}

// effectiveMargins shrinks the margins so they never cover more than half
// the viewport.
func (v *Viewport) effectiveMargins() Margins {
	m := v.margins
	m.Top = min(m.Top, (v.height-1)/2)
	m.Bottom = min(m.Bottom, (v.height-1)/2)
	m.Left = min(m.Left, (v.width-1)/2)
	m.Right = min(m.Right, (v.width-1)/2)
	return m
}

// IsVisible reports whether a grid cell is on screen.
func (v *Viewport) IsVisible(line, col int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line < v.topLine+v.height &&
		col >= v.leftColumn && col < v.leftColumn+v.width
}

// BufferToScreen converts grid coordinates to screen coordinates.
// Returns (-1, -1) if the position is not visible.
func (v *Viewport) BufferToScreen(line, col int) (screenRow, screenCol int) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if line < v.topLine || line >= v.topLine+v.height ||
		col < v.leftColumn || col >= v.leftColumn+v.width {
		return -1, -1
	}
	return line - v.topLine, col - v.leftColumn
}

// ScreenToBuffer converts screen coordinates to grid coordinates.
func (v *Viewport) ScreenToBuffer(screenRow, screenCol int) (line, col int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine + max(screenRow, 0), v.leftColumn + max(screenCol, 0)
}

// ScrollToReveal scrolls minimally to reveal a position, keeping the
// margins around it. Returns true if scrolling occurred.
func (v *Viewport) ScrollToReveal(line, col int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := v.effectiveMargins()
	top, left := v.topLine, v.leftColumn

	if line < top+m.Top {
		top = line - m.Top
	} else if line > top+v.height-1-m.Bottom {
		top = line - v.height + 1 + m.Bottom
	}

	if col < left+m.Left {
		left = col - m.Left
	} else if col > left+v.width-1-m.Right {
		left = col - v.width + 1 + m.Right
	}

	return v.moveTo(top, left)
}

// ScrollBy moves the viewport by whole lines and columns.
func (v *Viewport) ScrollBy(lines, cols int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.moveTo(v.topLine+lines, v.leftColumn+cols)
}

// PageDown scrolls one screen down.
func (v *Viewport) PageDown() bool {
	return v.ScrollBy(v.Height(), 0)
}

// PageUp scrolls one screen up.
func (v *Viewport) PageUp() bool {
	return v.ScrollBy(-v.Height(), 0)
}

func (v *Viewport) moveTo(top, left int) bool {
	oldTop, oldLeft := v.topLine, v.leftColumn
	v.topLine, v.leftColumn = top, left
	v.clamp()
	return v.topLine != oldTop || v.leftColumn != oldLeft
}

// clamp keeps the origin inside the grid extent.
func (v *Viewport) clamp() {
	if v.lines > 0 {
		v.topLine = min(v.topLine, max(v.lines-v.height, 0))
	}
	if v.columns > 0 {
		v.leftColumn = min(v.leftColumn, max(v.columns-v.width, 0))
	}
	v.topLine = max(v.topLine, 0)
	v.leftColumn = max(v.leftColumn, 0)
}
