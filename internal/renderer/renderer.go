package renderer

import (
	"sync"
	"unicode/utf8"

	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/engine/cursor"
	"github.com/dshills/blankgrid/internal/engine/directive"
	"github.com/dshills/blankgrid/internal/renderer/backend"
	"github.com/dshills/blankgrid/internal/renderer/core"
	"github.com/dshills/blankgrid/internal/renderer/statusline"
	"github.com/dshills/blankgrid/internal/renderer/viewport"
)

// Placeholder is drawn for runes that do not occupy exactly one terminal
// column, so every grid cell stays one screen cell wide.
const Placeholder = '?'

// GridReader provides read access to the grid being displayed.
type GridReader interface {
	// LineCount returns the number of lines.
	LineCount() int

	// LineText returns one line without its newline.
	LineText(line int) string

	// Selections returns the ranges in caret-creation order.
	Selections() []buffer.Range

	// Cursor returns the primary caret.
	Cursor() buffer.Position
}

// Renderer draws the grid, its selection and the status line.
type Renderer struct {
	mu sync.Mutex

	backend backend.Backend
	display *Display
	grid    GridReader

	viewport *viewport.Viewport
	status   *statusline.StatusLine

	width  int
	height int

	lastCaret   buffer.Position
	haveCaret   bool
	frameCount  uint64
	needsRedraw bool
}

// New creates a renderer drawing to b with the theme of d.
func New(b backend.Backend, d *Display) *Renderer {
	width, height := b.Size()

	r := &Renderer{
		backend:     b,
		display:     d,
		viewport:    viewport.NewViewport(width, max(height-1, 1)),
		status:      statusline.New(),
		width:       width,
		height:      height,
		needsRedraw: true,
	}
	r.status.Resize(width)
	return r
}

// SetGrid sets the content to draw.
func (r *Renderer) SetGrid(g GridReader) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.grid = g
	r.haveCaret = false
	r.needsRedraw = true
}

// Resize updates the screen size. The last row is kept for the status line.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width = width
	r.height = height
	r.viewport.Resize(width, max(height-1, 1))
	r.status.Resize(width)
	r.haveCaret = false
	r.needsRedraw = true
}

// Viewport returns the grid viewport.
func (r *Renderer) Viewport() *viewport.Viewport {
	return r.viewport
}

// StatusLine returns the status line.
func (r *Renderer) StatusLine() *statusline.StatusLine {
	return r.status
}

// MarkDirty schedules a redraw.
func (r *Renderer) MarkDirty() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.needsRedraw = true
}

// NeedsRedraw reports whether Render would draw.
func (r *Renderer) NeedsRedraw() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.needsRedraw
}

// FrameCount returns the number of frames drawn.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// Render draws a frame if anything changed since the last one.
func (r *Renderer) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.needsRedraw {
		return
	}
	r.render()
}

// RenderNow draws a frame unconditionally.
func (r *Renderer) RenderNow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.render()
}

// ScreenToGrid maps a screen cell to a grid position. It returns false for
// the status line.
func (r *Renderer) ScreenToGrid(x, y int) (buffer.Position, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if y < 0 || y >= r.textRows() {
		return buffer.Position{}, false
	}
	line, col := r.viewport.ScreenToBuffer(y, x)
	return buffer.Pos(line, col), true
}

func (r *Renderer) textRows() int {
	return max(r.height-1, 1)
}

// render performs the actual rendering (must hold lock).
func (r *Renderer) render() {
	theme := r.display.Theme()

	if r.grid == nil {
		r.backend.Clear()
		r.backend.HideCursor()
		r.backend.Show()
		return
	}

	lineCount := r.grid.LineCount()
	widest := 0
	for line := 0; line < lineCount; line++ {
		widest = max(widest, utf8.RuneCountInString(r.grid.LineText(line)))
	}
	r.viewport.SetExtent(lineCount, widest)

	caret := r.grid.Cursor()
	if !r.haveCaret || caret != r.lastCaret {
		r.viewport.ScrollToReveal(caret.Line, caret.Ch)
		r.lastCaret = caret
		r.haveCaret = true
	}

	selections := r.grid.Selections()
	top := r.viewport.TopLine()

	for row := 0; row < r.textRows(); row++ {
		line := top + row
		var text string
		if line < lineCount {
			text = r.grid.LineText(line)
		}
		r.renderLine(row, line, text, selections, theme)
	}

	r.renderCarets(selections, theme)
	r.renderStatus(selections, caret, lineCount, theme)

	if y, x := r.viewport.BufferToScreen(caret.Line, caret.Ch); y >= 0 && y < r.textRows() {
		r.backend.ShowCursor(x, y)
	} else {
		r.backend.HideCursor()
	}

	r.backend.Show()
	r.needsRedraw = false
	r.frameCount++
}

// renderLine draws one screen row of the grid.
func (r *Renderer) renderLine(row, line int, text string, selections []buffer.Range, theme Theme) {
	runes := []rune(text)
	dim := directiveColumns(text)
	left := r.viewport.LeftColumn()

	for x := 0; x < r.width; x++ {
		col := left + x

		ch := ' '
		if col < len(runes) {
			ch = glyph(runes[col])
		}

		style := theme.Text
		if dim[col] {
			style = theme.Directive
		}
		if selected(selections, line, col) {
			style = theme.Selection
		}
		r.backend.SetCell(x, row, core.NewStyledCell(ch, style))
	}
}

// renderCarets marks the carets of collapsed secondary ranges. The
// primary caret is the terminal cursor.
func (r *Renderer) renderCarets(selections []buffer.Range, theme Theme) {
	for i, sel := range selections {
		if !sel.IsCollapsed() || i == len(selections)-1 {
			continue
		}
		y, x := r.viewport.BufferToScreen(sel.Head.Line, sel.Head.Ch)
		if y < 0 || y >= r.textRows() {
			continue
		}
		cell := r.backend.GetCell(x, y)
		r.backend.SetCell(x, y, core.NewStyledCell(cell.Rune, theme.Caret))
	}
}

func (r *Renderer) renderStatus(selections []buffer.Range, caret buffer.Position, lineCount int, theme Theme) {
	cfg := r.display.Config()
	r.status.SetDisplay(cfg.Font, r.display.Var(VarSize), string(r.display.Schema()))
	r.status.SetPosition(caret.Line, caret.Ch)
	r.status.SetTotalLines(lineCount)

	rows, cols := 0, 0
	if !buffer.IsCaret(selections) {
		topLeft, bottomRight := cursor.Bounds(selections)
		rows = bottomRight.Line - topLeft.Line + 1
		cols = bottomRight.Ch - topLeft.Ch
	}
	r.status.SetBlock(rows, cols)

	r.status.Render(r.backend, r.height-1, theme.Status)
}

// selected reports whether the cell at line, col lies inside the
// rectangle of any range.
func selected(selections []buffer.Range, line, col int) bool {
	p := buffer.Pos(line, col)
	for _, sel := range selections {
		if sel.Contains(p) {
			return true
		}
	}
	return false
}

// directiveColumns returns the rune columns of a line covered by
// directives, leading space excluded.
func directiveColumns(text string) map[int]bool {
	matches := directive.Find(text)
	if len(matches) == 0 {
		return nil
	}
	cols := make(map[int]bool)
	for _, m := range matches {
		start := utf8.RuneCountInString(text[:m.Offset+1])
		end := utf8.RuneCountInString(text[:m.Offset+m.Len()])
		for c := start; c < end; c++ {
			cols[c] = true
		}
	}
	return cols
}

func glyph(r rune) rune {
	switch {
	case r == '\t':
		return ' '
	case core.RuneWidth(r) != 1:
		return Placeholder
	default:
		return r
	}
}
