package backend

import "github.com/dshills/blankgrid/internal/renderer/core"

// NullBackend is an in-memory backend for tests. Call Init before
// drawing; until then it has no cells.
type NullBackend struct {
	width, height int
	cells         [][]core.Cell

	cursorX, cursorY int
	cursorVisible    bool

	shows  int
	beeps  int
	events chan Event
}

var _ Backend = (*NullBackend)(nil)

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.cells = blankCells(b.width, b.height)
	return nil
}

// Shutdown queues EventClosed behind any pending events.
func (b *NullBackend) Shutdown() {
	b.PostEvent(Event{Type: EventClosed})
}

func (b *NullBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *NullBackend) onScreen(x, y int) bool {
	return y >= 0 && y < len(b.cells) && x >= 0 && x < len(b.cells[y])
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	if b.onScreen(x, y) {
		b.cells[y][x] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	if b.onScreen(x, y) {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Clear() {
	b.cells = blankCells(b.width, b.height)
}

func (b *NullBackend) Show() { b.shows++ }

func (b *NullBackend) ShowCursor(x, y int) {
	b.cursorX, b.cursorY = x, y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.cursorVisible = false
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

// PostEvent drops the event when the queue is full.
func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

func (b *NullBackend) Beep() { b.beeps++ }

// CursorPosition returns the terminal cursor.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int { return b.shows }

// Beeps returns how many times Beep was called.
func (b *NullBackend) Beeps() int { return b.beeps }

// Row returns the runes of screen row y as a string.
func (b *NullBackend) Row(y int) string {
	if y < 0 || y >= len(b.cells) {
		return ""
	}
	runes := make([]rune, 0, b.width)
	for _, c := range b.cells[y] {
		if c.Rune != 0 {
			runes = append(runes, c.Rune)
		}
	}
	return string(runes)
}

// Resize changes the screen size, blanks it and queues EventResize.
func (b *NullBackend) Resize(width, height int) {
	b.width, b.height = width, height
	b.cells = blankCells(width, height)
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func blankCells(width, height int) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for y := range cells {
		cells[y] = make([]core.Cell, width)
		for x := range cells[y] {
			cells[y][x] = core.EmptyCell()
		}
	}
	return cells
}
