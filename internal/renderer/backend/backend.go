// Package backend connects the renderer to a screen.
//
// Terminal draws through tcell and turns its events into Event values.
// NullBackend keeps the screen in memory so renderer and application
// tests can inspect what was drawn.
package backend

import "github.com/dshills/blankgrid/internal/renderer/core"

// Backend is a grid of character cells plus an input event source.
type Backend interface {
	// Init prepares the screen. It must be called before any other method.
	Init() error

	// Shutdown restores the terminal. A blocked PollEvent returns
	// EventClosed.
	Shutdown()

	// Size returns the screen size in cells.
	Size() (width, height int)

	// SetCell draws one cell. Positions off screen are ignored.
	SetCell(x, y int, cell core.Cell)

	// GetCell returns the cell at x, y, or an empty cell off screen.
	GetCell(x, y int) core.Cell

	// Clear blanks the whole screen.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// ShowCursor places the terminal cursor.
	ShowCursor(x, y int)

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent waits for the next input event.
	PollEvent() Event

	// PostEvent queues a synthetic event.
	PostEvent(event Event)

	// Beep rings the bell.
	Beep()
}
