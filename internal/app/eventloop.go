package app

import (
	"errors"
	"strings"

	"github.com/dshills/blankgrid/internal/clipboard"
	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/renderer/backend"
	"github.com/dshills/blankgrid/internal/renderer/statusline"
)

// wheelLines is how far one wheel notch scrolls.
const wheelLines = 3

// eventLoop is the main application loop. It draws a frame whenever
// something changed, then waits for the next input event or queued task.
func (app *Application) eventLoop() error {
	events := app.startInputPolling()

	for {
		app.renderer.Render()

		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok || ev.Type == backend.EventClosed {
				return nil
			}
			if err := app.handleBackendEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return ErrQuit
				}
				app.report(err)
			}

		case task := <-app.tasks:
			task()
		}

		app.renderer.MarkDirty()
	}
}

// report logs a failed command and shows it on the status line with a
// beep.
func (app *Application) report(err error) {
	app.logger.Error("%v", err)
	app.backend.Beep()
	app.renderer.StatusLine().SetMessage(err.Error(), statusline.MessageError)
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize(ev)
	case backend.EventKey:
		app.renderer.StatusLine().ClearMessage()
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	case backend.EventPaste:
		return app.handlePasteEvent(ev)
	default:
		return nil
	}
}

// handleResize processes terminal resize events.
func (app *Application) handleResize(ev backend.Event) error {
	app.renderer.Resize(ev.Width, ev.Height)
	return nil
}

// handleKeyEvent maps a key to an editing command.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	s := app.session
	shift := ev.Mod.Has(backend.ModShift)

	switch ev.Key {
	case backend.KeyCtrlQ:
		return ErrQuit

	case backend.KeyRune:
		if ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) {
			return nil
		}
		app.host.Input(string(ev.Rune))

	// Terminals report Shift-Space as a plain space, so the insert
	// is bound to Ctrl-Space.
	case backend.KeyCtrlSpace:
		return wrap("shift-space", s.ShiftSpace())
	case backend.KeyBackspace, backend.KeyCtrlD:
		return wrap("backspace", s.Backspace())
	case backend.KeyDelete:
		return wrap("delete", s.Delete())
	case backend.KeyCtrlX:
		return wrap("cut", s.Cut())
	case backend.KeyCtrlC:
		return wrap("copy", s.Copy())
	case backend.KeyCtrlV:
		return app.pasteClipboard()
	case backend.KeyEnter:
		return wrap("enter", s.Enter())
	case backend.KeyTab:
		return wrap("indent", s.Indent())
	case backend.KeyBacktab:
		return wrap("outdent", s.Outdent())

	case backend.KeyUp:
		app.move(-1, 0, shift)
	case backend.KeyDown:
		app.move(1, 0, shift)
	case backend.KeyLeft:
		app.move(0, -1, shift)
	case backend.KeyRight:
		app.move(0, 1, shift)

	case backend.KeyHome:
		app.host.SetCursor(buffer.Pos(app.host.Cursor().Line, 0))
	case backend.KeyEnd:
		line := app.host.Cursor().Line
		end := len([]rune(strings.TrimRight(app.host.LineText(line), " ")))
		app.host.SetCursor(buffer.Pos(line, end))
	case backend.KeyPageUp:
		app.move(-app.renderer.Viewport().Height(), 0, shift)
	case backend.KeyPageDown:
		app.move(app.renderer.Viewport().Height(), 0, shift)
	case backend.KeyEscape:
		s.MoveCaret(0, 0)
	}
	return nil
}

// move steps the caret, or the free corner of the block when shift is
// held.
func (app *Application) move(lines, chs int, shift bool) {
	if shift {
		app.session.ExtendBlock(lines, chs)
		return
	}
	app.session.MoveCaret(lines, chs)
}

// pasteClipboard overwrites the grid at the caret with the clipboard text.
func (app *Application) pasteClipboard() error {
	text, err := app.clip.ReadText()
	if errors.Is(err, clipboard.ErrEmpty) {
		return nil
	}
	if err != nil {
		return &CommandError{Command: "paste", Source: "clipboard", Err: err}
	}
	app.host.Paste(text)
	return nil
}

// handleMouseEvent moves the caret on click, selects a block on drag and
// scrolls on wheel.
func (app *Application) handleMouseEvent(ev backend.Event) error {
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		app.renderer.Viewport().ScrollBy(-wheelLines, 0)
	case backend.MouseWheelDown:
		app.renderer.Viewport().ScrollBy(wheelLines, 0)

	case backend.MouseLeft:
		pos, ok := app.renderer.ScreenToGrid(ev.MouseX, ev.MouseY)
		if !ok {
			return nil
		}
		if !app.dragging {
			app.dragging = true
			app.dragAnchor = pos
			app.host.SetCursor(pos)
			return nil
		}
		if pos != app.dragAnchor {
			app.session.SelectBlock(app.dragAnchor, pos)
		}

	case backend.MouseNone:
		app.dragging = false
	}
	return nil
}

// handlePasteEvent overwrites the grid with a bracketed paste.
func (app *Application) handlePasteEvent(ev backend.Event) error {
	if ev.PasteText == "" {
		return nil
	}
	app.host.Paste(ev.PasteText)
	return nil
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel.
//
// PollEvent is blocking, so this goroutine may not exit immediately
// on shutdown. The backend should be shutdown to unblock PollEvent.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)
	b := app.backend

	go func() {
		defer close(events)

		for app.running.Load() {
			ev := b.PollEvent()
			if ev.Type == backend.EventClosed || !app.running.Load() {
				return
			}

			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()

	return events
}
