// Package host defines the text widget the editing session drives and
// provides an in-memory implementation of it.
//
// The session never reaches into a widget directly. It reads and writes
// text, selections and the caret through Host, and it intercepts user
// edits through the Listener hooks the host raises:
//
//   - BeforeChange is raised for every proposed content change and may
//     cancel it.
//   - AfterChange is raised once a change has been applied.
//   - BeforeSelectionChange is raised for every proposed selection and may
//     replace it.
//   - CursorActivity is raised whenever the selection or caret moved.
package host

import "github.com/dshills/blankgrid/internal/engine/buffer"

// Origin tags where a content change came from.
type Origin string

const (
	// OriginSetValue marks a wholesale replacement of the text.
	OriginSetValue Origin = "setValue"
	// OriginPaste marks clipboard paste.
	OriginPaste Origin = "paste"
	// OriginInput marks typed input.
	OriginInput Origin = "+input"
	// OriginOverwrite marks cell writes issued by the edit guard.
	OriginOverwrite Origin = "+overwrite"
	// OriginDelete marks backspace/delete/cut writes.
	OriginDelete Origin = "+delete"
	// OriginIndent marks indent and outdent.
	OriginIndent Origin = "+indent"
)

// ChangeEvent describes a proposed or applied content change.
type ChangeEvent struct {
	Origin Origin

	// From and To bound the replaced span of the primary range.
	From buffer.Position
	To   buffer.Position

	// Text is the replacement split into lines.
	Text []string

	// Ranges is the selection the change was proposed against.
	Ranges []buffer.Range

	canceled bool
}

// Cancel prevents a proposed change from being applied.
func (e *ChangeEvent) Cancel() {
	e.canceled = true
}

// Canceled reports whether Cancel was called.
func (e *ChangeEvent) Canceled() bool {
	return e.canceled
}

// SelectionEvent carries a proposed selection.
type SelectionEvent struct {
	Ranges []buffer.Range
}

// Update replaces the proposed selection.
func (e *SelectionEvent) Update(ranges []buffer.Range) {
	e.Ranges = ranges
}

// Listener receives the host's hooks.
type Listener interface {
	BeforeChange(ev *ChangeEvent)
	AfterChange(ev ChangeEvent)
	BeforeSelectionChange(ev *SelectionEvent)
	CursorActivity(caret buffer.Position)
}

// Host is the text widget primitive set the editing session depends on.
type Host interface {
	// Text returns the full document.
	Text() string
	// SetText replaces the full document with origin OriginSetValue.
	SetText(text string)

	// Selections returns the current ranges in caret-creation order.
	Selections() []buffer.Range
	// SetSelections proposes a new selection.
	SetSelections(ranges []buffer.Range)

	// Cursor returns the head of the primary range.
	Cursor() buffer.Position
	// SetCursor proposes a collapsed selection at p.
	SetCursor(p buffer.Position)

	// Range returns the text between two positions.
	Range(from, to buffer.Position) string
	// ReplaceRange proposes replacing the text between from and to.
	ReplaceRange(text string, from, to buffer.Position, origin Origin)

	// SetOverwrite toggles overwrite editing.
	SetOverwrite(on bool)
	// Refresh asks the widget to re-lay out and redraw.
	Refresh()

	// Listen registers the hook receiver. A nil listener disables hooks.
	Listen(l Listener)
}
