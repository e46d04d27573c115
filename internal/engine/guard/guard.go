// Package guard rewrites proposed edits so the grid keeps its shape.
//
// Every content change the host proposes is turned into an Edit and run
// through Decide. The resulting Decision either lets the host apply the
// change as proposed, or rejects it and lists the overwrites to perform
// instead. Key commands (Erase, Cut, ShiftSpace, Indent, Outdent) build
// Decisions directly.
//
// Nothing here touches a host or keeps state between calls; the caller
// applies Ops in order and then moves the caret to Decision.Cursor.
package guard

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/host"
)

// State labels which rule produced a Decision.
type State int

const (
	// Passthrough lets the host apply the change unmodified.
	Passthrough State = iota
	// CollapsedInput is typing on a single caret; overwrite mode replaces
	// the cell under it.
	CollapsedInput
	// BlockInput is typing over a selection.
	BlockInput
	// Paste is clipboard paste rewritten into row overwrites.
	Paste
	// Delete is backspace or delete.
	Delete
	// CutDelete is the erase half of a cut.
	CutDelete
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case Passthrough:
		return "Passthrough"
	case CollapsedInput:
		return "CollapsedInput"
	case BlockInput:
		return "BlockInput"
	case Paste:
		return "Paste"
	case Delete:
		return "Delete"
	case CutDelete:
		return "CutDelete"
	default:
		return "Unknown"
	}
}

// Edit is a proposed content change.
type Edit struct {
	Origin host.Origin

	// Text is the proposed replacement split into lines.
	Text []string

	// Selections is the selection at the time of the proposal.
	Selections []buffer.Range

	// Cursor is the caret at the time of the proposal.
	Cursor buffer.Position
}

// Op overwrites the text between From and To with Text.
type Op struct {
	Text string
	From buffer.Position
	To   buffer.Position
}

// Decision is the guard's verdict on an Edit.
type Decision struct {
	State State

	// Accept lets the proposed change through. When false the change must
	// be canceled and Ops applied in its place.
	Accept bool

	Ops []Op

	// Cursor, when set, is where the caret goes after Ops are applied.
	Cursor *buffer.Position

	// FillNow asks for an immediate reflow instead of a debounced one.
	FillNow bool
}

// rule returns a Decision and true when it handles the edit.
type rule func(e Edit) (Decision, bool)

// rules run in order; the first one that handles an edit wins.
var rules = []rule{
	setValueRule,
	pasteRule,
	inputRule,
}

// Decide runs an edit through the rule pipeline. Edits no rule handles
// are accepted unchanged.
func Decide(e Edit) Decision {
	for _, r := range rules {
		if d, ok := r(e); ok {
			return d
		}
	}
	return accept(Passthrough)
}

func setValueRule(e Edit) (Decision, bool) {
	if e.Origin != host.OriginSetValue {
		return Decision{}, false
	}
	return accept(Passthrough), true
}

// pasteRule writes pasted line i over row cursor.Line+i starting at the
// caret column, covering exactly as many cells as the line is long.
func pasteRule(e Edit) (Decision, bool) {
	if e.Origin != host.OriginPaste {
		return Decision{}, false
	}

	ops := make([]Op, 0, len(e.Text))
	for i, line := range e.Text {
		from := e.Cursor.Offset(i, 0)
		ops = append(ops, Op{
			Text: line,
			From: from,
			To:   from.Offset(0, utf8.RuneCountInString(line)),
		})
	}

	caret := e.Cursor
	return Decision{State: Paste, Ops: ops, Cursor: &caret}, true
}

// inputRule lets typing on a lone caret through and turns typing over a
// selection into a fill of every range with the first typed rune.
func inputRule(e Edit) (Decision, bool) {
	if e.Origin != host.OriginInput {
		return Decision{}, false
	}
	if buffer.IsCaret(e.Selections) {
		return accept(CollapsedInput), true
	}

	d := Decision{State: BlockInput}
	if len(e.Text) == 0 {
		return d, true
	}
	ch, size := utf8.DecodeRuneInString(e.Text[0])
	if size == 0 {
		return d, true
	}

	for _, r := range e.Selections {
		d.Ops = append(d.Ops, Op{
			Text: strings.Repeat(string(ch), r.Width()),
			From: r.Head,
			To:   r.Anchor,
		})
	}
	return d, true
}

func accept(s State) Decision {
	return Decision{State: s, Accept: true}
}
