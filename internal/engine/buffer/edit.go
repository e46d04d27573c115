package buffer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Edit replaces the text between From and To with Text.
// From must not come after To; Text may contain '\n'.
type Edit struct {
	From Position
	To   Position
	Text string
}

// NewEdit creates an edit, ordering the endpoints so From <= To.
func NewEdit(from, to Position, text string) Edit {
	if to.Before(from) {
		from, to = to, from
	}
	return Edit{From: from, To: to, Text: text}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.From == e.To {
		return fmt.Sprintf("Insert(%s, %q)", e.From, e.Text)
	}
	if e.Text == "" {
		return fmt.Sprintf("Delete[%s:%s)", e.From, e.To)
	}
	return fmt.Sprintf("Replace[%s:%s) with %q", e.From, e.To, e.Text)
}

// Lines returns the replacement text split into lines.
func (e Edit) Lines() []string {
	return strings.Split(e.Text, "\n")
}

// End returns the position just after the inserted text once the edit
// has been applied.
func (e Edit) End() Position {
	lines := e.Lines()
	last := utf8.RuneCountInString(lines[len(lines)-1])
	if len(lines) == 1 {
		return Position{Line: e.From.Line, Ch: e.From.Ch + last}
	}
	return Position{Line: e.From.Line + len(lines) - 1, Ch: last}
}

// MapPosition returns where p ends up after the edit is applied.
// Positions before the edit are unchanged, positions inside the replaced
// span move to the end of the inserted text, and positions after it shift
// with the text that follows.
func (e Edit) MapPosition(p Position) Position {
	if p.Before(e.From) {
		return p
	}
	end := e.End()
	if !p.After(e.To) {
		return end
	}
	line := p.Line + (end.Line - e.To.Line)
	ch := p.Ch
	if p.Line == e.To.Line {
		ch += end.Ch - e.To.Ch
	}
	return Position{Line: line, Ch: ch}
}

// MapRange maps both endpoints of r through the edit.
func (e Edit) MapRange(r Range) Range {
	return Range{Anchor: e.MapPosition(r.Anchor), Head: e.MapPosition(r.Head)}
}
