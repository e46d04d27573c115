package session

import (
	"strings"

	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/engine/guard"
	"github.com/dshills/blankgrid/internal/host"
)

// Backspace clears the cell before every caret, or every selected block,
// and reflows at once.
func (s *Session) Backspace() error {
	if !s.started {
		return ErrNotStarted
	}
	s.apply(guard.Erase(guard.Backward, s.host.Selections()), host.OriginDelete)
	return nil
}

// Delete clears the cell under every caret, or every selected block, and
// reflows at once.
func (s *Session) Delete() error {
	if !s.started {
		return ErrNotStarted
	}
	s.apply(guard.Erase(guard.Forward, s.host.Selections()), host.OriginDelete)
	return nil
}

// Cut copies the selected text to the clipboard and clears it. A
// clipboard failure is logged and the clear still happens.
func (s *Session) Cut() error {
	if !s.started {
		return ErrNotStarted
	}
	sel := s.host.Selections()
	texts := make([]string, len(sel))
	for i, r := range sel {
		texts[i] = s.host.Range(r.Anchor, r.Head)
	}

	text, d := guard.Cut(sel, texts)
	if err := s.clip.WriteText(text); err != nil {
		s.logger.Error("cut: %v", err)
	}
	s.apply(d, host.OriginDelete)
	return nil
}

// Copy writes the selected text to the clipboard. Rows of a block are
// joined with newlines.
func (s *Session) Copy() error {
	if !s.started {
		return ErrNotStarted
	}
	sel := s.host.Selections()
	if buffer.IsCaret(sel) {
		return nil
	}
	texts := make([]string, len(sel))
	for i, r := range sel {
		texts[i] = s.host.Range(r.Anchor, r.Head)
	}
	return s.clip.WriteText(strings.Join(texts, "\n"))
}

// ShiftSpace inserts one space at the caret, shifting the rest of the
// line right.
func (s *Session) ShiftSpace() error {
	if !s.started {
		return ErrNotStarted
	}
	s.apply(guard.ShiftSpace(s.host.Cursor()), host.OriginOverwrite)
	return nil
}

// Enter moves the caret to the next line, aligned after the nearest
// double space to its left.
func (s *Session) Enter() error {
	if !s.started {
		return ErrNotStarted
	}
	caret := s.host.Cursor()
	prefix := s.host.Range(buffer.Pos(caret.Line, 0), caret)
	s.host.SetCursor(guard.Enter(prefix, caret))
	return nil
}

// Indent adds TabSize spaces to the start of every selected line.
func (s *Session) Indent() error {
	if !s.started {
		return ErrNotStarted
	}
	s.apply(guard.Indent(s.host.Selections(), s.tabSize), host.OriginIndent)
	return nil
}

// Outdent removes up to TabSize leading spaces from every selected line.
func (s *Session) Outdent() error {
	if !s.started {
		return ErrNotStarted
	}
	s.apply(guard.Outdent(s.host.Selections(), s.lineText, s.tabSize), host.OriginIndent)
	return nil
}

// MoveCaret moves the caret by the given deltas and drops any selection.
func (s *Session) MoveCaret(lines, chs int) {
	s.host.SetCursor(clampPos(s.host.Cursor().Offset(lines, chs)))
}

// SelectBlock selects the rectangle spanned by anchor and head.
func (s *Session) SelectBlock(anchor, head buffer.Position) {
	r := buffer.NewRange(clampPos(anchor), clampPos(head))
	s.block = &r

	s.selecting = true
	s.host.SetSelections([]buffer.Range{r})
	s.selecting = false
}

// ExtendBlock moves the free corner of the block selection by the given
// deltas. Without a block it starts one at the caret.
func (s *Session) ExtendBlock(lines, chs int) {
	r := buffer.CaretRange(s.host.Cursor())
	if s.block != nil {
		r = *s.block
	}
	s.SelectBlock(r.Anchor, r.Head.Offset(lines, chs))
}

// Block returns the anchor and head of the current block selection as
// they were dragged, before normalization.
func (s *Session) Block() (buffer.Range, bool) {
	if s.block == nil {
		return buffer.Range{}, false
	}
	return *s.block, true
}

func clampPos(p buffer.Position) buffer.Position {
	return buffer.Pos(max(p.Line, 0), max(p.Ch, 0))
}
