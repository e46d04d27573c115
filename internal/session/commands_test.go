package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/store"
)

func TestCommandsRequireStart(t *testing.T) {
	f := newFixture(t, store.NewMemory())

	commands := map[string]func() error{
		"Backspace":  f.session.Backspace,
		"Delete":     f.session.Delete,
		"Cut":        f.session.Cut,
		"Copy":       f.session.Copy,
		"ShiftSpace": f.session.ShiftSpace,
		"Enter":      f.session.Enter,
		"Indent":     f.session.Indent,
		"Outdent":    f.session.Outdent,
	}
	for name, cmd := range commands {
		if err := cmd(); !errors.Is(err, ErrNotStarted) {
			t.Errorf("%s before Start = %v, want ErrNotStarted", name, err)
		}
	}
}

func TestErase(t *testing.T) {
	tests := []struct {
		name       string
		caret      buffer.Position
		cmd        func(*Session) error
		wantLine   string
		wantCursor buffer.Position
	}{
		{"backspace", buffer.Pos(1, 4), (*Session).Backspace, "    lank.", buffer.Pos(1, 3)},
		{"backspace at line start", buffer.Pos(1, 0), (*Session).Backspace, "   blank.", buffer.Pos(1, 0)},
		{"delete", buffer.Pos(1, 3), (*Session).Delete, "    lank.", buffer.Pos(1, 3)},
		{"delete past text", buffer.Pos(1, 12), (*Session).Delete, "   blank.", buffer.Pos(1, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := startFixture(t)
			f.host.SetCursor(tt.caret)
			passes := f.session.Reflow().Passes()

			if err := tt.cmd(f.session); err != nil {
				t.Fatalf("command: %v", err)
			}

			if got := f.line(1); got != pad(tt.wantLine) {
				t.Errorf("line 1 = %q, want %q", got, pad(tt.wantLine))
			}
			if got := f.host.Cursor(); got != tt.wantCursor {
				t.Errorf("Cursor = %v, want %v", got, tt.wantCursor)
			}
			if f.session.Reflow().Passes() != passes+1 || f.session.Reflow().Pending() {
				t.Error("erase should reflow immediately")
			}
		})
	}
}

func TestEraseBlock(t *testing.T) {
	f := startFixture(t)
	f.session.SelectBlock(buffer.Pos(1, 3), buffer.Pos(2, 6))

	if err := f.session.Backspace(); err != nil {
		t.Fatalf("Backspace: %v", err)
	}

	if got := f.line(1); got != pad("      nk.") {
		t.Errorf("line 1 = %q", got)
	}
	if f.host.LineCount() != 5 {
		t.Errorf("LineCount = %d, want 5", f.host.LineCount())
	}
	if got := f.host.Cursor(); got != buffer.Pos(1, 3) {
		t.Errorf("Cursor = %v, want the block's top-left 1:3", got)
	}
}

func TestCut(t *testing.T) {
	f := startFixture(t)
	f.session.SelectBlock(buffer.Pos(1, 3), buffer.Pos(1, 8))

	if err := f.session.Cut(); err != nil {
		t.Fatalf("Cut: %v", err)
	}

	if got := f.clip.Text(); got != "blank" {
		t.Errorf("clipboard = %q, want %q", got, "blank")
	}
	if got := f.line(1); got != pad("        .") {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.host.Cursor(); got != buffer.Pos(1, 3) {
		t.Errorf("Cursor = %v, want 1:3", got)
	}
}

func TestCopyKeepsText(t *testing.T) {
	f := startFixture(t)

	if err := f.session.Copy(); err != nil || f.clip.Writes() != 0 {
		t.Fatalf("Copy with a caret = %v, writes = %d", err, f.clip.Writes())
	}

	f.session.SelectBlock(buffer.Pos(1, 3), buffer.Pos(2, 8))
	if err := f.session.Copy(); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	if got := f.clip.Text(); got != "blank\n     " {
		t.Errorf("clipboard = %q", got)
	}
	if got := f.line(1); got != pad("   blank.") {
		t.Errorf("Copy must not change the text, line 1 = %q", got)
	}
}

func TestCutBlockJoinsRows(t *testing.T) {
	f := startFixture(t)
	f.host.SetCursor(buffer.Pos(0, 0))
	f.host.Paste("abc\ndef")
	f.session.SelectBlock(buffer.Pos(0, 1), buffer.Pos(1, 3))

	if err := f.session.Cut(); err != nil {
		t.Fatalf("Cut: %v", err)
	}

	if got := f.clip.Text(); got != "bc\nef" {
		t.Errorf("clipboard = %q, want %q", got, "bc\nef")
	}
	if f.line(0) != pad("a") || f.line(1) != pad("d  blank.") {
		t.Errorf("lines = %q, %q", f.line(0), f.line(1))
	}
}

func TestShiftSpace(t *testing.T) {
	f := startFixture(t)
	f.host.SetCursor(buffer.Pos(1, 0))

	if err := f.session.ShiftSpace(); err != nil {
		t.Fatalf("ShiftSpace: %v", err)
	}

	if got := f.line(1); got != " "+pad("   blank.") {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.host.Cursor(); got != buffer.Pos(1, 0) {
		t.Errorf("Cursor = %v, want 1:0", got)
	}

	// The reflow trims the shifted padding back to the baseline width.
	f.session.Reflow().Flush()
	for i := 0; i < f.host.LineCount(); i++ {
		if n := len([]rune(f.line(i))); n != testColumns {
			t.Errorf("line %d width = %d after reflow, want %d", i, n, testColumns)
		}
	}
}

func TestEnter(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		caret buffer.Position
		want  buffer.Position
	}{
		{"after double space", "ab  cd\n", buffer.Pos(0, 6), buffer.Pos(1, 4)},
		{"no double space", "abcdef\n", buffer.Pos(0, 5), buffer.Pos(1, 5)},
		{"indented", "    x\n", buffer.Pos(0, 5), buffer.Pos(1, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemory()
			st.SetText(tt.text)
			f := newFixture(t, st)
			if err := f.session.Start(); err != nil {
				t.Fatalf("Start: %v", err)
			}
			f.host.SetCursor(tt.caret)
			before := f.host.Text()

			if err := f.session.Enter(); err != nil {
				t.Fatalf("Enter: %v", err)
			}

			if got := f.host.Cursor(); got != tt.want {
				t.Errorf("Cursor = %v, want %v", got, tt.want)
			}
			if f.host.Text() != before {
				t.Error("Enter must not change the text")
			}
		})
	}
}

func TestIndentOutdent(t *testing.T) {
	f := startFixture(t)
	f.host.SetCursor(buffer.Pos(1, 3))

	if err := f.session.Indent(); err != nil {
		t.Fatalf("Indent: %v", err)
	}
	if got := f.line(1); got != "  "+pad("   blank.") {
		t.Errorf("after Indent line 1 = %q", got)
	}

	_ = f.session.Outdent()
	if got := f.line(1); got != pad("   blank.") {
		t.Errorf("after Outdent line 1 = %q", got)
	}

	_ = f.session.Outdent()
	if got := strings.TrimRight(f.line(1), " "); got != " blank." {
		t.Errorf("after second Outdent line 1 = %q", got)
	}

	_ = f.session.Outdent()
	_ = f.session.Outdent()
	if got := strings.TrimRight(f.line(1), " "); got != "blank." {
		t.Errorf("Outdent should stop at the first non-space, got %q", got)
	}
}

func TestExtendBlock(t *testing.T) {
	f := startFixture(t)
	f.host.SetCursor(buffer.Pos(1, 3))

	f.session.ExtendBlock(1, 2)

	block, ok := f.session.Block()
	if !ok || block.Anchor != buffer.Pos(1, 3) || block.Head != buffer.Pos(2, 5) {
		t.Fatalf("Block = %v, %v", block, ok)
	}
	if sel := f.host.Selections(); len(sel) != 2 {
		t.Errorf("Selections = %v, want 2 rows", sel)
	}

	f.session.ExtendBlock(-2, 1)
	block, _ = f.session.Block()
	if block.Anchor != buffer.Pos(1, 3) || block.Head != buffer.Pos(0, 6) {
		t.Errorf("Block = %v, the anchor must stay fixed", block)
	}

	f.session.MoveCaret(0, 1)
	if _, ok := f.session.Block(); ok {
		t.Error("moving the caret should end the block")
	}
}

func TestMoveCaretPersists(t *testing.T) {
	f := startFixture(t)

	f.session.MoveCaret(-1, 2)

	if got := f.host.Cursor(); got != buffer.Pos(2, 10) {
		t.Errorf("Cursor = %v, want 2:10", got)
	}
	if stored, _ := f.store.LoadCursor(); stored != buffer.Pos(2, 10) {
		t.Errorf("stored cursor = %v", stored)
	}

	f.session.MoveCaret(-10, -20)
	if got := f.host.Cursor(); got != buffer.Pos(0, 0) {
		t.Errorf("Cursor = %v, want 0:0", got)
	}
}
