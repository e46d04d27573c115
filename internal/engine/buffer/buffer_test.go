package buffer

import (
	"sync"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	if b.Text() != "" {
		t.Errorf("expected empty text, got %q", b.Text())
	}
}

func TestNewBufferFromStringMultiline(t *testing.T) {
	b := NewBufferFromString("line1\r\nline2\nline3")

	if b.LineCount() != 3 {
		t.Fatalf("expected 3 lines, got %d", b.LineCount())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(i); got != want {
			t.Errorf("LineText(%d) = %q, want %q", i, got, want)
		}
	}
	if b.LineText(5) != "" {
		t.Error("out of range line should be empty")
	}
}

func TestBufferClip(t *testing.T) {
	b := NewBufferFromString("abc\nde")

	tests := []struct {
		name string
		in   Position
		want Position
	}{
		{"inside", Pos(0, 2), Pos(0, 2)},
		{"negative line", Pos(-1, 4), Pos(0, 0)},
		{"negative ch", Pos(1, -3), Pos(1, 0)},
		{"past line end", Pos(1, 9), Pos(1, 2)},
		{"past last line", Pos(7, 1), Pos(1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Clip(tt.in); got != tt.want {
				t.Errorf("Clip(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestBufferReplaceSameLine(t *testing.T) {
	b := NewBufferFromString("hello\nworld")

	edit := b.Replace(Pos(1, 0), Pos(1, 2), "WO")

	if b.Text() != "hello\nWOrld" {
		t.Errorf("got %q", b.Text())
	}
	if edit.End() != Pos(1, 2) {
		t.Errorf("edit end = %s, want (1:2)", edit.End())
	}
}

func TestBufferReplaceReversedEndpoints(t *testing.T) {
	b := NewBufferFromString("abcdef")

	edit := b.Replace(Pos(0, 4), Pos(0, 1), "-")

	if b.Text() != "a-ef" {
		t.Errorf("got %q", b.Text())
	}
	if edit.From != Pos(0, 1) || edit.To != Pos(0, 4) {
		t.Errorf("endpoints not ordered: %s", edit)
	}
}

func TestBufferReplaceMultiline(t *testing.T) {
	b := NewBufferFromString("one\ntwo\nthree")

	b.Replace(Pos(0, 1), Pos(2, 2), "X\nY")

	if b.Text() != "oX\nYree" {
		t.Errorf("got %q", b.Text())
	}
	if b.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", b.LineCount())
	}
}

func TestBufferReplacePastLineEndAppends(t *testing.T) {
	b := NewBufferFromString("ab")

	b.Replace(Pos(0, 1), Pos(0, 5), "XYZ")

	if b.Text() != "aXYZ" {
		t.Errorf("got %q", b.Text())
	}
}

func TestBufferTextRange(t *testing.T) {
	b := NewBufferFromString("hello\nworld\n!")

	if got := b.TextRange(Pos(0, 1), Pos(0, 4)); got != "ell" {
		t.Errorf("single line range = %q", got)
	}
	if got := b.TextRange(Pos(2, 1), Pos(0, 3)); got != "lo\nworld\n!" {
		t.Errorf("multi line range = %q", got)
	}
}

func TestBufferRuneAt(t *testing.T) {
	b := NewBufferFromString("héllo")

	r, ok := b.RuneAt(Pos(0, 1))
	if !ok || r != 'é' {
		t.Errorf("RuneAt(0,1) = %q, %v", r, ok)
	}
	if _, ok := b.RuneAt(Pos(0, 5)); ok {
		t.Error("RuneAt past end should report false")
	}
}

func TestBufferConcurrentReads(t *testing.T) {
	b := NewBufferFromString("abc\ndef")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Text()
			_ = b.LineLen(1)
		}()
	}
	wg.Wait()
}

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{Pos(0, 0), Pos(0, 0), 0},
		{Pos(0, 5), Pos(1, 0), -1},
		{Pos(2, 0), Pos(1, 9), 1},
		{Pos(3, 4), Pos(3, 2), 1},
		{Pos(3, 1), Pos(3, 2), -1},
	}

	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRangeAccessors(t *testing.T) {
	r := NewRange(Pos(4, 2), Pos(1, 7))

	if r.Start() != Pos(1, 7) || r.End() != Pos(4, 2) {
		t.Errorf("Start/End = %s/%s", r.Start(), r.End())
	}
	if r.Width() != 5 {
		t.Errorf("Width = %d, want 5", r.Width())
	}
	if r.LineSpan() != 4 {
		t.Errorf("LineSpan = %d, want 4", r.LineSpan())
	}
	if !r.Contains(Pos(2, 2)) || r.Contains(Pos(2, 7)) || r.Contains(Pos(0, 3)) {
		t.Error("Contains uses the wrong rectangle")
	}
	if r.IsCollapsed() {
		t.Error("range should not be collapsed")
	}
	if !IsCaret([]Range{CaretRange(Pos(1, 1))}) {
		t.Error("single collapsed range should be a caret")
	}
	if IsCaret([]Range{CaretRange(Pos(1, 1)), CaretRange(Pos(2, 1))}) {
		t.Error("two carets are not a single caret")
	}
}

func TestEditMapPosition(t *testing.T) {
	// Replace "bc" in "abcd\nxyz" with "1\n22".
	edit := NewEdit(Pos(0, 1), Pos(0, 3), "1\n22")

	tests := []struct {
		name string
		in   Position
		want Position
	}{
		{"before", Pos(0, 0), Pos(0, 0)},
		{"at start", Pos(0, 1), Pos(1, 2)},
		{"inside", Pos(0, 2), Pos(1, 2)},
		{"after on same line", Pos(0, 4), Pos(1, 3)},
		{"later line", Pos(1, 1), Pos(2, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := edit.MapPosition(tt.in); got != tt.want {
				t.Errorf("MapPosition(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
