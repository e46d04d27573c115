package buffer

import (
	"strings"
	"sync"
)

// Buffer is a thread-safe list of lines addressed by Position.
// Every position passed in is clipped to the existing text first.
type Buffer struct {
	mu    sync.RWMutex
	lines [][]rune
}

// NewBuffer creates a buffer holding a single empty line.
func NewBuffer() *Buffer {
	return &Buffer{lines: [][]rune{{}}}
}

// NewBufferFromString creates a buffer holding s.
func NewBufferFromString(s string) *Buffer {
	b := &Buffer{}
	b.lines = splitLines(s)
	return b
}

// NormalizeLineEndings converts CRLF and lone CR to LF.
func NormalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func splitLines(s string) [][]rune {
	parts := strings.Split(NormalizeLineEndings(s), "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

// Text returns the entire buffer joined by "\n".
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(line))
	}
	return sb.String()
}

// SetText replaces the entire content of the buffer.
func (b *Buffer) SetText(s string) {
	lines := splitLines(s)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = lines
}

// LineCount returns the number of lines. Always at least 1.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the content of a line, or "" if out of range.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return string(b.lines[line])
}

// LineLen returns the length of a line in runes, or 0 if out of range.
func (b *Buffer) LineLen(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if line < 0 || line >= len(b.lines) {
		return 0
	}
	return len(b.lines[line])
}

// RuneAt returns the rune at p and whether p addresses an existing cell.
func (b *Buffer) RuneAt(p Position) (rune, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if p.Line < 0 || p.Line >= len(b.lines) {
		return 0, false
	}
	line := b.lines[p.Line]
	if p.Ch < 0 || p.Ch >= len(line) {
		return 0, false
	}
	return line[p.Ch], true
}

// Clip clamps p to the text: the line to [0, LineCount-1] and the column
// to [0, LineLen(line)].
func (b *Buffer) Clip(p Position) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clipLocked(p)
}

func (b *Buffer) clipLocked(p Position) Position {
	if p.Line < 0 {
		return Position{}
	}
	if p.Line >= len(b.lines) {
		last := len(b.lines) - 1
		return Position{Line: last, Ch: len(b.lines[last])}
	}
	if p.Ch < 0 {
		p.Ch = 0
	} else if n := len(b.lines[p.Line]); p.Ch > n {
		p.Ch = n
	}
	return p
}

// TextRange returns the text between two positions, joined by "\n".
// The endpoints may be given in either order.
func (b *Buffer) TextRange(from, to Position) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	from, to = b.clipLocked(from), b.clipLocked(to)
	if to.Before(from) {
		from, to = to, from
	}

	if from.Line == to.Line {
		return string(b.lines[from.Line][from.Ch:to.Ch])
	}

	var sb strings.Builder
	sb.WriteString(string(b.lines[from.Line][from.Ch:]))
	for l := from.Line + 1; l < to.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[l]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[to.Line][:to.Ch]))
	return sb.String()
}

// Replace replaces the text between from and to with text and returns the
// applied edit (with clipped, ordered endpoints).
func (b *Buffer) Replace(from, to Position, text string) Edit {
	text = NormalizeLineEndings(text)

	b.mu.Lock()
	defer b.mu.Unlock()

	edit := NewEdit(b.clipLocked(from), b.clipLocked(to), text)

	prefix := b.lines[edit.From.Line][:edit.From.Ch]
	suffix := b.lines[edit.To.Line][edit.To.Ch:]

	inserted := edit.Lines()
	replacement := make([][]rune, len(inserted))
	for i, s := range inserted {
		replacement[i] = []rune(s)
	}

	first := make([]rune, 0, len(prefix)+len(replacement[0]))
	first = append(first, prefix...)
	first = append(first, replacement[0]...)
	replacement[0] = first

	last := replacement[len(replacement)-1]
	tail := make([]rune, 0, len(last)+len(suffix))
	tail = append(tail, last...)
	tail = append(tail, suffix...)
	replacement[len(replacement)-1] = tail

	lines := make([][]rune, 0, len(b.lines)-(edit.To.Line-edit.From.Line)+len(replacement)-1)
	lines = append(lines, b.lines[:edit.From.Line]...)
	lines = append(lines, replacement...)
	lines = append(lines, b.lines[edit.To.Line+1:]...)
	b.lines = lines

	return edit
}
