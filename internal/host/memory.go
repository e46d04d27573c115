package host

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dshills/blankgrid/internal/engine/buffer"
)

// Memory is an in-memory Host.
//
// It behaves like a plain text widget: positions are clipped to the text,
// the selection follows edits, and typing in overwrite mode replaces the
// cell under a collapsed caret. Listener hooks may call back into the host.
//
// Memory is not safe for concurrent use; it belongs to one event loop.
type Memory struct {
	buf        *buffer.Buffer
	selections []buffer.Range
	overwrite  bool
	listener   Listener
	onRefresh  func()
	refreshes  int
}

var _ Host = (*Memory)(nil)

// NewMemory creates a host holding text with the caret at (0:0).
func NewMemory(text string) *Memory {
	return &Memory{
		buf:        buffer.NewBufferFromString(text),
		selections: []buffer.Range{buffer.CaretRange(buffer.Position{})},
	}
}

// Listen registers the hook receiver.
func (m *Memory) Listen(l Listener) {
	m.listener = l
}

// OnRefresh registers a callback run by Refresh.
func (m *Memory) OnRefresh(fn func()) {
	m.onRefresh = fn
}

// Refreshes returns how many times Refresh has been called.
func (m *Memory) Refreshes() int {
	return m.refreshes
}

// Refresh asks for a redraw.
func (m *Memory) Refresh() {
	m.refreshes++
	if m.onRefresh != nil {
		m.onRefresh()
	}
}

// SetOverwrite toggles overwrite editing.
func (m *Memory) SetOverwrite(on bool) {
	m.overwrite = on
}

// Overwrite reports whether overwrite editing is on.
func (m *Memory) Overwrite() bool {
	return m.overwrite
}

// Text returns the full document.
func (m *Memory) Text() string {
	return m.buf.Text()
}

// LineCount returns the number of lines.
func (m *Memory) LineCount() int {
	return m.buf.LineCount()
}

// LineText returns one line of the document.
func (m *Memory) LineText(line int) string {
	return m.buf.LineText(line)
}

// SetText replaces the document. The selection resets to (0:0) without
// raising selection hooks.
func (m *Memory) SetText(text string) {
	ev := &ChangeEvent{
		Origin: OriginSetValue,
		From:   buffer.Position{},
		To:     m.buf.Clip(buffer.Pos(m.buf.LineCount(), 0)),
		Text:   strings.Split(text, "\n"),
		Ranges: m.Selections(),
	}
	if m.before(ev) {
		return
	}

	m.buf.SetText(text)
	m.selections = []buffer.Range{buffer.CaretRange(buffer.Position{})}
	m.after(*ev)
}

// Selections returns a copy of the current ranges.
func (m *Memory) Selections() []buffer.Range {
	out := make([]buffer.Range, len(m.selections))
	copy(out, m.selections)
	return out
}

// SetSelections proposes a new selection. The listener may replace it
// before it is applied.
func (m *Memory) SetSelections(ranges []buffer.Range) {
	ev := &SelectionEvent{Ranges: m.clipRanges(ranges)}
	if m.listener != nil && len(ev.Ranges) > 0 {
		m.listener.BeforeSelectionChange(ev)
	}

	next := m.clipRanges(ev.Ranges)
	if len(next) == 0 {
		return
	}
	m.selections = next
	if m.listener != nil {
		m.listener.CursorActivity(m.Cursor())
	}
}

// Cursor returns the head of the primary (last) range.
func (m *Memory) Cursor() buffer.Position {
	if len(m.selections) == 0 {
		return buffer.Position{}
	}
	return m.selections[len(m.selections)-1].Head
}

// SetCursor proposes a collapsed selection at p.
func (m *Memory) SetCursor(p buffer.Position) {
	m.SetSelections([]buffer.Range{buffer.CaretRange(p)})
}

// Range returns the text between two positions.
func (m *Memory) Range(from, to buffer.Position) string {
	return m.buf.TextRange(from, to)
}

// Selected returns the text of every range.
func (m *Memory) Selected() []string {
	out := make([]string, len(m.selections))
	for i, r := range m.selections {
		out[i] = m.buf.TextRange(r.Anchor, r.Head)
	}
	return out
}

// ReplaceRange proposes replacing the text between from and to.
func (m *Memory) ReplaceRange(text string, from, to buffer.Position, origin Origin) {
	from, to = m.buf.Clip(from), m.buf.Clip(to)
	if to.Before(from) {
		from, to = to, from
	}
	ev := &ChangeEvent{
		Origin: origin,
		From:   from,
		To:     to,
		Text:   strings.Split(text, "\n"),
		Ranges: m.Selections(),
	}
	if m.before(ev) {
		return
	}
	m.apply([]buffer.Edit{buffer.NewEdit(from, to, text)})
	m.after(*ev)
}

// Input simulates typing text over the current selection.
//
// In overwrite mode a collapsed caret replaces as many following cells as
// the typed text is long, stopping at the line end.
func (m *Memory) Input(text string) {
	ranges := m.Selections()
	primary := ranges[len(ranges)-1]
	from, to := m.inputSpan(primary, text)

	ev := &ChangeEvent{
		Origin: OriginInput,
		From:   from,
		To:     to,
		Text:   strings.Split(text, "\n"),
		Ranges: ranges,
	}
	if m.before(ev) {
		return
	}

	edits := make([]buffer.Edit, 0, len(ranges))
	for _, r := range ranges {
		from, to := m.inputSpan(r, text)
		edits = append(edits, buffer.NewEdit(from, to, text))
	}
	m.apply(edits)
	m.after(*ev)
}

// Paste simulates pasting text at the primary range.
func (m *Memory) Paste(text string) {
	text = buffer.NormalizeLineEndings(text)
	ranges := m.Selections()
	primary := ranges[len(ranges)-1]

	ev := &ChangeEvent{
		Origin: OriginPaste,
		From:   primary.Start(),
		To:     primary.End(),
		Text:   strings.Split(text, "\n"),
		Ranges: ranges,
	}
	if m.before(ev) {
		return
	}
	m.apply([]buffer.Edit{buffer.NewEdit(ev.From, ev.To, text)})
	m.after(*ev)
}

// MoveCursor moves the caret by the given deltas, clipped to the text.
func (m *Memory) MoveCursor(lines, chs int) {
	m.SetCursor(m.buf.Clip(m.Cursor().Offset(lines, chs)))
}

func (m *Memory) inputSpan(r buffer.Range, text string) (buffer.Position, buffer.Position) {
	from, to := r.Start(), r.End()
	if m.overwrite && r.IsCollapsed() && !strings.Contains(text, "\n") {
		to = m.buf.Clip(from.Offset(0, utf8.RuneCountInString(text)))
	}
	return from, to
}

// apply performs edits from the bottom of the document up so earlier
// positions stay valid, mapping the selection through each one.
func (m *Memory) apply(edits []buffer.Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[j].From.Before(edits[i].From)
	})

	sel := m.Selections()
	for _, e := range edits {
		applied := m.buf.Replace(e.From, e.To, e.Text)
		for i := range sel {
			sel[i] = applied.MapRange(sel[i])
		}
	}
	m.SetSelections(sel)
}

func (m *Memory) before(ev *ChangeEvent) bool {
	if m.listener == nil {
		return false
	}
	m.listener.BeforeChange(ev)
	return ev.Canceled()
}

func (m *Memory) after(ev ChangeEvent) {
	if m.listener != nil {
		m.listener.AfterChange(ev)
	}
}

func (m *Memory) clipRanges(ranges []buffer.Range) []buffer.Range {
	out := make([]buffer.Range, len(ranges))
	for i, r := range ranges {
		out[i] = buffer.Range{Anchor: m.buf.Clip(r.Anchor), Head: m.buf.Clip(r.Head)}
	}
	return out
}
