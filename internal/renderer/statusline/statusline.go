// Package statusline renders the bottom line of the editor.
package statusline

import (
	"fmt"
	"strconv"

	"github.com/dshills/blankgrid/internal/renderer/backend"
	"github.com/dshills/blankgrid/internal/renderer/core"
)

// StatusLine shows the display configuration, the caret and transient
// messages.
type StatusLine struct {
	// Display configuration
	font   string
	size   string
	schema string

	// Caret and selection
	line       int // 0-indexed
	col        int // 0-indexed
	totalLines int
	blockRows  int
	blockCols  int

	// Message display
	message     string
	messageType MessageType

	width int
}

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// New creates a new status line.
func New() *StatusLine {
	return &StatusLine{}
}

// SetDisplay updates the font, size and resolved schema shown.
func (s *StatusLine) SetDisplay(font, size, schema string) {
	s.font = font
	s.size = size
	s.schema = schema
}

// SetPosition updates the caret position (0-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line = line
	s.col = col
}

// SetTotalLines updates the total line count.
func (s *StatusLine) SetTotalLines(total int) {
	s.totalLines = total
}

// SetBlock updates the selected block size. Zero hides it.
func (s *StatusLine) SetBlock(rows, cols int) {
	s.blockRows = rows
	s.blockCols = cols
}

// SetMessage displays a status message until ClearMessage.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() string {
	return s.message
}

// Resize updates the status line width.
func (s *StatusLine) Resize(width int) {
	s.width = width
}

// Render draws the status line to the backend at the given row.
func (s *StatusLine) Render(b backend.Backend, row int, style core.Style) {
	for x := 0; x < s.width; x++ {
		b.SetCell(x, row, core.NewStyledCell(' ', style))
	}

	left := s.formatDisplay()
	if s.message != "" {
		left = s.message
	}
	right := s.formatPosition()

	room := s.width - core.StringWidth(right) - 2
	left = core.Truncate(left, max(room-1, 0))
	s.put(b, row, 1, left, s.messageStyle(style))

	if start := s.width - core.StringWidth(right) - 1; start > core.StringWidth(left)+1 {
		s.put(b, row, start, right, style)
	}
}

func (s *StatusLine) put(b backend.Backend, row, col int, text string, style core.Style) {
	for _, r := range text {
		if col >= s.width {
			return
		}
		b.SetCell(col, row, core.NewStyledCell(r, style))
		col += max(core.RuneWidth(r), 1)
	}
}

func (s *StatusLine) messageStyle(base core.Style) core.Style {
	switch s.messageType {
	case MessageError:
		return base.Bold().Reverse()
	case MessageWarning:
		return base.Bold()
	default:
		return base
	}
}

// formatDisplay formats the left side: "Geist Mono · 14px · dark".
func (s *StatusLine) formatDisplay() string {
	return s.font + " · " + s.size + " · " + s.schema
}

// formatPosition formats the right side: "3×5  Ln 4, Col 9 / 300".
func (s *StatusLine) formatPosition() string {
	pos := "Ln " + strconv.Itoa(s.line+1) + ", Col " + strconv.Itoa(s.col+1)
	if s.totalLines > 0 {
		pos += " / " + strconv.Itoa(s.totalLines)
	}
	if s.blockRows > 0 && s.blockCols > 0 {
		pos = fmt.Sprintf("%d×%d  %s", s.blockRows, s.blockCols, pos)
	}
	return pos
}
