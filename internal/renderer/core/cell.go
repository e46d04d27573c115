package core

import "github.com/mattn/go-runewidth"

// Cell is one screen position.
type Cell struct {
	Rune  rune
	Width int
	Style Style
}

// EmptyCell is a blank in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewStyledCell returns a cell for r, measuring its width.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune && c.Width == other.Width && c.Style.Equals(other.Style)
}

// RuneWidth returns how many columns r takes. Control characters take
// none.
func RuneWidth(r rune) int {
	if r < ' ' || r == 0x7F {
		return 0
	}
	return runewidth.RuneWidth(r)
}

// StringWidth returns how many columns s takes.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate cuts s to at most width columns.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "")
}
