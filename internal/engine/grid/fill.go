// Package grid keeps document text rectangular.
//
// Fill pads text out to a grid of at least a baseline size so every line has
// the same width; Trim strips the padding back off before the text is
// stored. Fill is idempotent: Fill(Fill(t)) == Fill(t).
package grid

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// EOL separates lines in the document text.
	EOL = "\n"

	// Space is the filler written into empty cells.
	Space = ' '

	// DefaultRows is the baseline number of rows.
	DefaultRows = 90

	// DefaultColumns is the baseline number of columns.
	DefaultColumns = 300
)

// Dimensions is the baseline size of the grid. Fill never produces text
// smaller than this.
type Dimensions struct {
	Rows    int
	Columns int
}

// DefaultDimensions returns the 90x300 baseline.
func DefaultDimensions() Dimensions {
	return Dimensions{Rows: DefaultRows, Columns: DefaultColumns}
}

// Fill reflows text into a rectangle.
//
// The row count is max(dims.Rows, number of lines). The column count is
// max(dims.Columns, widest line once trailing whitespace is trimmed). Every
// line is trimmed and then padded with spaces to the column count; missing
// rows become full rows of spaces.
func Fill(text string, dims Dimensions) string {
	lines := strings.Split(text, EOL)
	for i, line := range lines {
		lines[i] = trimRight(line)
	}

	columns := dims.Columns
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > columns {
			columns = n
		}
	}

	rows := dims.Rows
	if len(lines) > rows {
		rows = len(lines)
	}

	var sb strings.Builder
	sb.Grow(rows * (columns + 1))
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(EOL)
		}
		n := 0
		if r < len(lines) {
			sb.WriteString(lines[r])
			n = utf8.RuneCountInString(lines[r])
		}
		for ; n < columns; n++ {
			sb.WriteRune(Space)
		}
	}
	return sb.String()
}

// Trim prepares grid text for storage: trailing whitespace is removed from
// the whole text and then from every remaining line.
func Trim(text string) string {
	lines := strings.Split(trimRight(text), EOL)
	for i, line := range lines {
		lines[i] = trimRight(line)
	}
	return strings.Join(lines, EOL)
}

// Size returns the number of rows and the widest line of text, in runes.
func Size(text string) (rows, columns int) {
	lines := strings.Split(text, EOL)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > columns {
			columns = n
		}
	}
	return len(lines), columns
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
