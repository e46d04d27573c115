package guard

import (
	"sort"
	"strings"

	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/engine/cursor"
)

// DefaultIndentUnit is the number of spaces Tab adds.
const DefaultIndentUnit = 2

// Direction selects which neighbour cell a collapsed erase clears.
type Direction int

const (
	// Backward clears the cell before the caret and moves onto it.
	Backward Direction = iota
	// Forward clears the cell under the caret.
	Forward
)

// Erase clears cells without shifting anything.
//
// A collapsed Backward range writes a space over [ch-1, ch) and moves the
// caret to ch-1; at column 0 it does nothing. A collapsed Forward range
// writes a space over [ch, ch+1) and leaves the caret. Any other range has
// its whole rectangle filled with spaces and the caret goes to its top-left
// cell. Ranges are handled last to first, so the caret ends up on the
// first range.
func Erase(dir Direction, sel []buffer.Range) Decision {
	d := Decision{State: Delete, FillNow: true}

	for i := len(sel) - 1; i >= 0; i-- {
		r := cursor.SortedSelection(sel[i])

		if r.IsCollapsed() {
			at := r.Head
			switch dir {
			case Backward:
				if at.Ch == 0 {
					continue
				}
				d.Ops = append(d.Ops, Op{Text: " ", From: at.Offset(0, -1), To: at})
				caret := at.Offset(0, -1)
				d.Cursor = &caret
			case Forward:
				d.Ops = append(d.Ops, Op{Text: " ", From: at, To: at.Offset(0, 1)})
				caret := at
				d.Cursor = &caret
			}
			continue
		}

		block := cursor.SquareRanges(r)
		for _, line := range block {
			d.Ops = append(d.Ops, Op{
				Text: strings.Repeat(" ", line.Width()),
				From: line.Head,
				To:   line.Anchor,
			})
		}
		caret := block[0].Head
		d.Cursor = &caret
	}
	return d
}

// Cut returns the text to place on the clipboard, the selected texts
// joined by "\n", and the backward erase that clears the selection.
func Cut(sel []buffer.Range, selected []string) (string, Decision) {
	d := Erase(Backward, sel)
	d.State = CutDelete
	return strings.Join(selected, "\n"), d
}

// ShiftSpace inserts a single space at the caret. The caret stays put.
func ShiftSpace(at buffer.Position) Decision {
	caret := at
	return Decision{
		State:  Passthrough,
		Accept: true,
		Ops:    []Op{{Text: " ", From: at, To: at}},
		Cursor: &caret,
	}
}

// Enter returns where the caret lands on the next line. The column is
// just after the nearest run of two spaces to the left of the caret on
// lineText, or the caret's own column when there is none.
func Enter(lineText string, at buffer.Position) buffer.Position {
	runes := []rune(lineText)
	end := at.Ch
	if end > len(runes) {
		end = len(runes)
	}

	target := at.Ch
	spaces := 0
	for i := end - 1; i >= 0; i-- {
		if runes[i] != ' ' {
			spaces = 0
			continue
		}
		spaces++
		if spaces == 2 {
			target = i + 2
			break
		}
	}
	return buffer.Pos(at.Line+1, target)
}

// Indent adds unit spaces to the start of every line the selection
// touches.
func Indent(sel []buffer.Range, unit int) Decision {
	if unit <= 0 {
		unit = DefaultIndentUnit
	}
	pad := strings.Repeat(" ", unit)

	d := accept(Passthrough)
	for _, line := range selectedLines(sel) {
		at := buffer.Pos(line, 0)
		d.Ops = append(d.Ops, Op{Text: pad, From: at, To: at})
	}
	return d
}

// Outdent removes up to unit leading spaces from every line the selection
// touches. lineText returns the current content of a line.
func Outdent(sel []buffer.Range, lineText func(line int) string, unit int) Decision {
	if unit <= 0 {
		unit = DefaultIndentUnit
	}

	d := accept(Passthrough)
	for _, line := range selectedLines(sel) {
		text := lineText(line)
		n := 0
		for n < unit && n < len(text) && text[n] == ' ' {
			n++
		}
		if n == 0 {
			continue
		}
		d.Ops = append(d.Ops, Op{From: buffer.Pos(line, 0), To: buffer.Pos(line, n)})
	}
	return d
}

// selectedLines returns every line touched by sel, ascending and without
// duplicates.
func selectedLines(sel []buffer.Range) []int {
	seen := make(map[int]struct{})
	var lines []int
	for _, r := range sel {
		start, end := r.Start().Line, r.End().Line
		for l := start; l <= end; l++ {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			lines = append(lines, l)
		}
	}
	sort.Ints(lines)
	return lines
}
