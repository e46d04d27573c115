package cursor

import "github.com/dshills/blankgrid/internal/engine/buffer"

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Position is an alias for buffer.Position for convenience.
type Position = buffer.Position

// SortedSelection relabels the endpoints of r so that Anchor is the
// geometrically later one (greater line, or same line and greater column)
// and Head the earlier one. The point set is never changed.
func SortedSelection(r Range) Range {
	if r.Anchor.Before(r.Head) {
		return Range{Anchor: r.Head, Head: r.Anchor}
	}
	return r
}

// SquareRanges treats head and anchor as opposite corners of a block and
// returns one range per line between them. Every range has the same column
// bounds, with the lower column labeled Head and the higher labeled Anchor.
func SquareRanges(r Range) []Range {
	lineStart, lineEnd := minMax(r.Head.Line, r.Anchor.Line)
	chStart, chEnd := minMax(r.Head.Ch, r.Anchor.Ch)

	result := make([]Range, 0, lineEnd-lineStart+1)
	for line := lineStart; line <= lineEnd; line++ {
		result = append(result, Range{
			Head:   Position{Line: line, Ch: chStart},
			Anchor: Position{Line: line, Ch: chEnd},
		})
	}
	return result
}

// Normalize collapses a proposed selection into a single block spanning the
// earlier corner of the first range and the later corner of the last range.
// It returns nil for an empty proposal, meaning "leave it unchanged".
func Normalize(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	head := SortedSelection(ranges[0]).Head
	anchor := SortedSelection(ranges[len(ranges)-1]).Anchor
	return SquareRanges(Range{Head: head, Anchor: anchor})
}

// Bounds returns the top-left and bottom-right cells covered by a block
// selection, with the column of the bottom-right bound exclusive.
func Bounds(ranges []Range) (topLeft, bottomRight Position) {
	if len(ranges) == 0 {
		return Position{}, Position{}
	}
	first := true
	for _, r := range ranges {
		minLine, maxLine := minMax(r.Anchor.Line, r.Head.Line)
		minCh, maxCh := minMax(r.Anchor.Ch, r.Head.Ch)
		if first || minLine < topLeft.Line {
			topLeft.Line = minLine
		}
		if first || minCh < topLeft.Ch {
			topLeft.Ch = minCh
		}
		if first || maxLine > bottomRight.Line {
			bottomRight.Line = maxLine
		}
		if first || maxCh > bottomRight.Ch {
			bottomRight.Ch = maxCh
		}
		first = false
	}
	return topLeft, bottomRight
}

// Primary returns the range that owns the caret: the last one.
func Primary(ranges []Range) (Range, bool) {
	if len(ranges) == 0 {
		return Range{}, false
	}
	return ranges[len(ranges)-1], true
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
