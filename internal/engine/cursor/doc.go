// Package cursor normalizes selections into rectangular blocks.
//
// Selection Model:
//
// A selection is a list of buffer.Range values, one per caret, in the order
// the carets were created. Each range uses an anchor/head pair where either
// endpoint may be the drag start.
//
// The grid editor only ever shows block selections. Normalize turns any
// proposed selection into one rectangle: the first range's earlier corner
// and the last range's later corner are taken as opposite corners, and
// SquareRanges emits one range per covered line with identical column
// bounds:
//
//	// drag from (0:5) to (1:2)
//	cursor.Normalize([]buffer.Range{buffer.NewRange(buffer.Pos(0, 5), buffer.Pos(1, 2))})
//	// → {Head (0:2), Anchor (0:5)}, {Head (1:2), Anchor (1:5)}
//
// All functions are pure and safe for concurrent use.
package cursor
