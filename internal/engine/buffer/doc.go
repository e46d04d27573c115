// Package buffer provides the coordinate types and line storage used by the
// grid editing engine.
//
// The buffer package provides:
//
//   - Position: a 0-indexed line/column cell coordinate (columns count runes)
//   - Range: an unordered anchor/head pair of positions
//   - Edit: a replacement of the text between two positions
//   - Buffer: a thread-safe list of lines with position clipping and
//     range replacement
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("hello\nworld")
//
//	// Overwrite two cells on the second line
//	buf.Replace(buffer.Pos(1, 0), buffer.Pos(1, 2), "WO")  // "hello\nWOrld"
//
//	// Read a range back
//	buf.TextRange(buffer.Pos(0, 1), buffer.Pos(0, 4))  // "ell"
//
// Positions handed to Buffer are clipped the same way a text widget clips
// them: the line is clamped to the existing lines and the column to the
// length of that line.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Position, Range and Edit are
// immutable value types.
package buffer
