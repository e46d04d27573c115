// Package core holds the cell, colour and style values the renderer hands
// to a backend.
package core
