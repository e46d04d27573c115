package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a terminal colour: the terminal default, a palette index or
// a true colour.
type Color struct {
	R, G, B uint8
	// Indexed colours keep the palette index in R.
	Indexed bool
	Default bool
}

// ColorDefault leaves the choice to the terminal.
var ColorDefault = Color{Default: true}

// ColorFromRGB returns a true colour.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex returns a palette colour.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// MustHex parses "#rrggbb" or "#rgb" and panics on malformed input. It is
// meant for theme tables.
func MustHex(hex string) Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(fmt.Sprintf("core: bad colour %q: %v", hex, err))
	}
	r, g, b := c.RGB255()
	return ColorFromRGB(r, g, b)
}

func (c Color) IsDefault() bool {
	return c.Default
}

// Equals compares colours by kind, then by the fields that kind uses.
func (c Color) Equals(other Color) bool {
	switch {
	case c.Default || other.Default:
		return c.Default == other.Default
	case c.Indexed || other.Indexed:
		return c.Indexed == other.Indexed && c.R == other.R
	default:
		return c == other
	}
}

func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
}
