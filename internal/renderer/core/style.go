package core

// Attribute is a set of text attributes.
type Attribute uint8

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrReverse
)

// Has reports whether attr is set.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style is how a cell is drawn.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle uses the terminal's colours and no attributes.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// NewStyle returns a style with the given colours.
func NewStyle(fg, bg Color) Style {
	return Style{Foreground: fg, Background: bg}
}

func (s Style) Bold() Style    { return s.with(AttrBold) }
func (s Style) Dim() Style     { return s.with(AttrDim) }
func (s Style) Reverse() Style { return s.with(AttrReverse) }

func (s Style) with(attr Attribute) Style {
	s.Attributes |= attr
	return s
}

func (s Style) Equals(other Style) bool {
	return s.Attributes == other.Attributes &&
		s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background)
}
