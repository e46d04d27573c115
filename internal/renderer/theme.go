package renderer

import (
	"github.com/dshills/blankgrid/internal/engine/directive"
	"github.com/dshills/blankgrid/internal/renderer/core"
)

// Theme holds the styles for one colour scheme.
type Theme struct {
	// Name is dark or light, never auto.
	Name directive.Schema

	Text      core.Style
	Selection core.Style
	Caret     core.Style
	Directive core.Style
	Status    core.Style
}

// DarkTheme returns the dark colour scheme.
func DarkTheme() Theme {
	fg, bg := core.MustHex("#E4E4E0"), core.MustHex("#141414")
	text := core.NewStyle(fg, bg)
	return Theme{
		Name:      directive.SchemaDark,
		Text:      text,
		Selection: text.Reverse(),
		Caret:     core.NewStyle(bg, core.MustHex("#8A8A85")),
		Directive: core.NewStyle(core.MustHex("#7C7C78"), bg),
		Status:    core.NewStyle(core.MustHex("#A0A09C"), core.MustHex("#222222")),
	}
}

// LightTheme returns the light colour scheme.
func LightTheme() Theme {
	fg, bg := core.MustHex("#1C1C1A"), core.MustHex("#FAFAF7")
	text := core.NewStyle(fg, bg)
	return Theme{
		Name:      directive.SchemaLight,
		Text:      text,
		Selection: text.Reverse(),
		Caret:     core.NewStyle(bg, core.MustHex("#9A9A96")),
		Directive: core.NewStyle(core.MustHex("#8C8C88"), bg),
		Status:    core.NewStyle(core.MustHex("#5A5A56"), core.MustHex("#ECECE8")),
	}
}

// MonochromeTheme keeps the terminal's own colours and marks selections
// with reverse video only.
func MonochromeTheme(name directive.Schema) Theme {
	text := core.DefaultStyle()
	return Theme{
		Name:      name,
		Text:      text,
		Selection: text.Reverse(),
		Caret:     text.Reverse().Dim(),
		Directive: text.Dim(),
		Status:    text.Reverse(),
	}
}

// ThemeFor returns the theme for a resolved schema.
func ThemeFor(schema directive.Schema) Theme {
	if schema == directive.SchemaLight {
		return LightTheme()
	}
	return DarkTheme()
}
