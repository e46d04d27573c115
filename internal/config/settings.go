// Package config loads blankgrid's application settings.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults (Default)
//  2. a TOML or YAML file, chosen by extension
//  3. BLANKGRID_* environment variables
//
// These settings are separate from the directives written inside the
// document (r.schema, r.font, r.size): the directives are rescanned from
// the text on every reflow, while settings only supply their defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/engine/directive"
	"github.com/dshills/blankgrid/internal/engine/grid"
	"github.com/dshills/blankgrid/internal/logging"
)

// AppName names the settings and data directories.
const AppName = "blankgrid"

// Settings is the full application configuration.
type Settings struct {
	Grid    GridConfig    `toml:"grid" yaml:"grid"`
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	Storage StorageConfig `toml:"storage" yaml:"storage"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// GridConfig sets the minimum grid size.
type GridConfig struct {
	// Rows is the baseline row count.
	Rows int `toml:"rows" yaml:"rows"`

	// Columns is the baseline column count.
	Columns int `toml:"columns" yaml:"columns"`
}

// EditorConfig controls editing behaviour.
type EditorConfig struct {
	// ReflowDelay is the quiet period before a reflow, in milliseconds.
	ReflowDelay int `toml:"reflowDelay" yaml:"reflowDelay"`

	// TabSize is the number of spaces Tab adds and Shift-Tab removes.
	TabSize int `toml:"tabSize" yaml:"tabSize"`

	// StartLine and StartCh place the caret when none was stored.
	StartLine int `toml:"startLine" yaml:"startLine"`
	StartCh   int `toml:"startCh" yaml:"startCh"`
}

// DisplayConfig supplies the fallbacks for in-document directives.
type DisplayConfig struct {
	Font    string  `toml:"font" yaml:"font"`
	Size    float64 `toml:"size" yaml:"size"`
	MinSize float64 `toml:"minSize" yaml:"minSize"`

	// Schema is "auto", "dark" or "light".
	Schema string `toml:"schema" yaml:"schema"`
}

// StorageConfig locates persisted state.
type StorageConfig struct {
	// Dir holds the document and the caret.
	Dir string `toml:"dir" yaml:"dir"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`

	// File is the log destination. Empty disables logging.
	File string `toml:"file" yaml:"file"`
}

// Default returns the built-in settings.
func Default() Settings {
	dims := grid.DefaultDimensions()
	return Settings{
		Grid: GridConfig{
			Rows:    dims.Rows,
			Columns: dims.Columns,
		},
		Editor: EditorConfig{
			ReflowDelay: 1000,
			TabSize:     2,
			StartLine:   3,
			StartCh:     8,
		},
		Display: DisplayConfig{
			Font:    directive.DefaultFont,
			Size:    directive.DefaultSize,
			MinSize: directive.DefaultMinSize,
			Schema:  string(directive.SchemaAuto),
		},
		Storage: StorageConfig{
			Dir: DefaultDataDir(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultDataDir returns the per-user directory for the document.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	return "." + AppName
}

// DefaultPath returns the per-user settings file path.
func DefaultPath() string {
	return filepath.Join(DefaultDataDir(), "config.toml")
}

// Dimensions returns the grid baseline.
func (s Settings) Dimensions() grid.Dimensions {
	return grid.Dimensions{Rows: s.Grid.Rows, Columns: s.Grid.Columns}
}

// ReflowDelay returns the reflow quiet period.
func (s Settings) ReflowDelay() time.Duration {
	return time.Duration(s.Editor.ReflowDelay) * time.Millisecond
}

// StartCursor returns the caret used when none was stored.
func (s Settings) StartCursor() buffer.Position {
	return buffer.Pos(s.Editor.StartLine, s.Editor.StartCh)
}

// DirectiveDefaults returns the config used for absent directives.
func (s Settings) DirectiveDefaults() directive.Config {
	return directive.Config{
		Schema: directive.Schema(s.Display.Schema),
		Font:   s.Display.Font,
		Size:   s.Display.Size,
	}
}

// Scanner returns a directive scanner built from the display settings.
func (s Settings) Scanner() *directive.Scanner {
	return directive.NewScanner(
		directive.WithDefaults(s.DirectiveDefaults()),
		directive.WithMinSize(s.Display.MinSize),
	)
}

// LogLevel returns the parsed logging level.
func (s Settings) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(s.Logging.Level)
	return level
}

// Validate checks every setting and reports all failures together.
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, path string, value any, msg string) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Value: value, Message: msg})
		}
	}

	check(s.Grid.Rows > 0, "grid.rows", s.Grid.Rows, "must be positive")
	check(s.Grid.Columns > 0, "grid.columns", s.Grid.Columns, "must be positive")
	check(s.Editor.ReflowDelay >= 0, "editor.reflowDelay", s.Editor.ReflowDelay, "must not be negative")
	check(s.Editor.TabSize >= 1 && s.Editor.TabSize <= 16, "editor.tabSize", s.Editor.TabSize, "must be between 1 and 16")
	check(s.Editor.StartLine >= 0, "editor.startLine", s.Editor.StartLine, "must not be negative")
	check(s.Editor.StartCh >= 0, "editor.startCh", s.Editor.StartCh, "must not be negative")
	check(s.Display.Font != "", "display.font", s.Display.Font, "must not be empty")
	check(s.Display.MinSize > 0, "display.minSize", s.Display.MinSize, "must be positive")
	check(s.Display.Size > 0, "display.size", s.Display.Size, "must be positive")

	switch directive.Schema(s.Display.Schema) {
	case directive.SchemaAuto, directive.SchemaDark, directive.SchemaLight:
	default:
		check(false, "display.schema", s.Display.Schema, "must be auto, dark or light")
	}

	_, ok := logging.ParseLevel(s.Logging.Level)
	check(ok, "logging.level", s.Logging.Level, "must be debug, info, warn or error")

	return errors.Join(errs...)
}
