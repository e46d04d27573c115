package renderer

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/muesli/termenv"

	"github.com/dshills/blankgrid/internal/engine/directive"
)

// Display variable names. They carry the document's font and size to
// whatever draws the grid; a terminal cannot change either, so the view
// shows them in the status line.
const (
	VarFont = "--config-font"
	VarSize = "--config-size"
)

// Display turns a directive configuration into the active theme and
// display variables.
type Display struct {
	mu sync.RWMutex

	cfg    directive.Config
	schema directive.Schema
	theme  Theme
	vars   map[string]string

	detect      func() bool
	detectOnce  sync.Once
	prefersDark bool

	monochrome bool
	refresh    func()
	onApply    []func(directive.Config)
	applied    int
}

// DisplayOption configures a Display.
type DisplayOption func(*Display)

// WithDarkDetector replaces the platform dark-background query.
func WithDarkDetector(fn func() bool) DisplayOption {
	return func(d *Display) {
		d.detect = fn
	}
}

// WithRefresh sets the function called after every Apply to redraw the
// host.
func WithRefresh(fn func()) DisplayOption {
	return func(d *Display) {
		d.refresh = fn
	}
}

// WithMonochrome keeps the terminal's colours instead of the theme's.
func WithMonochrome(on bool) DisplayOption {
	return func(d *Display) {
		d.monochrome = on
	}
}

// NewDisplay creates a display showing the default configuration.
//
// The default detector asks the terminal for its background colour, which
// only works before the screen is taken over. Call Detect early.
func NewDisplay(opts ...DisplayOption) *Display {
	d := &Display{
		detect:     termenv.HasDarkBackground,
		monochrome: termenv.EnvNoColor(),
		vars:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.set(directive.DefaultConfig())
	return d
}

// Detect runs the platform preference query once and caches the answer.
func (d *Display) Detect() bool {
	d.detectOnce.Do(func() {
		if d.detect != nil {
			d.prefersDark = d.detect()
		}
	})
	return d.prefersDark
}

// SetRefresh replaces the redraw hook.
func (d *Display) SetRefresh(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refresh = fn
}

// OnApply registers a callback run after every Apply.
func (d *Display) OnApply(fn func(directive.Config)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onApply = append(d.onApply, fn)
}

// Apply makes cfg the active display configuration: auto is resolved
// against the platform preference, the theme and the font and size
// variables are set, and a redraw is requested.
func (d *Display) Apply(cfg directive.Config) {
	d.set(cfg)

	d.mu.Lock()
	d.applied++
	refresh := d.refresh
	hooks := append([]func(directive.Config){}, d.onApply...)
	d.mu.Unlock()

	for _, fn := range hooks {
		fn(cfg)
	}
	if refresh != nil {
		refresh()
	}
}

func (d *Display) set(cfg directive.Config) {
	schema := d.resolve(cfg.Schema)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.cfg = cfg
	d.schema = schema
	if d.monochrome {
		d.theme = MonochromeTheme(schema)
	} else {
		d.theme = ThemeFor(schema)
	}
	d.vars[VarFont] = fmt.Sprintf("'%s'", cfg.Font)
	d.vars[VarSize] = strconv.FormatFloat(cfg.Size, 'f', -1, 64) + "px"
}

// resolve maps auto to the platform preference.
func (d *Display) resolve(s directive.Schema) directive.Schema {
	switch s {
	case directive.SchemaDark, directive.SchemaLight:
		return s
	}
	if d.Detect() {
		return directive.SchemaDark
	}
	return directive.SchemaLight
}

// Config returns the last applied configuration.
func (d *Display) Config() directive.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Schema returns the resolved schema, dark or light.
func (d *Display) Schema() directive.Schema {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.schema
}

// Theme returns the active theme.
func (d *Display) Theme() Theme {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.theme
}

// Var returns a display variable.
func (d *Display) Var(name string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.vars[name]
}

// Applied returns how many times Apply ran.
func (d *Display) Applied() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.applied
}
