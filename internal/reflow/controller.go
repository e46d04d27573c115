// Package reflow coalesces bursts of edits into one grid fill and
// directive rescan.
//
// A Controller owns a single trailing-edge Debouncer. Every qualifying
// edit re-arms it; when the document has been quiet for the delay, one
// pass runs:
//
//  1. capture the selection
//  2. replace the text with its filled form
//  3. restore the selection
//  4. scan the text for directives
//  5. hand the resulting config to the config handler
//
// The pass mutates the host, so it must run on the goroutine that owns
// it. Use WithScheduler to post timer callbacks onto that goroutine.
package reflow

import (
	"sync/atomic"
	"time"

	"github.com/dshills/blankgrid/internal/engine/directive"
	"github.com/dshills/blankgrid/internal/engine/grid"
	"github.com/dshills/blankgrid/internal/host"
)

// DefaultDelay is the quiet period before a scheduled pass runs.
const DefaultDelay = time.Second

// Controller runs reflow passes against a host.
type Controller struct {
	host      host.Host
	dims      grid.Dimensions
	scanner   *directive.Scanner
	onConfig  func(directive.Config)
	debouncer *Debouncer
	delay     time.Duration
	schedule  Scheduler
	passes    atomic.Int64
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay sets the debounce quiet period.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithDimensions sets the grid baseline.
func WithDimensions(dims grid.Dimensions) Option {
	return func(c *Controller) {
		c.dims = dims
	}
}

// WithScanner sets the directive scanner.
func WithScanner(s *directive.Scanner) Option {
	return func(c *Controller) {
		c.scanner = s
	}
}

// WithConfigHandler sets the function that receives each scanned config.
func WithConfigHandler(fn func(directive.Config)) Option {
	return func(c *Controller) {
		c.onConfig = fn
	}
}

// WithScheduler posts debounced passes through s.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.schedule = s
	}
}

// NewController creates a controller for h.
func NewController(h host.Host, opts ...Option) *Controller {
	c := &Controller{
		host:    h,
		dims:    grid.DefaultDimensions(),
		scanner: directive.NewScanner(),
		delay:   DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	var dopts []DebouncerOption
	if c.schedule != nil {
		dopts = append(dopts, WithTaskScheduler(c.schedule))
	}
	c.debouncer = NewDebouncer(c.delay, c.pass, dopts...)
	return c
}

// Schedule re-arms the debouncer. Only the last call in a burst results
// in a pass.
func (c *Controller) Schedule() {
	c.debouncer.Trigger()
}

// Now cancels any pending pass and runs one immediately.
func (c *Controller) Now() {
	c.debouncer.Cancel()
	c.pass()
}

// Flush runs the pending pass, if there is one.
func (c *Controller) Flush() {
	c.debouncer.Flush()
}

// Stop cancels the pending pass.
func (c *Controller) Stop() {
	c.debouncer.Cancel()
}

// Pending reports whether a pass is scheduled.
func (c *Controller) Pending() bool {
	return c.debouncer.Pending()
}

// Passes returns how many passes have run.
func (c *Controller) Passes() int {
	return int(c.passes.Load())
}

// Dimensions returns the grid baseline.
func (c *Controller) Dimensions() grid.Dimensions {
	return c.dims
}

// SetDimensions changes the grid baseline used by later passes.
func (c *Controller) SetDimensions(dims grid.Dimensions) {
	c.dims = dims
}

// SetScanner changes the directive scanner used by later passes.
func (c *Controller) SetScanner(s *directive.Scanner) {
	c.scanner = s
}

// SetDelay changes the quiet period used by later calls to Schedule.
func (c *Controller) SetDelay(d time.Duration) {
	c.delay = d
	c.debouncer.SetDelay(d)
}

// Scan returns the config the current text yields without reflowing.
func (c *Controller) Scan() directive.Config {
	return c.scanner.Scan(c.host.Text())
}

func (c *Controller) pass() {
	c.passes.Add(1)

	sel := c.host.Selections()
	c.host.SetText(grid.Fill(c.host.Text(), c.dims))
	c.host.SetSelections(sel)

	cfg := c.Scan()
	if c.onConfig != nil {
		c.onConfig(cfg)
	}
}
