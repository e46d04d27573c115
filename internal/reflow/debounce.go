package reflow

import (
	"sync"
	"time"
)

// Scheduler hands a task to the goroutine that owns the editing state.
type Scheduler func(task func())

// Debouncer runs fn once a burst of Trigger calls has gone quiet for the
// delay. Its methods may be called from any goroutine.
//
// With a Scheduler, fn runs on the scheduler's goroutine. Without one it
// runs on a timer goroutine.
type Debouncer struct {
	mu       sync.Mutex
	fn       func()
	schedule Scheduler
	delay    time.Duration
	timer    *time.Timer

	// gen is bumped on every state change; armed is the generation of the
	// pending call, zero when none is pending.
	gen   uint64
	armed uint64
}

// DebouncerOption configures a Debouncer.
type DebouncerOption func(*Debouncer)

// WithTaskScheduler runs fn through s.
func WithTaskScheduler(s Scheduler) DebouncerOption {
	return func(d *Debouncer) { d.schedule = s }
}

// NewDebouncer returns a Debouncer that runs fn after delay.
func NewDebouncer(delay time.Duration, fn func(), opts ...DebouncerOption) *Debouncer {
	d := &Debouncer{delay: delay, fn: fn}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}

// SetDelay applies to the next Trigger.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.disarm()
	d.gen++
	d.armed = d.gen

	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		if d.schedule == nil {
			d.fire(gen)
			return
		}
		d.schedule(func() { d.fire(gen) })
	})
}

// fire runs fn if gen is still the armed call. The check runs where fn
// runs, so a Cancel that lands between the timer and a scheduled task
// still wins.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.armed == 0 || d.armed != gen {
		d.mu.Unlock()
		return
	}
	d.armed = 0
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

// Flush runs fn now if a call is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	wasArmed := d.armed != 0
	d.disarm()
	d.mu.Unlock()

	if wasArmed {
		d.fn()
	}
}

// Cancel drops the pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disarm()
}

func (d *Debouncer) disarm() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.armed = 0
}

// Pending reports whether a call is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed != 0
}
