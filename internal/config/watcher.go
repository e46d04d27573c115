package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/blankgrid/internal/reflow"
)

// DefaultWatchDebounce coalesces the burst of events an editor produces
// when it saves a file.
const DefaultWatchDebounce = 100 * time.Millisecond

// Watcher reloads a settings file whenever it changes on disk.
//
// The file's directory is watched rather than the file itself so that
// editors which save by renaming a temporary file are still noticed.
// Reloads are debounced; a reload that fails to parse or validate is
// reported to the error handler and the previous settings stay in force.
type Watcher struct {
	mu sync.Mutex

	path     string
	env      *EnvLoader
	watcher  *fsnotify.Watcher
	debounce *reflow.Debouncer
	onChange func(Settings)
	onError  func(error)
	schedule reflow.Scheduler
	delay    time.Duration

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchDebounce sets the quiet period before a reload.
func WithWatchDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.delay = d
		}
	}
}

// WithErrorHandler receives reload and watch errors.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithWatchScheduler runs reloads through s.
func WithWatchScheduler(s reflow.Scheduler) WatcherOption {
	return func(w *Watcher) {
		w.schedule = s
	}
}

// WithEnv sets the environment layer applied on every reload.
func WithEnv(env *EnvLoader) WatcherOption {
	return func(w *Watcher) {
		w.env = env
	}
}

// NewWatcher starts watching path. onChange receives every successfully
// reloaded configuration.
func NewWatcher(path string, onChange func(Settings), opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	if _, err := FormatOf(abs); err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		env:      NewEnvLoader(EnvPrefix),
		onChange: onChange,
		delay:    DefaultWatchDebounce,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	var dopts []reflow.DebouncerOption
	if w.schedule != nil {
		dopts = append(dopts, reflow.WithTaskScheduler(w.schedule))
	}
	w.debounce = reflow.NewDebouncer(w.delay, w.reload, dopts...)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	w.watcher = fsw

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	w.debounce.Cancel()
	return w.watcher.Close()
}

func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.debounce.Trigger()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

// relevant reports whether ev touches the watched file in a way that can
// change its contents.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (w *Watcher) reload() {
	s, err := LoadWithEnv(w.path, w.env)
	if err != nil {
		w.report(err)
		return
	}
	if w.onChange != nil {
		w.onChange(s)
	}
}

func (w *Watcher) report(err error) {
	if err == nil || errors.Is(err, ErrWatcherClosed) {
		return
	}
	if w.onError != nil {
		w.onError(err)
	}
}
