// Package app wires blankgrid's components together and runs the event
// loop.
//
// The application owns one grid document. Everything that touches the
// grid (key and mouse handling, debounced reflows, settings reloads) runs
// on the event-loop goroutine; timers and watchers hand their work to the
// loop through post.
package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dshills/blankgrid/internal/clipboard"
	"github.com/dshills/blankgrid/internal/config"
	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/host"
	"github.com/dshills/blankgrid/internal/logging"
	"github.com/dshills/blankgrid/internal/renderer"
	"github.com/dshills/blankgrid/internal/renderer/backend"
	"github.com/dshills/blankgrid/internal/renderer/statusline"
	"github.com/dshills/blankgrid/internal/session"
	"github.com/dshills/blankgrid/internal/store"
)

// taskQueueSize bounds the work timers and watchers may queue for the
// event loop.
const taskQueueSize = 64

// Application is the central coordinator for all blankgrid components.
// It manages component lifecycles, wiring, and the main event loop.
type Application struct {
	mu sync.RWMutex

	// Configuration
	opts     Options
	settings config.Settings
	watcher  *config.Watcher

	// Infrastructure
	logger  *logging.Logger
	logFile io.Closer
	store   store.Store
	clip    clipboard.Clipboard

	// Editor components
	host     *host.Memory
	session  *session.Session
	display  *renderer.Display
	renderer *renderer.Renderer
	backend  backend.Backend

	// Mouse drag state
	dragging   bool
	dragAnchor buffer.Position

	// State
	tasks       chan func()
	running     atomic.Bool
	done        chan struct{}
	closeOnce   sync.Once
	releaseOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty uses config.DefaultPath.
	ConfigPath string

	// DataDir overrides storage.dir.
	DataDir string

	// LogLevel overrides logging.level.
	LogLevel string

	// LogFile overrides logging.file.
	LogFile string

	// The fields below replace the default components. They are mostly
	// useful in tests.

	Store     store.Store
	Clipboard clipboard.Clipboard
	Display   *renderer.Display
	Logger    *logging.Logger
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath()
	}

	app := &Application{
		opts:  opts,
		tasks: make(chan func(), taskQueueSize),
		done:  make(chan struct{}),
	}

	if err := app.bootstrap(); err != nil {
		app.release()
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Settings
	st, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	st = app.override(st)
	if err := st.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.settings = st

	// 2. Logging
	if err := app.setupLogger(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	// 3. Storage and clipboard
	app.store = app.opts.Store
	if app.store == nil {
		fs, err := store.NewFileStore(st.Storage.Dir)
		if err != nil {
			return &InitError{Component: "store", Err: err}
		}
		app.store = fs
	}
	app.clip = app.opts.Clipboard
	if app.clip == nil {
		app.clip = clipboard.NewSystem()
	}

	// 4. Display and grid
	app.display = app.opts.Display
	if app.display == nil {
		app.display = renderer.NewDisplay()
	}
	app.host = host.NewMemory("")
	app.session = session.New(app.host,
		session.WithSettings(st),
		session.WithStore(app.store),
		session.WithClipboard(app.clip),
		session.WithDisplay(app.display),
		session.WithLogger(app.logger),
		session.WithScheduler(app.post),
	)

	app.logger.Info("config %s, data %s", app.opts.ConfigPath, st.Storage.Dir)
	return nil
}

// override applies the command-line options on top of loaded settings.
func (app *Application) override(st config.Settings) config.Settings {
	if app.opts.DataDir != "" {
		st.Storage.Dir = app.opts.DataDir
	}
	if app.opts.LogLevel != "" {
		st.Logging.Level = app.opts.LogLevel
	}
	if app.opts.LogFile != "" {
		st.Logging.File = app.opts.LogFile
	}
	return st
}

func (app *Application) setupLogger() error {
	if app.opts.Logger != nil {
		app.logger = app.opts.Logger.WithComponent("app")
		return nil
	}

	cfg := logging.DefaultConfig()
	cfg.Level = app.settings.LogLevel()
	if path := app.settings.Logging.File; path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return err
		}
		app.logFile = f
		cfg.Output = f
	}
	app.logger = logging.New(cfg).WithComponent("app")
	return nil
}

// SetBackend sets the rendering backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.mu.Lock()
	defer app.mu.Unlock()
	app.backend = b
	return nil
}

// Run starts the application main loop.
// Blocks until Shutdown is called or the user quits, in which case it
// returns ErrQuit.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.release()
	defer app.closeDone()

	if err := app.start(); err != nil {
		return err
	}
	defer app.stop()

	return app.eventLoop()
}

// start brings up the backend, the renderer and the session.
func (app *Application) start() error {
	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil {
		return &InitError{Component: "backend", Err: ErrNoBackend}
	}

	// The platform query has to run before the backend takes over the
	// terminal.
	app.display.Detect()

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}

	app.renderer = renderer.New(b, app.display)
	app.display.SetRefresh(app.host.Refresh)
	app.host.OnRefresh(app.renderer.MarkDirty)
	app.renderer.SetGrid(app.host)

	if err := app.session.Start(); err != nil {
		b.Shutdown()
		return &InitError{Component: "session", Err: err}
	}

	app.watch()
	return nil
}

// stop detaches the session and restores the terminal.
func (app *Application) stop() {
	app.session.Close()
	app.backend.Shutdown()
	app.logger.Info("stopped")
}

// watch starts reloading the settings file on change. The watcher is
// optional: without it settings apply on the next start.
func (app *Application) watch() {
	if _, err := os.Stat(filepath.Dir(app.opts.ConfigPath)); err != nil {
		app.logger.Debug("not watching %s: %v", app.opts.ConfigPath, err)
		return
	}

	w, err := config.NewWatcher(app.opts.ConfigPath, app.reload,
		config.WithWatchScheduler(app.post),
		config.WithErrorHandler(func(err error) {
			app.logger.Warn("reload settings: %v", err)
			go app.post(func() {
				app.renderer.StatusLine().SetMessage("settings: "+err.Error(), statusline.MessageError)
			})
		}),
	)
	if err != nil {
		app.logger.Warn("watch settings: %v", err)
		return
	}

	app.mu.Lock()
	app.watcher = w
	app.mu.Unlock()
}

// reload applies settings read from disk. Runs on the event loop.
func (app *Application) reload(st config.Settings) {
	st = app.override(st)
	if err := st.Validate(); err != nil {
		app.logger.Warn("reload settings: %v", err)
		return
	}

	app.mu.Lock()
	app.settings = st
	app.mu.Unlock()

	app.logger.SetLevel(st.LogLevel())
	app.session.ApplySettings(st)
	if app.renderer != nil {
		app.renderer.StatusLine().SetMessage("settings reloaded", statusline.MessageInfo)
	}
	app.logger.Info("settings reloaded")
}

// post queues task for the event loop. It drops the task once the
// application has shut down.
func (app *Application) post(task func()) {
	select {
	case app.tasks <- task:
	case <-app.done:
	}
}

// Shutdown initiates graceful shutdown.
func (app *Application) Shutdown() {
	app.closeDone()
	if !app.running.Load() {
		app.release()
	}
}

func (app *Application) closeDone() {
	app.closeOnce.Do(func() {
		close(app.done)
	})
}

// release closes the watcher and the log file.
func (app *Application) release() {
	app.releaseOnce.Do(func() {
		app.mu.Lock()
		w := app.watcher
		app.watcher = nil
		app.mu.Unlock()

		if w != nil {
			if err := w.Close(); err != nil && !errors.Is(err, config.ErrWatcherClosed) {
				app.logger.Warn("close watcher: %v", err)
			}
		}
		if app.logFile != nil {
			_ = app.logFile.Close()
		}
	})
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Settings returns the active settings.
func (app *Application) Settings() config.Settings {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.settings
}

// Session returns the editing session.
func (app *Application) Session() *session.Session {
	return app.session
}

// Host returns the grid host.
func (app *Application) Host() *host.Memory {
	return app.host
}

// Renderer returns the renderer, or nil before Run.
func (app *Application) Renderer() *renderer.Renderer {
	return app.renderer
}
