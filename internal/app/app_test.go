package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dshills/blankgrid/internal/clipboard"
	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/renderer"
	"github.com/dshills/blankgrid/internal/renderer/backend"
	"github.com/dshills/blankgrid/internal/store"
)

const testConfig = `
[grid]
rows = 5
columns = 30

[editor]
reflowDelay = 3600000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

type testApp struct {
	*Application
	store   *store.Memory
	clip    *clipboard.Memory
	backend *backend.NullBackend
}

func newTestApp(t *testing.T, width, height int) *testApp {
	t.Helper()
	ta := &testApp{
		store:   store.NewMemory(),
		clip:    clipboard.NewMemory(),
		backend: backend.NewNullBackend(width, height),
	}

	a, err := New(Options{
		ConfigPath: writeConfig(t, testConfig),
		Store:      ta.store,
		Clipboard:  ta.clip,
		Display:    renderer.NewDisplay(renderer.WithDarkDetector(func() bool { return true })),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.SetBackend(ta.backend); err != nil {
		t.Fatalf("SetBackend: %v", err)
	}
	ta.Application = a
	return ta
}

// startTestApp brings the application up without the event loop so
// events can be handled synchronously.
func startTestApp(t *testing.T, width, height int) *testApp {
	t.Helper()
	ta := newTestApp(t, width, height)
	if err := ta.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() {
		ta.stop()
		ta.Shutdown()
	})
	return ta
}

func (ta *testApp) key(t *testing.T, ev backend.Event) {
	t.Helper()
	ev.Type = backend.EventKey
	if err := ta.handleBackendEvent(ev); err != nil {
		t.Fatalf("handle %+v: %v", ev, err)
	}
}

func (ta *testApp) line(n int) string {
	return strings.TrimRight(ta.host.LineText(n), " ")
}

func waitRunning(t *testing.T, a *Application) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !a.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("application did not start")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewApplication(t *testing.T) {
	ta := newTestApp(t, 40, 8)
	defer ta.Shutdown()

	st := ta.Settings()
	if st.Grid.Rows != 5 || st.Grid.Columns != 30 {
		t.Errorf("grid = %dx%d, want 5x30", st.Grid.Rows, st.Grid.Columns)
	}
	if ta.IsRunning() {
		t.Error("application should not be running before Run")
	}
	if ta.Renderer() != nil {
		t.Error("renderer should not exist before Run")
	}
	if ta.Session() == nil || ta.Host() == nil {
		t.Error("session and host should be created by New")
	}
}

func TestNewOverrides(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	logFile := filepath.Join(dir, "logs", "blankgrid.log")

	a, err := New(Options{
		ConfigPath: writeConfig(t, testConfig),
		DataDir:    dataDir,
		LogLevel:   "debug",
		LogFile:    logFile,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Shutdown()

	st := a.Settings()
	if st.Storage.Dir != dataDir || st.Logging.Level != "debug" || st.Logging.File != logFile {
		t.Errorf("overrides not applied: %+v, %+v", st.Storage, st.Logging)
	}
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		t.Errorf("data dir not created: %v", err)
	}
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name      string
		config    string
		opts      Options
		component string
	}{
		{"invalid config", "[grid]\nrows = -1\n", Options{}, "config"},
		{"malformed config", "[grid\n", Options{}, "config"},
		{"invalid log level", testConfig, Options{LogLevel: "loud"}, "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.ConfigPath = writeConfig(t, tt.config)
			opts.Store = store.NewMemory()

			_, err := New(opts)

			var initErr *InitError
			if !errors.As(err, &initErr) || initErr.Component != tt.component {
				t.Errorf("New = %v, want an InitError for %s", err, tt.component)
			}
		})
	}
}

func TestRunWithoutBackend(t *testing.T) {
	a, err := New(Options{ConfigPath: writeConfig(t, testConfig), Store: store.NewMemory()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := a.Run(); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run = %v, want ErrNoBackend", err)
	}
	if a.IsRunning() {
		t.Error("application should not be running after a failed Run")
	}
}

func TestRunEditsAndQuits(t *testing.T) {
	ta := newTestApp(t, 40, 8)

	ta.backend.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'x'})
	ta.backend.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlQ})

	errc := make(chan error, 1)
	go func() { errc <- ta.Run() }()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrQuit) {
			t.Errorf("Run = %v, want ErrQuit", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Ctrl-Q")
	}

	stored, err := ta.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := "\n   blank.\n\n        x"; stored != want {
		t.Errorf("stored = %q, want %q", stored, want)
	}
	if ta.IsRunning() {
		t.Error("application should stop after Run returns")
	}
	if ta.backend.Shows() == 0 {
		t.Error("Run should have drawn at least one frame")
	}
}

func TestRunTwice(t *testing.T) {
	ta := newTestApp(t, 40, 8)

	errc := make(chan error, 1)
	go func() { errc <- ta.Run() }()
	waitRunning(t, ta.Application)

	if err := ta.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run = %v, want ErrAlreadyRunning", err)
	}
	if err := ta.SetBackend(backend.NewNullBackend(10, 10)); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("SetBackend while running = %v, want ErrAlreadyRunning", err)
	}

	ta.Shutdown()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run after Shutdown = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestShutdownIdempotent(t *testing.T) {
	ta := newTestApp(t, 40, 8)

	ta.Shutdown()
	ta.Shutdown()

	// post must not block once the application is done.
	for i := 0; i < taskQueueSize*2; i++ {
		ta.post(func() {})
	}
}

func TestTyping(t *testing.T) {
	ta := startTestApp(t, 40, 8)
	ta.host.SetCursor(buffer.Pos(1, 3))

	ta.key(t, backend.Event{Key: backend.KeyRune, Rune: 'B'})
	if got := ta.line(1); got != "   Blank." {
		t.Errorf("line 1 = %q", got)
	}

	ta.key(t, backend.Event{Key: backend.KeyRune, Rune: 'q', Mod: backend.ModCtrl})
	if got := ta.line(1); got != "   Blank." {
		t.Errorf("a Ctrl rune must not type, line 1 = %q", got)
	}

	ta.key(t, backend.Event{Key: backend.KeyBackspace})
	if got := ta.line(1); got != "    lank." {
		t.Errorf("after Backspace line 1 = %q", got)
	}

	ta.key(t, backend.Event{Key: backend.KeyCtrlD})
	if got := ta.line(1); got != "    lank." || ta.host.Cursor() != buffer.Pos(1, 2) {
		t.Errorf("after Ctrl-D line 1 = %q, caret %v", got, ta.host.Cursor())
	}
}

func TestShiftSpaceKeys(t *testing.T) {
	tests := []struct {
		name  string
		ev    backend.Event
		line  string
		caret buffer.Position
	}{
		// Ctrl-Space inserts and pushes the line right.
		{"ctrl space", backend.Event{Key: backend.KeyCtrlSpace}, "    blank.", buffer.Pos(1, 0)},
		// A space rune always overwrites, whatever modifiers it reports.
		{"space rune", backend.Event{Key: backend.KeyRune, Rune: ' ', Mod: backend.ModShift}, "   blank.", buffer.Pos(1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := startTestApp(t, 40, 8)
			ta.host.SetCursor(buffer.Pos(1, 0))

			ta.key(t, tt.ev)

			if got := ta.line(1); got != tt.line {
				t.Errorf("line 1 = %q, want %q", got, tt.line)
			}
			if got := ta.host.Cursor(); got != tt.caret {
				t.Errorf("Cursor = %v, want %v", got, tt.caret)
			}
		})
	}
}

func TestCopyPasteKeys(t *testing.T) {
	ta := startTestApp(t, 40, 8)

	// An empty clipboard pastes nothing.
	ta.host.SetCursor(buffer.Pos(0, 0))
	ta.key(t, backend.Event{Key: backend.KeyCtrlV})
	if got := ta.line(0); got != "" {
		t.Errorf("line 0 = %q after pasting nothing", got)
	}

	ta.Session().SelectBlock(buffer.Pos(1, 3), buffer.Pos(1, 8))
	ta.key(t, backend.Event{Key: backend.KeyCtrlC})
	if got := ta.clip.Text(); got != "blank" {
		t.Fatalf("clipboard = %q", got)
	}

	ta.host.SetCursor(buffer.Pos(0, 0))
	ta.key(t, backend.Event{Key: backend.KeyCtrlV})
	if got := ta.line(0); got != "blank" {
		t.Errorf("line 0 = %q after paste", got)
	}

	ta.Session().SelectBlock(buffer.Pos(0, 0), buffer.Pos(0, 5))
	ta.key(t, backend.Event{Key: backend.KeyCtrlX})
	if got := ta.line(0); got != "" {
		t.Errorf("line 0 = %q after cut", got)
	}
}

// failingClipboard implements clipboard.Clipboard for testing.
type failingClipboard struct{}

func (failingClipboard) WriteText(string) error    { return errors.New("no display") }
func (failingClipboard) ReadText() (string, error) { return "", errors.New("no display") }

func TestPasteErrorIsReported(t *testing.T) {
	a, err := New(Options{
		ConfigPath: writeConfig(t, testConfig),
		Store:      store.NewMemory(),
		Clipboard:  failingClipboard{},
		Display:    renderer.NewDisplay(renderer.WithDarkDetector(func() bool { return false })),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b := backend.NewNullBackend(60, 8)
	_ = a.SetBackend(b)
	if err := a.start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		a.stop()
		a.Shutdown()
	}()

	err = a.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlV})

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Command != "paste" {
		t.Fatalf("paste = %v, want a CommandError", err)
	}
	a.report(err)
	if msg := a.Renderer().StatusLine().Message(); msg != "paste clipboard: no display" {
		t.Errorf("status message = %q", msg)
	}
	if b.Beeps() != 1 {
		t.Errorf("Beeps = %d, want 1", b.Beeps())
	}

	a.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRight})
	if msg := a.Renderer().StatusLine().Message(); msg != "" {
		t.Errorf("a key press should clear the message, got %q", msg)
	}
}

func TestNavigationKeys(t *testing.T) {
	ta := startTestApp(t, 40, 8)
	ta.host.SetCursor(buffer.Pos(1, 5))

	steps := []struct {
		ev   backend.Event
		want buffer.Position
	}{
		{backend.Event{Key: backend.KeyRight}, buffer.Pos(1, 6)},
		{backend.Event{Key: backend.KeyDown}, buffer.Pos(2, 6)},
		{backend.Event{Key: backend.KeyUp}, buffer.Pos(1, 6)},
		{backend.Event{Key: backend.KeyEnd}, buffer.Pos(1, 9)},
		{backend.Event{Key: backend.KeyHome}, buffer.Pos(1, 0)},
		{backend.Event{Key: backend.KeyLeft}, buffer.Pos(1, 0)},
		// Past the last line the caret clips to its end.
		{backend.Event{Key: backend.KeyPageDown}, buffer.Pos(4, 30)},
		{backend.Event{Key: backend.KeyPageUp}, buffer.Pos(0, 30)},
	}
	for i, step := range steps {
		ta.key(t, step.ev)
		if got := ta.host.Cursor(); got != step.want {
			t.Errorf("step %d: Cursor = %v, want %v", i, got, step.want)
		}
	}
}

func TestShiftArrowsSelectBlock(t *testing.T) {
	ta := startTestApp(t, 40, 8)
	ta.host.SetCursor(buffer.Pos(1, 3))

	ta.key(t, backend.Event{Key: backend.KeyDown, Mod: backend.ModShift})
	ta.key(t, backend.Event{Key: backend.KeyRight, Mod: backend.ModShift})
	ta.key(t, backend.Event{Key: backend.KeyRight, Mod: backend.ModShift})

	block, ok := ta.Session().Block()
	if !ok || block.Anchor != buffer.Pos(1, 3) || block.Head != buffer.Pos(2, 5) {
		t.Fatalf("Block = %v, %v", block, ok)
	}
	if sel := ta.host.Selections(); len(sel) != 2 {
		t.Errorf("Selections = %v, want 2 rows", sel)
	}

	ta.key(t, backend.Event{Key: backend.KeyEscape})
	if _, ok := ta.Session().Block(); ok {
		t.Error("Escape should drop the block")
	}
	if sel := ta.host.Selections(); !buffer.IsCaret(sel) {
		t.Errorf("Selections = %v, want a caret", sel)
	}
}

func TestEditingKeys(t *testing.T) {
	ta := startTestApp(t, 40, 8)
	ta.host.SetCursor(buffer.Pos(1, 3))

	ta.key(t, backend.Event{Key: backend.KeyTab})
	if got := ta.line(1); got != "     blank." {
		t.Errorf("after Tab line 1 = %q", got)
	}

	ta.key(t, backend.Event{Key: backend.KeyBacktab})
	if got := ta.line(1); got != "   blank." {
		t.Errorf("after Backtab line 1 = %q", got)
	}

	ta.host.SetCursor(buffer.Pos(1, 3))
	ta.key(t, backend.Event{Key: backend.KeyDelete})
	if got := ta.line(1); got != "    lank." {
		t.Errorf("after Delete line 1 = %q", got)
	}

	ta.host.SetCursor(buffer.Pos(1, 8))
	ta.key(t, backend.Event{Key: backend.KeyEnter})
	if got := ta.host.Cursor(); got != buffer.Pos(2, 4) {
		t.Errorf("after Enter Cursor = %v, want 2:4", got)
	}
}

func TestMouse(t *testing.T) {
	ta := startTestApp(t, 40, 8)
	mouse := func(x, y int, button backend.MouseButton) {
		ta.handleBackendEvent(backend.Event{Type: backend.EventMouse, MouseX: x, MouseY: y, MouseButton: button})
	}

	mouse(4, 2, backend.MouseLeft)
	if got := ta.host.Cursor(); got != buffer.Pos(2, 4) {
		t.Errorf("click Cursor = %v, want 2:4", got)
	}

	mouse(6, 3, backend.MouseLeft)
	block, ok := ta.Session().Block()
	if !ok || block.Anchor != buffer.Pos(2, 4) || block.Head != buffer.Pos(3, 6) {
		t.Errorf("drag Block = %v, %v", block, ok)
	}

	mouse(6, 3, backend.MouseNone)
	mouse(1, 0, backend.MouseLeft)
	if got := ta.host.Cursor(); got != buffer.Pos(0, 1) {
		t.Errorf("second click Cursor = %v, want 0:1", got)
	}
	if _, ok := ta.Session().Block(); ok {
		t.Error("a new click should end the block")
	}

	// The status row is not part of the grid.
	mouse(0, 7, backend.MouseNone)
	mouse(0, 7, backend.MouseLeft)
	if got := ta.host.Cursor(); got != buffer.Pos(0, 1) {
		t.Errorf("status row click moved the caret to %v", got)
	}
}

func TestWheelScrolls(t *testing.T) {
	ta := startTestApp(t, 40, 4)
	r := ta.Renderer()
	r.Render()

	if r.Viewport().TopLine() == 0 {
		t.Fatal("the start caret should scroll the view")
	}

	ta.handleBackendEvent(backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelUp})
	r.MarkDirty()
	r.Render()

	if r.Viewport().TopLine() != 0 {
		t.Errorf("TopLine = %d after wheel up, want 0", r.Viewport().TopLine())
	}
}

func TestPasteAndResizeEvents(t *testing.T) {
	ta := startTestApp(t, 40, 8)
	ta.host.SetCursor(buffer.Pos(0, 2))

	ta.handleBackendEvent(backend.Event{Type: backend.EventPaste, PasteText: "ab\ncd"})
	if ta.line(0) != "  ab" || ta.line(1) != "  cdlank." {
		t.Errorf("lines = %q, %q", ta.line(0), ta.line(1))
	}

	ta.handleBackendEvent(backend.Event{Type: backend.EventResize, Width: 50, Height: 12})
	if v := ta.Renderer().Viewport(); v.Width() != 50 || v.Height() != 11 {
		t.Errorf("viewport = %dx%d, want 50x11", v.Width(), v.Height())
	}
}

func TestQuitKey(t *testing.T) {
	ta := startTestApp(t, 40, 8)

	err := ta.handleBackendEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlQ})
	if !errors.Is(err, ErrQuit) {
		t.Errorf("Ctrl-Q = %v, want ErrQuit", err)
	}
}

func TestReloadAppliesSettings(t *testing.T) {
	ta := startTestApp(t, 40, 8)

	st := ta.Settings()
	st.Grid.Columns = 40
	ta.reload(st)

	if got := utf8.RuneCountInString(ta.host.LineText(0)); got != 40 {
		t.Errorf("line width = %d after reload, want 40", got)
	}
	if ta.Settings().Grid.Columns != 40 {
		t.Errorf("Settings not updated: %+v", ta.Settings().Grid)
	}
	if msg := ta.Renderer().StatusLine().Message(); msg != "settings reloaded" {
		t.Errorf("status message = %q", msg)
	}

	bad := ta.Settings()
	bad.Editor.TabSize = 0
	ta.reload(bad)
	if ta.Settings().Editor.TabSize == 0 {
		t.Error("an invalid reload must keep the previous settings")
	}
}
