// Package session owns the editing state of one document and wires the
// grid engine to a host widget.
//
// A Session is the host's Listener. Every proposed change goes through the
// edit guard, every proposed selection through the normalizer, every
// applied change is saved and re-arms the reflow debouncer, and every
// reflow pass rescans the directives and hands the result to the display.
//
// A Session is not safe for concurrent use. It belongs to the goroutine
// that owns its host; debounced reflows are posted there through the
// Scheduler given with WithScheduler.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/blankgrid/internal/clipboard"
	"github.com/dshills/blankgrid/internal/config"
	"github.com/dshills/blankgrid/internal/engine/buffer"
	"github.com/dshills/blankgrid/internal/engine/cursor"
	"github.com/dshills/blankgrid/internal/engine/directive"
	"github.com/dshills/blankgrid/internal/engine/grid"
	"github.com/dshills/blankgrid/internal/engine/guard"
	"github.com/dshills/blankgrid/internal/host"
	"github.com/dshills/blankgrid/internal/logging"
	"github.com/dshills/blankgrid/internal/reflow"
	"github.com/dshills/blankgrid/internal/store"
)

// DefaultDocument is shown when nothing has been stored yet.
const DefaultDocument = "\n   blank.\n"

// Display receives every scanned configuration.
type Display interface {
	Apply(cfg directive.Config)
}

// Session is one editing session over a host.
type Session struct {
	id      string
	host    host.Host
	store   store.Store
	clip    clipboard.Clipboard
	display Display
	logger  *logging.Logger

	reflow   *reflow.Controller
	dims     grid.Dimensions
	scanner  *directive.Scanner
	delay    time.Duration
	schedule reflow.Scheduler

	tabSize int
	start   buffer.Position
	config  directive.Config
	started bool

	// block is the unnormalized drag of the current block selection.
	block     *buffer.Range
	selecting bool
}

var _ host.Listener = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithStore sets where the text and caret are persisted.
func WithStore(st store.Store) Option {
	return func(s *Session) {
		s.store = st
	}
}

// WithClipboard sets the clipboard used by Cut.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(s *Session) {
		s.clip = c
	}
}

// WithDisplay sets the receiver of scanned configurations.
func WithDisplay(d Display) Option {
	return func(s *Session) {
		s.display = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithScheduler posts debounced reflows through sched.
func WithScheduler(sched reflow.Scheduler) Option {
	return func(s *Session) {
		s.schedule = sched
	}
}

// WithSettings applies the grid, editor and display settings.
func WithSettings(st config.Settings) Option {
	return func(s *Session) {
		s.dims = st.Dimensions()
		s.scanner = st.Scanner()
		s.delay = st.ReflowDelay()
		s.tabSize = st.Editor.TabSize
		s.start = st.StartCursor()
	}
}

// New creates a session over h. Nothing touches h until Start.
func New(h host.Host, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		host:    h,
		store:   store.NewMemory(),
		clip:    clipboard.NewMemory(),
		logger:  logging.Null(),
		dims:    grid.DefaultDimensions(),
		scanner: directive.NewScanner(),
		delay:   reflow.DefaultDelay,
		tabSize: guard.DefaultIndentUnit,
		start:   buffer.Pos(3, 8),
		config:  directive.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("session").WithField("session", s.id)

	ropts := []reflow.Option{
		reflow.WithDimensions(s.dims),
		reflow.WithScanner(s.scanner),
		reflow.WithDelay(s.delay),
		reflow.WithConfigHandler(s.applyConfig),
	}
	if s.schedule != nil {
		ropts = append(ropts, reflow.WithScheduler(s.schedule))
	}
	s.reflow = reflow.NewController(h, ropts...)
	return s
}

// ID returns the session identifier carried by every log line.
func (s *Session) ID() string {
	return s.id
}

// Host returns the host the session drives.
func (s *Session) Host() host.Host {
	return s.host
}

// Reflow returns the reflow controller.
func (s *Session) Reflow() *reflow.Controller {
	return s.reflow
}

// Config returns the configuration of the last scan.
func (s *Session) Config() directive.Config {
	return s.config
}

// TabSize returns the indent unit.
func (s *Session) TabSize() int {
	return s.tabSize
}

// Start loads the document, fills it to the grid, registers the hooks,
// restores the caret and applies the document's directives.
//
// A missing document yields DefaultDocument and a missing or unreadable
// caret yields the start position; any other load failure is returned.
func (s *Session) Start() error {
	if s.started {
		return ErrAlreadyStarted
	}

	text, err := s.store.Load()
	switch {
	case err == nil:
	case store.IsNotFound(err):
		s.logger.Debug("no stored document, using default")
	default:
		return fmt.Errorf("load document: %w", err)
	}
	if text == "" {
		text = DefaultDocument
	}

	s.host.SetText(grid.Fill(text, s.dims))
	s.host.SetOverwrite(true)
	s.host.Listen(s)
	s.started = true

	caret, err := s.store.LoadCursor()
	if err != nil {
		s.logger.Debug("cursor fallback to %s: %v", s.start, err)
		caret = s.start
	}
	s.host.SetCursor(caret)

	s.applyConfig(s.reflow.Scan())
	s.logger.Info("session started with %d lines", s.lineCount())
	return nil
}

// Close cancels the pending reflow and detaches the hooks.
func (s *Session) Close() {
	if !s.started {
		return
	}
	s.reflow.Stop()
	s.host.Listen(nil)
	s.started = false
	s.logger.Info("session closed")
}

// ApplySettings switches to new grid, editor and display settings and
// runs a reflow pass so they take effect at once.
func (s *Session) ApplySettings(st config.Settings) {
	s.dims = st.Dimensions()
	s.scanner = st.Scanner()
	s.delay = st.ReflowDelay()
	s.tabSize = st.Editor.TabSize
	s.start = st.StartCursor()

	s.reflow.SetDimensions(s.dims)
	s.reflow.SetScanner(s.scanner)
	s.reflow.SetDelay(s.delay)
	if s.started {
		s.reflow.Now()
	}
}

// BeforeChange runs a proposed change through the edit guard. Rejected
// changes are canceled and replaced by the guard's overwrites.
func (s *Session) BeforeChange(ev *host.ChangeEvent) {
	d := guard.Decide(guard.Edit{
		Origin:     ev.Origin,
		Text:       ev.Text,
		Selections: ev.Ranges,
		Cursor:     s.host.Cursor(),
	})
	if ev.Origin != host.OriginOverwrite {
		s.logger.Debug("change %s: %s", ev.Origin, d.State)
	}
	if d.Accept {
		return
	}
	ev.Cancel()
	s.apply(d, host.OriginOverwrite)
}

// AfterChange saves the text and re-arms the reflow. Whole-text
// replacements are the reflow's own and are ignored.
func (s *Session) AfterChange(ev host.ChangeEvent) {
	if ev.Origin == host.OriginSetValue {
		return
	}
	s.save()
	s.reflow.Schedule()
}

// BeforeSelectionChange squares every proposed selection into a block.
func (s *Session) BeforeSelectionChange(ev *host.SelectionEvent) {
	if ranges := cursor.Normalize(ev.Ranges); ranges != nil {
		ev.Update(ranges)
	}
}

// CursorActivity persists the caret.
func (s *Session) CursorActivity(caret buffer.Position) {
	if !s.selecting {
		s.block = nil
	}
	if err := s.store.SaveCursor(caret); err != nil {
		s.logger.Error("save cursor: %v", err)
	}
}

// apply performs a Decision's overwrites, moves the caret and runs an
// immediate reflow when asked. Overwrites on rows past the end of the
// document are dropped.
func (s *Session) apply(d guard.Decision, origin host.Origin) {
	if len(d.Ops) > 0 {
		lines := s.lineCount()
		for _, op := range d.Ops {
			if op.From.Line >= lines {
				s.logger.Debug("dropped overwrite at %s past line %d", op.From, lines)
				continue
			}
			s.host.ReplaceRange(op.Text, op.From, op.To, origin)
		}
	}
	if d.Cursor != nil {
		s.host.SetCursor(*d.Cursor)
	}
	if d.FillNow {
		s.reflow.Now()
	}
}

func (s *Session) applyConfig(cfg directive.Config) {
	s.config = cfg
	s.logger.Debug("config schema=%s font=%q size=%g", cfg.Schema, cfg.Font, cfg.Size)
	if s.display != nil {
		s.display.Apply(cfg)
		return
	}
	s.host.Refresh()
}

func (s *Session) save() {
	if err := s.store.Save(s.host.Text()); err != nil {
		s.logger.Error("save document: %v", err)
	}
}

func (s *Session) lineCount() int {
	return strings.Count(s.host.Text(), "\n") + 1
}

func (s *Session) lineText(line int) string {
	return s.host.Range(buffer.Pos(line, 0), buffer.Pos(line, maxCh))
}

// maxCh reaches past the end of any line; the host clips it.
const maxCh = int(^uint(0) >> 1)
