package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/blankgrid/internal/renderer/core"
)

// Terminal draws on a tcell screen.
//
// A bracketed paste arrives as one EventPaste holding the pasted text, so
// the keys inside a paste are never reported one by one.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

var _ Backend = (*Terminal)(nil)

// NewTerminal opens the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTerminalWithScreen(screen), nil
}

func newTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// locked runs fn while holding the screen lock.
func (t *Terminal) locked(fn func(s tcell.Screen)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.screen)
}

func (t *Terminal) Init() error {
	var err error
	t.locked(func(s tcell.Screen) {
		if err = s.Init(); err != nil {
			return
		}
		s.EnableMouse(tcell.MouseDragEvents)
		s.EnablePaste()
		s.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	})
	return err
}

func (t *Terminal) Shutdown() {
	t.locked(func(s tcell.Screen) { s.Fini() })
}

func (t *Terminal) Size() (width, height int) {
	t.locked(func(s tcell.Screen) { width, height = s.Size() })
	return width, height
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.locked(func(s tcell.Screen) {
		s.SetContent(x, y, cell.Rune, nil, toTcellStyle(cell.Style))
	})
}

func (t *Terminal) GetCell(x, y int) core.Cell {
	var cell core.Cell
	t.locked(func(s tcell.Screen) {
		r, _, style, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		cell = core.NewStyledCell(r, fromTcellStyle(style))
	})
	return cell
}

func (t *Terminal) Clear() {
	t.locked(func(s tcell.Screen) { s.Clear() })
}

func (t *Terminal) Show() {
	t.locked(func(s tcell.Screen) { s.Show() })
}

func (t *Terminal) ShowCursor(x, y int) {
	t.locked(func(s tcell.Screen) { s.ShowCursor(x, y) })
}

func (t *Terminal) HideCursor() {
	t.locked(func(s tcell.Screen) { s.HideCursor() })
}

func (t *Terminal) Beep() {
	t.locked(func(s tcell.Screen) { _ = s.Beep() })
}

// PollEvent blocks for the next event the editor understands.
func (t *Terminal) PollEvent() Event {
	var paste *strings.Builder

	for {
		ev := t.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return Event{Type: EventClosed}

		case *tcell.EventPaste:
			switch {
			case e.Start():
				paste = &strings.Builder{}
			case paste != nil:
				return Event{Type: EventPaste, PasteText: paste.String()}
			}

		case *tcell.EventKey:
			if paste != nil {
				writePasteKey(paste, e)
				continue
			}
			if out := keyEvent(e); out.Key != KeyNone {
				return out
			}

		case *tcell.EventMouse:
			if paste == nil {
				return mouseEvent(e)
			}

		case *tcell.EventResize:
			w, h := e.Size()
			return Event{Type: EventResize, Width: w, Height: h}
		}
	}
}

// PostEvent injects key events into the screen's queue. Other event
// types are dropped.
func (t *Terminal) PostEvent(event Event) {
	if event.Type != EventKey {
		return
	}
	_ = t.screen.PostEvent(tcell.NewEventKey(tcellKey(event.Key), event.Rune, tcellMod(event.Mod)))
}

func writePasteKey(b *strings.Builder, k *tcell.EventKey) {
	switch k.Key() {
	case tcell.KeyRune:
		b.WriteRune(k.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		b.WriteByte('\n')
	case tcell.KeyTab:
		b.WriteByte('\t')
	}
}

// keyTable lists the bindable keys. When a key has two tcell names the
// first one is used for PostEvent.
var keyTable = []struct {
	tcell tcell.Key
	key   Key
}{
	{tcell.KeyRune, KeyRune},
	{tcell.KeyEscape, KeyEscape},
	{tcell.KeyEnter, KeyEnter},
	{tcell.KeyTab, KeyTab},
	{tcell.KeyBacktab, KeyBacktab},
	{tcell.KeyBackspace, KeyBackspace},
	{tcell.KeyBackspace2, KeyBackspace},
	{tcell.KeyDelete, KeyDelete},
	{tcell.KeyHome, KeyHome},
	{tcell.KeyEnd, KeyEnd},
	{tcell.KeyPgUp, KeyPageUp},
	{tcell.KeyPgDn, KeyPageDown},
	{tcell.KeyUp, KeyUp},
	{tcell.KeyDown, KeyDown},
	{tcell.KeyLeft, KeyLeft},
	{tcell.KeyRight, KeyRight},
	{tcell.KeyCtrlSpace, KeyCtrlSpace},
	{tcell.KeyCtrlC, KeyCtrlC},
	{tcell.KeyCtrlD, KeyCtrlD},
	{tcell.KeyCtrlQ, KeyCtrlQ},
	{tcell.KeyCtrlV, KeyCtrlV},
	{tcell.KeyCtrlX, KeyCtrlX},
}

func fromTcellKey(k tcell.Key) Key {
	for _, e := range keyTable {
		if e.tcell == k {
			return e.key
		}
	}
	return KeyNone
}

func tcellKey(k Key) tcell.Key {
	for _, e := range keyTable {
		if e.key == k {
			return e.tcell
		}
	}
	return tcell.KeyRune
}

func keyEvent(e *tcell.EventKey) Event {
	return Event{
		Type: EventKey,
		Key:  fromTcellKey(e.Key()),
		Rune: e.Rune(),
		Mod:  fromTcellMod(e.Modifiers()),
	}
}

func mouseEvent(e *tcell.EventMouse) Event {
	x, y := e.Position()
	return Event{
		Type:        EventMouse,
		MouseX:      x,
		MouseY:      y,
		MouseButton: fromTcellButtons(e.Buttons()),
		Mod:         fromTcellMod(e.Modifiers()),
	}
}

var modTable = []struct {
	tcell tcell.ModMask
	mod   ModMask
}{
	{tcell.ModShift, ModShift},
	{tcell.ModCtrl, ModCtrl},
	{tcell.ModAlt, ModAlt},
	{tcell.ModMeta, ModMeta},
}

func fromTcellMod(m tcell.ModMask) ModMask {
	var out ModMask
	for _, e := range modTable {
		if m&e.tcell != 0 {
			out |= e.mod
		}
	}
	return out
}

func tcellMod(m ModMask) tcell.ModMask {
	var out tcell.ModMask
	for _, e := range modTable {
		if m.Has(e.mod) {
			out |= e.tcell
		}
	}
	return out
}

// fromTcellButtons reports the first held button; wheel notches come
// after the real buttons.
func fromTcellButtons(b tcell.ButtonMask) MouseButton {
	buttons := []struct {
		mask   tcell.ButtonMask
		button MouseButton
	}{
		{tcell.Button1, MouseLeft},
		{tcell.Button2, MouseMiddle},
		{tcell.Button3, MouseRight},
		{tcell.WheelUp, MouseWheelUp},
		{tcell.WheelDown, MouseWheelDown},
	}
	for _, e := range buttons {
		if b&e.mask != 0 {
			return e.button
		}
	}
	return MouseNone
}

var attrTable = []struct {
	tcell tcell.AttrMask
	attr  core.Attribute
}{
	{tcell.AttrBold, core.AttrBold},
	{tcell.AttrDim, core.AttrDim},
	{tcell.AttrReverse, core.AttrReverse},
}

func toTcellStyle(s core.Style) tcell.Style {
	var attrs tcell.AttrMask
	for _, e := range attrTable {
		if s.Attributes.Has(e.attr) {
			attrs |= e.tcell
		}
	}
	return tcell.StyleDefault.
		Foreground(toTcellColor(s.Foreground)).
		Background(toTcellColor(s.Background)).
		Attributes(attrs)
}

func fromTcellStyle(ts tcell.Style) core.Style {
	fg, bg, attrs := ts.Decompose()
	s := core.NewStyle(fromTcellColor(fg), fromTcellColor(bg))
	for _, e := range attrTable {
		if attrs&e.tcell != 0 {
			s.Attributes |= e.attr
		}
	}
	return s
}

func toTcellColor(c core.Color) tcell.Color {
	switch {
	case c.Default:
		return tcell.ColorDefault
	case c.Indexed:
		return tcell.PaletteColor(int(c.R))
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

func fromTcellColor(tc tcell.Color) core.Color {
	switch {
	case tc == tcell.ColorDefault:
		return core.ColorDefault
	case tc&tcell.ColorIsRGB == 0:
		return core.ColorFromIndex(uint8(tc - tcell.ColorValid))
	default:
		r, g, b := tc.RGB()
		return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
	}
}
