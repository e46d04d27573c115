package backend

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventPaste
	// EventClosed is returned once the backend has shut down.
	EventClosed
)

// Event is one input event.
type Event struct {
	Type EventType

	// Key events
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse events
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize events
	Width, Height int

	// PasteText holds the whole bracketed paste.
	PasteText string
}

// Key names the keys the editor binds. Everything else arrives as
// KeyNone and is ignored.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlSpace
	KeyCtrlC
	KeyCtrlD
	KeyCtrlQ
	KeyCtrlV
	KeyCtrlX
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton is the button held during a mouse event. MouseNone means
// all buttons are up.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)
