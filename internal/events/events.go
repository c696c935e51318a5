// Package events defines the editor's event vocabulary and the MPSC
// channel that carries it from input sources into the drain loop
// (spec.md §4.4).
package events

// Kind discriminates an Event's payload.
type Kind int

const (
	Key Kind = iota
	Mouse
	Scroll
	Resize
	FileDrop
	InsertText
	SetMarkedText
	UnmarkText
	CursorBlink
	PtyWakeup
	FileChanged
	FileDeleted
	FileRenamed
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModPrimary // Cmd on macOS, Ctrl on other platforms
	ModAlt
)

// MouseButton identifies which button a Mouse event reports.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseRight
	MouseMiddle
)

// Event is a tagged union over every event kind the editor consumes.
// Only the fields relevant to Kind are populated.
type Event struct {
	Kind Kind

	// Key
	KeyCode   string
	Modifiers Modifiers

	// Mouse / Scroll
	X, Y     float32
	Button   MouseButton
	ScrollDx float32
	ScrollDy float32
	Dragging bool

	// Resize
	Width, Height float32

	// FileDrop
	Paths        []string
	DropPosition struct{ X, Y float32 }

	// InsertText / SetMarkedText
	Text              string
	MarkedSelFrom     int
	MarkedSelTo       int

	// FileChanged / FileDeleted / FileRenamed
	Path     string
	FromPath string
	ToPath   string
}

// IsUserInput reports whether e originates directly from the human
// operator (spec.md §4.4).
func (e Event) IsUserInput() bool {
	switch e.Kind {
	case Key, Mouse, Scroll, FileDrop, InsertText, SetMarkedText, UnmarkText:
		return true
	default:
		return false
	}
}

// IsPriorityEvent reports whether e must be dispatched before any
// PtyWakeup/CursorBlink in the same drain cycle.
func (e Event) IsPriorityEvent() bool {
	if e.IsUserInput() {
		return true
	}
	switch e.Kind {
	case Resize, FileChanged, FileDeleted, FileRenamed:
		return true
	default:
		return false
	}
}
