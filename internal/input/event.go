package input

import (
	"fmt"

	"github.com/dshills/scribe/internal/input/key"
)

// EventType identifies the kind of input event.
type EventType uint8

const (
	// EventKey is a key press.
	EventKey EventType = iota

	// EventMouse is a mouse button click.
	EventMouse

	// EventResize reports new terminal dimensions.
	EventResize
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventMouse:
		return "mouse"
	case EventResize:
		return "resize"
	default:
		return fmt.Sprintf("event(%d)", t)
	}
}

// Event is a single input event delivered by a backend.
//
// Only the fields relevant to Type are set: Key for key presses, Row, Col
// and Key.Modifiers for mouse clicks, Rows and Cols for resizes.
type Event struct {
	Type EventType

	// Key is the pressed key and its modifiers.
	Key key.Event

	// Row and Col are the screen cell of a mouse click.
	Row int
	Col int

	// Rows and Cols are the new terminal size.
	Rows int
	Cols int
}

// KeyEvent creates a key press event.
func KeyEvent(k key.Key, r rune, mods key.Modifier) Event {
	return Event{Type: EventKey, Key: key.Event{Key: k, Rune: r, Modifiers: mods}}
}

// RuneEvent creates a key press event for a character.
func RuneEvent(r rune) Event {
	return Event{Type: EventKey, Key: key.NewRuneEvent(r, key.ModNone)}
}

// ChordEvent creates a key press event from a chord such as "ctrl+s".
// It panics on a malformed chord and is intended for tests and defaults.
func ChordEvent(chord string) Event {
	return Event{Type: EventKey, Key: key.MustParse(chord)}
}

// MouseEvent creates a mouse click event.
func MouseEvent(row, col int, mods key.Modifier) Event {
	return Event{Type: EventMouse, Row: row, Col: col, Key: key.Event{Modifiers: mods}}
}

// ResizeEvent creates a resize event.
func ResizeEvent(rows, cols int) Event {
	return Event{Type: EventResize, Rows: rows, Cols: cols}
}

// Mod returns the modifiers held during the event.
func (e Event) Mod() key.Modifier {
	return e.Key.Modifiers
}

// Chord returns the canonical chord for a key event, or "" otherwise.
func (e Event) Chord() string {
	if e.Type != EventKey {
		return ""
	}
	return e.Key.String()
}

// String returns a human-readable representation for logging.
func (e Event) String() string {
	switch e.Type {
	case EventKey:
		return "key " + e.Key.String()
	case EventMouse:
		return fmt.Sprintf("click %d,%d %s", e.Row, e.Col, e.Key.Modifiers)
	case EventResize:
		return fmt.Sprintf("resize %dx%d", e.Cols, e.Rows)
	default:
		return e.Type.String()
	}
}
