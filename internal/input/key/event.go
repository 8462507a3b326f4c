package key

import (
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character typed without Ctrl
// or Alt.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.Modifiers.HasCtrl() && !e.Modifiers.HasAlt()
}

// IsShifted reports whether Shift is held on a special key.
func (e Event) IsShifted() bool {
	return e.Key != KeyRune && e.Modifiers.HasShift()
}

// String returns the canonical chord, e.g. "ctrl+s", "shift+right", "a".
// Shift is folded into the character for rune events.
func (e Event) String() string {
	mods := e.Modifiers
	var name string
	if e.Key == KeyRune {
		r := e.Rune
		mods = mods.Without(ModShift)
		if mods.HasCtrl() || mods.HasAlt() {
			r = unicode.ToLower(r)
		}
		if r == ' ' {
			name = "space"
		} else {
			name = string(r)
		}
	} else {
		name = e.Key.String()
	}

	if prefix := mods.String(); prefix != "" {
		return prefix + "+" + name
	}
	return name
}
