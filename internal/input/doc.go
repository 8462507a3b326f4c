// Package input turns terminal input into editor intents.
//
// Backends deliver an Event for every key press, mouse click and resize.
// Key events are matched against a Keymap, which maps canonical chord
// strings such as "ctrl+s" or "shift+right" to an Action name.
//
// # Chords
//
// A chord is written as zero or more modifiers followed by a key, joined
// with "+": "ctrl+shift+home", "alt+left", "pgdn", "a". Modifier and key
// names are case-insensitive. Shift is folded into printable characters,
// so "A" and "shift+a" are different chords only for special keys.
//
// # Overrides
//
// User configuration may rebind chords with Keymap.Apply. Binding a chord
// to the empty action removes it.
package input
