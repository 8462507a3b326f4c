// Package key defines keyboard keys, modifiers and key events, and parses
// textual key chords such as "Ctrl+S" or "shift+right" into events.
//
// Chords are matched by their canonical string form (see Event.String), so
// a keymap can be stored as a plain map keyed by chord.
package key
