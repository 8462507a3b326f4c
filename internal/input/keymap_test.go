package input

import (
	"errors"
	"testing"

	"github.com/dshills/scribe/internal/input/key"
)

func TestDefaultKeymapLookup(t *testing.T) {
	km := DefaultKeymap()

	tests := []struct {
		ev   Event
		want Action
	}{
		{ChordEvent("ctrl+s"), ActionSave},
		{ChordEvent("Ctrl+Q"), ActionQuit},
		{ChordEvent("ctrl+pgdn"), ActionNext},
		{ChordEvent("alt+left"), ActionPrevious},
		{ChordEvent("ctrl+right"), ActionWordRight},
		{ChordEvent("shift+right"), ActionRight},
		{ChordEvent("ctrl+shift+left"), ActionWordLeft},
		{ChordEvent("enter"), ActionNewline},
		{ChordEvent("tab"), ActionTab},
		{ChordEvent("esc"), ActionEscape},
		{KeyEvent(key.KeyRune, 'S', key.ModCtrl|key.ModShift), ActionSave},
	}

	for _, tt := range tests {
		t.Run(tt.ev.String(), func(t *testing.T) {
			got, ok := km.Lookup(tt.ev)
			if !ok || got != tt.want {
				t.Errorf("Lookup(%s) = %q, %v, want %q", tt.ev, got, ok, tt.want)
			}
		})
	}
}

func TestLookupUnbound(t *testing.T) {
	km := DefaultKeymap()

	for _, ev := range []Event{RuneEvent('a'), ChordEvent("f5"), MouseEvent(1, 1, key.ModNone), ResizeEvent(10, 20)} {
		if a, ok := km.Lookup(ev); ok {
			t.Errorf("Lookup(%s) = %q, want unbound", ev, a)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	km := DefaultKeymap()

	err := km.Apply(map[string]string{
		"F2":     "save",
		"ctrl+q": "",
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if a, ok := km.Lookup(ChordEvent("f2")); !ok || a != ActionSave {
		t.Errorf("Lookup(f2) = %q, %v, want save", a, ok)
	}
	if _, ok := km.Lookup(ChordEvent("ctrl+q")); ok {
		t.Error("ctrl+q should be unbound")
	}
}

func TestApplyRejectsInvalid(t *testing.T) {
	km := DefaultKeymap()
	before := km.Len()

	err := km.Apply(map[string]string{
		"ctrl+t":       "teleport",
		"hyper+x":      "save",
		"ctrl+shift+s": "save",
	})
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Apply error = %v, want ErrUnknownAction", err)
	}
	if km.Len() != before {
		t.Error("invalid overrides must not change the keymap")
	}
}

func TestChords(t *testing.T) {
	km := DefaultKeymap()
	got := km.Chords(ActionNext)
	if len(got) != 2 || got[0] != "alt+right" || got[1] != "ctrl+pgdn" {
		t.Errorf("Chords(next) = %q", got)
	}
}

func TestEventChord(t *testing.T) {
	if got := ChordEvent("Shift+PgDn").Chord(); got != "shift+pgdn" {
		t.Errorf("Chord() = %q, want %q", got, "shift+pgdn")
	}
	if got := MouseEvent(0, 0, key.ModShift).Chord(); got != "" {
		t.Errorf("mouse Chord() = %q, want empty", got)
	}
}
