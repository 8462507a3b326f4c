package input

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/scribe/internal/input/key"
)

// Action names an editor intent bound to a chord.
type Action string

// Actions understood by the editor.
const (
	ActionNone Action = ""

	ActionQuit      Action = "quit"
	ActionSave      Action = "save"
	ActionOpen      Action = "open"
	ActionReload    Action = "reload"
	ActionPalette   Action = "palette"
	ActionNewEditor Action = "new"
	ActionClose     Action = "close"
	ActionNext      Action = "next"
	ActionPrevious  Action = "prev"

	ActionCopy      Action = "copy"
	ActionCut       Action = "cut"
	ActionPaste     Action = "paste"
	ActionUndo      Action = "undo"
	ActionRedo      Action = "redo"
	ActionSelectAll Action = "select_all"

	ActionBackspace Action = "backspace"
	ActionDelete    Action = "delete"
	ActionNewline   Action = "newline"
	ActionTab       Action = "tab"
	ActionEscape    Action = "escape"

	ActionLeft        Action = "left"
	ActionRight       Action = "right"
	ActionUp          Action = "up"
	ActionDown        Action = "down"
	ActionWordLeft    Action = "word_left"
	ActionWordRight   Action = "word_right"
	ActionLineStart   Action = "line_start"
	ActionLineEnd     Action = "line_end"
	ActionPageUp      Action = "page_up"
	ActionPageDown    Action = "page_down"
	ActionBufferStart Action = "buffer_start"
	ActionBufferEnd   Action = "buffer_end"
)

var knownActions = map[Action]bool{
	ActionQuit: true, ActionSave: true, ActionOpen: true, ActionReload: true,
	ActionPalette: true, ActionNewEditor: true, ActionClose: true,
	ActionNext: true, ActionPrevious: true,
	ActionCopy: true, ActionCut: true, ActionPaste: true,
	ActionUndo: true, ActionRedo: true, ActionSelectAll: true,
	ActionBackspace: true, ActionDelete: true, ActionNewline: true,
	ActionTab: true, ActionEscape: true,
	ActionLeft: true, ActionRight: true, ActionUp: true, ActionDown: true,
	ActionWordLeft: true, ActionWordRight: true,
	ActionLineStart: true, ActionLineEnd: true,
	ActionPageUp: true, ActionPageDown: true,
	ActionBufferStart: true, ActionBufferEnd: true,
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return knownActions[a]
}

// ErrUnknownAction is returned when binding a chord to an unknown action.
var ErrUnknownAction = errors.New("unknown action")

// Keymap maps canonical chords to actions.
type Keymap struct {
	bindings map[string]Action
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[string]Action)}
}

// defaultBindings lists the built-in chords.
var defaultBindings = []struct {
	chord  string
	action Action
}{
	{"ctrl+q", ActionQuit},
	{"ctrl+r", ActionReload},
	{"ctrl+s", ActionSave},
	{"ctrl+o", ActionOpen},
	{"ctrl+p", ActionPalette},
	{"ctrl+n", ActionNewEditor},
	{"ctrl+w", ActionClose},
	{"ctrl+pgdn", ActionNext},
	{"alt+right", ActionNext},
	{"ctrl+pgup", ActionPrevious},
	{"alt+left", ActionPrevious},

	{"ctrl+c", ActionCopy},
	{"ctrl+x", ActionCut},
	{"ctrl+v", ActionPaste},
	{"ctrl+z", ActionUndo},
	{"ctrl+y", ActionRedo},
	{"ctrl+a", ActionSelectAll},

	{"backspace", ActionBackspace},
	{"delete", ActionDelete},
	{"enter", ActionNewline},
	{"tab", ActionTab},
	{"esc", ActionEscape},

	{"left", ActionLeft},
	{"right", ActionRight},
	{"up", ActionUp},
	{"down", ActionDown},
	{"ctrl+left", ActionWordLeft},
	{"ctrl+right", ActionWordRight},
	{"home", ActionLineStart},
	{"end", ActionLineEnd},
	{"pgup", ActionPageUp},
	{"pgdn", ActionPageDown},
	{"ctrl+home", ActionBufferStart},
	{"ctrl+end", ActionBufferEnd},
}

// DefaultKeymap returns a keymap with the built-in bindings.
func DefaultKeymap() *Keymap {
	km := NewKeymap()
	for _, b := range defaultBindings {
		if err := km.Bind(b.chord, b.action); err != nil {
			panic(err)
		}
	}
	return km
}

// ParseChord normalizes a chord string, e.g. "Ctrl+S" to "ctrl+s".
func ParseChord(chord string) (string, error) {
	norm, err := key.NormalizeSpec(chord)
	if err != nil {
		return "", fmt.Errorf("chord %q: %w", chord, err)
	}
	return norm, nil
}

// Bind maps chord to action, replacing any existing binding.
func (k *Keymap) Bind(chord string, action Action) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	norm, err := ParseChord(chord)
	if err != nil {
		return err
	}
	k.bindings[norm] = action
	return nil
}

// Unbind removes the binding for chord.
func (k *Keymap) Unbind(chord string) error {
	norm, err := ParseChord(chord)
	if err != nil {
		return err
	}
	delete(k.bindings, norm)
	return nil
}

// Apply applies user overrides. An empty action removes the binding.
// All overrides are validated before any is applied.
func (k *Keymap) Apply(overrides map[string]string) error {
	var errs []error
	parsed := make(map[string]Action, len(overrides))
	for chord, name := range overrides {
		norm, err := ParseChord(chord)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		a := Action(name)
		if a != ActionNone && !a.Valid() {
			errs = append(errs, fmt.Errorf("chord %q: %w: %q", chord, ErrUnknownAction, name))
			continue
		}
		parsed[norm] = a
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for chord, a := range parsed {
		if a == ActionNone {
			delete(k.bindings, chord)
		} else {
			k.bindings[chord] = a
		}
	}
	return nil
}

// Lookup returns the action bound to a key event.
// Shift on a navigation key selects, so "shift+right" falls back to the
// "right" binding when it has none of its own.
func (k *Keymap) Lookup(ev Event) (Action, bool) {
	if ev.Type != EventKey {
		return ActionNone, false
	}
	if a, ok := k.bindings[ev.Chord()]; ok {
		return a, true
	}
	if ev.Key.IsShifted() && ev.Key.Key.IsNavigationKey() {
		plain := ev.Key
		plain.Modifiers = plain.Modifiers.Without(key.ModShift)
		if a, ok := k.bindings[plain.String()]; ok {
			return a, true
		}
	}
	return ActionNone, false
}

// Chords returns the chords bound to action, sorted.
func (k *Keymap) Chords(action Action) []string {
	var out []string
	for chord, a := range k.bindings {
		if a == action {
			out = append(out, chord)
		}
	}
	sort.Strings(out)
	return out
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	return len(k.bindings)
}
