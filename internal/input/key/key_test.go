package key

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Event
	}{
		{"a", NewRuneEvent('a', ModNone)},
		{"Ctrl+S", NewRuneEvent('s', ModCtrl)},
		{"ctrl+shift+home", NewSpecialEvent(KeyHome, ModCtrl|ModShift)},
		{"Alt+Left", NewSpecialEvent(KeyLeft, ModAlt)},
		{"PgDn", NewSpecialEvent(KeyPageDown, ModNone)},
		{"esc", NewSpecialEvent(KeyEscape, ModNone)},
		{"space", NewRuneEvent(' ', ModNone)},
		{"+", NewRuneEvent('+', ModNone)},
		{"ctrl++", NewRuneEvent('+', ModCtrl)},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		spec string
		want error
	}{
		{"", ErrEmptySpec},
		{"hyper+a", ErrInvalidSpec},
		{"ctrl+", ErrInvalidSpec},
		{"ctrl+banana", ErrInvalidSpec},
	}
	for _, tt := range tests {
		if _, err := Parse(tt.spec); !errors.Is(err, tt.want) {
			t.Errorf("Parse(%q) error = %v, want %v", tt.spec, err, tt.want)
		}
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{NewRuneEvent('s', ModCtrl), "ctrl+s"},
		{NewRuneEvent('S', ModCtrl|ModShift), "ctrl+s"},
		{NewRuneEvent('A', ModShift), "A"},
		{NewSpecialEvent(KeyRight, ModShift), "shift+right"},
		{NewSpecialEvent(KeyHome, ModCtrl|ModShift), "ctrl+shift+home"},
		{NewSpecialEvent(KeyPageDown, ModNone), "pgdn"},
		{NewRuneEvent(' ', ModNone), "space"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNormalizeSpecRoundTrip(t *testing.T) {
	for _, spec := range []string{"Ctrl+Q", "shift+Left", "Alt+PageDown", "ctrl+shift+end"} {
		norm, err := NormalizeSpec(spec)
		if err != nil {
			t.Fatalf("NormalizeSpec(%q): %v", spec, err)
		}
		again, err := NormalizeSpec(norm)
		if err != nil || again != norm {
			t.Errorf("NormalizeSpec(%q) = %q, not stable (%q, %v)", spec, norm, again, err)
		}
	}
}

func TestIsChar(t *testing.T) {
	if !NewRuneEvent('x', ModNone).IsChar() {
		t.Error("plain rune should be a char")
	}
	if !NewRuneEvent('X', ModShift).IsChar() {
		t.Error("shifted rune should be a char")
	}
	if NewRuneEvent('x', ModCtrl).IsChar() {
		t.Error("ctrl rune should not be a char")
	}
	if NewSpecialEvent(KeyEnter, ModNone).IsChar() {
		t.Error("enter should not be a char")
	}
}
