package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Tab width limits.
const (
	MinTabWidth = 1
	MaxTabWidth = 16
)

// Settings is the complete editor configuration.
type Settings struct {
	Editor EditorSettings    `toml:"editor"`
	UI     UISettings        `toml:"ui"`
	Log    LogSettings       `toml:"log"`
	Keymap map[string]string `toml:"keymap"`
}

// EditorSettings controls editing behavior.
type EditorSettings struct {
	// TabWidth is the distance between tab stops in cells.
	TabWidth int `toml:"tab_width"`

	// LineNumbers shows the line number gutter.
	LineNumbers bool `toml:"line_numbers"`

	// HistoryLimit caps the number of undo frames kept per document.
	HistoryLimit int `toml:"history_limit"`

	// CoalesceTimeout is the typing pause that closes an undo frame.
	CoalesceTimeout Duration `toml:"coalesce_timeout"`

	// ScrollMargin keeps this many lines visible around the cursor.
	ScrollMargin int `toml:"scroll_margin"`

	// SystemClipboard mirrors copy and cut to the OS clipboard.
	SystemClipboard bool `toml:"system_clipboard"`

	// WatchFiles reports external changes to open files.
	WatchFiles bool `toml:"watch_files"`
}

// UISettings controls presentation.
type UISettings struct {
	Theme string `toml:"theme"`
	Mouse bool   `toml:"mouse"`
}

// LogSettings controls the log file.
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Duration is a time.Duration written as a string such as "1s" or "750ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Editor: EditorSettings{
			TabWidth:        4,
			LineNumbers:     true,
			HistoryLimit:    1000,
			CoalesceTimeout: Duration{time.Second},
			ScrollMargin:    0,
			SystemClipboard: false,
			WatchFiles:      true,
		},
		UI: UISettings{
			Theme: "default",
			Mouse: true,
		},
		Log: LogSettings{
			Level: "info",
		},
		Keymap: map[string]string{},
	}
}

// Validate checks every setting and returns all problems joined together.
func (s *Settings) Validate() error {
	var errs []error

	if s.Editor.TabWidth < MinTabWidth || s.Editor.TabWidth > MaxTabWidth {
		errs = append(errs, &ValidationError{
			Key:     "editor.tab_width",
			Value:   s.Editor.TabWidth,
			Message: fmt.Sprintf("must be between %d and %d", MinTabWidth, MaxTabWidth),
		})
	}
	if s.Editor.HistoryLimit < 0 {
		errs = append(errs, &ValidationError{
			Key:     "editor.history_limit",
			Value:   s.Editor.HistoryLimit,
			Message: "must not be negative",
		})
	}
	if s.Editor.CoalesceTimeout.Duration < 0 {
		errs = append(errs, &ValidationError{
			Key:     "editor.coalesce_timeout",
			Value:   s.Editor.CoalesceTimeout.Duration,
			Message: "must not be negative",
		})
	}
	if s.Editor.ScrollMargin < 0 {
		errs = append(errs, &ValidationError{
			Key:     "editor.scroll_margin",
			Value:   s.Editor.ScrollMargin,
			Message: "must not be negative",
		})
	}
	if !validLevel(s.Log.Level) {
		errs = append(errs, &ValidationError{
			Key:     "log.level",
			Value:   s.Log.Level,
			Message: "must be one of " + strings.Join(logLevels, ", "),
		})
	}

	return errors.Join(errs...)
}

func validLevel(level string) bool {
	level = strings.ToLower(level)
	if level == "warning" {
		return true
	}
	for _, l := range logLevels {
		if level == l {
			return true
		}
	}
	return false
}
