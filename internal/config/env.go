package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "SCRIBE_"

type envSetter func(s *Settings, value string) error

// envMapping maps environment variable suffixes to the setting they override.
var envMapping = map[string]struct {
	key string
	set envSetter
}{
	"TAB_WIDTH": {"editor.tab_width", func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		s.Editor.TabWidth = n
		return nil
	}},
	"LINE_NUMBERS": {"editor.line_numbers", func(s *Settings, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		s.Editor.LineNumbers = b
		return nil
	}},
	"SYSTEM_CLIPBOARD": {"editor.system_clipboard", func(s *Settings, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		s.Editor.SystemClipboard = b
		return nil
	}},
	"THEME": {"ui.theme", func(s *Settings, v string) error {
		s.UI.Theme = v
		return nil
	}},
	"LOG_LEVEL": {"log.level", func(s *Settings, v string) error {
		s.Log.Level = strings.ToLower(v)
		return nil
	}},
	"LOG_FILE": {"log.file", func(s *Settings, v string) error {
		s.Log.File = v
		return nil
	}},
}

// ApplyEnv overrides settings from SCRIBE_* variables found through lookup.
// Empty values are ignored.
func ApplyEnv(s *Settings, lookup func(string) (string, bool)) error {
	for suffix, m := range envMapping {
		name := EnvPrefix + suffix
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := m.set(s, value); err != nil {
			return &ValidationError{Key: m.key, Value: value, Message: fmt.Sprintf("invalid %s: %v", name, err)}
		}
	}
	return nil
}

// parseBool accepts the usual spellings of a boolean flag.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", v)
}
