package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppName names the configuration directory.
const AppName = "scribe"

// DefaultPath returns $XDG_CONFIG_HOME/scribe/config.toml, falling back to
// ~/.config/scribe/config.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", AppName, "config.toml")
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// Load reads settings from path, applies SCRIBE_* environment overrides
// and validates the result. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := Decode(s, data, path); err != nil {
				return nil, err
			}
		}
	}

	if err := ApplyEnv(s, lookup); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Decode merges TOML data into s. Keys absent from data keep their current
// values. Unknown keys are rejected so typos do not pass silently.
func Decode(s *Settings, data []byte, source string) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(s); err != nil {
		return parseError(source, err)
	}
	if s.Keymap == nil {
		s.Keymap = map[string]string{}
	}
	return nil
}

func parseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		pe.Line, pe.Column = decErr.Position()
		pe.Message = decErr.Error()
		return pe
	}

	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) && len(strictErr.Errors) > 0 {
		first := strictErr.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = fmt.Sprintf("unknown key %q", keyString(first.Key()))
	}
	return pe
}

func keyString(key []string) string {
	var buf bytes.Buffer
	for i, k := range key {
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(k)
	}
	return buf.String()
}
