package highlight

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/scribe/internal/renderer/core"
)

// ErrUnknownTheme is returned when a theme name matches nothing.
var ErrUnknownTheme = errors.New("unknown theme")

// LoadGrammarYAML parses and compiles a grammar file.
//
//	name: go
//	extensions: [.go]
//	states:
//	  root:
//	    rules:
//	      - match: '/\*'
//	        scope: comment.block
//	        push: block_comment
//	  block_comment:
//	    scope: comment.block
//	    rules:
//	      - match: '\*/'
//	        pop: true
func LoadGrammarYAML(data []byte) (*Grammar, error) {
	var spec GrammarSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGrammar, err)
	}
	return spec.Compile()
}

// styleSpec is a style as written in theme files.
type styleSpec struct {
	Fg        string `toml:"fg"`
	Bg        string `toml:"bg"`
	Bold      bool   `toml:"bold"`
	Italic    bool   `toml:"italic"`
	Underline bool   `toml:"underline"`
	Reverse   bool   `toml:"reverse"`
	Dim       bool   `toml:"dim"`
}

type themeFile struct {
	Name    string               `toml:"name"`
	Default styleSpec            `toml:"default"`
	Scopes  map[string]styleSpec `toml:"scopes"`
}

// LoadThemeTOML parses a theme file.
//
//	name = "solarized"
//	[default]
//	fg = "#839496"
//	[scopes]
//	comment = { fg = "#586e75", italic = true }
func LoadThemeTOML(data []byte) (*Theme, error) {
	var tf themeFile
	if err := toml.Unmarshal(data, &tf); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, fmt.Errorf("theme: line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("theme: %w", err)
	}
	if tf.Name == "" {
		return nil, errors.New("theme: missing name")
	}

	def, err := tf.Default.style()
	if err != nil {
		return nil, fmt.Errorf("theme %s: default: %w", tf.Name, err)
	}
	t := &Theme{
		Name:    tf.Name,
		Default: def,
		Scopes:  make(map[string]core.Style, len(tf.Scopes)),
	}
	for scope, ss := range tf.Scopes {
		st, err := ss.style()
		if err != nil {
			return nil, fmt.Errorf("theme %s: scope %s: %w", tf.Name, scope, err)
		}
		t.Scopes[scope] = st
	}
	return t, nil
}

func (ss styleSpec) style() (core.Style, error) {
	s := core.DefaultStyle()
	if ss.Fg != "" {
		c, err := core.ColorFromHex(ss.Fg)
		if err != nil {
			return s, err
		}
		s.Foreground = c
	}
	if ss.Bg != "" {
		c, err := core.ColorFromHex(ss.Bg)
		if err != nil {
			return s, err
		}
		s.Background = c
	}
	if ss.Bold {
		s.Attributes |= core.AttrBold
	}
	if ss.Italic {
		s.Attributes |= core.AttrItalic
	}
	if ss.Underline {
		s.Attributes |= core.AttrUnderline
	}
	if ss.Reverse {
		s.Attributes |= core.AttrReverse
	}
	if ss.Dim {
		s.Attributes |= core.AttrDim
	}
	return s, nil
}
