package highlight

import (
	"fmt"
	"sort"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/dshills/scribe/internal/renderer/core"
)

// Scopes used by the editor chrome. Themes may style them like any other
// scope.
const (
	ScopeGutter    = "ui.gutter"
	ScopeStatus    = "ui.status"
	ScopeMessage   = "ui.message"
	ScopeSelection = "ui.selection"
)

// Theme maps scopes to styles.
type Theme struct {
	// Name is the theme identifier.
	Name string

	// Default is used for text with no scope and as the base every scope
	// style is merged onto.
	Default core.Style

	// Scopes maps dotted scope names to styles.
	Scopes map[string]core.Style
}

// StyleFor returns the style for scope, trying each parent scope in turn
// ("comment.block.doc", "comment.block", "comment") before the default.
func (t *Theme) StyleFor(scope string) core.Style {
	for s := scope; s != ""; s = parentScope(s) {
		if style, ok := t.Scopes[s]; ok {
			return t.Default.Merge(style)
		}
	}
	return t.Default
}

// Has reports whether the theme defines scope exactly.
func (t *Theme) Has(scope string) bool {
	_, ok := t.Scopes[scope]
	return ok
}

func rgb(r, g, b uint8) core.Color {
	return core.ColorFromRGB(r, g, b)
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name:    "default",
		Default: core.DefaultStyle(),
		Scopes: map[string]core.Style{
			"comment":   core.NewStyle(rgb(106, 153, 85)).Italic(),
			"string":    core.NewStyle(rgb(206, 145, 120)),
			"number":    core.NewStyle(rgb(181, 206, 168)),
			"keyword":   core.NewStyle(rgb(86, 156, 214)).Bold(),
			"constant":  core.NewStyle(rgb(79, 193, 255)),
			"type":      core.NewStyle(rgb(78, 201, 176)),
			"function":  core.NewStyle(rgb(220, 220, 170)),
			"operator":  core.NewStyle(rgb(212, 212, 212)),
			"meta":      core.NewStyle(rgb(197, 134, 192)),
			"invalid":   core.NewStyle(rgb(244, 71, 71)).Underline(),
			ScopeGutter: core.NewStyle(rgb(133, 133, 133)),
			ScopeStatus: core.DefaultStyle().Reverse(),
		},
	}
}

// MonoTheme returns a colourless theme that only uses attributes.
func MonoTheme() *Theme {
	return &Theme{
		Name:    "mono",
		Default: core.DefaultStyle(),
		Scopes: map[string]core.Style{
			"comment":   core.DefaultStyle().Italic(),
			"keyword":   core.DefaultStyle().Bold(),
			"string":    core.DefaultStyle().Underline(),
			ScopeStatus: core.DefaultStyle().Reverse(),
		},
	}
}

// chromaScopes maps editor scopes to chroma token types.
var chromaScopes = map[string]chroma.TokenType{
	"comment":          chroma.Comment,
	"comment.line":     chroma.CommentSingle,
	"comment.block":    chroma.CommentMultiline,
	"string":           chroma.LiteralString,
	"string.escape":    chroma.LiteralStringEscape,
	"number":           chroma.LiteralNumber,
	"keyword":          chroma.Keyword,
	"keyword.control":  chroma.KeywordReserved,
	"keyword.declare":  chroma.KeywordDeclaration,
	"constant":         chroma.NameConstant,
	"constant.builtin": chroma.KeywordConstant,
	"type":             chroma.KeywordType,
	"function":         chroma.NameFunction,
	"function.builtin": chroma.NameBuiltin,
	"operator":         chroma.Operator,
	"punctuation":      chroma.Punctuation,
	"meta":             chroma.CommentPreproc,
	"invalid":          chroma.Error,
	ScopeGutter:        chroma.LineNumbers,
}

// ThemeFromChroma builds a theme from a registered chroma style such as
// "monokai" or "dracula".
func ThemeFromChroma(name string) (*Theme, error) {
	cs, ok := styles.Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	bg := cs.Get(chroma.Background)
	t := &Theme{
		Name:    name,
		Default: chromaStyle(bg, core.DefaultStyle()),
		Scopes:  make(map[string]core.Style, len(chromaScopes)+1),
	}
	for scope, tt := range chromaScopes {
		t.Scopes[scope] = chromaStyle(cs.Get(tt), core.DefaultStyle())
	}
	t.Scopes[ScopeStatus] = t.Default.Invert()
	return t, nil
}

// ChromaStyles returns the names of the chroma styles available to
// ThemeFromChroma.
func ChromaStyles() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}

func chromaStyle(e chroma.StyleEntry, base core.Style) core.Style {
	s := base
	if e.Colour.IsSet() {
		s.Foreground = rgb(e.Colour.Red(), e.Colour.Green(), e.Colour.Blue())
	}
	if e.Background.IsSet() {
		s.Background = rgb(e.Background.Red(), e.Background.Green(), e.Background.Blue())
	}
	if e.Bold == chroma.Yes {
		s.Attributes |= core.AttrBold
	}
	if e.Italic == chroma.Yes {
		s.Attributes |= core.AttrItalic
	}
	if e.Underline == chroma.Yes {
		s.Attributes |= core.AttrUnderline
	}
	return s
}
