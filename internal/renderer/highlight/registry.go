package highlight

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Registry holds the available grammars and themes.
type Registry struct {
	byName      map[string]*Grammar
	byExtension map[string]*Grammar
	themes      map[string]*Theme
}

// NewRegistry creates a registry with the built-in themes and no grammars.
func NewRegistry() *Registry {
	r := &Registry{
		byName:      make(map[string]*Grammar),
		byExtension: make(map[string]*Grammar),
		themes:      make(map[string]*Theme),
	}
	r.RegisterTheme(DefaultTheme())
	r.RegisterTheme(MonoTheme())
	return r
}

// Register adds a grammar, replacing any with the same name or extension.
func (r *Registry) Register(g *Grammar) {
	r.byName[g.Name] = g
	for _, ext := range g.Extensions {
		r.byExtension[ext] = g
	}
}

// RegisterTheme adds a theme, replacing any with the same name.
func (r *Registry) RegisterTheme(t *Theme) {
	r.themes[t.Name] = t
}

// ByName returns the grammar with the given name.
func (r *Registry) ByName(name string) (*Grammar, bool) {
	g, ok := r.byName[name]
	return g, ok
}

// ForPath returns the grammar for a file path by extension, or plain text.
func (r *Registry) ForPath(p string) *Grammar {
	ext := normalizeExt(filepath.Ext(p))
	if ext == "" {
		return PlainText()
	}
	if g, ok := r.byExtension[ext]; ok {
		return g
	}
	return PlainText()
}

// Languages returns the registered grammar names, sorted.
func (r *Registry) Languages() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Theme returns a registered theme, or builds one from a chroma style of
// that name.
func (r *Registry) Theme(name string) (*Theme, error) {
	if t, ok := r.themes[name]; ok {
		return t, nil
	}
	t, err := ThemeFromChroma(name)
	if err != nil {
		return nil, err
	}
	r.themes[name] = t
	return t, nil
}

// LoadFS registers every grammar under grammars/*.yaml and every theme
// under themes/*.toml in fsys. Broken files are skipped and reported
// together; the valid ones are still registered.
func (r *Registry) LoadFS(fsys fs.FS) error {
	var errs []error

	grammars, _ := fs.Glob(fsys, "grammars/*.yaml")
	for _, name := range grammars {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		g, err := LoadGrammarYAML(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		r.Register(g)
	}

	themes, _ := fs.Glob(fsys, "themes/*.toml")
	for _, name := range themes {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t, err := LoadThemeTOML(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if t.Name == "" {
			t.Name = strings.TrimSuffix(path.Base(name), ".toml")
		}
		r.RegisterTheme(t)
	}

	return errors.Join(errs...)
}
