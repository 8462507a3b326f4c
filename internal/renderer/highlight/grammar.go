package highlight

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidGrammar is returned for grammars that cannot be compiled.
var ErrInvalidGrammar = errors.New("invalid grammar")

// GrammarError describes a problem with one rule of a grammar.
type GrammarError struct {
	Grammar string
	State   string
	Rule    int
	Err     error
}

func (e *GrammarError) Error() string {
	if e.Rule >= 0 {
		return fmt.Sprintf("grammar %s: state %s rule %d: %v", e.Grammar, e.State, e.Rule, e.Err)
	}
	if e.State != "" {
		return fmt.Sprintf("grammar %s: state %s: %v", e.Grammar, e.State, e.Err)
	}
	return fmt.Sprintf("grammar %s: %v", e.Grammar, e.Err)
}

func (e *GrammarError) Unwrap() error {
	return e.Err
}

// Is makes every GrammarError match ErrInvalidGrammar.
func (e *GrammarError) Is(target error) bool {
	return target == ErrInvalidGrammar
}

// Rule is one pattern of a lexer state.
type Rule struct {
	// Pattern is matched against the line. A pattern starting with "^"
	// only matches at the start of the line.
	Pattern *regexp.Regexp

	// Scope tags the matched text. Empty means the state's scope.
	Scope string

	// Push enters the named state after the match.
	Push string

	// Pop leaves the current state after the match (before any Push).
	Pop bool

	anchored bool
}

// StateDef is a named lexer state.
type StateDef struct {
	// Scope tags text not matched by any rule.
	Scope string

	Rules []Rule
}

// Grammar is a compiled rule set for one language.
type Grammar struct {
	Name       string
	Extensions []string
	States     map[string]*StateDef
}

// RuleSpec is the uncompiled form of a rule.
type RuleSpec struct {
	Match string `yaml:"match"`
	Scope string `yaml:"scope"`
	Push  string `yaml:"push"`
	Pop   bool   `yaml:"pop"`
}

// StateSpec is the uncompiled form of a state.
type StateSpec struct {
	Scope string     `yaml:"scope"`
	Rules []RuleSpec `yaml:"rules"`
}

// GrammarSpec is the uncompiled form of a grammar, as stored in grammar
// files.
type GrammarSpec struct {
	Name       string               `yaml:"name"`
	Extensions []string             `yaml:"extensions"`
	States     map[string]StateSpec `yaml:"states"`
}

// Compile validates the spec and compiles its patterns.
func (gs GrammarSpec) Compile() (*Grammar, error) {
	if gs.Name == "" {
		return nil, &GrammarError{Grammar: "?", Rule: -1, Err: errors.New("missing name")}
	}
	if _, ok := gs.States[string(RootState)]; !ok {
		return nil, &GrammarError{Grammar: gs.Name, Rule: -1, Err: errors.New("missing root state")}
	}

	g := &Grammar{
		Name:   gs.Name,
		States: make(map[string]*StateDef, len(gs.States)),
	}
	for _, ext := range gs.Extensions {
		g.Extensions = append(g.Extensions, normalizeExt(ext))
	}

	for _, name := range sortedStateNames(gs.States) {
		if strings.Contains(name, "/") {
			return nil, &GrammarError{Grammar: gs.Name, State: name, Rule: -1, Err: errors.New("state name contains '/'")}
		}
		ss := gs.States[name]
		def := &StateDef{Scope: ss.Scope}
		for i, rs := range ss.Rules {
			if rs.Match == "" {
				return nil, &GrammarError{Grammar: gs.Name, State: name, Rule: i, Err: errors.New("empty pattern")}
			}
			re, err := regexp.Compile(rs.Match)
			if err != nil {
				return nil, &GrammarError{Grammar: gs.Name, State: name, Rule: i, Err: err}
			}
			if rs.Push != "" {
				if _, ok := gs.States[rs.Push]; !ok {
					return nil, &GrammarError{Grammar: gs.Name, State: name, Rule: i, Err: fmt.Errorf("push to unknown state %q", rs.Push)}
				}
			}
			def.Rules = append(def.Rules, Rule{
				Pattern:  re,
				Scope:    rs.Scope,
				Push:     rs.Push,
				Pop:      rs.Pop,
				anchored: strings.HasPrefix(rs.Match, "^"),
			})
		}
		g.States[name] = def
	}
	return g, nil
}

func sortedStateNames(states map[string]StateSpec) []string {
	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlainText returns the grammar used when no language matches: a single
// root state with no rules.
func PlainText() *Grammar {
	return &Grammar{
		Name:   "text",
		States: map[string]*StateDef{string(RootState): {}},
	}
}

// state returns the definition for the top of s, falling back to root.
func (g *Grammar) state(s State) *StateDef {
	if def, ok := g.States[s.Top()]; ok {
		return def
	}
	return g.States[string(RootState)]
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
