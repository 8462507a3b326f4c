package highlight

import "strings"

// Token is a scoped span of one line. Start and End are byte offsets into
// the line text; End is exclusive.
type Token struct {
	Start int
	End   int
	Scope string
}

// Len returns the length of the token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// Contains returns true if the byte offset is within the token.
func (t Token) Contains(off int) bool {
	return off >= t.Start && off < t.End
}

// ScopeAt returns the scope covering byte offset off, or "".
// Tokens must be sorted by Start.
func ScopeAt(tokens []Token, off int) string {
	for _, tok := range tokens {
		if tok.Contains(off) {
			return tok.Scope
		}
		if tok.Start > off {
			break
		}
	}
	return ""
}

// State is the lexer state stack encoded as a path, e.g. "root/comment".
// States are comparable, so convergence is a plain equality check.
type State string

// RootState is the state at the start of a document.
const RootState State = "root"

// maxDepth bounds the state stack so a runaway grammar cannot grow it
// without limit.
const maxDepth = 32

// Top returns the innermost state name.
func (s State) Top() string {
	if i := strings.LastIndexByte(string(s), '/'); i >= 0 {
		return string(s[i+1:])
	}
	return string(s)
}

// Depth returns the number of states on the stack.
func (s State) Depth() int {
	return strings.Count(string(s), "/") + 1
}

// Push returns s with name pushed. Pushing past the depth limit replaces
// the top instead.
func (s State) Push(name string) State {
	if s.Depth() >= maxDepth {
		s = s.Pop()
	}
	return s + "/" + State(name)
}

// Pop returns s with the innermost state removed. Popping the root
// returns the root.
func (s State) Pop() State {
	if i := strings.LastIndexByte(string(s), '/'); i >= 0 {
		return s[:i]
	}
	return RootState
}

// parentScope returns scope with its last dotted segment removed, or ""
// when there is none.
func parentScope(scope string) string {
	if i := strings.LastIndexByte(scope, '.'); i >= 0 {
		return scope[:i]
	}
	return ""
}
