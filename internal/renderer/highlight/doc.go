// Package highlight tokenizes document lines for syntax colouring.
//
// A Grammar is a set of named lexer states, each an ordered list of
// regular-expression rules. A rule tags the text it matches with a scope
// (such as "comment.block" or "keyword") and may push a new state or pop
// back to the previous one. The state reached at the end of a line is the
// start state of the next, which is how block comments and multi-line
// strings carry across lines.
//
// A Cache holds per-line tokens and states for one document. Edits mark
// lines invalid; Update re-tokenizes from the first stale line and keeps
// going past the visible window only while end states keep changing, so a
// one-line edit costs one line unless it opens or closes a multi-line
// construct.
//
// Themes map scopes to styles with dotted fallback: "comment.block" uses
// the "comment" style when it has none of its own.
package highlight
