package buffer

import "fmt"

// Position is a line and column location in a buffer.
// Both Line and Column are 0-indexed; Column counts grapheme clusters.
type Position struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// Range is a half-open span [Start, End) of buffer positions.
type Range struct {
	Start Position
	End   Position
}

// NewRange returns a normalized range covering a and b.
func NewRange(a, b Position) Range {
	if a.After(b) {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", r.Start, r.End)
}

// IsEmpty returns true if the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if Start is not after End.
func (r Range) IsValid() bool {
	return !r.Start.After(r.End)
}

// Contains returns true if p lies within [Start, End).
func (r Range) Contains(p Position) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// Lines returns the number of lines the range touches.
func (r Range) Lines() int {
	return r.End.Line - r.Start.Line + 1
}
