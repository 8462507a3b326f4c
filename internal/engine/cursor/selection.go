package cursor

import (
	"fmt"

	"github.com/dshills/scribe/internal/engine/buffer"
)

// Position is an alias for buffer.Position for convenience.
type Position = buffer.Position

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a range of selected text.
// Anchor is where the selection started; Active is the caret position.
// When Anchor == Active, this represents a caret with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor Position
	Active Position
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active Position) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// Caret creates a collapsed selection at p.
func Caret(p Position) Selection {
	return Selection{Anchor: p, Active: p}
}

// IsEmpty returns true if the selection has no extent (just a caret).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return buffer.NewRange(s.Anchor, s.Active)
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Position {
	return s.Range().Start
}

// End returns the upper bound of the selection.
func (s Selection) End() Position {
	return s.Range().End
}

// IsBackward returns true if the caret sits before the anchor.
func (s Selection) IsBackward() bool {
	return s.Active.Before(s.Anchor)
}

// Extend returns a new selection with the caret moved to p.
// The anchor remains fixed.
func (s Selection) Extend(p Position) Selection {
	return Selection{Anchor: s.Anchor, Active: p}
}

// MoveTo returns a new collapsed selection at p.
func (s Selection) MoveTo(p Position) Selection {
	return Caret(p)
}

// Collapse collapses the selection to a caret at the active position.
func (s Selection) Collapse() Selection {
	return Caret(s.Active)
}

// Contains returns true if p is within the selection.
// For empty selections, this always returns false.
func (s Selection) Contains(p Position) bool {
	return s.Range().Contains(p)
}

// Clamp returns the selection with both ends clamped into buf.
func (s Selection) Clamp(buf *buffer.Buffer) Selection {
	return Selection{Anchor: buf.Clamp(s.Anchor), Active: buf.Clamp(s.Active)}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Caret%s", s.Active)
	}
	return fmt.Sprintf("Selection%s->%s", s.Anchor, s.Active)
}
