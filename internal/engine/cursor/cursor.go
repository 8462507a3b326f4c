package cursor

import "github.com/dshills/scribe/internal/engine/buffer"

const noGoal = -1

// Cursor is the caret and selection of one document together with the
// sticky goal column used by vertical motions.
type Cursor struct {
	sel  Selection
	goal int
}

// New creates a cursor at the start of the buffer.
func New() *Cursor {
	return &Cursor{goal: noGoal}
}

// Selection returns the current selection.
func (c *Cursor) Selection() Selection {
	return c.sel
}

// Position returns the caret position.
func (c *Cursor) Position() Position {
	return c.sel.Active
}

// HasSelection returns true if the selection is not collapsed.
func (c *Cursor) HasSelection() bool {
	return !c.sel.IsEmpty()
}

// Goal returns the sticky column, or -1 if none is remembered.
func (c *Cursor) Goal() int {
	return c.goal
}

// Set replaces the selection and forgets the goal column.
func (c *Cursor) Set(sel Selection) {
	c.sel = sel
	c.goal = noGoal
}

// SetPosition moves the caret to p. With extend the anchor stays put,
// otherwise the selection collapses at p.
func (c *Cursor) SetPosition(buf *buffer.Buffer, p Position, extend bool) {
	p = buf.Clamp(p)
	if extend {
		c.sel = c.sel.Extend(p)
	} else {
		c.sel = c.sel.MoveTo(p)
	}
	c.goal = noGoal
}

// Apply performs motion m against buf and returns the new selection.
func (c *Cursor) Apply(buf *buffer.Buffer, m Motion, extend bool, page int) Selection {
	c.sel = c.sel.Clamp(buf)

	if !extend && !c.sel.IsEmpty() {
		switch m {
		case MoveLeft:
			c.Set(Caret(c.sel.Start()))
			return c.sel
		case MoveRight:
			c.Set(Caret(c.sel.End()))
			return c.sel
		}
	}

	goal := c.goal
	if m.IsVertical() && goal == noGoal {
		goal = c.sel.Active.Column
	}

	dest := Target(buf, c.sel.Active, m, page, goal)
	if extend {
		c.sel = c.sel.Extend(dest)
	} else {
		c.sel = Caret(dest)
	}

	if m.IsVertical() {
		c.goal = goal
	} else {
		c.goal = noGoal
	}
	return c.sel
}

// SelectAll selects the entire buffer with the caret at the end.
func (c *Cursor) SelectAll(buf *buffer.Buffer) {
	c.Set(NewSelection(Position{}, buf.End()))
}
