// Package cursor provides caret and selection management for text editing.
//
// Selection Model:
//
// Selections use an anchor/active model where:
//   - Anchor: The position where the selection started
//   - Active: The moving caret position (where typing occurs)
//
// When Anchor == Active the selection is collapsed and represents just a
// caret. The order of the two is preserved so shift-extend can grow or
// shrink the selection from either side; Range always returns the
// normalized span.
//
// Movement:
//
// A Cursor applies Motion values (character, word, line, page, line
// start/end, buffer start/end) against a buffer. Moving with extend keeps
// the anchor fixed; moving without extend collapses the selection at the
// destination. Vertical motions remember a goal column so passing through
// short lines does not lose the horizontal position.
//
// Basic usage:
//
//	c := cursor.New()
//	c.Apply(buf, cursor.MoveWordRight, false, 0)
//	c.Apply(buf, cursor.MoveLineEnd, true, 0)  // select to end of line
//	sel := c.Selection()
package cursor
