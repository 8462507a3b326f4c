// Package history provides undo/redo functionality for the text editor engine.
//
// # Operations
//
// An Op is a single reversible buffer mutation: an insert of text at a
// position, or a delete of a range together with the text it removed.
// Every Op can produce its inverse, and applying an Op followed by its
// inverse leaves the buffer unchanged.
//
// # Frames
//
// A Frame groups the Ops of one user action (a typing burst, a paste that
// replaced a selection, a cut) with the selections before and after it.
// Undo applies the inverses of a frame's ops in reverse order and returns
// the frame so the caller can restore Before; Redo re-applies the ops in
// order and the caller restores After.
//
// # Coalescing
//
// Typed single-character inserts are merged into the open frame while they
// continue exactly where the previous insert ended, the selection has not
// changed in between, and no more than the coalesce timeout has passed.
// Any recorded frame, undo, redo or explicit Close seals the open frame:
//
//	h := history.New(history.WithCoalesceTimeout(time.Second))
//	h.Typed(op, before, after) // "a"
//	h.Typed(op, before, after) // "b" joins the same frame
//	h.Close()                  // next keystroke starts a new frame
//
// A new frame always clears the redo stack.
package history
