// Package engine provides the document editing engine behind an editor
// session.
//
// The engine package serves as the main facade, combining the line buffer,
// caret and selection handling, undo/redo history and the shared clipboard
// into the editing operations a key press maps to.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: line-oriented text storage with grapheme columns
//   - cursor: selection model, motions and the sticky goal column
//   - history: reversible ops grouped into undo frames with coalescing
//   - clipboard: the register shared by every session
//
// # Atomic Edits
//
// Every mutating operation validates the positions it touches before the
// buffer is modified. Either the whole edit is applied and recorded as one
// history frame, or nothing changes.
//
// # Basic Usage
//
//	clip := clipboard.New()
//	e := engine.New(engine.WithContent("hello\nworld"), engine.WithClipboard(clip))
//
//	e.Move(cursor.MoveLineEnd, false)
//	e.InsertNewline()          // "hello", "", "world"
//	e.Move(cursor.MoveUp, true)
//	e.Cut()                    // selection goes to the clipboard
//	e.Undo()                   // cut is reverted in one step
//
// # Change Notification
//
// Listeners registered with OnChange receive a Change for every buffer
// mutation, including undo and redo. Syntax highlighting uses these to
// invalidate its per-line cache.
//
// Engines are driven from the editor's single event loop and are not safe
// for concurrent use.
package engine
