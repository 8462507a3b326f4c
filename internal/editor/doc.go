// Package editor holds the open documents and turns input events into
// edits on them.
//
// A Session is one document: an engine.Engine, the file it was loaded
// from, its syntax cache and the last status message. The Manager keeps
// the ordered list of sessions and the active index, owns the command
// prompt, and routes each input.Event to either the prompt or the active
// session.
//
// Operations that would throw away unsaved work (quit, close, reload, and
// open into an untitled session) return ErrUnsavedChanges unless forced.
// HandleEvent turns that error into a y/n confirmation on the prompt;
// pressing the same shortcut again also confirms.
//
// The Manager never touches the terminal. HandleEvent returns an Effect
// describing what the caller should do next.
package editor
