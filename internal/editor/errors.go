package editor

import "errors"

var (
	// ErrUnsavedChanges is returned when an operation would discard
	// modifications and was not forced.
	ErrUnsavedChanges = errors.New("editor: unsaved changes")

	// ErrNoPath is returned when saving or reloading a session that has
	// no file name.
	ErrNoPath = errors.New("editor: no file name")

	// ErrNoSession is returned when the manager holds no sessions.
	ErrNoSession = errors.New("editor: no session")
)
