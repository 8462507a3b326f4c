package engine

import (
	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrOutOfBounds indicates a position outside the buffer.
	ErrOutOfBounds = buffer.ErrOutOfBounds

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo
)
