package history

import (
	"errors"
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/engine/cursor"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Defaults used by New.
const (
	DefaultMaxFrames       = 1000
	DefaultCoalesceTimeout = time.Second
)

// Option configures a History.
type Option func(*History)

// WithMaxFrames limits the undo stack. The oldest frames are dropped first.
func WithMaxFrames(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.maxFrames = n
		}
	}
}

// WithCoalesceTimeout sets the longest pause that still merges typed
// characters into the open frame. Zero disables the time limit.
func WithCoalesceTimeout(d time.Duration) Option {
	return func(h *History) {
		if d >= 0 {
			h.timeout = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		if now != nil {
			h.now = now
		}
	}
}

// History manages undo/redo state for a buffer.
type History struct {
	undoStack []*Frame
	redoStack []*Frame

	// open is the typing frame that may still absorb keystrokes. It is
	// always the top of undoStack when set.
	open *Frame

	maxFrames int
	timeout   time.Duration
	now       func() time.Time
}

// New creates a new history manager.
func New(opts ...Option) *History {
	h := &History{
		maxFrames: DefaultMaxFrames,
		timeout:   DefaultCoalesceTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record pushes a completed frame onto the undo stack and clears the redo
// stack. The open typing frame, if any, is sealed first.
func (h *History) Record(f *Frame) {
	h.open = nil
	if f == nil || len(f.Ops) == 0 {
		return
	}
	if f.Time.IsZero() {
		f.Time = h.now()
	}
	h.push(f)
}

// Typed records a single op produced by typing. Consecutive typed
// characters are merged into one frame; anything else starts a new one.
func (h *History) Typed(op Op, before, after cursor.Selection) {
	now := h.now()
	if h.open != nil && h.open.extends(op, before, now, h.timeout) {
		h.open.Ops = append(h.open.Ops, op)
		h.open.After = after
		h.open.Time = now
		return
	}

	f := NewFrame("typing", before, after, op)
	f.Time = now
	h.push(f)
	if op.IsTypedChar() {
		h.open = f
	} else {
		h.open = nil
	}
}

func (h *History) push(f *Frame) {
	h.undoStack = append(h.undoStack, f)
	h.redoStack = nil

	if len(h.undoStack) > h.maxFrames {
		excess := len(h.undoStack) - h.maxFrames
		h.undoStack = h.undoStack[excess:]
	}
}

// Close seals the open typing frame so the next keystroke starts a new one.
func (h *History) Close() {
	h.open = nil
}

// IsOpen returns true if a typing frame can still absorb keystrokes.
func (h *History) IsOpen() bool {
	return h.open != nil
}

// Undo reverts the last frame and moves it to the redo stack. The caller
// restores the frame's Before selection.
func (h *History) Undo(buf *buffer.Buffer) (*Frame, error) {
	h.open = nil
	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}

	f := h.undoStack[len(h.undoStack)-1]
	if err := f.revert(buf); err != nil {
		return nil, err
	}

	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, f)
	return f, nil
}

// Redo re-applies the last undone frame and moves it back to the undo
// stack. The caller restores the frame's After selection.
func (h *History) Redo(buf *buffer.Buffer) (*Frame, error) {
	h.open = nil
	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}

	f := h.redoStack[len(h.redoStack)-1]
	if err := f.replay(buf); err != nil {
		return nil, err
	}

	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, f)
	return f, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of frames that can be undone.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of frames that can be redone.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// PeekUndo returns the frame Undo would revert, if any.
func (h *History) PeekUndo() (*Frame, bool) {
	if len(h.undoStack) == 0 {
		return nil, false
	}
	return h.undoStack[len(h.undoStack)-1], true
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
	h.open = nil
}

// MaxFrames returns the maximum number of undo frames.
func (h *History) MaxFrames() int {
	return h.maxFrames
}
