package history

import (
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/engine/cursor"
)

// Frame is an atomic group of ops undone and redone as one unit.
type Frame struct {
	Ops    []Op
	Before cursor.Selection
	After  cursor.Selection
	Label  string
	Time   time.Time
}

// NewFrame creates a frame for ops.
func NewFrame(label string, before, after cursor.Selection, ops ...Op) *Frame {
	return &Frame{Ops: ops, Before: before, After: after, Label: label}
}

// Len returns the number of ops in the frame.
func (f *Frame) Len() int {
	return len(f.Ops)
}

// inverse returns the inverted ops in reverse order.
func (f *Frame) inverse() []Op {
	inv := make([]Op, len(f.Ops))
	for i, op := range f.Ops {
		inv[len(f.Ops)-1-i] = op.Invert()
	}
	return inv
}

// revert restores buf to its content before the frame.
func (f *Frame) revert(buf *buffer.Buffer) error {
	return applyAll(buf, f.inverse())
}

// replay re-applies the frame's ops.
func (f *Frame) replay(buf *buffer.Buffer) error {
	return applyAll(buf, f.Ops)
}

// extends reports whether op continues a typing burst in f.
func (f *Frame) extends(op Op, before cursor.Selection, now time.Time, timeout time.Duration) bool {
	if len(f.Ops) == 0 || !op.IsTypedChar() {
		return false
	}
	last := f.Ops[len(f.Ops)-1]
	if !last.IsTypedChar() || last.Range().End != op.Pos {
		return false
	}
	if f.After != before {
		return false
	}
	return timeout <= 0 || now.Sub(f.Time) <= timeout
}
