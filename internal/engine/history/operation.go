package history

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/scribe/internal/engine/buffer"
)

// ErrTextMismatch is returned when a delete removes different text than
// the op recorded.
var ErrTextMismatch = errors.New("deleted text does not match history")

// OpKind distinguishes insert and delete operations.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpDelete
)

// String returns the kind name.
func (k OpKind) String() string {
	if k == OpDelete {
		return "delete"
	}
	return "insert"
}

// Op is a single reversible buffer mutation.
type Op struct {
	Kind OpKind
	// Pos is the insert position or the start of the deleted range.
	Pos buffer.Position
	// End is the end of the deleted range. Unused for inserts.
	End buffer.Position
	// Text is the inserted or removed text.
	Text string
}

// Insert returns an op inserting text at pos.
func Insert(pos buffer.Position, text string) Op {
	return Op{Kind: OpInsert, Pos: pos, Text: text}
}

// Delete returns an op removing r, which held removed.
func Delete(r buffer.Range, removed string) Op {
	return Op{Kind: OpDelete, Pos: r.Start, End: r.End, Text: removed}
}

// Range returns the span the op's text occupies in the buffer: after the
// op for inserts, before it for deletes.
func (o Op) Range() buffer.Range {
	if o.Kind == OpDelete {
		return buffer.Range{Start: o.Pos, End: o.End}
	}
	return buffer.RangeOf(o.Pos, o.Text)
}

// Invert returns the op that undoes o.
func (o Op) Invert() Op {
	if o.Kind == OpDelete {
		return Insert(o.Pos, o.Text)
	}
	return Delete(buffer.RangeOf(o.Pos, o.Text), o.Text)
}

// Apply performs the op on buf and returns the resulting caret position.
func (o Op) Apply(buf *buffer.Buffer) (buffer.Position, error) {
	if o.Kind == OpInsert {
		return buf.Insert(o.Pos, o.Text)
	}

	r := buffer.Range{Start: o.Pos, End: o.End}
	current, err := buf.TextRange(r)
	if err != nil {
		return o.Pos, err
	}
	if current != o.Text {
		return o.Pos, fmt.Errorf("%w: have %q, want %q", ErrTextMismatch, current, o.Text)
	}
	if _, err := buf.Delete(r); err != nil {
		return o.Pos, err
	}
	return o.Pos, nil
}

// IsTypedChar reports whether o inserts exactly one grapheme that is not a
// line break.
func (o Op) IsTypedChar() bool {
	if o.Kind != OpInsert || strings.ContainsAny(o.Text, "\r\n") {
		return false
	}
	return buffer.GraphemeCount(o.Text) == 1
}

// String returns a description for debugging.
func (o Op) String() string {
	return fmt.Sprintf("%s%s %q", o.Kind, o.Range(), o.Text)
}

// applyAll applies ops in order. If one fails, the ops already applied are
// reverted so the buffer is left as it was.
func applyAll(buf *buffer.Buffer, ops []Op) error {
	for i, op := range ops {
		if _, err := op.Apply(buf); err != nil {
			for j := i - 1; j >= 0; j-- {
				_, _ = ops[j].Invert().Apply(buf)
			}
			return err
		}
	}
	return nil
}
