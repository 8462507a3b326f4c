package history

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/engine/cursor"
)

func pos(line, col int) buffer.Position {
	return buffer.Position{Line: line, Column: col}
}

// fakeClock returns a controllable clock for coalescing tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// typeString inserts s one grapheme at a time the way the engine does.
func typeString(t *testing.T, h *History, buf *buffer.Buffer, at buffer.Position, s string) buffer.Position {
	t.Helper()
	for _, g := range buffer.Graphemes(s) {
		op := Insert(at, g)
		end, err := op.Apply(buf)
		if err != nil {
			t.Fatalf("apply %v: %v", op, err)
		}
		h.Typed(op, cursor.Caret(at), cursor.Caret(end))
		at = end
	}
	return at
}

// Op Tests

func TestOpInvert(t *testing.T) {
	tests := []struct {
		name string
		text string
		op   Op
	}{
		{"insert", "hello", Insert(pos(0, 2), "XY")},
		{"insert lines", "hello", Insert(pos(0, 5), "\nnext\r\nline")},
		{"delete", "hello\nworld", Delete(buffer.Range{Start: pos(0, 3), End: pos(1, 2)}, "lo\nwo")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewFromString(tt.text)
			if _, err := tt.op.Apply(buf); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if _, err := tt.op.Invert().Apply(buf); err != nil {
				t.Fatalf("Apply inverse: %v", err)
			}
			if got := buf.Text(); got != tt.text {
				t.Errorf("Text() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestOpDeleteMismatch(t *testing.T) {
	buf := buffer.NewFromString("hello")
	op := Delete(buffer.Range{Start: pos(0, 0), End: pos(0, 2)}, "xx")

	if _, err := op.Apply(buf); !errors.Is(err, ErrTextMismatch) {
		t.Errorf("Apply error = %v, want ErrTextMismatch", err)
	}
	if buf.Text() != "hello" {
		t.Errorf("buffer modified on mismatch: %q", buf.Text())
	}
}

func TestIsTypedChar(t *testing.T) {
	tests := []struct {
		op   Op
		want bool
	}{
		{Insert(pos(0, 0), "a"), true},
		{Insert(pos(0, 0), "é"), true},
		{Insert(pos(0, 0), "ab"), false},
		{Insert(pos(0, 0), "\n"), false},
		{Delete(buffer.Range{Start: pos(0, 0), End: pos(0, 1)}, "a"), false},
	}
	for _, tt := range tests {
		if got := tt.op.IsTypedChar(); got != tt.want {
			t.Errorf("%v.IsTypedChar() = %v, want %v", tt.op, got, tt.want)
		}
	}
}

// Coalescing Tests

func TestTypingCoalescesIntoOneFrame(t *testing.T) {
	buf := buffer.New()
	h := New()

	typeString(t, h, buf, pos(0, 0), "abc")

	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	f, _ := h.PeekUndo()
	if f.Len() != 3 {
		t.Errorf("frame has %d ops, want 3", f.Len())
	}

	if _, err := h.Undo(buf); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if buf.Text() != "" {
		t.Errorf("after undo Text() = %q, want empty", buf.Text())
	}
}

func TestNavigationSplitsFrames(t *testing.T) {
	buf := buffer.NewFromString("xy")
	h := New()

	typeString(t, h, buf, pos(0, 0), "a")
	h.Close()
	typeString(t, h, buf, pos(0, 3), "b")

	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}
}

func TestCursorJumpSplitsFrames(t *testing.T) {
	buf := buffer.NewFromString("xy")
	h := New()

	typeString(t, h, buf, pos(0, 0), "a")
	// Not adjacent to the previous insert.
	typeString(t, h, buf, pos(0, 3), "b")

	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}
}

func TestTimeGapSplitsFrames(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	buf := buffer.New()
	h := New(WithClock(clock.now), WithCoalesceTimeout(time.Second))

	at := typeString(t, h, buf, pos(0, 0), "ab")
	clock.advance(500 * time.Millisecond)
	at = typeString(t, h, buf, at, "c")
	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1 within timeout", h.UndoCount())
	}

	clock.advance(2 * time.Second)
	typeString(t, h, buf, at, "d")
	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2 after pause", h.UndoCount())
	}
}

func TestRecordSealsOpenFrame(t *testing.T) {
	buf := buffer.New()
	h := New()

	at := typeString(t, h, buf, pos(0, 0), "ab")
	h.Record(NewFrame("newline", cursor.Caret(at), cursor.Caret(pos(1, 0)), Insert(at, "\n")))
	if _, err := buf.Insert(at, "\n"); err != nil {
		t.Fatal(err)
	}
	if h.IsOpen() {
		t.Error("Record should seal the open frame")
	}
	typeString(t, h, buf, pos(1, 0), "c")

	if h.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", h.UndoCount())
	}
}

// Undo/Redo Tests

func TestUndoRedoRoundTrip(t *testing.T) {
	buf := buffer.NewFromString("start")
	h := New()
	states := []string{buf.Text()}
	sels := []cursor.Selection{cursor.Caret(pos(0, 5))}

	edits := []Op{
		Insert(pos(0, 5), " one"),
		Insert(pos(0, 0), "zero\n"),
		Delete(buffer.Range{Start: pos(1, 0), End: pos(1, 2)}, "st"),
	}
	for _, op := range edits {
		before := sels[len(sels)-1]
		end, err := op.Apply(buf)
		if err != nil {
			t.Fatalf("Apply %v: %v", op, err)
		}
		after := cursor.Caret(end)
		h.Record(NewFrame("edit", before, after, op))
		states = append(states, buf.Text())
		sels = append(sels, after)
	}

	for k := len(edits); k > 0; k-- {
		f, err := h.Undo(buf)
		if err != nil {
			t.Fatalf("Undo: %v", err)
		}
		if buf.Text() != states[k-1] {
			t.Errorf("undo %d: Text() = %q, want %q", k, buf.Text(), states[k-1])
		}
		if f.Before != sels[k-1] {
			t.Errorf("undo %d: Before = %v, want %v", k, f.Before, sels[k-1])
		}
	}

	for k := 1; k <= len(edits); k++ {
		f, err := h.Redo(buf)
		if err != nil {
			t.Fatalf("Redo: %v", err)
		}
		if buf.Text() != states[k] {
			t.Errorf("redo %d: Text() = %q, want %q", k, buf.Text(), states[k])
		}
		if f.After != sels[k] {
			t.Errorf("redo %d: After = %v, want %v", k, f.After, sels[k])
		}
	}
}

func TestCompoundFrameUndo(t *testing.T) {
	buf := buffer.NewFromString("hello world")
	h := New()

	r := buffer.Range{Start: pos(0, 0), End: pos(0, 5)}
	removed, _ := buf.Delete(r)
	end, _ := buf.Insert(pos(0, 0), "bye")
	h.Record(NewFrame("paste", cursor.NewSelection(r.Start, r.End), cursor.Caret(end),
		Delete(r, removed), Insert(pos(0, 0), "bye")))

	if buf.Text() != "bye world" {
		t.Fatalf("Text() = %q", buf.Text())
	}
	if _, err := h.Undo(buf); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if buf.Text() != "hello world" {
		t.Errorf("after undo Text() = %q, want %q", buf.Text(), "hello world")
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	buf := buffer.New()
	h := New()

	typeString(t, h, buf, pos(0, 0), "a")
	if _, err := h.Undo(buf); err != nil {
		t.Fatal(err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	typeString(t, h, buf, pos(0, 0), "b")
	if h.CanRedo() {
		t.Error("new edit should clear the redo stack")
	}
	if _, err := h.Redo(buf); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo error = %v, want ErrNothingToRedo", err)
	}
}

func TestUndoEmpty(t *testing.T) {
	h := New()
	buf := buffer.New()

	if _, err := h.Undo(buf); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo error = %v, want ErrNothingToUndo", err)
	}
	if _, err := h.Redo(buf); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo error = %v, want ErrNothingToRedo", err)
	}
}

func TestMaxFrames(t *testing.T) {
	h := New(WithMaxFrames(2))
	buf := buffer.New()

	for i := 0; i < 5; i++ {
		end, _ := buf.Insert(buf.End(), "x")
		h.Record(NewFrame("edit", cursor.Caret(end), cursor.Caret(end), Insert(buffer.Position{Column: end.Column - 1}, "x")))
	}

	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}
}

func TestUndoFailureLeavesStacks(t *testing.T) {
	buf := buffer.NewFromString("abc")
	h := New()
	h.Record(NewFrame("edit", cursor.Selection{}, cursor.Selection{}, Insert(pos(0, 3), "zzz")))

	// The buffer never received the insert, so reverting it must fail.
	if _, err := h.Undo(buf); err == nil {
		t.Fatal("expected undo to fail")
	}
	if h.UndoCount() != 1 || h.CanRedo() {
		t.Error("failed undo must not move the frame")
	}
	if buf.Text() != "abc" {
		t.Errorf("buffer modified by failed undo: %q", buf.Text())
	}
}

func TestLineSwapFrameUndo(t *testing.T) {
	// A combining mark typed after "e" merges into one grapheme, so the
	// edit is recorded as replacing the whole line.
	buf := buffer.NewFromString("e\nnext")
	h := New()

	old := buf.LineText(0)
	if _, err := buf.Insert(pos(0, 1), "\u0301"); err != nil {
		t.Fatal(err)
	}
	h.Record(NewFrame("insert", cursor.Caret(pos(0, 1)), cursor.Caret(pos(0, 1)),
		Delete(buffer.Range{Start: pos(0, 0), End: pos(0, 1)}, old),
		Insert(pos(0, 0), buf.LineText(0))))

	if _, err := h.Undo(buf); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if buf.Text() != "e\nnext" {
		t.Errorf("after undo Text() = %q, want %q", buf.Text(), "e\nnext")
	}
	if _, err := h.Redo(buf); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if buf.Text() != "e\u0301\nnext" {
		t.Errorf("after redo Text() = %q", buf.Text())
	}
}

func TestInsertRangeAfterMerge(t *testing.T) {
	buf := buffer.NewFromString("e")
	op := Insert(pos(0, 1), "\u0301")

	end, err := op.Apply(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !buf.Valid(end) {
		t.Errorf("Apply returned %v, past the end of %q", end, buf.Text())
	}
}
