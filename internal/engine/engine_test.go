package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/engine/clipboard"
	"github.com/dshills/scribe/internal/engine/cursor"
)

func pos(line, col int) Position {
	return Position{Line: line, Column: col}
}

func typeText(t *testing.T, e *Engine, s string) {
	t.Helper()
	for _, r := range s {
		if err := e.InsertRune(r); err != nil {
			t.Fatalf("InsertRune(%q): %v", r, err)
		}
	}
}

func TestEnterSplitsLine(t *testing.T) {
	e := New(WithContent("hello\nworld"))
	e.Click(pos(0, 5), false)

	if err := e.InsertNewline(); err != nil {
		t.Fatalf("InsertNewline: %v", err)
	}

	want := []string{"hello", "", "world"}
	got := e.Buffer().Lines()
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if e.Position() != pos(1, 0) {
		t.Errorf("Position() = %v, want (1:0)", e.Position())
	}
}

func TestNewlineUsesBufferEnding(t *testing.T) {
	e := New(WithContent("a\r\nb"))
	e.Click(pos(1, 1), false)

	if err := e.InsertNewline(); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != "a\r\nb\r\n" {
		t.Errorf("Text() = %q, want %q", got, "a\r\nb\r\n")
	}
}

func TestDeleteSelection(t *testing.T) {
	e := New(WithContent("hello"))
	e.Click(pos(0, 1), false)
	e.Click(pos(0, 4), true)

	if err := e.DeleteForward(); err != nil {
		t.Fatalf("DeleteForward: %v", err)
	}
	if got := e.Text(); got != "ho" {
		t.Errorf("Text() = %q, want %q", got, "ho")
	}
	if e.Position() != pos(0, 1) {
		t.Errorf("Position() = %v, want (0:1)", e.Position())
	}
}

func TestBackspaceJoinsLines(t *testing.T) {
	e := New(WithContent("ab\ncd"))
	e.Click(pos(1, 0), false)

	if err := e.Backspace(); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != "abcd" {
		t.Errorf("Text() = %q, want %q", got, "abcd")
	}
	if e.Position() != pos(0, 2) {
		t.Errorf("Position() = %v, want (0:2)", e.Position())
	}

	e.Click(pos(0, 0), false)
	if err := e.Backspace(); err != nil {
		t.Fatal(err)
	}
	if e.History().UndoCount() != 1 {
		t.Errorf("backspace at start should not record, UndoCount() = %d", e.History().UndoCount())
	}
}

func TestDeleteForwardAtEnd(t *testing.T) {
	e := New(WithContent("ab"))
	e.Click(pos(0, 2), false)

	if err := e.DeleteForward(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "ab" || e.History().CanUndo() {
		t.Error("delete at end of buffer should be a no-op")
	}
}

func TestTypingCoalesces(t *testing.T) {
	e := New()
	typeText(t, e, "abc")

	if n := e.History().UndoCount(); n != 1 {
		t.Fatalf("UndoCount() = %d, want 1", n)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "" || e.Position() != pos(0, 0) {
		t.Errorf("after undo Text() = %q at %v", e.Text(), e.Position())
	}
}

func TestTypingInterruptedByMove(t *testing.T) {
	e := New()
	typeText(t, e, "a")
	e.Move(cursor.MoveLeft, false)
	typeText(t, e, "b")

	if n := e.History().UndoCount(); n != 2 {
		t.Errorf("UndoCount() = %d, want 2", n)
	}
	if e.Text() != "ba" {
		t.Errorf("Text() = %q, want %q", e.Text(), "ba")
	}
}

func TestTypingPauseClosesFrame(t *testing.T) {
	now := time.Unix(0, 0)
	e := New(WithClock(func() time.Time { return now }), WithCoalesceTimeout(time.Second))

	typeText(t, e, "ab")
	now = now.Add(3 * time.Second)
	typeText(t, e, "c")

	if n := e.History().UndoCount(); n != 2 {
		t.Errorf("UndoCount() = %d, want 2", n)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := New(WithContent("one\ntwo"))
	type state struct {
		text string
		pos  Position
	}
	states := []state{{e.Text(), e.Position()}}
	record := func() { states = append(states, state{e.Text(), e.Position()}) }

	e.Move(cursor.MoveLineEnd, false)
	typeText(t, e, "!!")
	record()
	if err := e.InsertNewline(); err != nil {
		t.Fatal(err)
	}
	record()
	e.Move(cursor.MoveBufferEnd, false)
	if err := e.Backspace(); err != nil {
		t.Fatal(err)
	}
	record()
	e.SelectAll()
	typeText(t, e, "x")
	record()

	k := len(states) - 1
	for i := k; i > 0; i-- {
		if err := e.Undo(); err != nil {
			t.Fatalf("Undo %d: %v", i, err)
		}
		if e.Text() != states[i-1].text {
			t.Errorf("undo to %d: Text() = %q, want %q", i-1, e.Text(), states[i-1].text)
		}
	}
	if err := e.Undo(); !errors.Is(err, ErrNothingToUndo) || !IsNoop(err) {
		t.Errorf("extra Undo error = %v, want ErrNothingToUndo", err)
	}

	for i := 1; i <= k; i++ {
		if err := e.Redo(); err != nil {
			t.Fatalf("Redo %d: %v", i, err)
		}
		if e.Text() != states[i].text || e.Position() != states[i].pos {
			t.Errorf("redo to %d: %q at %v, want %q at %v", i, e.Text(), e.Position(), states[i].text, states[i].pos)
		}
	}
}

func TestUndoRestoresCursor(t *testing.T) {
	e := New(WithContent("hello"))
	e.Click(pos(0, 2), false)
	typeText(t, e, "XY")

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Position() != pos(0, 2) {
		t.Errorf("Position() after undo = %v, want (0:2)", e.Position())
	}
}

func TestEditAfterUndoClearsRedo(t *testing.T) {
	e := New()
	typeText(t, e, "a")
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	typeText(t, e, "b")

	if err := e.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo error = %v, want ErrNothingToRedo", err)
	}
}

func TestCopyDoesNotMutate(t *testing.T) {
	e := New(WithContent("hello world"))
	e.Click(pos(0, 0), false)
	e.Click(pos(0, 5), true)

	ok, err := e.Copy()
	if err != nil || !ok {
		t.Fatalf("Copy() = %v, %v", ok, err)
	}
	if e.Text() != "hello world" || e.History().CanUndo() {
		t.Error("copy must not mutate the buffer or history")
	}
	if got, _ := e.Clipboard().Get(); got != "hello" {
		t.Errorf("clipboard = %q, want %q", got, "hello")
	}
}

func TestCutPasteAcrossEngines(t *testing.T) {
	clip := clipboard.New()
	a := New(WithContent("alpha\nbeta"), WithClipboard(clip))
	b := New(WithContent("x"), WithClipboard(clip))

	a.Click(pos(0, 2), false)
	a.Click(pos(1, 2), true)
	if ok, err := a.Cut(); !ok || err != nil {
		t.Fatalf("Cut() = %v, %v", ok, err)
	}
	if a.Text() != "alta" {
		t.Errorf("after cut Text() = %q, want %q", a.Text(), "alta")
	}
	if a.History().UndoCount() != 1 {
		t.Errorf("cut should be one frame, got %d", a.History().UndoCount())
	}

	b.Click(pos(0, 1), false)
	if ok, err := b.Paste(); !ok || err != nil {
		t.Fatalf("Paste() = %v, %v", ok, err)
	}
	if b.Text() != "xpha\nbe" {
		t.Errorf("after paste Text() = %q, want %q", b.Text(), "xpha\nbe")
	}
	if b.Position() != pos(1, 2) {
		t.Errorf("Position() after paste = %v, want (1:2)", b.Position())
	}
}

func TestPasteReplacesSelectionInOneFrame(t *testing.T) {
	e := New(WithContent("hello world"))
	e.Clipboard().Set("bye")
	e.Click(pos(0, 0), false)
	e.Click(pos(0, 5), true)

	if _, err := e.Paste(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "bye world" {
		t.Errorf("Text() = %q, want %q", e.Text(), "bye world")
	}
	if e.History().UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", e.History().UndoCount())
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "hello world" {
		t.Errorf("after undo Text() = %q", e.Text())
	}
	if sel := e.Selection(); sel.Anchor != pos(0, 0) || sel.Active != pos(0, 5) {
		t.Errorf("undo should restore selection, got %v", sel)
	}
}

func TestPasteEmptyClipboard(t *testing.T) {
	e := New(WithContent("abc"))
	ok, err := e.Paste()
	if ok || err != nil {
		t.Errorf("Paste() = %v, %v, want false, nil", ok, err)
	}
	if e.History().CanUndo() {
		t.Error("empty paste must not record history")
	}
}

func TestChangeNotifications(t *testing.T) {
	e := New(WithContent("a\nb\nc"))
	var changes []Change
	e.OnChange(func(c Change) { changes = append(changes, c) })

	e.Click(pos(1, 1), false)
	if err := e.InsertNewline(); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 || changes[0] != (Change{StartLine: 1, OldEndLine: 1, NewEndLine: 2}) {
		t.Fatalf("changes = %+v", changes)
	}
	if changes[0].Delta() != 1 {
		t.Errorf("Delta() = %d, want 1", changes[0].Delta())
	}

	changes = nil
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 || changes[0] != (Change{StartLine: 1, OldEndLine: 2, NewEndLine: 1}) {
		t.Errorf("undo changes = %+v", changes)
	}
}

func TestLoadResetsState(t *testing.T) {
	e := New(WithContent("old"))
	typeText(t, e, "x")

	e.Load("new\r\ncontent", buffer.LineEndingCRLF)
	if e.Text() != "new\r\ncontent" {
		t.Errorf("Text() = %q", e.Text())
	}
	if e.History().CanUndo() || e.Position() != pos(0, 0) {
		t.Error("Load should reset history and cursor")
	}
}

func TestCommitCollapsesAndCloses(t *testing.T) {
	e := New(WithContent("abc"))
	typeText(t, e, "x")
	e.Commit()
	typeText(t, e, "y")

	if n := e.History().UndoCount(); n != 2 {
		t.Errorf("UndoCount() = %d, want 2", n)
	}
}

func TestReplaceIsOneFrame(t *testing.T) {
	e := New(WithContent("one\ntwo\nthree"))
	e.Click(pos(2, 4), false)

	if err := e.Replace("uno\ndos"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if e.Text() != "uno\ndos" {
		t.Errorf("Text() = %q, want %q", e.Text(), "uno\ndos")
	}
	if e.Position() != pos(1, 3) {
		t.Errorf("Position() = %v, want clamped (1:3)", e.Position())
	}
	if n := e.History().UndoCount(); n != 1 {
		t.Errorf("UndoCount() = %d, want 1", n)
	}

	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "one\ntwo\nthree" {
		t.Errorf("after undo Text() = %q", e.Text())
	}

	if err := e.Replace(e.Text()); err != nil || e.History().CanUndo() {
		t.Error("replacing with identical text should not record history")
	}
}

func TestMergingInsertUndo(t *testing.T) {
	tests := []struct {
		name   string
		runes  []rune
		merged string
		first  string
	}{
		{"combining mark", []rune{'e', '\u0301'}, "e\u0301", "e"},
		{"flag", []rune{'\U0001F1FA', '\U0001F1F8'}, "\U0001F1FA\U0001F1F8", "\U0001F1FA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			for _, r := range tt.runes {
				if err := e.InsertRune(r); err != nil {
					t.Fatalf("InsertRune(%q): %v", r, err)
				}
			}
			if e.Text() != tt.merged || e.Position() != pos(0, 1) {
				t.Fatalf("Text() = %q at %v, want %q at (0:1)", e.Text(), e.Position(), tt.merged)
			}

			if err := e.Undo(); err != nil {
				t.Fatalf("Undo: %v", err)
			}
			if e.Text() != tt.first {
				t.Errorf("after undo Text() = %q, want %q", e.Text(), tt.first)
			}
			if err := e.Undo(); err != nil {
				t.Fatalf("second Undo: %v", err)
			}
			if e.Text() != "" || e.History().CanUndo() {
				t.Errorf("after undoing everything Text() = %q, CanUndo() = %v", e.Text(), e.History().CanUndo())
			}

			for i := 0; i < 2; i++ {
				if err := e.Redo(); err != nil {
					t.Fatalf("Redo: %v", err)
				}
			}
			if e.Text() != tt.merged {
				t.Errorf("after redo Text() = %q, want %q", e.Text(), tt.merged)
			}
		})
	}
}

func TestMergingInsertKeepsOtherLines(t *testing.T) {
	e := New(WithContent("ab\r\ncd"))
	e.Click(pos(0, 1), false)

	if err := e.InsertText("\u0301"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if e.Text() != "a\u0301b\r\ncd" {
		t.Fatalf("Text() = %q", e.Text())
	}
	if e.Position() != pos(0, 1) {
		t.Errorf("Position() = %v, want (0:1)", e.Position())
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if e.Text() != "ab\r\ncd" {
		t.Errorf("after undo Text() = %q, want %q", e.Text(), "ab\r\ncd")
	}
}

func TestMergingDeleteUndo(t *testing.T) {
	const orig = "\U0001F1FAx\U0001F1F8"
	e := New(WithContent(orig))
	e.Click(pos(0, 2), false)

	if err := e.Backspace(); err != nil {
		t.Fatalf("Backspace: %v", err)
	}
	if e.Text() != "\U0001F1FA\U0001F1F8" || e.Buffer().LineLen(0) != 1 {
		t.Fatalf("Text() = %q (%d graphemes), want one flag", e.Text(), e.Buffer().LineLen(0))
	}

	if err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if e.Text() != orig {
		t.Errorf("after undo Text() = %q, want %q", e.Text(), orig)
	}
	if err := e.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if e.Text() != "\U0001F1FA\U0001F1F8" {
		t.Errorf("after redo Text() = %q", e.Text())
	}
}
