package engine

import (
	"errors"
	"strings"
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/engine/clipboard"
	"github.com/dshills/scribe/internal/engine/cursor"
	"github.com/dshills/scribe/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// Position is a line/column location.
	Position = buffer.Position

	// Range is a span of positions.
	Range = buffer.Range

	// Selection is the caret and its anchor.
	Selection = cursor.Selection

	// Motion is a navigation intent.
	Motion = cursor.Motion

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding
)

// Change describes the lines touched by one buffer mutation: lines
// StartLine through OldEndLine were replaced by StartLine through
// NewEndLine.
type Change struct {
	StartLine  int
	OldEndLine int
	NewEndLine int
}

// Delta returns how many lines the change added (negative if removed).
func (c Change) Delta() int {
	return c.NewEndLine - c.OldEndLine
}

func changeFor(op history.Op) Change {
	r := op.Range()
	if op.Kind == history.OpDelete {
		return Change{StartLine: r.Start.Line, OldEndLine: r.End.Line, NewEndLine: r.Start.Line}
	}
	return Change{StartLine: r.Start.Line, OldEndLine: r.Start.Line, NewEndLine: r.End.Line}
}

// Engine is the main facade for editing one document.
type Engine struct {
	buf     *buffer.Buffer
	cursor  *cursor.Cursor
	history *history.History
	clip    *clipboard.Register

	listeners []func(Change)

	// Configuration
	lineEnding      buffer.LineEnding
	lineEndingSet   bool
	maxUndoEntries  int
	coalesceTimeout time.Duration
	now             func() time.Time
	pageSize        int

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxUndoEntries:  DefaultMaxUndoEntries,
		coalesceTimeout: DefaultCoalesceTimeout,
		pageSize:        DefaultPageSize,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.clip == nil {
		e.clip = clipboard.New()
	}
	e.reset(e.initContent)
	e.initContent = ""
	return e
}

func (e *Engine) reset(content string) {
	var bufOpts []buffer.Option
	if e.lineEndingSet {
		bufOpts = append(bufOpts, buffer.WithLineEnding(e.lineEnding))
	}
	e.buf = buffer.NewFromString(content, bufOpts...)
	e.cursor = cursor.New()

	histOpts := []history.Option{
		history.WithMaxFrames(e.maxUndoEntries),
		history.WithCoalesceTimeout(e.coalesceTimeout),
	}
	if e.now != nil {
		histOpts = append(histOpts, history.WithClock(e.now))
	}
	e.history = history.New(histOpts...)
}

// Buffer returns the underlying buffer. Callers must not mutate it directly.
func (e *Engine) Buffer() *buffer.Buffer {
	return e.buf
}

// History returns the undo history.
func (e *Engine) History() *history.History {
	return e.history
}

// Clipboard returns the register the engine copies to and pastes from.
func (e *Engine) Clipboard() *clipboard.Register {
	return e.clip
}

// Text returns the document content with original line endings.
func (e *Engine) Text() string {
	return e.buf.Text()
}

// Selection returns the current selection.
func (e *Engine) Selection() Selection {
	return e.cursor.Selection()
}

// Position returns the caret position.
func (e *Engine) Position() Position {
	return e.cursor.Position()
}

// SetPageSize sets how many lines page motions travel.
func (e *Engine) SetPageSize(n int) {
	if n > 0 {
		e.pageSize = n
	}
}

// OnChange registers fn to be called after every buffer mutation.
func (e *Engine) OnChange(fn func(Change)) {
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) notify(c Change) {
	for _, fn := range e.listeners {
		fn(c)
	}
}

// Load replaces the whole document with content, discarding history and
// moving the caret to the start.
func (e *Engine) Load(content string, ending LineEnding) {
	old := e.buf.LineCount() - 1
	e.lineEnding = ending
	e.lineEndingSet = ending != buffer.LineEndingNone
	e.reset(content)
	e.notify(Change{StartLine: 0, OldEndLine: old, NewEndLine: e.buf.LineCount() - 1})
}

// Replace swaps the whole document for text as a single undoable frame,
// keeping the caret where it was when that position still exists.
func (e *Engine) Replace(text string) error {
	if text == e.buf.Text() {
		return nil
	}
	e.history.Close()
	sel := e.cursor.Selection()
	if err := e.replace("reload", Range{End: e.buf.End()}, text, false); err != nil {
		return err
	}
	e.cursor.Set(cursor.Caret(e.buf.Clamp(sel.Active)))
	return nil
}

// replace swaps the text in r for text as one atomic edit. typed marks a
// keystroke that may join the open typing frame.
func (e *Engine) replace(label string, r Range, text string, typed bool) error {
	removed, err := e.buf.TextRange(r)
	if err != nil {
		return err
	}
	if removed == "" && text == "" {
		return nil
	}

	// An edit that merges graphemes across its edges cannot be undone by
	// column arithmetic, so it is recorded as a swap of whole lines.
	seamless := e.seamless(r, text)
	var oldLines string
	if !seamless {
		oldLines = e.lineSpan(r.Start.Line, r.End.Line)
	}

	var ops []history.Op
	if removed != "" {
		ops = append(ops, history.Delete(r, removed))
	}
	if text != "" {
		ops = append(ops, history.Insert(r.Start, text))
	}

	before := e.cursor.Selection()
	if removed != "" {
		if _, err := e.buf.Delete(r); err != nil {
			return err
		}
	}
	end := r.Start
	if text != "" {
		end, err = e.buf.Insert(r.Start, text)
		if err != nil {
			if removed != "" {
				_, _ = e.buf.Insert(r.Start, removed)
			}
			return err
		}
	}

	if !seamless {
		first := Position{Line: r.Start.Line}
		oldEnd := Position{Line: r.End.Line, Column: buffer.GraphemeCount(lastLine(oldLines))}
		ops = []history.Op{
			history.Delete(Range{Start: first, End: oldEnd}, oldLines),
			history.Insert(first, e.lineSpan(r.Start.Line, end.Line)),
		}
		typed = false
	}

	e.cursor.Set(cursor.Caret(e.buf.Clamp(end)))
	after := e.cursor.Selection()

	if typed && len(ops) == 1 {
		e.history.Typed(ops[0], before, after)
	} else {
		e.history.Record(history.NewFrame(label, before, after, ops...))
	}

	e.notify(Change{StartLine: r.Start.Line, OldEndLine: r.End.Line, NewEndLine: end.Line})
	return nil
}

// seamless reports whether replacing r with text leaves the grapheme
// boundaries of the surrounding text alone.
func (e *Engine) seamless(r Range, text string) bool {
	first := e.buf.LineText(r.Start.Line)
	last := e.buf.LineText(r.End.Line)
	head := first[:buffer.ByteOffset(first, r.Start.Column)]
	tail := last[buffer.ByteOffset(last, r.End.Column):]
	return buffer.Seamless(head, text, tail)
}

// lineSpan returns lines from through to, without the final terminator.
func (e *Engine) lineSpan(from, to int) string {
	text, _ := e.buf.TextRange(Range{
		Start: Position{Line: from},
		End:   Position{Line: to, Column: e.buf.LineLen(to)},
	})
	return text
}

// lastLine returns the text after the final line break in s.
func lastLine(s string) string {
	if i := strings.LastIndexAny(s, "\r\n"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// InsertText inserts text at the caret, replacing the selection if any.
func (e *Engine) InsertText(text string) error {
	sel := e.cursor.Selection()
	if !sel.IsEmpty() {
		e.history.Close()
		return e.replace("insert", sel.Range(), text, false)
	}
	return e.replace("insert", sel.Range(), text, true)
}

// InsertRune types a single character.
func (e *Engine) InsertRune(r rune) error {
	return e.InsertText(string(r))
}

// InsertNewline splits the line at the caret using the buffer's line
// ending. It always closes the open typing frame.
func (e *Engine) InsertNewline() error {
	e.history.Close()
	return e.replace("newline", e.cursor.Selection().Range(), e.buf.LineEnding().Sequence(), false)
}

// Backspace deletes the selection, or the character before the caret.
func (e *Engine) Backspace() error {
	e.history.Close()
	sel := e.cursor.Selection()
	if !sel.IsEmpty() {
		return e.replace("delete", sel.Range(), "", false)
	}
	p := e.buf.Clamp(sel.Active)
	prev := cursor.Target(e.buf, p, cursor.MoveLeft, 1, 0)
	if prev == p {
		return nil
	}
	return e.replace("backspace", Range{Start: prev, End: p}, "", false)
}

// DeleteForward deletes the selection, or the character after the caret.
func (e *Engine) DeleteForward() error {
	e.history.Close()
	sel := e.cursor.Selection()
	if !sel.IsEmpty() {
		return e.replace("delete", sel.Range(), "", false)
	}
	p := e.buf.Clamp(sel.Active)
	next := cursor.Target(e.buf, p, cursor.MoveRight, 1, 0)
	if next == p {
		return nil
	}
	return e.replace("delete", Range{Start: p, End: next}, "", false)
}

// Copy stores the selected text in the clipboard. It returns false when
// nothing is selected.
func (e *Engine) Copy() (bool, error) {
	sel := e.cursor.Selection()
	if sel.IsEmpty() {
		return false, nil
	}
	text, err := e.buf.TextRange(sel.Range())
	if err != nil {
		return false, err
	}
	e.clip.Set(text)
	return true, nil
}

// Cut copies the selection to the clipboard and deletes it as one frame.
func (e *Engine) Cut() (bool, error) {
	e.history.Close()
	ok, err := e.Copy()
	if !ok || err != nil {
		return ok, err
	}
	return true, e.replace("cut", e.cursor.Selection().Range(), "", false)
}

// Paste inserts the clipboard at the caret, replacing the selection in the
// same frame. It returns false when the clipboard is empty.
func (e *Engine) Paste() (bool, error) {
	text, ok := e.clip.Get()
	if !ok {
		return false, nil
	}
	e.history.Close()
	return true, e.replace("paste", e.cursor.Selection().Range(), text, false)
}

// Undo reverts the last history frame and restores the selection it
// started from. It returns ErrNothingToUndo when there is nothing to do.
func (e *Engine) Undo() error {
	f, err := e.history.Undo(e.buf)
	if err != nil {
		return err
	}
	for i := len(f.Ops) - 1; i >= 0; i-- {
		e.notify(changeFor(f.Ops[i].Invert()))
	}
	e.cursor.Set(f.Before.Clamp(e.buf))
	return nil
}

// Redo re-applies the last undone frame and restores the selection it
// ended with. It returns ErrNothingToRedo when there is nothing to do.
func (e *Engine) Redo() error {
	f, err := e.history.Redo(e.buf)
	if err != nil {
		return err
	}
	for _, op := range f.Ops {
		e.notify(changeFor(op))
	}
	e.cursor.Set(f.After.Clamp(e.buf))
	return nil
}

// Move applies a navigation intent. With extend the selection grows from
// its anchor. Navigation closes the open typing frame.
func (e *Engine) Move(m Motion, extend bool) Selection {
	e.history.Close()
	return e.cursor.Apply(e.buf, m, extend, e.pageSize)
}

// Click moves the caret to p, as a mouse click does.
func (e *Engine) Click(p Position, extend bool) {
	e.history.Close()
	e.cursor.SetPosition(e.buf, p, extend)
}

// SelectAll selects the whole document.
func (e *Engine) SelectAll() {
	e.history.Close()
	e.cursor.SelectAll(e.buf)
}

// Commit closes the open typing frame and collapses the selection.
func (e *Engine) Commit() {
	e.history.Close()
	e.cursor.Set(e.cursor.Selection().Collapse())
}

// IsNoop reports whether err only says there was nothing to undo or redo.
func IsNoop(err error) bool {
	return errors.Is(err, ErrNothingToUndo) || errors.Is(err, ErrNothingToRedo)
}
