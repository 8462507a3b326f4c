package buffer

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by buffer operations.
var (
	ErrOutOfBounds  = errors.New("position out of bounds")
	ErrRangeInvalid = errors.New("invalid range")
)

// PositionError records the operation and position that failed validation.
type PositionError struct {
	Op  string
	Pos Position
	Err error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("buffer: %s at %s: %v", e.Op, e.Pos, e.Err)
}

func (e *PositionError) Unwrap() error {
	return e.Err
}

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
	LineEndingNone                   // last line of a document
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	case LineEndingNone:
		return "none"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	case LineEndingNone:
		return ""
	default:
		return "\n"
	}
}

// Name returns a short label suitable for a status bar.
func (le LineEnding) Name() string {
	switch le {
	case LineEndingCRLF:
		return "CRLF"
	case LineEndingCR:
		return "CR"
	default:
		return "LF"
	}
}

// Line is a single buffer line without its terminator.
type Line struct {
	text   string
	ending LineEnding
	length int
}

func newLine(text string, ending LineEnding) Line {
	return Line{text: text, ending: ending, length: GraphemeCount(text)}
}

// Text returns the line content without the terminator.
func (l Line) Text() string { return l.text }

// Ending returns the terminator that follows the line.
func (l Line) Ending() LineEnding { return l.ending }

// Len returns the line length in grapheme clusters.
func (l Line) Len() int { return l.length }

// Buffer is an ordered, never empty sequence of lines.
type Buffer struct {
	lines      []Line
	lineEnding LineEnding
	version    uint64
}

// New creates an empty buffer holding a single empty line.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      []Line{newLine("", LineEndingNone)},
		lineEnding: LineEndingLF,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer holding text. The default line ending used
// for new line breaks is detected from text unless an option overrides it.
func NewFromString(text string, opts ...Option) *Buffer {
	b := &Buffer{
		lines:      splitLines(text),
		lineEnding: DetectLineEnding(text),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// splitLines breaks text on \r\n, \n and \r. It always returns at least one
// line and the last line never has a terminator.
func splitLines(text string) []Line {
	lines := make([]Line, 0, strings.Count(text, "\n")+1)
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, newLine(text[start:i], LineEndingLF))
			start = i + 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				lines = append(lines, newLine(text[start:i], LineEndingCRLF))
				i++
			} else {
				lines = append(lines, newLine(text[start:i], LineEndingCR))
			}
			start = i + 1
		}
	}
	return append(lines, newLine(text[start:], LineEndingNone))
}

// Read Operations

// LineCount returns the number of lines. It is always at least one.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the line at index i. It panics if i is out of range.
func (b *Buffer) Line(i int) Line {
	return b.lines[i]
}

// LineText returns the content of line i, or "" if i is out of range.
func (b *Buffer) LineText(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i].text
}

// LineLen returns the grapheme length of line i, or 0 if i is out of range.
func (b *Buffer) LineLen(i int) int {
	if i < 0 || i >= len(b.lines) {
		return 0
	}
	return b.lines[i].length
}

// Lines returns the text of every line, without terminators.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = l.text
	}
	return out
}

// Text returns the full buffer content with the original terminators.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for _, l := range b.lines {
		sb.WriteString(l.text)
		sb.WriteString(l.ending.Sequence())
	}
	return sb.String()
}

// LineEnding returns the terminator used for newly typed line breaks.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// SetLineEnding sets the terminator used for newly typed line breaks.
// This does not convert existing line endings.
func (b *Buffer) SetLineEnding(le LineEnding) {
	if le == LineEndingNone {
		return
	}
	b.lineEnding = le
}

// Version returns a counter incremented by every mutation.
func (b *Buffer) Version() uint64 {
	return b.version
}

// IsEmpty returns true if the buffer holds a single empty line.
func (b *Buffer) IsEmpty() bool {
	return len(b.lines) == 1 && b.lines[0].text == ""
}

// End returns the position after the last character.
func (b *Buffer) End() Position {
	last := len(b.lines) - 1
	return Position{Line: last, Column: b.lines[last].length}
}

// Valid reports whether p addresses an existing line and a column no
// greater than that line's length.
func (b *Buffer) Valid(p Position) bool {
	if p.Line < 0 || p.Line >= len(b.lines) {
		return false
	}
	return p.Column >= 0 && p.Column <= b.lines[p.Line].length
}

// Clamp returns the nearest valid position to p.
func (b *Buffer) Clamp(p Position) Position {
	if p.Line < 0 {
		return Position{}
	}
	if p.Line >= len(b.lines) {
		return b.End()
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if n := b.lines[p.Line].length; p.Column > n {
		p.Column = n
	}
	return p
}

// Graphemes returns the grapheme clusters of line i.
func (b *Buffer) Graphemes(i int) []string {
	if i < 0 || i >= len(b.lines) {
		return nil
	}
	return Graphemes(b.lines[i].text)
}

func (b *Buffer) checkRange(op string, r Range) error {
	if !b.Valid(r.Start) {
		return &PositionError{Op: op, Pos: r.Start, Err: ErrOutOfBounds}
	}
	if !b.Valid(r.End) {
		return &PositionError{Op: op, Pos: r.End, Err: ErrOutOfBounds}
	}
	if !r.IsValid() {
		return &PositionError{Op: op, Pos: r.Start, Err: ErrRangeInvalid}
	}
	return nil
}

// TextRange returns the text covered by r, including any terminators
// inside it.
func (b *Buffer) TextRange(r Range) (string, error) {
	if err := b.checkRange("read", r); err != nil {
		return "", err
	}
	return b.textRange(r), nil
}

func (b *Buffer) textRange(r Range) string {
	first := b.lines[r.Start.Line]
	from := ByteOffset(first.text, r.Start.Column)
	if r.Start.Line == r.End.Line {
		return first.text[from:ByteOffset(first.text, r.End.Column)]
	}

	var sb strings.Builder
	sb.WriteString(first.text[from:])
	sb.WriteString(first.ending.Sequence())
	for i := r.Start.Line + 1; i < r.End.Line; i++ {
		sb.WriteString(b.lines[i].text)
		sb.WriteString(b.lines[i].ending.Sequence())
	}
	last := b.lines[r.End.Line]
	sb.WriteString(last.text[:ByteOffset(last.text, r.End.Column)])
	return sb.String()
}

// Write Operations

// Insert inserts text at pos. Line breaks in text split the line and keep
// their own terminator. Returns the position immediately after the
// inserted text.
func (b *Buffer) Insert(pos Position, text string) (Position, error) {
	if !b.Valid(pos) {
		return pos, &PositionError{Op: "insert", Pos: pos, Err: ErrOutOfBounds}
	}
	if text == "" {
		return pos, nil
	}

	cur := b.lines[pos.Line]
	off := ByteOffset(cur.text, pos.Column)
	head, tail := cur.text[:off], cur.text[off:]
	pieces := splitLines(text)
	b.version++

	if len(pieces) == 1 {
		line := newLine(head+text+tail, cur.ending)
		b.lines[pos.Line] = line
		return Position{Line: pos.Line, Column: endColumn(line, tail)}, nil
	}

	n := len(pieces)
	last := pieces[n-1]
	replacement := make([]Line, 0, n)
	replacement = append(replacement, newLine(head+pieces[0].text, pieces[0].ending))
	replacement = append(replacement, pieces[1:n-1]...)
	lastLine := newLine(last.text+tail, cur.ending)
	replacement = append(replacement, lastLine)

	lines := make([]Line, 0, len(b.lines)+n-1)
	lines = append(lines, b.lines[:pos.Line]...)
	lines = append(lines, replacement...)
	lines = append(lines, b.lines[pos.Line+1:]...)
	b.lines = lines

	return Position{Line: pos.Line + n - 1, Column: endColumn(lastLine, tail)}, nil
}

// endColumn returns the column where tail starts in line. Inserted text
// that merges with its neighbours shifts it left of the naive sum.
func endColumn(line Line, tail string) int {
	return max(line.length-GraphemeCount(tail), 0)
}

// Delete removes the text in r and returns it. The removed text carries the
// terminators of any joined lines verbatim.
func (b *Buffer) Delete(r Range) (string, error) {
	if err := b.checkRange("delete", r); err != nil {
		return "", err
	}
	if r.IsEmpty() {
		return "", nil
	}

	removed := b.textRange(r)
	first := b.lines[r.Start.Line]
	last := b.lines[r.End.Line]
	head := first.text[:ByteOffset(first.text, r.Start.Column)]
	tail := last.text[ByteOffset(last.text, r.End.Column):]
	b.version++

	if r.Start.Line == r.End.Line {
		b.lines[r.Start.Line] = newLine(head+tail, first.ending)
		return removed, nil
	}

	b.lines[r.Start.Line] = newLine(head+tail, last.ending)
	b.lines = append(b.lines[:r.Start.Line+1], b.lines[r.End.Line+1:]...)
	return removed, nil
}

// Replace swaps the text in r for text, returning the end of the new text.
func (b *Buffer) Replace(r Range, text string) (Position, error) {
	if err := b.checkRange("replace", r); err != nil {
		return r.Start, err
	}
	if _, err := b.Delete(r); err != nil {
		return r.Start, err
	}
	return b.Insert(r.Start, text)
}

// RangeOf returns the range text would occupy if inserted at pos. It is
// exact only when the insert is seamless with its neighbours.
func RangeOf(pos Position, text string) Range {
	pieces := splitLines(text)
	if len(pieces) == 1 {
		return Range{Start: pos, End: Position{Line: pos.Line, Column: pos.Column + pieces[0].length}}
	}
	last := pieces[len(pieces)-1]
	return Range{Start: pos, End: Position{Line: pos.Line + len(pieces) - 1, Column: last.length}}
}
