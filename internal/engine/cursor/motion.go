package cursor

import "github.com/dshills/scribe/internal/engine/buffer"

// Motion is a navigation intent.
type Motion uint8

const (
	MoveLeft Motion = iota
	MoveRight
	MoveWordLeft
	MoveWordRight
	MoveUp
	MoveDown
	MovePageUp
	MovePageDown
	MoveLineStart
	MoveLineEnd
	MoveBufferStart
	MoveBufferEnd
)

var motionNames = [...]string{
	MoveLeft:        "left",
	MoveRight:       "right",
	MoveWordLeft:    "word-left",
	MoveWordRight:   "word-right",
	MoveUp:          "up",
	MoveDown:        "down",
	MovePageUp:      "page-up",
	MovePageDown:    "page-down",
	MoveLineStart:   "line-start",
	MoveLineEnd:     "line-end",
	MoveBufferStart: "buffer-start",
	MoveBufferEnd:   "buffer-end",
}

// String returns the motion name.
func (m Motion) String() string {
	if int(m) < len(motionNames) {
		return motionNames[m]
	}
	return "unknown"
}

// IsVertical reports whether the motion keeps the goal column.
func (m Motion) IsVertical() bool {
	switch m {
	case MoveUp, MoveDown, MovePageUp, MovePageDown:
		return true
	}
	return false
}

func charLeft(buf *buffer.Buffer, p Position) Position {
	if p.Column > 0 {
		return Position{Line: p.Line, Column: p.Column - 1}
	}
	if p.Line > 0 {
		return Position{Line: p.Line - 1, Column: buf.LineLen(p.Line - 1)}
	}
	return p
}

func charRight(buf *buffer.Buffer, p Position) Position {
	if p.Column < buf.LineLen(p.Line) {
		return Position{Line: p.Line, Column: p.Column + 1}
	}
	if p.Line < buf.LineCount()-1 {
		return Position{Line: p.Line + 1}
	}
	return p
}

// wordRight skips the run of the class under p, then any whitespace.
// At end of line it moves to the start of the next line.
func wordRight(buf *buffer.Buffer, p Position) Position {
	gs := buf.Graphemes(p.Line)
	if p.Column >= len(gs) {
		return charRight(buf, p)
	}

	i := p.Column
	if cls := buffer.ClassOf(gs[i]); cls != buffer.ClassSpace {
		for i < len(gs) && buffer.ClassOf(gs[i]) == cls {
			i++
		}
	}
	for i < len(gs) && buffer.ClassOf(gs[i]) == buffer.ClassSpace {
		i++
	}
	return Position{Line: p.Line, Column: i}
}

// wordLeft skips whitespace before p, then the run of the class before it.
// At start of line it moves to the end of the previous line.
func wordLeft(buf *buffer.Buffer, p Position) Position {
	if p.Column == 0 {
		return charLeft(buf, p)
	}

	gs := buf.Graphemes(p.Line)
	i := p.Column
	for i > 0 && buffer.ClassOf(gs[i-1]) == buffer.ClassSpace {
		i--
	}
	if i > 0 {
		cls := buffer.ClassOf(gs[i-1])
		for i > 0 && buffer.ClassOf(gs[i-1]) == cls {
			i--
		}
	}
	return Position{Line: p.Line, Column: i}
}

func vertical(buf *buffer.Buffer, p Position, delta, goal int) Position {
	last := buf.LineCount() - 1
	line := p.Line + delta
	switch {
	case line < 0:
		if p.Line == 0 {
			return Position{}
		}
		line = 0
	case line > last:
		if p.Line == last {
			return buf.End()
		}
		line = last
	}
	return Position{Line: line, Column: min(goal, buf.LineLen(line))}
}

// Target returns the destination of motion m from p. page is the number
// of lines a page motion travels; goal is the column vertical motions aim
// for.
func Target(buf *buffer.Buffer, p Position, m Motion, page, goal int) Position {
	p = buf.Clamp(p)
	if page < 1 {
		page = 1
	}

	switch m {
	case MoveLeft:
		return charLeft(buf, p)
	case MoveRight:
		return charRight(buf, p)
	case MoveWordLeft:
		return wordLeft(buf, p)
	case MoveWordRight:
		return wordRight(buf, p)
	case MoveUp:
		return vertical(buf, p, -1, goal)
	case MoveDown:
		return vertical(buf, p, 1, goal)
	case MovePageUp:
		return vertical(buf, p, -page, goal)
	case MovePageDown:
		return vertical(buf, p, page, goal)
	case MoveLineStart:
		return Position{Line: p.Line}
	case MoveLineEnd:
		return Position{Line: p.Line, Column: buf.LineLen(p.Line)}
	case MoveBufferStart:
		return Position{}
	case MoveBufferEnd:
		return buf.End()
	}
	return p
}
