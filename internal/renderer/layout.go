package renderer

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/renderer/core"
)

// replacement is drawn in place of control characters.
const replacement = "�"

func graphemes(s string) []string {
	return buffer.Graphemes(s)
}

// lineLayout maps the graphemes of one line to display columns.
type lineLayout struct {
	graphemes []string
	offsets   []int // byte offset of each grapheme
	cols      []int // display column of each grapheme, plus the line end
}

func layoutLine(text string, tabWidth int) lineLayout {
	if tabWidth < 1 {
		tabWidth = 1
	}
	gs := graphemes(text)
	l := lineLayout{
		graphemes: gs,
		offsets:   make([]int, len(gs)),
		cols:      make([]int, len(gs)+1),
	}
	off, col := 0, 0
	for i, g := range gs {
		l.offsets[i] = off
		l.cols[i] = col
		col += cellWidth(g, col, tabWidth)
		off += len(g)
	}
	l.cols[len(gs)] = col
	return l
}

// width returns the display width of the whole line.
func (l lineLayout) width() int {
	return l.cols[len(l.cols)-1]
}

// displayCol returns the display column where grapheme col starts.
func (l lineLayout) displayCol(col int) int {
	col = min(max(col, 0), len(l.graphemes))
	return l.cols[col]
}

// bufferCol returns the grapheme covering display column dcol, or the
// line length when dcol is past the end.
func (l lineLayout) bufferCol(dcol int) int {
	if dcol <= 0 {
		return 0
	}
	lo, hi := 0, len(l.graphemes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.cols[mid] <= dcol {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func cellWidth(g string, col, tabWidth int) int {
	if g == "\t" {
		return tabWidth - col%tabWidth
	}
	return core.StringWidth(displayText(g))
}

// displayText returns what is drawn for grapheme g.
func displayText(g string) string {
	r, size := utf8.DecodeRuneInString(g)
	if size == len(g) && unicode.IsControl(r) {
		return replacement
	}
	return g
}

// DisplayColumn converts a grapheme column of text to a display column,
// expanding tabs to tabWidth stops and counting wide graphemes as two.
func DisplayColumn(text string, col, tabWidth int) int {
	return layoutLine(text, tabWidth).displayCol(col)
}

// BufferColumn converts a display column of text back to the grapheme
// column it falls on. Columns inside a tab or a wide grapheme map to its
// start; columns past the end map to the line length.
func BufferColumn(text string, dcol, tabWidth int) int {
	return layoutLine(text, tabWidth).bufferCol(dcol)
}
