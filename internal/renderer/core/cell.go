package core

import "github.com/mattn/go-runewidth"

// Cell represents a single terminal cell.
type Cell struct {
	// Text is the grapheme cluster drawn in the cell. Empty for the
	// trailing half of a wide character.
	Text string

	// Width is the display width of this cell's content.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Text: " ", Width: 1, Style: DefaultStyle()}
}

// BlankCell returns a blank cell drawn with style.
func BlankCell(style Style) Cell {
	return Cell{Text: " ", Width: 1, Style: style}
}

// NewCell creates a cell for grapheme g drawn with style.
func NewCell(g string, style Style) Cell {
	return Cell{Text: g, Width: StringWidth(g), Style: style}
}

// ContinuationCell returns the placeholder occupying the second column of
// a wide character.
func ContinuationCell(style Style) Cell {
	return Cell{Width: 0, Style: style}
}

// IsContinuation returns true if this is a continuation cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0
}

// Runes splits the cell text into a main rune and combining runes.
func (c Cell) Runes() (rune, []rune) {
	if c.Text == "" {
		return ' ', nil
	}
	rs := []rune(c.Text)
	return rs[0], rs[1:]
}

// RuneWidth returns the display width of a rune.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// StringWidth returns the display width of s in terminal cells. Zero-width
// clusters such as a lone combining mark still occupy one cell.
func StringWidth(s string) int {
	w := runewidth.StringWidth(s)
	if w == 0 && s != "" {
		return 1
	}
	return w
}
