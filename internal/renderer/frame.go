package renderer

import "github.com/dshills/scribe/internal/renderer/core"

// Frame is a full screen of cells.
type Frame struct {
	width, height int
	cells         []core.Cell
}

// NewFrame creates a frame filled with fill.
func NewFrame(width, height int, fill core.Cell) *Frame {
	width = max(width, 0)
	height = max(height, 0)
	f := &Frame{
		width:  width,
		height: height,
		cells:  make([]core.Cell, width*height),
	}
	for i := range f.cells {
		f.cells[i] = fill
	}
	return f
}

// Size returns the frame dimensions.
func (f *Frame) Size() (width, height int) {
	return f.width, f.height
}

// Cell returns the cell at (x, y). Out-of-range coordinates return an
// empty cell.
func (f *Frame) Cell(x, y int) core.Cell {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return core.EmptyCell()
	}
	return f.cells[y*f.width+x]
}

// SetCell sets the cell at (x, y). Out-of-range writes are dropped.
func (f *Frame) SetCell(x, y int, c core.Cell) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	f.cells[y*f.width+x] = c
}

// SetString writes s starting at (x, y) and returns the column after the
// last cell written. Wide graphemes take two cells; one that would not
// fit is replaced by a blank.
func (f *Frame) SetString(x, y int, s string, style core.Style) int {
	for _, g := range graphemes(s) {
		if x >= f.width {
			break
		}
		c := core.NewCell(displayText(g), style)
		if x+c.Width > f.width {
			f.SetCell(x, y, core.BlankCell(style))
			return f.width
		}
		f.SetCell(x, y, c)
		for i := 1; i < c.Width; i++ {
			f.SetCell(x+i, y, core.ContinuationCell(style))
		}
		x += c.Width
	}
	return x
}

// FillRow sets columns [from, to) of row y to c.
func (f *Frame) FillRow(y, from, to int, c core.Cell) {
	for x := max(from, 0); x < to && x < f.width; x++ {
		f.SetCell(x, y, c)
	}
}

// Row returns the text of row y, skipping continuation cells.
func (f *Frame) Row(y int) string {
	var b []byte
	for x := 0; x < f.width; x++ {
		c := f.Cell(x, y)
		if c.IsContinuation() {
			continue
		}
		b = append(b, c.Text...)
	}
	return string(b)
}

// CellUpdate is one cell that must be written to the screen.
type CellUpdate struct {
	Row  int
	Col  int
	Cell core.Cell
}

// Diff returns the cells of f that differ from prev. If prev is nil or a
// different size every cell is returned.
func (f *Frame) Diff(prev *Frame) []CellUpdate {
	full := prev == nil || prev.width != f.width || prev.height != f.height

	var updates []CellUpdate
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			i := y*f.width + x
			if !full && f.cells[i] == prev.cells[i] {
				continue
			}
			updates = append(updates, CellUpdate{Row: y, Col: x, Cell: f.cells[i]})
		}
	}
	return updates
}
