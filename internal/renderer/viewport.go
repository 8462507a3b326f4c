package renderer

// Viewport is the scroll position of one document.
type Viewport struct {
	// Top is the first visible line.
	Top int

	// Left is the first visible display column.
	Left int
}

// Reveal scrolls the viewport the least amount that puts (line, col)
// inside a window of rows by cols, keeping margin lines of context above
// and below where the window is tall enough.
func (v *Viewport) Reveal(line, col, rows, cols, margin int) {
	if rows < 1 || cols < 1 {
		return
	}
	margin = min(max(margin, 0), (rows-1)/2)

	if line < v.Top+margin {
		v.Top = line - margin
	}
	if line > v.Top+rows-1-margin {
		v.Top = line - rows + 1 + margin
	}
	v.Top = max(v.Top, 0)

	if col < v.Left {
		v.Left = col
	}
	if col >= v.Left+cols {
		v.Left = col - cols + 1
	}
	v.Left = max(v.Left, 0)
}

// Clamp keeps Top within a document of lineCount lines.
func (v *Viewport) Clamp(lineCount int) {
	v.Top = min(v.Top, max(lineCount-1, 0))
	v.Top = max(v.Top, 0)
	v.Left = max(v.Left, 0)
}
