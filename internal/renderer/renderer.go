package renderer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/renderer/backend"
	"github.com/dshills/scribe/internal/renderer/core"
	"github.com/dshills/scribe/internal/renderer/highlight"
)

// Document provides read access to the lines being drawn. It always has
// at least one line.
type Document interface {
	LineCount() int
	LineText(i int) string
}

// TokenSource provides highlight tokens for a line. The second result is
// false when the line has not been tokenized yet.
type TokenSource interface {
	Tokens(line int) ([]highlight.Token, bool)
}

// View is the state of the active editor as the renderer sees it.
type View struct {
	// ID selects the scroll position kept for this document.
	ID string

	Doc    Document
	Tokens TokenSource

	Cursor    buffer.Position
	Selection buffer.Range

	// Status bar
	Name     string
	Modified bool
	Language string
	Index    int
	Count    int

	// Prompt replaces the message row while PromptActive is set.
	Prompt       string
	PromptActive bool

	Message   string
	MessageAt time.Time
}

// Options configures the renderer.
type Options struct {
	ShowLineNumbers bool          // Show the line number gutter
	TabWidth        int           // Columns per tab stop
	ScrollMargin    int           // Lines to keep above and below the cursor
	MessageTimeout  time.Duration // How long status messages stay visible
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ShowLineNumbers: true,
		TabWidth:        4,
		ScrollMargin:    0,
		MessageTimeout:  5 * time.Second,
	}
}

// CursorDirective tells the backend where to place the terminal cursor.
type CursorDirective struct {
	Row     int
	Col     int
	Visible bool
}

// Output is the result of one Render.
type Output struct {
	Updates []CellUpdate
	Cursor  CursorDirective

	// Full is set when Updates cover the whole screen.
	Full bool
}

// Renderer composes frames and diffs them against the last one drawn.
type Renderer struct {
	opts  Options
	theme *highlight.Theme
	now   func() time.Time

	width, height int
	viewports     map[string]*Viewport
	prev          *Frame
}

// New creates a renderer for a screen of the given size.
func New(width, height int, opts Options) *Renderer {
	if opts.TabWidth < 1 {
		opts.TabWidth = 4
	}
	return &Renderer{
		opts:      opts,
		theme:     highlight.DefaultTheme(),
		now:       time.Now,
		width:     width,
		height:    height,
		viewports: make(map[string]*Viewport),
	}
}

// SetTheme sets the theme used for text and chrome.
func (r *Renderer) SetTheme(t *highlight.Theme) {
	if t != nil {
		r.theme = t
	}
}

// Theme returns the current theme.
func (r *Renderer) Theme() *highlight.Theme {
	return r.theme
}

// SetClock replaces the clock used to expire messages.
func (r *Renderer) SetClock(now func() time.Time) {
	r.now = now
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Size returns the current screen dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Resize changes the screen size. The next Render repaints everything.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
	r.prev = nil
}

// Invalidate forces the next Render to repaint everything.
func (r *Renderer) Invalidate() {
	r.prev = nil
}

// TextRows returns the number of rows available for document text.
func (r *Renderer) TextRows() int {
	return max(r.height-2, 0)
}

// GutterWidth returns the gutter width for a document of lineCount lines:
// the digits of the largest line number plus the separator.
func (r *Renderer) GutterWidth(lineCount int) int {
	if !r.opts.ShowLineNumbers {
		return 0
	}
	return len(strconv.Itoa(max(lineCount, 1))) + 1
}

func (r *Renderer) textCols(lineCount int) int {
	return max(r.width-r.GutterWidth(lineCount), 0)
}

// Viewport returns the scroll position kept for id.
func (r *Renderer) Viewport(id string) *Viewport {
	vp, ok := r.viewports[id]
	if !ok {
		vp = &Viewport{}
		r.viewports[id] = vp
	}
	return vp
}

// Forget drops the scroll position kept for id.
func (r *Renderer) Forget(id string) {
	delete(r.viewports, id)
}

// Scroll adjusts the viewport of v so the cursor is visible and returns
// the first and last document lines on screen.
func (r *Renderer) Scroll(v View) (first, last int) {
	count := v.Doc.LineCount()
	vp := r.Viewport(v.ID)
	vp.Clamp(count)

	line := min(max(v.Cursor.Line, 0), count-1)
	dcol := DisplayColumn(v.Doc.LineText(line), v.Cursor.Column, r.opts.TabWidth)
	rows := r.TextRows()
	vp.Reveal(line, dcol, rows, r.textCols(count), r.opts.ScrollMargin)

	last = min(vp.Top+rows, count) - 1
	return vp.Top, max(last, vp.Top)
}

// Render draws v and returns the cells that changed since the last call.
func (r *Renderer) Render(v View) Output {
	r.Scroll(v)

	f := NewFrame(r.width, r.height, core.BlankCell(r.theme.Default))
	count := v.Doc.LineCount()
	vp := r.Viewport(v.ID)
	gw := r.GutterWidth(count)
	gutter := r.theme.StyleFor(highlight.ScopeGutter)

	for row := 0; row < r.TextRows(); row++ {
		line := vp.Top + row
		if line >= count {
			f.SetString(0, row, "~", gutter)
			continue
		}
		if gw > 0 {
			num := fmt.Sprintf("%*d|", gw-1, line+1)
			f.SetString(0, row, num, gutter)
		}
		r.drawLine(f, v, row, line, gw, vp.Left)
	}

	r.drawStatus(f, v)
	cursor := r.drawMessage(f, v)
	if !v.PromptActive {
		cursor = r.cursorDirective(v, gw)
	}

	full := r.prev == nil
	if !full {
		pw, ph := r.prev.Size()
		full = pw != r.width || ph != r.height
	}
	out := Output{
		Updates: f.Diff(r.prev),
		Cursor:  cursor,
		Full:    full,
	}
	r.prev = f
	return out
}

// drawLine draws document line at screen row, starting at column x0 and
// scrolled left display columns.
func (r *Renderer) drawLine(f *Frame, v View, row, line, x0, left int) {
	text := v.Doc.LineText(line)
	lay := layoutLine(text, r.opts.TabWidth)
	width := r.width - x0
	if width <= 0 {
		return
	}

	var tokens []highlight.Token
	if v.Tokens != nil {
		tokens, _ = v.Tokens.Tokens(line)
	}
	sel := v.Selection

	for i, g := range lay.graphemes {
		start, end := lay.cols[i], lay.cols[i+1]
		if end <= left {
			continue
		}
		if start-left >= width {
			break
		}

		style := r.theme.StyleFor(highlight.ScopeAt(tokens, lay.offsets[i]))
		if sel.Contains(buffer.Position{Line: line, Column: i}) {
			style = r.selected(style)
		}

		// Tabs, and wide graphemes cut by either edge, become blanks.
		if g == "\t" || start < left || end-left > width {
			for c := max(start, left); c < end && c-left < width; c++ {
				f.SetCell(x0+c-left, row, core.BlankCell(style))
			}
			continue
		}

		x := x0 + start - left
		c := core.NewCell(displayText(g), style)
		f.SetCell(x, row, c)
		for k := 1; k < c.Width; k++ {
			f.SetCell(x+k, row, core.ContinuationCell(style))
		}
	}

	// A selection running on to the next line covers the line break.
	if !sel.IsEmpty() && sel.Start.Line <= line && line < sel.End.Line {
		if c := lay.width() - left; c >= 0 && c < width {
			f.SetCell(x0+c, row, core.BlankCell(r.selected(r.theme.Default)))
		}
	}
}

func (r *Renderer) selected(style core.Style) core.Style {
	if r.theme.Has(highlight.ScopeSelection) {
		return r.theme.StyleFor(highlight.ScopeSelection)
	}
	return style.Invert()
}

func (r *Renderer) drawStatus(f *Frame, v View) {
	y := r.height - 2
	if y < 0 {
		return
	}
	style := r.theme.StyleFor(highlight.ScopeStatus)
	f.FillRow(y, 0, r.width, core.BlankCell(style))

	left, right := StatusText(v)
	end := f.SetString(0, y, left, style)
	if w := core.StringWidth(right); end+1+w <= r.width {
		f.SetString(r.width-w, y, right, style)
	}
}

// StatusText returns the left and right halves of the status bar.
func StatusText(v View) (left, right string) {
	name := v.Name
	if name == "" {
		name = "[No Name]"
	}
	left = name
	if v.Modified {
		left += " (modified)"
	}
	lines := v.Doc.LineCount()
	unit := "lines"
	if lines == 1 {
		unit = "line"
	}
	left = fmt.Sprintf("%s - %d %s", left, lines, unit)

	lang := v.Language
	if lang == "" {
		lang = "text"
	}
	right = fmt.Sprintf("%s | Ln %d, Col %d", lang, v.Cursor.Line+1, v.Cursor.Column+1)
	if v.Count > 0 {
		right += fmt.Sprintf("  [%d/%d]", v.Index+1, v.Count)
	}
	return left, right
}

// drawMessage draws the bottom row and returns where the cursor goes when
// the prompt is active.
func (r *Renderer) drawMessage(f *Frame, v View) CursorDirective {
	y := r.height - 1
	if y < 0 {
		return CursorDirective{}
	}
	style := r.theme.StyleFor(highlight.ScopeMessage)

	if v.PromptActive {
		end := f.SetString(0, y, v.Prompt, style)
		return CursorDirective{Row: y, Col: min(end, max(r.width-1, 0)), Visible: r.width > 0}
	}
	if msg := r.message(v); msg != "" {
		f.SetString(0, y, msg, style)
	}
	return CursorDirective{}
}

// message returns the status message prefixed with its time, or "" once
// it has expired.
func (r *Renderer) message(v View) string {
	if v.Message == "" {
		return ""
	}
	if !v.MessageAt.IsZero() && r.opts.MessageTimeout > 0 && r.now().Sub(v.MessageAt) >= r.opts.MessageTimeout {
		return ""
	}
	if v.MessageAt.IsZero() {
		return v.Message
	}
	return v.MessageAt.Format("15:04:05") + " " + v.Message
}

func (r *Renderer) cursorDirective(v View, gw int) CursorDirective {
	vp := r.Viewport(v.ID)
	count := v.Doc.LineCount()
	line := min(max(v.Cursor.Line, 0), count-1)
	row := line - vp.Top
	if row < 0 || row >= r.TextRows() {
		return CursorDirective{}
	}
	col := gw + DisplayColumn(v.Doc.LineText(line), v.Cursor.Column, r.opts.TabWidth) - vp.Left
	if col < gw || col >= r.width {
		return CursorDirective{}
	}
	return CursorDirective{Row: row, Col: col, Visible: true}
}

// ScreenToBuffer maps a screen cell to a document position. Clicks on
// the gutter map to the start of the line and clicks below the last line
// map to the last line. It returns false for the status and message rows.
func (r *Renderer) ScreenToBuffer(v View, row, col int) (buffer.Position, bool) {
	if row < 0 || row >= r.TextRows() || col < 0 {
		return buffer.Position{}, false
	}
	count := v.Doc.LineCount()
	vp := r.Viewport(v.ID)
	line := min(vp.Top+row, count-1)

	dcol := col - r.GutterWidth(count)
	if dcol < 0 {
		return buffer.Position{Line: line}, true
	}
	column := BufferColumn(v.Doc.LineText(line), vp.Left+dcol, r.opts.TabWidth)
	return buffer.Position{Line: line, Column: column}, true
}

// Flush applies out to b.
func Flush(b backend.Backend, out Output) {
	for _, u := range out.Updates {
		b.SetCell(u.Col, u.Row, u.Cell)
	}
	if out.Cursor.Visible {
		b.ShowCursor(out.Cursor.Col, out.Cursor.Row)
	} else {
		b.HideCursor()
	}
	if out.Full {
		b.Sync()
		return
	}
	b.Show()
}
