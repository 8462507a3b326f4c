package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/renderer/backend"
	"github.com/dshills/scribe/internal/renderer/core"
	"github.com/dshills/scribe/internal/renderer/highlight"
)

func pos(line, col int) buffer.Position {
	return buffer.Position{Line: line, Column: col}
}

func viewOf(text string) View {
	return View{ID: "doc", Doc: buffer.NewFromString(text)}
}

// draw renders v onto a fresh null backend.
func draw(r *Renderer, v View) (*backend.NullBackend, Output) {
	w, h := r.Size()
	nb := backend.NewNullBackend(w, h)
	out := r.Render(v)
	Flush(nb, out)
	return nb, out
}

func row(nb *backend.NullBackend, y int) string {
	return strings.TrimRight(nb.Row(y), " ")
}

type tokenMap map[int][]highlight.Token

func (m tokenMap) Tokens(line int) ([]highlight.Token, bool) {
	t, ok := m[line]
	return t, ok
}

// Frame Tests

func TestFrameDiff(t *testing.T) {
	a := NewFrame(4, 2, core.EmptyCell())
	b := NewFrame(4, 2, core.EmptyCell())

	if n := len(b.Diff(a)); n != 0 {
		t.Errorf("identical frames diff = %d, want 0", n)
	}
	if n := len(b.Diff(nil)); n != 8 {
		t.Errorf("diff against nil = %d, want 8", n)
	}

	b.SetString(1, 1, "x", core.DefaultStyle())
	updates := b.Diff(a)
	if len(updates) != 1 || updates[0].Row != 1 || updates[0].Col != 1 || updates[0].Cell.Text != "x" {
		t.Errorf("diff = %+v", updates)
	}

	if n := len(NewFrame(3, 2, core.EmptyCell()).Diff(a)); n != 6 {
		t.Errorf("diff against other size = %d, want 6", n)
	}
}

func TestFrameSetStringWide(t *testing.T) {
	tests := []struct {
		width int
		want  string
	}{
		{10, "a世b"},
		{3, "a世"},
		{2, "a"},
	}
	for _, tt := range tests {
		f := NewFrame(tt.width, 1, core.EmptyCell())
		f.SetString(0, 0, "a世b", core.DefaultStyle())
		if got := strings.TrimRight(f.Row(0), " "); got != tt.want {
			t.Errorf("width %d: Row(0) = %q, want %q", tt.width, got, tt.want)
		}
	}

	f := NewFrame(4, 1, core.EmptyCell())
	f.SetString(0, 0, "世", core.DefaultStyle())
	if !f.Cell(1, 0).IsContinuation() {
		t.Error("second half of a wide grapheme should be a continuation cell")
	}
}

// Layout Tests

func TestDisplayColumn(t *testing.T) {
	tests := []struct {
		text string
		col  int
		want int
	}{
		{"abc", 2, 2},
		{"\tab", 1, 4},
		{"a\tb", 2, 4},
		{"abcd\tx", 5, 8},
		{"世x", 1, 2},
		{"世x", 2, 3},
		{"abc", 10, 3},
	}
	for _, tt := range tests {
		if got := DisplayColumn(tt.text, tt.col, 4); got != tt.want {
			t.Errorf("DisplayColumn(%q, %d) = %d, want %d", tt.text, tt.col, got, tt.want)
		}
	}
}

func TestBufferColumn(t *testing.T) {
	tests := []struct {
		text string
		dcol int
		want int
	}{
		{"abc", 1, 1},
		{"a\tb", 2, 1},
		{"a\tb", 4, 2},
		{"a\tb", 9, 3},
		{"世x", 1, 0},
		{"世x", 2, 1},
		{"", 5, 0},
	}
	for _, tt := range tests {
		if got := BufferColumn(tt.text, tt.dcol, 4); got != tt.want {
			t.Errorf("BufferColumn(%q, %d) = %d, want %d", tt.text, tt.dcol, got, tt.want)
		}
	}
}

func TestViewportReveal(t *testing.T) {
	var vp Viewport

	vp.Reveal(10, 0, 5, 20, 0)
	if vp.Top != 6 {
		t.Errorf("Top = %d, want 6", vp.Top)
	}
	vp.Reveal(2, 0, 5, 20, 0)
	if vp.Top != 2 {
		t.Errorf("Top = %d, want 2", vp.Top)
	}
	vp.Reveal(3, 0, 5, 20, 1)
	if vp.Top != 2 {
		t.Errorf("Top with margin = %d, want 2", vp.Top)
	}
	vp.Reveal(0, 30, 5, 20, 0)
	if vp.Top != 0 || vp.Left != 11 {
		t.Errorf("viewport = %+v, want Top 0 Left 11", vp)
	}
}

// Render Tests

func TestRenderLayout(t *testing.T) {
	r := New(40, 5, DefaultOptions())
	nb, out := draw(r, viewOf("hello\nworld"))

	if !out.Full {
		t.Error("first render should be full")
	}
	if len(out.Updates) != 40*5 {
		t.Errorf("first render updates = %d, want %d", len(out.Updates), 40*5)
	}

	want := []string{"1|hello", "2|world", "~"}
	for y, w := range want {
		if got := row(nb, y); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
	if got := row(nb, 3); !strings.HasPrefix(got, "[No Name] - 2 lines") || !strings.HasSuffix(got, "text | Ln 1, Col 1") {
		t.Errorf("status row = %q", got)
	}
	if _, _, syncs := nb.Stats(); syncs != 1 {
		t.Errorf("full render should sync, syncs = %d", syncs)
	}
}

func TestRenderDiffsAgainstPreviousFrame(t *testing.T) {
	r := New(40, 5, DefaultOptions())
	doc := buffer.NewFromString("hello\nworld")
	v := View{ID: "doc", Doc: doc}
	r.Render(v)

	out := r.Render(v)
	if out.Full || len(out.Updates) != 0 {
		t.Errorf("unchanged render = %d updates (full %v), want 0", len(out.Updates), out.Full)
	}

	if _, err := doc.Delete(buffer.Range{Start: pos(0, 4), End: pos(0, 5)}); err != nil {
		t.Fatal(err)
	}
	if _, err := doc.Insert(pos(0, 4), "p"); err != nil {
		t.Fatal(err)
	}
	out = r.Render(v)
	if len(out.Updates) != 1 {
		t.Fatalf("updates = %+v, want 1", out.Updates)
	}
	if u := out.Updates[0]; u.Row != 0 || u.Col != 6 || u.Cell.Text != "p" {
		t.Errorf("update = %+v, want p at (0,6)", u)
	}
}

func TestRenderResizeForcesFullRepaint(t *testing.T) {
	r := New(20, 4, DefaultOptions())
	v := viewOf("abc")
	r.Render(v)

	r.Resize(30, 6)
	out := r.Render(v)
	if !out.Full || len(out.Updates) != 30*6 {
		t.Errorf("after resize: full %v, %d updates", out.Full, len(out.Updates))
	}
}

func TestRenderCursor(t *testing.T) {
	r := New(40, 5, DefaultOptions())
	v := viewOf("hello\nworld")
	v.Cursor = pos(1, 3)

	nb, out := draw(r, v)
	if out.Cursor != (CursorDirective{Row: 1, Col: 5, Visible: true}) {
		t.Errorf("cursor = %+v, want row 1 col 5", out.Cursor)
	}
	if x, y, ok := nb.CursorPosition(); !ok || x != 5 || y != 1 {
		t.Errorf("backend cursor = %d,%d visible %v", x, y, ok)
	}
}

func TestRenderTabsAndWideGraphemes(t *testing.T) {
	r := New(40, 5, DefaultOptions())
	v := viewOf("\tx\n世界!")
	v.Cursor = pos(1, 2)

	nb, out := draw(r, v)
	if got := row(nb, 0); got != "1|    x" {
		t.Errorf("tab row = %q", got)
	}
	if got := row(nb, 1); got != "2|世界!" {
		t.Errorf("wide row = %q", got)
	}
	if !nb.Cell(3, 1).IsContinuation() {
		t.Error("expected continuation cell after wide grapheme")
	}
	if out.Cursor.Col != 6 {
		t.Errorf("cursor col = %d, want 6", out.Cursor.Col)
	}
}

func TestRenderWithoutLineNumbers(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowLineNumbers = false
	r := New(20, 4, opts)

	nb, _ := draw(r, viewOf("abc"))
	if got := row(nb, 0); got != "abc" {
		t.Errorf("row 0 = %q, want %q", got, "abc")
	}
}

func TestRenderSelection(t *testing.T) {
	r := New(20, 4, DefaultOptions())
	v := viewOf("hello\nworld")
	v.Selection = buffer.Range{Start: pos(0, 1), End: pos(0, 3)}

	nb, _ := draw(r, v)
	for x := 2; x < 9; x++ {
		selected := x == 3 || x == 4
		if got := nb.Cell(x, 0).Style.Attributes.Has(core.AttrReverse); got != selected {
			t.Errorf("cell %d reversed = %v, want %v", x, got, selected)
		}
	}

	v.Selection = buffer.Range{Start: pos(0, 3), End: pos(1, 1)}
	nb, _ = draw(r, v)
	if !nb.Cell(7, 0).Style.Attributes.Has(core.AttrReverse) {
		t.Error("line break inside the selection should be drawn selected")
	}
	if nb.Cell(3, 1).Style.Attributes.Has(core.AttrReverse) {
		t.Error("text after the selection end should not be selected")
	}
}

func TestRenderHighlightTokens(t *testing.T) {
	r := New(20, 4, DefaultOptions())
	v := viewOf("if x")
	v.Tokens = tokenMap{0: {{Start: 0, End: 2, Scope: "keyword.control"}}}

	nb, _ := draw(r, v)
	want := r.Theme().StyleFor("keyword")
	if got := nb.Cell(2, 0).Style; got != want {
		t.Errorf("keyword style = %+v, want %+v", got, want)
	}
	if got := nb.Cell(5, 0).Style; got != r.Theme().Default {
		t.Errorf("plain style = %+v, want default", got)
	}
}

func TestRenderScrollsToCursor(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "L"+string(rune('a'+i)))
	}
	r := New(20, 7, DefaultOptions())
	v := viewOf(strings.Join(lines, "\n"))
	v.Cursor = pos(10, 0)

	first, last := r.Scroll(v)
	if first != 6 || last != 10 {
		t.Errorf("Scroll() = %d, %d, want 6, 10", first, last)
	}
	nb, out := draw(r, v)
	if got := row(nb, 0); got != " 7|Lg" {
		t.Errorf("row 0 = %q", got)
	}
	if out.Cursor.Row != 4 {
		t.Errorf("cursor row = %d, want 4", out.Cursor.Row)
	}

	// Another document keeps its own scroll position.
	other := viewOf("x")
	other.ID = "other"
	if first, _ := r.Scroll(other); first != 0 {
		t.Errorf("other document first line = %d, want 0", first)
	}
}

func TestRenderHorizontalScroll(t *testing.T) {
	r := New(20, 4, DefaultOptions())
	v := viewOf(strings.Repeat("x", 50))
	v.Cursor = pos(0, 40)

	_, out := draw(r, v)
	if r.Viewport("doc").Left != 23 {
		t.Errorf("Left = %d, want 23", r.Viewport("doc").Left)
	}
	if out.Cursor.Col != 19 || !out.Cursor.Visible {
		t.Errorf("cursor = %+v, want col 19", out.Cursor)
	}
}

func TestStatusText(t *testing.T) {
	v := View{
		Doc:      buffer.NewFromString(strings.Repeat("\n", 9)),
		Name:     "main.go",
		Modified: true,
		Language: "go",
		Cursor:   pos(4, 2),
		Index:    1,
		Count:    3,
	}

	left, right := StatusText(v)
	if left != "main.go (modified) - 10 lines" {
		t.Errorf("left = %q", left)
	}
	if right != "go | Ln 5, Col 3  [2/3]" {
		t.Errorf("right = %q", right)
	}
}

func TestMessageExpires(t *testing.T) {
	at := time.Date(2024, 1, 1, 15, 4, 5, 0, time.UTC)
	now := at.Add(time.Second)

	r := New(30, 4, DefaultOptions())
	r.SetClock(func() time.Time { return now })
	v := viewOf("a")
	v.Message = "saved"
	v.MessageAt = at

	nb, _ := draw(r, v)
	if got := row(nb, 3); got != "15:04:05 saved" {
		t.Errorf("message row = %q", got)
	}

	now = at.Add(6 * time.Second)
	nb, _ = draw(r, v)
	if got := row(nb, 3); got != "" {
		t.Errorf("expired message row = %q, want empty", got)
	}
}

func TestRenderPrompt(t *testing.T) {
	r := New(30, 4, DefaultOptions())
	v := viewOf("a")
	v.PromptActive = true
	v.Prompt = ": sav"
	v.Message = "hidden"

	nb, out := draw(r, v)
	if got := row(nb, 3); got != ": sav" {
		t.Errorf("prompt row = %q", got)
	}
	if out.Cursor != (CursorDirective{Row: 3, Col: 5, Visible: true}) {
		t.Errorf("cursor = %+v, want end of prompt", out.Cursor)
	}
}

func TestScreenToBuffer(t *testing.T) {
	r := New(20, 6, DefaultOptions())
	v := viewOf("a\tb\n世x")

	tests := []struct {
		row, col int
		want     buffer.Position
		ok       bool
	}{
		{0, 7, pos(0, 3), true},
		{0, 4, pos(0, 1), true},
		{0, 2, pos(0, 0), true},
		{1, 3, pos(1, 0), true},
		{1, 4, pos(1, 1), true},
		{0, 0, pos(0, 0), true},
		{3, 5, pos(1, 2), true},
		{4, 0, buffer.Position{}, false},
		{5, 0, buffer.Position{}, false},
	}
	for _, tt := range tests {
		got, ok := r.ScreenToBuffer(v, tt.row, tt.col)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ScreenToBuffer(%d, %d) = %v, %v, want %v, %v", tt.row, tt.col, got, ok, tt.want, tt.ok)
		}
	}
}
