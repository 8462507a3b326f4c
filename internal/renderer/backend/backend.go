// Package backend provides terminal backend abstraction for the renderer.
package backend

import (
	"sync"

	"github.com/dshills/scribe/internal/input"
	"github.com/dshills/scribe/internal/renderer/core"
)

// Backend is a character-cell surface plus its input source.
type Backend interface {
	// Init prepares the terminal for drawing.
	Init() error

	// Shutdown restores the terminal. PollEvent returns false afterwards.
	Shutdown()

	// Size returns the surface size in cells.
	Size() (width, height int)

	// SetCell draws one cell. Continuation cells may be ignored.
	SetCell(x, y int, cell core.Cell)

	// Show makes pending cell changes visible.
	Show()

	// Sync repaints the whole surface, discarding terminal-side state.
	Sync()

	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks for the next input event. It returns false once
	// the backend has been shut down.
	PollEvent() (input.Event, bool)

	EnableMouse()
	DisableMouse()
	Beep()
}

// NullBackend is an in-memory backend for testing.
type NullBackend struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	mouse         bool
	shows         int
	syncs         int
	writes        int

	events chan input.Event
	once   sync.Once
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{
		width:  width,
		height: height,
		events: make(chan input.Event, 100),
	}
	b.allocate()
	return b
}

func (b *NullBackend) allocate() {
	b.cells = make([][]core.Cell, b.height)
	for i := range b.cells {
		b.cells[i] = make([]core.Cell, b.width)
		for j := range b.cells[i] {
			b.cells[i][j] = core.EmptyCell()
		}
	}
}

func (b *NullBackend) Init() error { return nil }

func (b *NullBackend) Shutdown() {
	b.once.Do(func() { close(b.events) })
}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
		b.writes++
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	b.shows++
	b.mu.Unlock()
}

func (b *NullBackend) Sync() {
	b.mu.Lock()
	b.syncs++
	b.mu.Unlock()
}

func (b *NullBackend) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX = x
	b.cursorY = y
	b.cursorVisible = true
}

func (b *NullBackend) HideCursor() {
	b.mu.Lock()
	b.cursorVisible = false
	b.mu.Unlock()
}

func (b *NullBackend) PollEvent() (input.Event, bool) {
	ev, ok := <-b.events
	return ev, ok
}

func (b *NullBackend) EnableMouse() {
	b.mu.Lock()
	b.mouse = true
	b.mu.Unlock()
}

func (b *NullBackend) DisableMouse() {
	b.mu.Lock()
	b.mouse = false
	b.mu.Unlock()
}

func (b *NullBackend) Beep() {}

// PostEvent queues an event for PollEvent. Events posted after Shutdown
// are dropped.
func (b *NullBackend) PostEvent(ev input.Event) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case b.events <- ev:
		return true
	default:
		return false
	}
}

// Cell returns the cell at x, y for testing.
func (b *NullBackend) Cell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

// Row returns the text of row y, with continuation cells skipped.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	var s []byte
	for _, c := range b.cells[y] {
		if c.IsContinuation() {
			continue
		}
		s = append(s, c.Text...)
	}
	return string(s)
}

// CursorPosition returns the current cursor position for testing.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}

// Stats returns how many cells were written and how often Show and Sync
// were called.
func (b *NullBackend) Stats() (writes, shows, syncs int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes, b.shows, b.syncs
}

// MouseEnabled reports whether mouse reporting is on.
func (b *NullBackend) MouseEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mouse
}

// Resize simulates a terminal resize: the surface is cleared and a resize
// event is queued.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width = width
	b.height = height
	b.allocate()
	b.mu.Unlock()
	b.PostEvent(input.ResizeEvent(height, width))
}
