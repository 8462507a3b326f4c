// Package renderer turns editor state into terminal cell updates.
//
// Each Render composes a complete Frame for the screen:
//
//	┌────┬──────────────────────────────┐
//	│ 1 |│ text area (height-2 rows)    │
//	│ 2 |│                              │
//	├────┴──────────────────────────────┤
//	│ status bar                        │
//	│ message or prompt                 │
//	└───────────────────────────────────┘
//
// The frame is diffed against the previous one and only changed cells are
// returned. After a Resize the previous frame is dropped and the next
// Render repaints everything.
//
// Usage:
//
//	r := renderer.New(width, height, renderer.DefaultOptions())
//	out := r.Render(view)
//	renderer.Flush(backend, out)
package renderer
