package engine

import (
	"time"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/engine/clipboard"
	"github.com/dshills/scribe/internal/engine/history"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries  = history.DefaultMaxFrames
	DefaultCoalesceTimeout = history.DefaultCoalesceTimeout
	DefaultPageSize        = 20
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithLineEnding sets the terminator used for typed line breaks. Without it
// the ending is detected from the content.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
		e.lineEndingSet = true
	}
}

// WithMaxUndoEntries sets the maximum number of undo history frames.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithCoalesceTimeout sets the typing pause that closes an undo frame.
func WithCoalesceTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.coalesceTimeout = d
	}
}

// WithClock replaces the history clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithClipboard shares clip with the engine. Engines created without one
// get a private register.
func WithClipboard(clip *clipboard.Register) Option {
	return func(e *Engine) {
		e.clip = clip
	}
}

// WithPageSize sets how many lines page motions travel.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}
