// Package clipboard provides the cut/copy register shared by every open
// editor session.
//
// A single Register is created by the application and handed to each
// session, so text cut in one session can be pasted in another. The
// register can optionally mirror the operating system clipboard; failures
// talking to the system clipboard never lose the in-memory value.
package clipboard

import "github.com/atotto/clipboard"

// System is an external clipboard the register mirrors.
type System interface {
	ReadText() (string, error)
	WriteText(s string) error
}

// OSClipboard reads and writes the operating system clipboard.
type OSClipboard struct{}

// ReadText returns the system clipboard contents.
func (OSClipboard) ReadText() (string, error) {
	return clipboard.ReadAll()
}

// WriteText replaces the system clipboard contents.
func (OSClipboard) WriteText(s string) error {
	return clipboard.WriteAll(s)
}

// Available reports whether the system clipboard can be used.
func Available() bool {
	return !clipboard.Unsupported
}

// Option configures a Register.
type Option func(*Register)

// WithSystem mirrors the register to sys.
func WithSystem(sys System) Option {
	return func(r *Register) {
		r.system = sys
	}
}

// Register holds the most recent cut or copied text.
type Register struct {
	text   string
	filled bool
	system System

	// lastErr is the most recent system clipboard failure.
	lastErr error
}

// New creates an empty register.
func New(opts ...Option) *Register {
	r := &Register{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Set stores text, overwriting the previous value.
func (r *Register) Set(text string) {
	r.text = text
	r.filled = true
	if r.system != nil {
		r.lastErr = r.system.WriteText(text)
	}
}

// Get returns the register contents without clearing them. When a system
// clipboard is attached and readable, its contents win.
func (r *Register) Get() (string, bool) {
	if r.system != nil {
		text, err := r.system.ReadText()
		r.lastErr = err
		if err == nil && text != "" {
			return text, true
		}
	}
	if !r.filled || r.text == "" {
		return "", false
	}
	return r.text, true
}

// Empty returns true if there is nothing to paste.
func (r *Register) Empty() bool {
	_, ok := r.Get()
	return !ok
}

// Err returns the last system clipboard error, if any.
func (r *Register) Err() error {
	return r.lastErr
}
