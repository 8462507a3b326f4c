package editor

import (
	"crypto/sha256"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/scribe/internal/engine"
	"github.com/dshills/scribe/internal/renderer"
	"github.com/dshills/scribe/internal/renderer/highlight"
)

// Session is one open document.
type Session struct {
	id     uuid.UUID
	engine *engine.Engine
	path   string

	grammar *highlight.Grammar
	cache   *highlight.Cache

	savedHash [sha256.Size]byte
	modified  bool
	checked   bool

	// stale is set when the file changed on disk after it was loaded.
	stale bool

	message   string
	messageAt time.Time
}

func newSession(eng *engine.Engine, path string, g *highlight.Grammar) *Session {
	if g == nil {
		g = highlight.PlainText()
	}
	s := &Session{
		id:      uuid.New(),
		engine:  eng,
		path:    path,
		grammar: g,
		cache:   highlight.NewCache(g),
	}
	eng.OnChange(func(c engine.Change) {
		s.cache.Invalidate(c.StartLine, c.OldEndLine, c.NewEndLine)
		s.checked = false
	})
	s.markSaved()
	return s
}

// ID returns the session's stable identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// Engine returns the editing engine.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Path returns the file path, or "" for an untitled session.
func (s *Session) Path() string {
	return s.path
}

// Name returns the base name of the file, or "" when untitled.
func (s *Session) Name() string {
	if s.path == "" {
		return ""
	}
	return filepath.Base(s.path)
}

// IsUntitled reports whether the session has no file.
func (s *Session) IsUntitled() bool {
	return s.path == ""
}

// Modified reports whether the content differs from what was last loaded
// or saved. Undoing back to the saved text clears it.
func (s *Session) Modified() bool {
	if !s.checked {
		s.modified = sha256.Sum256([]byte(s.engine.Text())) != s.savedHash
		s.checked = true
	}
	return s.modified
}

// Pristine reports whether the session is untitled and has never been
// edited.
func (s *Session) Pristine() bool {
	return s.IsUntitled() && !s.Modified() && !s.engine.History().CanUndo()
}

// Stale reports whether the file changed on disk since it was loaded.
func (s *Session) Stale() bool {
	return s.stale
}

// Grammar returns the grammar used for highlighting.
func (s *Session) Grammar() *highlight.Grammar {
	return s.grammar
}

// Language returns the grammar name.
func (s *Session) Language() string {
	return s.grammar.Name
}

// Cache returns the syntax cache.
func (s *Session) Cache() *highlight.Cache {
	return s.cache
}

// Highlight brings the syntax cache up to date through lastVisible and
// returns how many lines were tokenized.
func (s *Session) Highlight(lastVisible int) int {
	return s.cache.Update(s.engine.Buffer(), lastVisible)
}

// Message returns the current status message and when it was set.
func (s *Session) Message() (string, time.Time) {
	return s.message, s.messageAt
}

// SetMessage sets the status message.
func (s *Session) SetMessage(msg string, at time.Time) {
	s.message = msg
	s.messageAt = at
}

func (s *Session) setPath(path string, g *highlight.Grammar) {
	s.path = path
	if g != nil && g != s.grammar {
		s.grammar = g
		s.cache.SetGrammar(g)
	}
}

func (s *Session) markSaved() {
	s.savedHash = sha256.Sum256([]byte(s.engine.Text()))
	s.modified = false
	s.checked = true
	s.stale = false
}

// View describes the session for the renderer.
func (s *Session) View() renderer.View {
	sel := s.engine.Selection()
	return renderer.View{
		ID:        s.ID(),
		Doc:       s.engine.Buffer(),
		Tokens:    s.cache,
		Cursor:    s.engine.Position(),
		Selection: sel.Range(),
		Name:      s.Name(),
		Modified:  s.Modified(),
		Language:  s.Language(),
		Message:   s.message,
		MessageAt: s.messageAt,
	}
}
