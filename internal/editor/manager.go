package editor

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/engine"
	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/engine/clipboard"
	"github.com/dshills/scribe/internal/input"
	"github.com/dshills/scribe/internal/input/palette"
	"github.com/dshills/scribe/internal/renderer"
	"github.com/dshills/scribe/internal/renderer/highlight"
)

// FileIO reads and writes whole files.
type FileIO interface {
	Read(path string) (content string, ending buffer.LineEnding, err error)
	Write(path, content string) error
}

// Watcher is told which files are open so external changes can be
// reported. Suppress is called before the editor writes a file itself.
type Watcher interface {
	Watch(path string) error
	Unwatch(path string) error
	Suppress(path string)
}

// ScreenMapper converts a screen cell to a buffer position for a view.
type ScreenMapper interface {
	ScreenToBuffer(v renderer.View, row, col int) (buffer.Position, bool)
}

// Option configures a Manager.
type Option func(*Manager)

// WithFileIO sets the file accessor.
func WithFileIO(f FileIO) Option {
	return func(m *Manager) {
		m.files = f
	}
}

// WithRegistry sets the grammar registry used to pick a language by path.
func WithRegistry(r *highlight.Registry) Option {
	return func(m *Manager) {
		m.registry = r
	}
}

// WithSettings sets the editor settings.
func WithSettings(s *config.Settings) Option {
	return func(m *Manager) {
		m.settings = s
	}
}

// WithClipboard sets the register shared by all sessions.
func WithClipboard(c *clipboard.Register) Option {
	return func(m *Manager) {
		m.clip = c
	}
}

// WithKeymap sets the key bindings.
func WithKeymap(k *input.Keymap) Option {
	return func(m *Manager) {
		m.keymap = k
	}
}

// WithWatcher sets the file watcher.
func WithWatcher(w Watcher) Option {
	return func(m *Manager) {
		m.watcher = w
	}
}

// WithScreenMapper sets how mouse clicks are mapped to buffer positions.
func WithScreenMapper(sm ScreenMapper) Option {
	return func(m *Manager) {
		m.mapper = sm
	}
}

// WithOnClose registers fn to run when a session is closed or replaced.
func WithOnClose(fn func(*Session)) Option {
	return func(m *Manager) {
		m.onClose = fn
	}
}

// WithClock sets the time source for status messages and undo coalescing.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager owns the open sessions and the active index.
type Manager struct {
	sessions []*Session
	active   int

	files    FileIO
	registry *highlight.Registry
	settings *config.Settings
	clip     *clipboard.Register
	keymap   *input.Keymap
	watcher  Watcher
	mapper   ScreenMapper
	now      func() time.Time
	onClose  func(*Session)

	prompt   *palette.Prompt
	pageSize int
}

// New creates a Manager with no sessions.
func New(opts ...Option) *Manager {
	m := &Manager{
		now:      time.Now,
		pageSize: engine.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.settings == nil {
		m.settings = config.Default()
	}
	if m.registry == nil {
		m.registry = highlight.NewRegistry()
	}
	if m.clip == nil {
		m.clip = clipboard.New()
	}
	if m.keymap == nil {
		m.keymap = input.DefaultKeymap()
	}
	m.prompt = palette.New()
	return m
}

// Prompt returns the command prompt.
func (m *Manager) Prompt() *palette.Prompt {
	return m.prompt
}

// Clipboard returns the shared register.
func (m *Manager) Clipboard() *clipboard.Register {
	return m.clip
}

// Active returns the active session, or nil when there are none.
func (m *Manager) Active() *Session {
	if len(m.sessions) == 0 {
		return nil
	}
	return m.sessions[m.active]
}

// Sessions returns the open sessions in order.
func (m *Manager) Sessions() []*Session {
	out := make([]*Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	return len(m.sessions)
}

// Index returns the active index.
func (m *Manager) Index() int {
	return m.active
}

// SetPageSize sets how far page motions move in every session.
func (m *Manager) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	m.pageSize = n
	for _, s := range m.sessions {
		s.engine.SetPageSize(n)
	}
}

// Find returns the session editing path.
func (m *Manager) Find(path string) (*Session, bool) {
	path = absPath(path)
	for _, s := range m.sessions {
		if s.path == path {
			return s, true
		}
	}
	return nil, false
}

// absPath makes p absolute so it compares equal to the paths the
// watcher reports. If the working directory is unknown p is only cleaned.
func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

// HasModified reports whether any session has unsaved changes.
func (m *Manager) HasModified() bool {
	for _, s := range m.sessions {
		if s.Modified() {
			return true
		}
	}
	return false
}

func (m *Manager) newEngine(content string, ending buffer.LineEnding) *engine.Engine {
	ed := m.settings.Editor
	opts := []engine.Option{
		engine.WithContent(content),
		engine.WithClipboard(m.clip),
		engine.WithMaxUndoEntries(ed.HistoryLimit),
		engine.WithCoalesceTimeout(ed.CoalesceTimeout.Duration),
		engine.WithClock(m.now),
		engine.WithPageSize(m.pageSize),
	}
	if ending != buffer.LineEndingNone {
		opts = append(opts, engine.WithLineEnding(ending))
	}
	return engine.New(opts...)
}

func (m *Manager) grammarFor(path string) *highlight.Grammar {
	if path == "" {
		return highlight.PlainText()
	}
	return m.registry.ForPath(path)
}

func (m *Manager) add(s *Session) *Session {
	m.sessions = append(m.sessions, s)
	m.active = len(m.sessions) - 1
	return s
}

// NewEditor appends an untitled session and makes it active.
func (m *Manager) NewEditor() *Session {
	return m.add(newSession(m.newEngine("", buffer.LineEndingNone), "", nil))
}

// OpenFile opens path. An already open path is focused. If the active
// session is untitled its buffer is replaced, which requires force when it
// holds unsaved text; otherwise a new session is appended. A path that
// does not exist yet opens as an empty document.
func (m *Manager) OpenFile(path string, force bool) (*Session, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	path = absPath(path)

	if s, ok := m.Find(path); ok {
		m.focus(s)
		return s, nil
	}

	target := m.Active()
	if target != nil && !target.IsUntitled() {
		target = nil
	}
	if target != nil && target.Modified() && !force {
		return nil, ErrUnsavedChanges
	}

	content, ending, err := m.read(path)
	if err != nil {
		return nil, err
	}

	s := newSession(m.newEngine(content, ending), path, m.grammarFor(path))
	if target != nil {
		m.sessions[m.active] = s
		m.closed(target)
	} else {
		m.add(s)
	}
	m.watch(path)
	return s, nil
}

func (m *Manager) read(path string) (string, buffer.LineEnding, error) {
	if m.files == nil {
		return "", buffer.LineEndingNone, nil
	}
	content, ending, err := m.files.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", buffer.LineEndingNone, nil
	}
	return content, ending, err
}

func (m *Manager) focus(s *Session) {
	for i, other := range m.sessions {
		if other == s {
			m.active = i
			return
		}
	}
}

// CloseActive closes the active session. It fails with ErrUnsavedChanges
// when the session is modified and force is false. The neighbor to the
// left becomes active.
func (m *Manager) CloseActive(force bool) error {
	s := m.Active()
	if s == nil {
		return ErrNoSession
	}
	if s.Modified() && !force {
		return ErrUnsavedChanges
	}

	m.sessions = append(m.sessions[:m.active], m.sessions[m.active+1:]...)
	if m.active > 0 {
		m.active--
	}
	if s.path != "" {
		m.unwatch(s.path)
	}
	m.closed(s)
	return nil
}

func (m *Manager) closed(s *Session) {
	if m.onClose != nil {
		m.onClose(s)
	}
}

// SwitchNext activates the next session, wrapping at the end.
func (m *Manager) SwitchNext() {
	if n := len(m.sessions); n > 0 {
		m.active = (m.active + 1) % n
	}
}

// SwitchPrevious activates the previous session, wrapping at the start.
func (m *Manager) SwitchPrevious() {
	if n := len(m.sessions); n > 0 {
		m.active = (m.active - 1 + n) % n
	}
}

// Save writes the active session. A non-empty path saves under that name
// and makes it the session's file. Saving an untitled session without a
// path returns ErrNoPath. On failure the session is left unchanged.
func (m *Manager) Save(path string) error {
	s := m.Active()
	if s == nil {
		return ErrNoSession
	}
	if path == "" {
		path = s.path
	}
	if path == "" {
		return ErrNoPath
	}
	path = absPath(path)

	if m.files == nil {
		return fmt.Errorf("save %s: no file system", path)
	}
	if m.watcher != nil {
		m.watcher.Suppress(path)
	}
	if err := m.files.Write(path, s.engine.Text()); err != nil {
		return err
	}

	if path != s.path {
		if s.path != "" {
			m.unwatch(s.path)
		}
		s.setPath(path, m.grammarFor(path))
		m.watch(path)
	}
	s.markSaved()
	return nil
}

// Reload reads the active session's file again. The replacement is one
// undoable edit. It fails with ErrUnsavedChanges when the session is
// modified and force is false.
func (m *Manager) Reload(force bool) error {
	s := m.Active()
	if s == nil {
		return ErrNoSession
	}
	if s.path == "" {
		return ErrNoPath
	}
	if s.Modified() && !force {
		return ErrUnsavedChanges
	}
	if m.files == nil {
		return fmt.Errorf("reload %s: no file system", s.path)
	}

	content, _, err := m.files.Read(s.path)
	if err != nil {
		return err
	}
	if err := s.engine.Replace(content); err != nil {
		return err
	}
	s.markSaved()
	return nil
}

// MarkChanged records that path changed on disk and returns the session
// editing it.
func (m *Manager) MarkChanged(path string) (*Session, bool) {
	s, ok := m.Find(path)
	if !ok {
		return nil, false
	}
	s.stale = true
	s.SetMessage(fmt.Sprintf("%s changed on disk (ctrl+r to reload)", s.Name()), m.now())
	return s, true
}

func (m *Manager) watch(path string) {
	if m.watcher != nil && m.settings.Editor.WatchFiles {
		_ = m.watcher.Watch(path)
	}
}

func (m *Manager) unwatch(path string) {
	if m.watcher != nil {
		_ = m.watcher.Unwatch(path)
	}
}

// View describes the active session and the prompt for the renderer.
func (m *Manager) View() (renderer.View, bool) {
	s := m.Active()
	if s == nil {
		return renderer.View{}, false
	}
	v := s.View()
	v.Index = m.active
	v.Count = len(m.sessions)
	if m.prompt.Active() {
		v.PromptActive = true
		v.Prompt = m.prompt.Line()
	}
	return v, true
}
