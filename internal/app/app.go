// Package app wires the editor together: settings, logging, the syntax
// registry, the session manager, the renderer and a terminal backend.
//
// All editor state is mutated from one goroutine. The backend poller and
// the file watcher only post to the event queue that Run drains.
package app

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/scribe/internal/assets"
	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/editor"
	"github.com/dshills/scribe/internal/engine/clipboard"
	"github.com/dshills/scribe/internal/fileio"
	"github.com/dshills/scribe/internal/input"
	"github.com/dshills/scribe/internal/renderer"
	"github.com/dshills/scribe/internal/renderer/backend"
	"github.com/dshills/scribe/internal/renderer/highlight"
)

// Initial screen size used until the backend reports its own.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// MessageTimeout is how long status messages stay on screen.
const MessageTimeout = 5 * time.Second

// Options configures application creation.
type Options struct {
	// ConfigPath is the settings file. Empty means config.DefaultPath().
	ConfigPath string

	// Files are opened at startup, one session each.
	Files []string

	// LogLevel, LogFile and Theme override the loaded settings when set.
	LogLevel string
	LogFile  string
	Theme    string

	// Settings replaces loading from ConfigPath.
	Settings *config.Settings

	// FileIO replaces the OS file accessor.
	FileIO editor.FileIO

	// Logger replaces the logger built from settings.
	Logger *Logger

	// Clock replaces time.Now for messages and undo coalescing.
	Clock func() time.Time

	// NoWatch disables the file watcher regardless of settings.
	NoWatch bool
}

// item is one entry of the event queue.
type item struct {
	event  *input.Event
	change *fileio.Change
	err    error
}

// App is the running editor.
type App struct {
	settings *config.Settings
	logger   *Logger
	logFile  io.Closer
	registry *highlight.Registry
	renderer *renderer.Renderer
	manager  *editor.Manager
	watcher  *fileio.Watcher

	mu      sync.Mutex
	backend backend.Backend
	started bool

	running  atomic.Bool
	queue    chan item
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates the application. Files that cannot be opened are reported
// on the status line; they do not fail startup.
func New(opts Options) (*App, error) {
	settings, err := loadSettings(opts)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	a := &App{
		settings: settings,
		queue:    make(chan item, 256),
		done:     make(chan struct{}),
	}

	if err := a.initLogger(opts); err != nil {
		return nil, &InitError{Component: "log", Err: err}
	}
	log := a.logger.WithComponent("init")

	a.registry = highlight.NewRegistry()
	if err := a.registry.LoadFS(assets.FS); err != nil {
		log.Warn("built-in syntax: %v", err)
	}

	keymap := input.DefaultKeymap()
	if err := keymap.Apply(settings.Keymap); err != nil {
		a.closeLog()
		return nil, &InitError{Component: "keymap", Err: err}
	}

	a.renderer = renderer.New(defaultWidth, defaultHeight, renderer.Options{
		ShowLineNumbers: settings.Editor.LineNumbers,
		TabWidth:        settings.Editor.TabWidth,
		ScrollMargin:    settings.Editor.ScrollMargin,
		MessageTimeout:  MessageTimeout,
	})
	if opts.Clock != nil {
		a.renderer.SetClock(opts.Clock)
	}
	a.renderer.SetTheme(a.theme(log))

	files := opts.FileIO
	if files == nil {
		files = fileio.NewOS()
	}

	mopts := []editor.Option{
		editor.WithFileIO(files),
		editor.WithRegistry(a.registry),
		editor.WithSettings(settings),
		editor.WithClipboard(a.clipboard(log)),
		editor.WithKeymap(keymap),
		editor.WithScreenMapper(a.renderer),
		editor.WithOnClose(func(s *editor.Session) {
			a.renderer.Forget(s.ID())
		}),
	}
	if opts.Clock != nil {
		mopts = append(mopts, editor.WithClock(opts.Clock))
	}
	if settings.Editor.WatchFiles && !opts.NoWatch {
		w, err := fileio.NewWatcher()
		if err != nil {
			log.Warn("file watcher disabled: %v", err)
		} else {
			a.watcher = w
			mopts = append(mopts, editor.WithWatcher(w))
		}
	}
	a.manager = editor.New(mopts...)

	var openErr error
	for _, path := range opts.Files {
		if _, err := a.manager.OpenFile(path, false); err != nil {
			log.Error("open %s: %v", path, err)
			openErr = errors.Join(openErr, err)
		}
	}
	if a.manager.Len() == 0 {
		a.manager.NewEditor()
	}
	if openErr != nil {
		a.manager.Active().SetMessage(fmt.Sprintf("Error: %v", openErr), a.now(opts))
	}

	log.Info("started with %d session(s)", a.manager.Len())
	return a, nil
}

func loadSettings(opts Options) (*config.Settings, error) {
	s := opts.Settings
	if s == nil {
		path := opts.ConfigPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		if s, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if opts.LogLevel != "" {
		s.Log.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		s.Log.File = opts.LogFile
	}
	if opts.Theme != "" {
		s.UI.Theme = opts.Theme
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *App) initLogger(opts Options) error {
	switch {
	case opts.Logger != nil:
		a.logger = opts.Logger
	case a.settings.Log.File != "":
		l, f, err := OpenLogFile(a.settings.Log.File, ParseLogLevel(a.settings.Log.Level))
		if err != nil {
			return err
		}
		a.logger, a.logFile = l, f
	default:
		a.logger = NullLogger
	}
	return nil
}

func (a *App) closeLog() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *App) theme(log *Logger) *highlight.Theme {
	name := a.settings.UI.Theme
	t, err := a.registry.Theme(name)
	if err == nil {
		return t
	}
	log.Warn("theme %q: %v; using default", name, err)
	return highlight.DefaultTheme()
}

func (a *App) clipboard(log *Logger) *clipboard.Register {
	if !a.settings.Editor.SystemClipboard {
		return clipboard.New()
	}
	if !clipboard.Available() {
		log.Warn("system clipboard unavailable; using internal register")
		return clipboard.New()
	}
	return clipboard.New(clipboard.WithSystem(clipboard.OSClipboard{}))
}

func (a *App) now(opts Options) time.Time {
	if opts.Clock != nil {
		return opts.Clock()
	}
	return time.Now()
}

// Settings returns the effective settings.
func (a *App) Settings() *config.Settings {
	return a.settings
}

// Manager returns the session manager.
func (a *App) Manager() *editor.Manager {
	return a.manager
}

// Renderer returns the renderer.
func (a *App) Renderer() *renderer.Renderer {
	return a.renderer
}

// Logger returns the application logger.
func (a *App) Logger() *Logger {
	return a.logger
}

// SetBackend sets the terminal backend. It must be called before Run.
func (a *App) SetBackend(b backend.Backend) error {
	if a.running.Load() {
		return ErrAlreadyRunning
	}
	a.mu.Lock()
	a.backend = b
	a.mu.Unlock()
	return nil
}

// Run initializes the backend and processes events until the user quits
// or Shutdown is called. A normal quit returns nil.
func (a *App) Run() error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	b, err := a.start()
	if err != nil {
		a.running.Store(false)
		return err
	}
	defer a.running.Store(false)
	defer a.Shutdown()

	log := a.logger.WithComponent("loop")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	a.draw(b)
	for {
		select {
		case <-a.done:
			return nil
		case <-ticker.C:
			a.draw(b)
		case it := <-a.queue:
			if err := a.handle(it); err != nil {
				if errors.Is(err, ErrQuit) {
					log.Info("quit")
					return nil
				}
				log.Error("%v", err)
			}
			a.draw(b)
		}
	}
}

// start initializes the backend and launches the producers. Shutdown
// takes the same lock, so it either sees a started backend or Run sees
// the app closed.
func (a *App) start() (backend.Backend, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	select {
	case <-a.done:
		return nil, ErrShutdown
	default:
	}
	b := a.backend
	if b == nil {
		return nil, ErrNoBackend
	}
	if err := b.Init(); err != nil {
		return nil, &InitError{Component: "backend", Err: err}
	}
	a.started = true

	if a.settings.UI.Mouse {
		b.EnableMouse()
	}
	a.resize(b.Size())

	a.wg.Add(1)
	go a.poll(b)
	if a.watcher != nil {
		a.wg.Add(1)
		go a.watch()
	}
	return b, nil
}

// post queues an item for the loop. It gives up once the app is shut
// down.
func (a *App) post(it item) bool {
	select {
	case a.queue <- it:
		return true
	case <-a.done:
		return false
	}
}

func (a *App) poll(b backend.Backend) {
	defer a.wg.Done()
	for {
		ev, ok := b.PollEvent()
		if !ok {
			return
		}
		if !a.post(item{event: &ev}) {
			return
		}
	}
}

func (a *App) watch() {
	defer a.wg.Done()
	for {
		select {
		case <-a.done:
			return
		case ch, ok := <-a.watcher.Events():
			if !ok {
				return
			}
			if !a.post(item{change: &ch}) {
				return
			}
		case err, ok := <-a.watcher.Errors():
			if !ok {
				return
			}
			if !a.post(item{err: err}) {
				return
			}
		}
	}
}

// handle applies one queued item. It returns ErrQuit when the editor
// asked to exit.
func (a *App) handle(it item) error {
	switch {
	case it.event != nil:
		return a.handleEvent(*it.event)
	case it.change != nil:
		a.handleChange(*it.change)
	case it.err != nil:
		a.logger.WithComponent("watcher").Warn("%v", it.err)
	}
	return nil
}

func (a *App) handleEvent(ev input.Event) error {
	if ev.Type == input.EventResize {
		a.resize(ev.Cols, ev.Rows)
		return nil
	}

	eff := a.manager.HandleEvent(ev)
	if eff.Err != nil {
		a.logger.WithComponent("editor").Error("%v", eff.Err)
	}
	if eff.Quit {
		return ErrQuit
	}
	return nil
}

func (a *App) handleChange(ch fileio.Change) {
	log := a.logger.WithComponent("watcher")
	if s, ok := a.manager.MarkChanged(ch.Path); ok {
		log.Info("%s %s", ch.Op, s.Path())
		return
	}
	log.Debug("ignoring %s %s", ch.Op, ch.Path)
}

func (a *App) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.renderer.Resize(width, height)
	a.manager.SetPageSize(a.renderer.TextRows())
}

// draw renders the active session: scroll, tokenize the visible lines,
// compose and flush the difference.
func (a *App) draw(b backend.Backend) {
	v, ok := a.manager.View()
	if !ok {
		return
	}
	_, last := a.renderer.Scroll(v)
	if n := a.manager.Active().Highlight(last); n > 0 {
		a.logger.WithComponent("syntax").Debug("retokenized %d line(s)", n)
	}
	renderer.Flush(b, a.renderer.Render(v))
}

// Shutdown stops the loop, the watcher and the backend. It is safe to
// call more than once and from any goroutine.
func (a *App) Shutdown() {
	a.stopOnce.Do(func() {
		a.mu.Lock()
		close(a.done)
		b, started := a.backend, a.started
		a.mu.Unlock()

		if a.watcher != nil {
			if err := a.watcher.Close(); err != nil {
				a.logger.WithComponent("watcher").Warn("close: %v", err)
			}
		}
		if started {
			b.Shutdown()
		}
		a.wg.Wait()
		a.logger.WithComponent("loop").Info("shutdown")
		a.closeLog()
	})
}
