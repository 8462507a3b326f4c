package fileio

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrNotWatching   = errors.New("path is not being watched")
)

// Op is the kind of change seen on a watched file.
type Op uint8

const (
	// OpWrite indicates the file content changed.
	OpWrite Op = 1 << iota
	// OpCreate indicates the file was created, or replaced by a rename.
	OpCreate
	// OpRemove indicates the file was deleted.
	OpRemove
	// OpRename indicates the file was moved away.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "WRITE"
	case OpCreate:
		return "CREATE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Change is a change made to a watched file by another program.
type Change struct {
	Path string
	Op   Op
	Time time.Time
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithSuppressWindow sets how long Suppress hides changes to a path.
func WithSuppressWindow(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.window = d
	}
}

// WithDebounce sets the minimum gap between two reported changes of the
// same kind to the same file.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithBufferSize sets the capacity of the events channel.
func WithBufferSize(n int) WatcherOption {
	return func(w *Watcher) {
		if n > 0 {
			w.bufSize = n
		}
	}
}

// Watcher reports changes to individual files.
//
// The directory holding each file is watched rather than the file itself,
// so a file replaced by rename (as editors and OS.Write do) keeps being
// watched.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	quiet    map[string]time.Time
	lastSent map[string]Change

	window   time.Duration
	debounce time.Duration
	bufSize  int
	now      func() time.Time

	events  chan Change
	errors  chan error
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher and starts its event loop.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		quiet:    make(map[string]time.Time),
		lastSent: make(map[string]Change),
		window:   time.Second,
		debounce: 50 * time.Millisecond,
		bufSize:  64,
		now:      time.Now,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.events = make(chan Change, w.bufSize)
	w.errors = make(chan error, w.bufSize)

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch starts watching a file. Watching a file twice is a no-op.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.files[abs] {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return wrap("watch", path, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Unwatch stops watching a file.
func (w *Watcher) Unwatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.files[abs] {
		return ErrNotWatching
	}

	delete(w.files, abs)
	delete(w.quiet, abs)
	delete(w.lastSent, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.fsw.Remove(dir); err != nil {
			return wrap("unwatch", path, err)
		}
	}
	return nil
}

// IsWatching returns true if the file is being watched.
func (w *Watcher) IsWatching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// Suppress hides changes to path for the suppress window. Call it just
// before the editor writes the file itself.
func (w *Watcher) Suppress(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.quiet[abs] = w.now().Add(w.window)
	w.mu.Unlock()
}

// Events returns the change channel. It is closed by Close.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	name := filepath.Clean(ev.Name)
	now := w.now()

	w.mu.Lock()
	if !w.files[name] {
		w.mu.Unlock()
		return
	}
	if until, ok := w.quiet[name]; ok {
		if now.Before(until) {
			w.mu.Unlock()
			return
		}
		delete(w.quiet, name)
	}
	if last, ok := w.lastSent[name]; ok && last.Op == op && now.Sub(last.Time) < w.debounce {
		w.mu.Unlock()
		return
	}
	c := Change{Path: name, Op: op, Time: now}
	w.lastSent[name] = c
	w.mu.Unlock()

	select {
	case w.events <- c:
	default:
		// Channel full, drop event
	}
}

// convertOp maps an fsnotify operation to the single Op it most affects.
// Permission changes are ignored.
func convertOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Write):
		return OpWrite
	}
	return 0
}
