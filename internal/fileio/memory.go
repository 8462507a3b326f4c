package fileio

import (
	"io/fs"
	"path"
	"sort"
	"sync"

	"github.com/dshills/scribe/internal/engine/buffer"
)

// MemFS keeps files in memory. It is used in tests in place of OS.
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu     sync.Mutex
	files  map[string]string
	fail   map[string]error
	writes int
}

// NewMemFS creates an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]string),
		fail:  make(map[string]error),
	}
}

// AddFile creates or replaces a file.
func (m *MemFS) AddFile(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(p)] = content
}

// Content returns the content of a file.
func (m *MemFS) Content(p string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.files[path.Clean(p)]
	return c, ok
}

// Fail makes every later operation on p return err. A nil err clears it.
func (m *MemFS) Fail(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, path.Clean(p))
		return
	}
	m.fail[path.Clean(p)] = err
}

// Writes returns how many successful writes have been made.
func (m *MemFS) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Files returns the paths of all files, sorted.
func (m *MemFS) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Read returns the content of p and its line ending.
func (m *MemFS) Read(p string) (string, buffer.LineEnding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = path.Clean(p)
	if err, ok := m.fail[p]; ok {
		return "", buffer.LineEndingNone, &FileError{Op: "read", Path: p, Err: err}
	}
	content, ok := m.files[p]
	if !ok {
		return "", buffer.LineEndingNone, &FileError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return content, buffer.DetectLineEnding(content), nil
}

// Write replaces the content of p.
func (m *MemFS) Write(p, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = path.Clean(p)
	if err, ok := m.fail[p]; ok {
		return &FileError{Op: "write", Path: p, Err: err}
	}
	m.files[p] = content
	m.writes++
	return nil
}
