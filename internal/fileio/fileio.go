package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/scribe/internal/engine/buffer"
)

// Common errors returned by file operations.
var (
	ErrIsDir  = errors.New("is a directory")
	ErrBinary = errors.New("binary file")
)

// FileError records a failed file operation and the path that caused it.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// wrap returns err as a *FileError, unwrapping the *fs.PathError the os
// package returns so the path is not repeated.
func wrap(op, path string, err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	return &FileError{Op: op, Path: path, Err: err}
}

// DefaultMode is the permission given to new files.
const DefaultMode fs.FileMode = 0o644

// OS reads and writes files on the local file system.
type OS struct{}

// NewOS creates an OS file accessor.
func NewOS() *OS {
	return &OS{}
}

// Read returns the content of path and the line ending it mostly uses.
func (o *OS) Read(path string) (string, buffer.LineEnding, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", buffer.LineEndingNone, wrap("open", path, err)
	}
	if info.IsDir() {
		return "", buffer.LineEndingNone, wrap("open", path, ErrIsDir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", buffer.LineEndingNone, wrap("read", path, err)
	}
	if IsBinary(data) {
		return "", buffer.LineEndingNone, wrap("open", path, ErrBinary)
	}

	content := string(data)
	return content, buffer.DetectLineEnding(content), nil
}

// Write replaces the content of path. The data is written to a temporary
// file in the same directory and renamed over path, keeping the mode of
// an existing file.
func (o *OS) Write(path, content string) error {
	mode := DefaultMode
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return wrap("write", path, ErrIsDir)
		}
		mode = info.Mode().Perm()
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return wrap("write", path, err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return wrap("write", path, err)
	}

	if _, err := tmp.WriteString(content); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return wrap("write", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return wrap("write", path, err)
	}
	return nil
}

// IsBinary reports whether content looks like binary data: a NUL byte, or
// more than 10% control characters other than tab and line breaks, in the
// first 8KB.
func IsBinary(content []byte) bool {
	sample := content[:min(len(content), 8192)]
	if len(sample) == 0 {
		return false
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' && b != '\f' && b != 0x1b {
			nonText++
		}
	}
	return nonText*10 > len(sample)
}
