// Package buffer provides the line-oriented text buffer used by the editor
// engine.
//
// A Buffer is an ordered sequence of lines. Each line keeps the terminator
// it was loaded (or inserted) with, so writing a buffer back out reproduces
// the original line endings exactly. The final line normally has no
// terminator.
//
// Positions are (line, column) pairs, both zero-based. Columns count
// grapheme clusters, never bytes, so a column always lands on a user
// visible character boundary:
//
//	buf := buffer.NewFromString("hello\nworld")
//	end, _ := buf.Insert(buffer.Position{Line: 0, Column: 5}, "\n")
//	// buf lines: "hello", "", "world"; end == (1:0)
//
//	removed, _ := buf.Delete(buffer.Range{Start: buffer.Position{Line: 0, Column: 5}, End: end})
//	// removed == "\n"; buf is back to "hello\nworld"
//
// Insert and Delete are exact inverses of each other: deleting the range
// covered by an insert restores the previous content, and re-inserting the
// text returned by Delete at the range start restores it as well.
//
// Mutating operations validate their positions before touching the buffer.
// An out of range position yields an error wrapping ErrOutOfBounds and the
// buffer is left unchanged. The buffer is never empty: an empty document is a
// single empty line.
//
// Buffers are not safe for concurrent use. The editor drives them from a
// single event loop.
package buffer
