package buffer

import (
	"slices"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// GraphemeCount returns the number of grapheme clusters in s.
func GraphemeCount(s string) int {
	if s == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(s)
}

// Graphemes splits s into grapheme clusters.
func Graphemes(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Seamless reports whether joining parts keeps every part's grapheme
// boundaries, so that no cluster spans two parts. A combining mark after
// a letter, or the second half of a flag, is not seamless.
func Seamless(parts ...string) bool {
	var want []string
	for _, p := range parts {
		want = append(want, Graphemes(p)...)
	}
	return slices.Equal(Graphemes(strings.Join(parts, "")), want)
}

// ByteOffset converts a grapheme column into a byte offset within s.
// Columns past the end of s map to len(s).
func ByteOffset(s string, col int) int {
	if col <= 0 {
		return 0
	}
	g := uniseg.NewGraphemes(s)
	n := 0
	for g.Next() {
		if n == col {
			from, _ := g.Positions()
			return from
		}
		n++
	}
	return len(s)
}

// ColumnAt converts a byte offset within s into a grapheme column.
// An offset inside a cluster maps to that cluster's column.
func ColumnAt(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	g := uniseg.NewGraphemes(s)
	n := 0
	for g.Next() {
		_, to := g.Positions()
		if to > offset {
			return n
		}
		n++
	}
	return n
}

// CharClass is the class a grapheme cluster belongs to for word motion.
type CharClass uint8

const (
	ClassSpace CharClass = iota
	ClassWord
	ClassPunct
)

// ClassOf classifies a grapheme cluster by its first rune.
// Letters, digits and underscore form words; whitespace is space;
// everything else is punctuation.
func ClassOf(cluster string) CharClass {
	for _, r := range cluster {
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			return ClassWord
		case unicode.IsSpace(r):
			return ClassSpace
		default:
			return ClassPunct
		}
	}
	return ClassSpace
}
