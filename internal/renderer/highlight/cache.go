package highlight

// LineSource provides the text of a document by line.
type LineSource interface {
	LineCount() int
	LineText(i int) string
}

type entry struct {
	start  State
	end    State
	tokens []Token
	valid  bool
}

// Cache holds tokens and lexer states for the lines of one document.
//
// Every line before DirtyFrom is valid and its start state equals the end
// state of the line above. Two adjacent valid lines are always consistent
// with each other, so a valid line whose cached start state matches the
// incoming state proves the rest of its valid run is still correct.
type Cache struct {
	grammar     *Grammar
	entries     []entry
	dirtyFrom   int
	retokenized int
}

// NewCache creates an empty cache for grammar g.
func NewCache(g *Grammar) *Cache {
	if g == nil {
		g = PlainText()
	}
	return &Cache{grammar: g}
}

// Grammar returns the grammar used for tokenizing.
func (c *Cache) Grammar() *Grammar {
	return c.grammar
}

// SetGrammar switches grammars and drops all cached lines.
func (c *Cache) SetGrammar(g *Grammar) {
	if g == nil {
		g = PlainText()
	}
	c.grammar = g
	c.Reset()
}

// Reset drops all cached lines.
func (c *Cache) Reset() {
	c.entries = nil
	c.dirtyFrom = 0
}

// DirtyFrom returns the first line whose cached state may be stale.
func (c *Cache) DirtyFrom() int {
	return c.dirtyFrom
}

// LastRetokenized returns how many lines the last Update tokenized.
func (c *Cache) LastRetokenized() int {
	return c.retokenized
}

// Invalidate records that lines start through oldEnd were replaced by
// lines start through newEnd. Cached lines after the edit shift with it
// and keep their states for the convergence check.
func (c *Cache) Invalidate(start, oldEnd, newEnd int) {
	if start < 0 {
		start = 0
	}
	if start < c.dirtyFrom {
		c.dirtyFrom = start
	}
	if start >= len(c.entries) {
		return
	}
	if oldEnd < start {
		oldEnd = start
	}
	if oldEnd >= len(c.entries) {
		oldEnd = len(c.entries) - 1
	}
	if newEnd < start {
		newEnd = start
	}

	repl := make([]entry, newEnd-start+1)
	entries := append(c.entries[:start:start], repl...)
	c.entries = append(entries, c.entries[oldEnd+1:]...)
}

// Update re-tokenizes stale lines from DirtyFrom. Lines up to lastVisible
// are always brought up to date. Past it, tokenizing continues only while
// a changed end state makes the next cached line stale; lines never
// tokenized stay pending until they scroll into view. It returns the
// number of lines tokenized.
func (c *Cache) Update(src LineSource, lastVisible int) int {
	n := src.LineCount()
	c.resize(n)
	c.retokenized = 0

	i := c.dirtyFrom
	state := RootState
	if i > 0 && i <= n {
		state = c.entries[i-1].end
	}

	for i < n {
		e := &c.entries[i]
		if e.valid && e.start == state {
			j := i + 1
			for j < n && c.entries[j].valid {
				j++
			}
			if j >= n || j > lastVisible {
				c.dirtyFrom = j
				return c.retokenized
			}
			state = c.entries[j-1].end
			i = j
			continue
		}
		if !e.valid && i > lastVisible {
			c.dirtyFrom = i
			return c.retokenized
		}

		tokens, end := Tokenize(c.grammar, src.LineText(i), state)
		*e = entry{start: state, end: end, tokens: tokens, valid: true}
		c.retokenized++
		state = end
		i++
	}

	c.dirtyFrom = n
	return c.retokenized
}

func (c *Cache) resize(n int) {
	switch {
	case len(c.entries) < n:
		c.entries = append(c.entries, make([]entry, n-len(c.entries))...)
	case len(c.entries) > n:
		c.entries = c.entries[:n]
	}
	if c.dirtyFrom > n {
		c.dirtyFrom = n
	}
}

// Tokens returns the cached tokens for a line. The second result is false
// when the line has not been tokenized.
func (c *Cache) Tokens(line int) ([]Token, bool) {
	if line < 0 || line >= len(c.entries) || !c.entries[line].valid {
		return nil, false
	}
	return c.entries[line].tokens, true
}

// EndState returns the lexer state at the end of a tokenized line.
func (c *Cache) EndState(line int) (State, bool) {
	if line < 0 || line >= len(c.entries) || !c.entries[line].valid {
		return "", false
	}
	return c.entries[line].end, true
}
