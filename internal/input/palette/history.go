package palette

// History remembers submitted command lines for recall with Up/Down.
// Lines are stored most recent first.
type History struct {
	items    []string
	maxItems int
}

// NewHistory creates a command history with the given capacity.
func NewHistory(maxItems int) *History {
	if maxItems <= 0 {
		maxItems = 100
	}
	return &History{
		items:    make([]string, 0, maxItems),
		maxItems: maxItems,
	}
}

// Add records a submitted line.
// If the line was already in history, it is moved to the front.
func (h *History) Add(line string) {
	if line == "" {
		return
	}

	for i, item := range h.items {
		if item == line {
			h.items = append(h.items[:i], h.items[i+1:]...)
			break
		}
	}

	h.items = append([]string{line}, h.items...)

	if len(h.items) > h.maxItems {
		h.items = h.items[:h.maxItems]
	}
}

// At returns the entry at index i (0 = most recent).
func (h *History) At(i int) (string, bool) {
	if i < 0 || i >= len(h.items) {
		return "", false
	}
	return h.items[i], true
}

// Len returns the number of items in history.
func (h *History) Len() int {
	return len(h.items)
}
