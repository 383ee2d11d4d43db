// Package tui provides a Bubble Tea terminal UI for the dungeoncore engine:
// a scrolling map, a status bar, a message log and a command line.
package tui

// History remembers submitted command lines, oldest first, and walks them
// with the up and down keys. The line being typed when the walk starts is
// kept as a draft and handed back when the walk runs past the newest entry.
type History struct {
	lines []string
	limit int
	pos   int // len(lines) while not walking
	draft string
}

// NewHistory keeps at most limit lines.
func NewHistory(limit int) *History {
	return &History{lines: make([]string, 0, limit), limit: limit}
}

// Push records a submitted line and ends any walk. Repeating the previous
// line does not add a new entry.
func (h *History) Push(line string) {
	if n := len(h.lines); n == 0 || h.lines[n-1] != line {
		h.lines = append(h.lines, line)
		if len(h.lines) > h.limit {
			h.lines = h.lines[len(h.lines)-h.limit:]
		}
	}
	h.Reset()
}

// Prev steps to the older line. draft is the current input; it is saved
// when the walk starts. At the oldest line Prev stays put.
func (h *History) Prev(draft string) (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	if !h.walking() {
		h.draft = draft
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.lines[h.pos], true
}

// Next steps to the newer line. Past the newest it returns the saved draft
// with ok false and ends the walk.
func (h *History) Next() (line string, ok bool) {
	if !h.walking() {
		return "", false
	}
	h.pos++
	if h.pos == len(h.lines) {
		line = h.draft
		h.Reset()
		return line, false
	}
	return h.lines[h.pos], true
}

// Reset ends the walk and forgets the draft.
func (h *History) Reset() {
	h.pos = len(h.lines)
	h.draft = ""
}

func (h *History) walking() bool { return h.pos < len(h.lines) }
