// Package events keeps the bounded narrative log and dispatches events to
// handlers registered by type. Dispatch is single pass: events recorded while
// a handler runs are logged but not dispatched again.
package events

import "github.com/nathoo/dungeoncore/types"

// Event types emitted by the engine.
const (
	Moved      = "moved"
	PickedUp   = "picked_up"
	TooHeavy   = "too_heavy"
	Attacked   = "attacked"
	Hit        = "hit"
	Missed     = "missed"
	Fled       = "fled"
	Died       = "died"
	PlayerDied = "player_died"
	Equipped   = "equipped"
	Deequipped = "deequipped"
	Dropped    = "dropped"
)

// Handler reacts to one event.
type Handler func(types.Event)

// Log is a bounded ring of narrative events, oldest first.
type Log struct {
	max        int
	entries    []types.Event
	handlers   map[string][]Handler
	dispatched bool
}

// NewLog returns a log keeping at most max entries. max <= 0 means 100.
func NewLog(max int) *Log {
	if max <= 0 {
		max = 100
	}
	return &Log{max: max, handlers: map[string][]Handler{}}
}

// On registers h for events of type typ.
func (l *Log) On(typ string, h Handler) {
	l.handlers[typ] = append(l.handlers[typ], h)
}

// Push records e and runs its handlers.
func (l *Log) Push(e types.Event) {
	l.entries = append(l.entries, e)
	if over := len(l.entries) - l.max; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
	if l.dispatched {
		return
	}
	l.dispatched = true
	for _, h := range l.handlers[e.Type] {
		h(e)
	}
	l.dispatched = false
}

// Recent returns up to n of the newest events, oldest first.
func (l *Log) Recent(n int) []types.Event {
	if n > len(l.entries) || n < 0 {
		n = len(l.entries)
	}
	out := make([]types.Event, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Lines returns the text of every logged event, oldest first.
func (l *Log) Lines() []string {
	out := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e.Text)
	}
	return out
}

// Len returns the number of kept entries.
func (l *Log) Len() int { return len(l.entries) }
