package messages

import "sync"

// Sink is the minimal interface for recording status messages.
// Resource clients accept a Sink so they can report into any log the caller owns.
type Sink interface {
	Add(message string)
}

// Log is an in-memory, append-only Sink. It is safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []string
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{entries: make([]string, 0)}
}

// Add appends a message.
func (l *Log) Add(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, message)
}

// Messages returns a copy of all messages in the order they were added.
func (l *Log) Messages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear removes all messages.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]string, 0)
}

// Discard is a Sink that drops every message.
var Discard Sink = discard{}

type discard struct{}

func (discard) Add(string) {}

// Ensure Log implements Sink.
var _ Sink = (*Log)(nil)
