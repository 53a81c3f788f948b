package requestlog

import (
	"strings"
	"sync"
	"time"
)

// DefaultMaxEntries is the capacity used when NewMemoryStore gets zero.
const DefaultMaxEntries = 1000

// MemoryStore is a Store backed by a bounded in-memory buffer. The oldest
// entry is evicted once the buffer is full.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    []*Entry
	maxEntries int
	nextID     int64
}

// NewMemoryStore creates a MemoryStore holding at most maxEntries entries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries:    make([]*Entry, 0, maxEntries),
		maxEntries: maxEntries,
	}
}

// Log records an entry, assigning an ID and timestamp when missing.
func (l *MemoryStore) Log(entry *Entry) {
	if entry == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID == "" {
		l.nextID++
		entry.ID = "req-" + shortID(l.nextID)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	// FIFO eviction: remove oldest if at capacity
	if len(l.entries) >= l.maxEntries {
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, entry)
}

// Get retrieves an entry by ID.
func (l *MemoryStore) Get(id string) *Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, entry := range l.entries {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

// List returns entries newest first.
func (l *MemoryStore) List(filter *Filter) []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Entry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		entry := l.entries[i]
		if filter != nil && !filter.matches(entry) {
			continue
		}
		result = append(result, entry)
	}

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return []*Entry{}
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(result) {
			result = result[:filter.Limit]
		}
	}
	return result
}

// Clear removes all entries.
func (l *MemoryStore) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]*Entry, 0, l.maxEntries)
}

// Count returns the number of entries.
func (l *MemoryStore) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (f *Filter) matches(e *Entry) bool {
	if f.Method != "" && !strings.EqualFold(f.Method, e.Method) {
		return false
	}
	if f.Path != "" && !strings.HasPrefix(e.Path, f.Path) {
		return false
	}
	if f.Collection != "" && f.Collection != e.Collection {
		return false
	}
	if f.StatusCode != 0 && f.StatusCode != e.ResponseStatus {
		return false
	}
	if f.RequestID != "" && f.RequestID != e.RequestID {
		return false
	}
	return true
}

// shortID renders n in base 36.
func shortID(n int64) string {
	const charset = "0123456789abcdefghijklmnopqrstuvwxyz"
	if n == 0 {
		return "0"
	}

	var result []byte
	for n > 0 {
		result = append([]byte{charset[n%36]}, result...)
		n /= 36
	}
	return string(result)
}

var _ Store = (*MemoryStore)(nil)
