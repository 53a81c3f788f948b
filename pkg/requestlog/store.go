package requestlog

// Logger is the minimal interface for recording entries.
type Logger interface {
	Log(entry *Entry)
}

// Store keeps entries for later inspection.
type Store interface {
	Logger

	// Get retrieves an entry by ID.
	Get(id string) *Entry

	// List returns entries newest first, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all entries.
	Clear()

	// Count returns the number of entries.
	Count() int
}

// Filter defines criteria for listing entries. Zero fields match anything.
type Filter struct {
	// Method filters by HTTP method.
	Method string

	// Path filters by path prefix.
	Path string

	// Collection filters by collection name.
	Collection string

	// StatusCode filters by response status code.
	StatusCode int

	// RequestID filters by client request id.
	RequestID string

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of entries to skip.
	Offset int
}
