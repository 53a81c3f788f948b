package requestlog

import "time"

// Entry captures one request and the status it was answered with.
type Entry struct {
	// ID is a unique identifier for the log entry.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// RequestID is the X-Request-Id the client sent, if any.
	RequestID string `json:"requestId,omitempty"`

	Method      string `json:"method"`
	Path        string `json:"path"`
	QueryString string `json:"queryString,omitempty"`

	// Collection is the collection the path addressed, empty for admin routes.
	Collection string `json:"collection,omitempty"`

	// ResponseStatus is the HTTP status returned.
	ResponseStatus int `json:"responseStatus"`

	// BytesWritten is the size of the response body.
	BytesWritten int `json:"bytesWritten"`

	// DurationMs is the request processing time in milliseconds.
	DurationMs int64 `json:"durationMs"`

	// Fault is set when an injected fault produced the response.
	Fault bool `json:"fault,omitempty"`
}
