// Package resource provides the generic client for one remote CRUD collection.
//
// A Client is instantiated once per record kind. Each method issues exactly
// one HTTP request (or none, for a blank search) and never returns a raw
// transport failure: failures are written to the structured logger and to
// the diagnostic sink, and the method resolves with a safe fallback value
// (an empty slice, nil, or false). Callers therefore never need error
// handling to keep a UI alive.
//
// The one exception is Get, the strict lookup. A 404 from the item endpoint
// comes back as ErrNotFound so callers can treat it as a routing error.
// Find is the lenient counterpart: absence and failure both yield nil and
// differ only in the message they leave in the sink.
//
// Request shapes:
//
//	List     GET    {base}
//	Get      GET    {base}/{id}
//	Find     GET    {base}/?id={id}
//	Search   GET    {base}/?{searchParam}={term}
//	Create   POST   {base}
//	Update   PUT    {base}
//	Delete   DELETE {base}/{id}
package resource
