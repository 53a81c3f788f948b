// Package requestlog records the requests the mock backend answered, for
// inspection through the admin API and in tests. It is distinct from
// operational logging, which uses log/slog.
//
//	journal := requestlog.NewMemoryStore(500)
//	journal.Log(&requestlog.Entry{Method: "GET", Path: "/api/languages", ResponseStatus: 200})
//	recent := journal.List(&requestlog.Filter{Method: "GET", Limit: 10})
//
// This is a leaf package with no internal dependencies.
package requestlog
