// Package transport performs the HTTP requests issued by the resource clients.
//
// A Transport takes a method, an absolute URL and an optional JSON body, and
// either decodes a JSON response into the supplied value or returns an error.
// Non-2xx responses become *StatusError so callers can tell a not-found
// answer apart from a network failure:
//
//	tr := transport.New(transport.WithTimeout(10 * time.Second))
//	var langs []model.Language
//	err := tr.Do(ctx, http.MethodGet, "http://localhost:4280/api/languages", nil, &langs)
//	if transport.IsNotFound(err) {
//	    ...
//	}
//
// Retry and timeout are properties of the transport, never of the callers.
// Retries are off by default and, when enabled, only cover requests that
// never produced a response.
package transport
