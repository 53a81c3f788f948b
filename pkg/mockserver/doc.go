// Package mockserver serves the stateful collections over the same HTTP
// contract the real languages/conversions API exposes.
//
// Routes (prefix defaults to /api):
//
//	GET    /api/{collection}          list; query parameters filter
//	GET    /api/{collection}/{id}     one record, 404 when absent
//	POST   /api/{collection}          create, 201 with the stored record
//	PUT    /api/{collection}[/{id}]   update, 204; 404 when absent
//	DELETE /api/{collection}/{id}     delete, 200 with the removed record
//
//	POST   /__admin/reset[/{collection}]   restore seed data
//	GET    /__admin/state                  collection overview
//	GET    /__admin/faults                 injected faults
//	PUT    /__admin/faults                 inject a fault
//	DELETE /__admin/faults                 clear faults
//	GET    /__admin/requests               journal of answered requests
//	DELETE /__admin/requests               clear the journal
//
// The server can run on a socket (Run, Serve) or in-process: RoundTripper
// returns an http.RoundTripper that dispatches straight into the router, so
// clients configured with it exercise the full HTTP contract without a
// network.
package mockserver
