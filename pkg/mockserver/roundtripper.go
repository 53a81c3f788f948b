package mockserver

import (
	"net/http"
	"net/http/httptest"
)

// RoundTripper returns an http.RoundTripper that serves every request from
// s without touching the network. Host and scheme of the request URL are
// ignored; the path decides the route.
func (s *Server) RoundTripper() http.RoundTripper {
	return roundTripper{handler: s}
}

type roundTripper struct {
	handler http.Handler
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, err
	}

	in := req.Clone(req.Context())
	if in.Body == nil {
		in.Body = http.NoBody
	}
	defer in.Body.Close()
	in.RequestURI = in.URL.RequestURI()

	rec := httptest.NewRecorder()
	rt.handler.ServeHTTP(rec, in)
	if err := req.Context().Err(); err != nil {
		return nil, err
	}

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
