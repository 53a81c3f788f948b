package mockserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/langconv/langconv/pkg/httputil"
	"github.com/langconv/langconv/pkg/logging"
	"github.com/langconv/langconv/pkg/requestlog"
	"github.com/langconv/langconv/pkg/stateful"
)

// requestIDHeader is the header clients put their request id in.
const requestIDHeader = "X-Request-Id"

// DefaultPrefix is the path prefix collections are served under.
const DefaultPrefix = "/api"

const shutdownTimeout = 5 * time.Second

// Server serves a stateful.Store over HTTP.
type Server struct {
	store    *stateful.Store
	faults   *FaultRegistry
	requests *requestlog.MemoryStore
	limiter  *rate.Limiter
	prefix   string
	logger   *slog.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithPrefix sets the path prefix collections are served under.
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = normalizePath(prefix)
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithJournalSize sets how many requests the journal keeps.
func WithJournalSize(n int) Option {
	return func(s *Server) {
		s.requests = requestlog.NewMemoryStore(n)
	}
}

// WithRateLimit caps collection requests at rps per second with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a Server over store.
func New(store *stateful.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		faults: NewFaultRegistry(),
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.requests == nil {
		s.requests = requestlog.NewMemoryStore(requestlog.DefaultMaxEntries)
	}
	s.logger = logging.OrNop(s.logger)
	if s.prefix == "/" {
		s.prefix = ""
	}
	s.router = s.routes()
	return s
}

// Store returns the backing store.
func (s *Server) Store() *stateful.Store {
	return s.store
}

// Faults returns the fault registry.
func (s *Server) Faults() *FaultRegistry {
	return s.faults
}

// Requests returns the journal of answered requests.
func (s *Server) Requests() requestlog.Store {
	return s.requests
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/__admin", func(r chi.Router) {
		r.Post("/reset", s.handleReset)
		r.Post("/reset/{collection}", s.handleReset)
		r.Get("/state", s.handleState)
		r.Get("/faults", s.handleListFaults)
		r.Put("/faults", s.handleSetFault)
		r.Delete("/faults", s.handleClearFaults)
		r.Get("/requests", s.handleListRequests)
		r.Delete("/requests", s.handleClearRequests)
	})

	r.Route(s.prefix+"/{collection}", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.faults.inject)
		r.Use(s.resolveCollection)

		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Put("/", s.handleUpdate)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		entry := &requestlog.Entry{
			Timestamp:      start,
			RequestID:      r.Header.Get(requestIDHeader),
			Method:         r.Method,
			Path:           r.URL.Path,
			QueryString:    r.URL.RawQuery,
			ResponseStatus: status,
			BytesWritten:   ww.BytesWritten(),
			DurationMs:     elapsed.Milliseconds(),
			Fault:          ww.Header().Get(faultHeader) != "",
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			entry.Collection = rctx.URLParam("collection")
		}
		s.requests.Log(entry)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", status,
			"bytes", entry.BytesWritten,
			"requestId", entry.RequestID,
			"duration", elapsed,
		)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			httputil.WriteTooManyRequests(w, "rate_limited", "request rate exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("mock backend listening", "addr", ln.Addr().String(), "prefix", s.prefix)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
