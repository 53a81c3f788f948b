// Package catalog wires the language and conversion clients to one backend
// and one diagnostic log. A Catalog is the unit a UI session works with.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/langconv/langconv/pkg/config"
	"github.com/langconv/langconv/pkg/logging"
	"github.com/langconv/langconv/pkg/messages"
	"github.com/langconv/langconv/pkg/mockserver"
	"github.com/langconv/langconv/pkg/model"
	"github.com/langconv/langconv/pkg/resource"
	"github.com/langconv/langconv/pkg/stateful"
	"github.com/langconv/langconv/pkg/transport"
)

// memoryBaseURL is the API root used when requests never leave the process.
const memoryBaseURL = "http://memory" + mockserver.DefaultPrefix

// Catalog holds both resource clients and the log they report into.
type Catalog struct {
	Languages   *resource.Client[model.Language]
	Conversions *resource.Client[model.Conversion]

	log    *messages.Log
	server *mockserver.Server
}

// Option configures a Catalog.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	log       *messages.Log
	transport transport.Transport
	store     *stateful.Store
}

// WithLogger sets the structured logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLog makes the catalog report into an existing message log.
func WithLog(log *messages.Log) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithTransport bypasses the configured backend entirely.
func WithTransport(tr transport.Transport) Option {
	return func(o *options) {
		o.transport = tr
	}
}

// WithStore sets the store backing the memory backend. Without it the
// default seed is used.
func WithStore(store *stateful.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// New builds a Catalog over the backend cfg selects.
func New(cfg *config.Config, opts ...Option) (*Catalog, error) {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrNop(o.logger)
	if o.log == nil {
		o.log = messages.NewLog()
	}

	c := &Catalog{log: o.log}

	languagesURL, conversionsURL := cfg.LanguagesURL(), cfg.ConversionsURL()
	tr := o.transport
	if tr == nil {
		httpOpts := []transport.Option{
			transport.WithTimeout(cfg.Timeout),
			transport.WithRetry(cfg.Retries),
			transport.WithLogger(logger),
		}
		switch cfg.Backend {
		case config.BackendHTTP, "":
		case config.BackendMemory:
			store := o.store
			if store == nil {
				var err error
				if store, err = stateful.LoadStore(cfg.Server.SeedFile); err != nil {
					return nil, err
				}
			}
			c.server = mockserver.New(store, mockserver.WithLogger(logger))
			httpOpts = append(httpOpts, transport.WithRoundTripper(c.server.RoundTripper()))
			languagesURL = memoryBaseURL + "/languages"
			conversionsURL = memoryBaseURL + "/conversions"
		default:
			return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
		}
		tr = transport.New(httpOpts...)
	}

	clientOpts := []resource.Option{resource.WithSink(c.log), resource.WithLogger(logger)}
	c.Languages = resource.New[model.Language](resource.Kind{
		Singular:    "language",
		Plural:      "languages",
		BaseURL:     languagesURL,
		SearchParam: cfg.Languages.SearchParam,
	}, tr, clientOpts...)
	c.Conversions = resource.New[model.Conversion](resource.Kind{
		Singular:    "conversion",
		Plural:      "conversions",
		BaseURL:     conversionsURL,
		SearchParam: cfg.Conversions.SearchParam,
	}, tr, clientOpts...)

	logger.Debug("catalog ready", "backend", cfg.Backend, "languages", languagesURL, "conversions", conversionsURL)
	return c, nil
}

// AddLanguage creates a language from user input. Blank names are ignored:
// no request is made and nothing is logged.
func (c *Catalog) AddLanguage(ctx context.Context, name, description string) (*model.Language, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	lang := c.Languages.Create(ctx, model.Language{Name: name, Description: strings.TrimSpace(description)})
	return lang, lang != nil
}

// AddConversion creates a conversion from user input. Blank names are
// ignored like in AddLanguage.
func (c *Catalog) AddConversion(ctx context.Context, name string) (*model.Conversion, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	conv := c.Conversions.Create(ctx, model.Conversion{Name: name})
	return conv, conv != nil
}

// Messages returns the diagnostic log shared by both clients.
func (c *Catalog) Messages() *messages.Log {
	return c.log
}

// Backend returns the in-process mock backend, or nil when requests go
// over the network.
func (c *Catalog) Backend() *mockserver.Server {
	return c.server
}
