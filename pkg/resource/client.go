package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/langconv/langconv/pkg/logging"
	"github.com/langconv/langconv/pkg/messages"
	"github.com/langconv/langconv/pkg/model"
	"github.com/langconv/langconv/pkg/transport"
)

// ErrNotFound is returned by Get when the backend reports no record with the id.
var ErrNotFound = errors.New("not found")

// Client gives failure-contained access to one remote collection of R.
type Client[R model.Identifiable] struct {
	kind      Kind
	labels    labels
	transport transport.Transport
	sink      messages.Sink
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	sink   messages.Sink
	logger *slog.Logger
}

// WithSink sets the diagnostic sink. Without it messages are discarded.
func WithSink(sink messages.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a client for kind over tr.
func New[R model.Identifiable](kind Kind, tr transport.Transport, opts ...Option) *Client[R] {
	o := options{sink: messages.Discard}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sink == nil {
		o.sink = messages.Discard
	}
	kind = kind.normalize()
	return &Client[R]{
		kind:      kind,
		labels:    newLabels(kind),
		transport: tr,
		sink:      o.sink,
		logger:    logging.OrNop(o.logger),
	}
}

// Kind returns the client's kind.
func (c *Client[R]) Kind() Kind {
	return c.kind
}

// List returns every record. On failure it returns an empty slice.
func (c *Client[R]) List(ctx context.Context) []R {
	return contain(c, c.labels.list, []R{}, func() ([]R, error) {
		var out []R
		if err := c.transport.Do(ctx, http.MethodGet, c.kind.BaseURL, nil, &out); err != nil {
			return nil, err
		}
		c.log("fetched " + c.kind.Plural)
		return nonNil(out), nil
	})
}

// Get fetches the record with id from the item endpoint. A 404 is returned
// as an error wrapping ErrNotFound; any other failure yields (nil, nil).
func (c *Client[R]) Get(ctx context.Context, id int) (*R, error) {
	op := fmt.Sprintf("%s id=%d", c.labels.get, id)

	var notFound error
	rec := contain(c, op, (*R)(nil), func() (*R, error) {
		var out R
		if err := c.transport.Do(ctx, http.MethodGet, c.itemURL(id), nil, &out); err != nil {
			if transport.IsNotFound(err) {
				notFound = fmt.Errorf("%s id=%d %w: %w", c.kind.Singular, id, ErrNotFound, err)
			}
			return nil, err
		}
		c.log(fmt.Sprintf("fetched %s id=%d", c.kind.Singular, id))
		return &out, nil
	})
	if notFound != nil {
		return nil, notFound
	}
	return rec, nil
}

// Find looks the record up through the id filter. It returns nil both when
// no record matches and when the request fails.
func (c *Client[R]) Find(ctx context.Context, id int) *R {
	op := fmt.Sprintf("%s id=%d", c.labels.get, id)
	return contain(c, op, (*R)(nil), func() (*R, error) {
		var matches []R
		if err := c.transport.Do(ctx, http.MethodGet, c.queryURL("id", strconv.Itoa(id)), nil, &matches); err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			c.log(fmt.Sprintf("did not find %s id=%d", c.kind.Singular, id))
			return nil, nil
		}
		c.log(fmt.Sprintf("fetched %s id=%d", c.kind.Singular, id))
		return &matches[0], nil
	})
}

// Search returns the records matching term. A blank term returns an empty
// slice without contacting the backend.
func (c *Client[R]) Search(ctx context.Context, term string) []R {
	if strings.TrimSpace(term) == "" {
		return []R{}
	}
	return contain(c, c.labels.search, []R{}, func() ([]R, error) {
		var out []R
		if err := c.transport.Do(ctx, http.MethodGet, c.queryURL(c.kind.SearchParam, term), nil, &out); err != nil {
			return nil, err
		}
		c.log(fmt.Sprintf("found %s matching %q", c.kind.Plural, term))
		return nonNil(out), nil
	})
}

// Create stores draft and returns the stored record with its assigned id,
// or nil on failure.
func (c *Client[R]) Create(ctx context.Context, draft R) *R {
	return contain(c, c.labels.add, (*R)(nil), func() (*R, error) {
		var out R
		if err := c.transport.Do(ctx, http.MethodPost, c.kind.BaseURL, draft, &out); err != nil {
			return nil, err
		}
		c.log(fmt.Sprintf("added %s w/ id=%d", c.kind.Singular, out.RecordID()))
		return &out, nil
	})
}

// Delete removes the record named by target, which may be a model.ID or a
// full record. It returns the removed record when the backend echoes it,
// and nil on failure.
func (c *Client[R]) Delete(ctx context.Context, target model.Identifiable) *R {
	id := target.RecordID()
	return contain(c, c.labels.delete, (*R)(nil), func() (*R, error) {
		var out *R
		if err := c.transport.Do(ctx, http.MethodDelete, c.itemURL(id), nil, &out); err != nil {
			return nil, err
		}
		c.log(fmt.Sprintf("deleted %s id=%d", c.kind.Singular, id))
		return out, nil
	})
}

// Update replaces the stored record with the same id. It reports whether
// the backend acknowledged the write.
func (c *Client[R]) Update(ctx context.Context, record R) bool {
	return contain(c, c.labels.update, false, func() (bool, error) {
		if err := c.transport.Do(ctx, http.MethodPut, c.kind.BaseURL, record, nil); err != nil {
			return false, err
		}
		c.log(fmt.Sprintf("updated %s id=%d", c.kind.Singular, record.RecordID()))
		return true, nil
	})
}

func (c *Client[R]) log(message string) {
	c.sink.Add(c.labels.source + ": " + message)
}

func (c *Client[R]) itemURL(id int) string {
	return c.kind.BaseURL + "/" + strconv.Itoa(id)
}

func (c *Client[R]) queryURL(key, value string) string {
	return c.kind.BaseURL + "/?" + url.Values{key: []string{value}}.Encode()
}

func nonNil[R any](in []R) []R {
	if in == nil {
		return []R{}
	}
	return in
}
