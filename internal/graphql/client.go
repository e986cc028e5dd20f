package graphql

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"splitspecs/internal/cache"
)

// Options configures a Client.
type Options struct {
	Endpoint   string
	HTTPClient *http.Client
	Tokens     TokenSource
	Cache      *cache.InMemoryCache
	Logger     logrus.FieldLogger
}

// Client runs operations through the link chain and records results in the
// normalized cache.
type Client struct {
	handler Handler
	cache   *cache.InMemoryCache
	logger  logrus.FieldLogger
}

// NewClient builds the chain ErrorLink -> AuthLink -> HTTPLink.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	handler := Chain(
		HTTPLink(opts.Endpoint, opts.HTTPClient),
		ErrorLink(logger),
		AuthLink(opts.Tokens),
	)
	return NewClientWithHandler(handler, opts.Cache, logger)
}

// NewClientWithHandler wraps an already composed handler.
// A nil cache gets an empty one without policies.
func NewClientWithHandler(h Handler, c *cache.InMemoryCache, logger logrus.FieldLogger) *Client {
	if c == nil {
		c = cache.New(cache.Config{Logger: logger})
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Client{handler: h, cache: c, logger: logger}
}

// Cache returns the client's normalized cache.
func (c *Client) Cache() *cache.InMemoryCache {
	return c.cache
}

// OperationOption adjusts an operation before it is sent.
type OperationOption func(*Operation)

// WithOperationName sets the operationName sent to the server.
func WithOperationName(name string) OperationOption {
	return func(op *Operation) { op.Name = name }
}

// WithHeader adds a request header.
func WithHeader(key, value string) OperationOption {
	return func(op *Operation) { op.Headers.Add(key, value) }
}

// Query runs a query document.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, opts ...OperationOption) (*Response, error) {
	return c.Do(ctx, c.newOperation(OperationQuery, query, vars, opts))
}

// Mutate runs a mutation document.
func (c *Client) Mutate(ctx context.Context, mutation string, vars map[string]any, opts ...OperationOption) (*Response, error) {
	return c.Do(ctx, c.newOperation(OperationMutation, mutation, vars, opts))
}

func (c *Client) newOperation(typ OperationType, doc string, vars map[string]any, opts []OperationOption) *Operation {
	op := &Operation{
		Type:      typ,
		Query:     doc,
		Variables: vars,
		Headers:   make(http.Header),
	}
	for _, opt := range opts {
		opt(op)
	}
	return op
}

// Do sends op through the chain. Transport failures are returned as error;
// application errors are left in the response for the caller. Only results
// without errors are written to the cache.
func (c *Client) Do(ctx context.Context, op *Operation) (*Response, error) {
	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	if op.Headers == nil {
		op.Headers = make(http.Header)
	}
	if op.Type == "" {
		op.Type = OperationQuery
	}

	resp, err := c.handler(ctx, op)
	if err != nil {
		return resp, err
	}
	if resp != nil && resp.Data != nil && len(resp.Errors) == 0 {
		c.cache.Write(rootFor(op.Type), resp.Data)
	}
	c.logger.WithFields(logrus.Fields{
		"operation_id":   op.ID,
		"operation_name": op.Name,
	}).Debug("graphql: operation complete")
	return resp, nil
}

// ReadQueryField reads a root query field from the cache, applying field policies.
func (c *Client) ReadQueryField(field string) (any, bool) {
	return c.cache.ReadField(cache.RootQuery, field)
}

func rootFor(t OperationType) string {
	if t == OperationMutation {
		return cache.RootMutation
	}
	return cache.RootQuery
}
