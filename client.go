package client

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Client sends HTTP requests through a [Transport], retrying according to its
// options. A Client is immutable after [New] and safe for concurrent use.
type Client struct {
	baseURL   string
	options   *Options
	transport Transport
	tracer    trace.Tracer
}

// New creates a client. baseURL may be empty, in which case every request
// path must be an absolute URL.
func New(baseURL string, opts ...Option) *Client {
	options := newClientOptions()

	for _, o := range opts {
		if o != nil {
			o(options)
		}
	}

	transport := options.transport
	if transport == nil {
		transport = newDefaultTransport(options)
	}

	tp := options.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Client{
		baseURL:   strings.TrimSpace(baseURL),
		options:   options,
		transport: transport,
		tracer:    tp.Tracer(tracerName),
	}
}

// Do sends req, retrying as configured, and returns the outcome of the last
// attempt. The caller owns the body of the returned response, including the
// one referenced by a status failure's [Error.Response].
func (c *Client) Do(ctx context.Context, req Request) Outcome[*Response] {
	if c == nil {
		return Failure[*Response](NewError(ErrorFields{Message: "client is nil"}))
	}

	if ctx == nil {
		ctx = context.Background()
	}

	return c.run(ctx, &req)
}

func (c *Client) Get(ctx context.Context, req QueryRequest) Outcome[*Response] {
	return c.Do(ctx, req.with(http.MethodGet))
}

func (c *Client) Head(ctx context.Context, req QueryRequest) Outcome[*Response] {
	return c.Do(ctx, req.with(http.MethodHead))
}

func (c *Client) Delete(ctx context.Context, req QueryRequest) Outcome[*Response] {
	return c.Do(ctx, req.with(http.MethodDelete))
}

func (c *Client) Post(ctx context.Context, req BodyRequest) Outcome[*Response] {
	return c.Do(ctx, req.with(http.MethodPost))
}

func (c *Client) Put(ctx context.Context, req BodyRequest) Outcome[*Response] {
	return c.Do(ctx, req.with(http.MethodPut))
}

func (c *Client) Patch(ctx context.Context, req BodyRequest) Outcome[*Response] {
	return c.Do(ctx, req.with(http.MethodPatch))
}

func (r QueryRequest) with(method string) Request {
	return Request{
		Method: method,
		Path:   r.Path,
		Header: r.Header,
		Query:  r.Query,
	}
}

func (r BodyRequest) with(method string) Request {
	return Request{
		Method: method,
		Path:   r.Path,
		Header: r.Header,
		Query:  r.Query,
		Body:   r.Body,
		Data:   r.Data,
	}
}
