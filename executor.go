package client

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/peteraglen/fetchretry-go-client"

var errNoResponse = errors.New("transport returned no response")

// execute performs one attempt of a prepared request.
func (c *Client) execute(ctx context.Context, req *Request, prepared *preparedRequest, attempt int) Outcome[*Response] {
	opts := prepared.options()

	ctx, span := c.tracer.Start(ctx, "HTTP "+opts.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", opts.Method),
			attribute.String("url.full", prepared.url),
			attribute.Int("http.request.resend_count", attempt),
		),
	)
	defer span.End()

	if c.options.interceptRequest != nil {
		c.options.interceptRequest(ctx, prepared.url, opts)
	}

	c.options.requestLogger.Debugf("%s %s attempt %d", opts.Method, prepared.url, attempt+1)

	raw, err := c.transport.Dispatch(ctx, prepared.url, opts)
	if err == nil && raw == nil {
		err = errNoResponse
	}
	if err != nil {
		e := NewError(ErrorFields{Cause: err, Request: req})
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.observeError(e)
		return Failure[*Response](e)
	}

	resp := newResponse(raw)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if !resp.OK() {
		e := NewError(ErrorFields{
			Message:    resp.Status,
			Status:     stringPtr(resp.Status),
			StatusCode: intPtr(resp.StatusCode),
			Request:    req,
			Response:   resp,
		})
		span.SetStatus(codes.Error, resp.Status)
		c.observeError(e)
		return Failure[*Response](e)
	}

	if c.options.inspectResponse != nil {
		c.options.inspectResponse(resp.Meta())
	}

	return Success(resp)
}

func (c *Client) observeError(e *Error) {
	if c.options.inspectError != nil {
		c.options.inspectError(e)
	}
}
