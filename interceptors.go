package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// HeaderXRequestID is the default header used by [NewRequestIDInterceptor].
const HeaderXRequestID = "X-Request-ID"

// NewRequestIDInterceptor returns a [RequestInterceptor] that sets header to a
// fresh UUID on every attempt, unless the request already carries one.
// An empty header means [HeaderXRequestID].
func NewRequestIDInterceptor(header string) RequestInterceptor {
	if header == "" {
		header = HeaderXRequestID
	}
	return func(_ context.Context, _ string, opts *RequestOptions) {
		if opts.Header == nil {
			opts.Header = make(http.Header)
		}
		if opts.Header.Get(header) == "" {
			opts.Header.Set(header, uuid.NewString())
		}
	}
}

// NewTraceContextInterceptor returns a [RequestInterceptor] that injects the
// attempt's trace context (traceparent/tracestate) using the global
// propagator, or W3C trace context when none is configured.
func NewTraceContextInterceptor() RequestInterceptor {
	return func(ctx context.Context, _ string, opts *RequestOptions) {
		if opts.Header == nil {
			opts.Header = make(http.Header)
		}

		p := otel.GetTextMapPropagator()
		if len(p.Fields()) == 0 {
			p = propagation.TraceContext{}
		}
		p.Inject(ctx, propagation.HeaderCarrier(opts.Header))
	}
}

// ChainInterceptors runs the given interceptors in order.
func ChainInterceptors(interceptors ...RequestInterceptor) RequestInterceptor {
	return func(ctx context.Context, url string, opts *RequestOptions) {
		for _, fn := range interceptors {
			if fn != nil {
				fn(ctx, url, opts)
			}
		}
	}
}
