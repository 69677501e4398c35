package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestNewRequestIDInterceptor(t *testing.T) {
	t.Parallel()

	t.Run("sets a uuid when absent", func(t *testing.T) {
		t.Parallel()

		opts := &RequestOptions{}
		NewRequestIDInterceptor("")(context.Background(), "http://x", opts)

		_, err := uuid.Parse(opts.Header.Get(HeaderXRequestID))
		assert.NoError(t, err)
	})

	t.Run("keeps an existing id", func(t *testing.T) {
		t.Parallel()

		opts := &RequestOptions{Header: http.Header{"X-Correlation-Id": {"abc"}}}
		NewRequestIDInterceptor("X-Correlation-ID")(context.Background(), "http://x", opts)

		assert.Equal(t, "abc", opts.Header.Get("X-Correlation-ID"))
	})
}

func TestRequestIDInterceptor_FreshPerAttempt(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(HeaderXRequestID))
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL,
		WithRetries(1),
		WithRetryDelay(ConstantDelay(0)),
		WithRequestInterceptor(NewRequestIDInterceptor("")),
	)

	out := client.Get(context.Background(), QueryRequest{Path: "/"})
	require.False(t, out.OK())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestChainInterceptors(t *testing.T) {
	t.Parallel()

	var order []string
	chained := ChainInterceptors(
		func(context.Context, string, *RequestOptions) { order = append(order, "first") },
		nil,
		func(_ context.Context, url string, opts *RequestOptions) {
			order = append(order, "second:"+url)
			opts.Method = http.MethodPut
		},
	)

	opts := &RequestOptions{Method: http.MethodGet}
	chained(context.Background(), "http://x", opts)

	assert.Equal(t, []string{"first", "second:http://x"}, order)
	assert.Equal(t, http.MethodPut, opts.Method)
}

func TestTracing_SpanPerAttempt(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	var traceparents []string
	var mu sync.Mutex
	attempts := 0
	transport := TransportFunc(func(_ context.Context, _ string, opts *RequestOptions) (*http.Response, error) {
		mu.Lock()
		defer mu.Unlock()
		traceparents = append(traceparents, opts.Header.Get("Traceparent"))
		attempts++
		if attempts == 1 {
			return nil, errors.New("connection reset")
		}
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	client := New("http://example.com",
		WithTransport(transport),
		WithTracerProvider(tp),
		WithRetries(2),
		WithRetryDelay(ConstantDelay(0)),
		WithRequestInterceptor(NewTraceContextInterceptor()),
	)

	out := client.Get(context.Background(), QueryRequest{Path: "/items"})
	require.True(t, out.OK())

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "HTTP GET", spans[0].Name())
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("http.request.resend_count", 0))
	assert.Contains(t, spans[0].Attributes(), attribute.String("url.full", "http://example.com/items"))

	assert.Equal(t, codes.Unset, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.Int("http.request.resend_count", 1))
	assert.Contains(t, spans[1].Attributes(), attribute.Int("http.response.status_code", http.StatusOK))

	require.Len(t, traceparents, 2)
	assert.Contains(t, traceparents[0], spans[0].SpanContext().SpanID().String())
	assert.Contains(t, traceparents[1], spans[1].SpanContext().SpanID().String())
}
