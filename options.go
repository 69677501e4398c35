package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type Option func(*Options)

type Options struct {
	retries           int
	hasRetries        bool
	retryDelay        RetryDelayFunc
	retryOn           RetryPredicate
	requestLogger     RequestLogger
	requestHeaders    http.Header
	interceptRequest  RequestInterceptor
	inspectResponse   ResponseInspector
	inspectError      ErrorInspector
	transport         Transport
	timeout           time.Duration
	tracerProvider    trace.TracerProvider
	basicAuthUsername string
	basicAuthPassword string
	authScheme        string
	authToken         string
}

// RequestInterceptor is called once per attempt, right before dispatch. It may
// modify opts in place, for example to add headers.
type RequestInterceptor func(ctx context.Context, url string, opts *RequestOptions)

// ResponseInspector observes the metadata of every successful attempt.
type ResponseInspector func(meta ResponseMeta)

// ErrorInspector observes every failed attempt.
type ErrorInspector func(err *Error)

func newClientOptions() *Options {
	return &Options{
		retryDelay:     ConstantDelay(defaultRetryDelay),
		retryOn:        DefaultRetryOn,
		requestLogger:  &NoopLogger{},
		requestHeaders: make(http.Header),
	}
}

// WithRetries sets the retry ceiling: the number of attempts made after the
// first one. Without it a call is attempted exactly once.
func WithRetries(count int) Option {
	return func(o *Options) {
		if count >= 0 {
			o.retries = count
			o.hasRetries = true
		}
	}
}

// WithRetryDelay sets the function computing the wait before the next attempt.
func WithRetryDelay(delay RetryDelayFunc) Option {
	return func(o *Options) {
		if delay != nil {
			o.retryDelay = delay
		}
	}
}

// WithRetryOn sets the predicate deciding whether an outcome is retried.
func WithRetryOn(predicate RetryPredicate) Option {
	return func(o *Options) {
		if predicate != nil {
			o.retryOn = predicate
		}
	}
}

func WithRequestLogger(logger RequestLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.requestLogger = logger
		}
	}
}

func WithRequestHeader(header, value string) Option {
	return func(o *Options) {
		header = strings.TrimSpace(header)

		if header == "" {
			return
		}

		o.requestHeaders.Set(header, value)
	}
}

func WithRequestHeaders(headers http.Header) Option {
	return func(o *Options) {
		for k, vv := range headers {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			o.requestHeaders[http.CanonicalHeaderKey(k)] = append([]string(nil), vv...)
		}
	}
}

func WithRequestInterceptor(fn RequestInterceptor) Option {
	return func(o *Options) {
		o.interceptRequest = fn
	}
}

func WithResponseInspector(fn ResponseInspector) Option {
	return func(o *Options) {
		o.inspectResponse = fn
	}
}

// WithErrorInspector sets a hook that sees every failure, including the
// attempts that get retried and a cancellation during the retry wait.
func WithErrorInspector(fn ErrorInspector) Option {
	return func(o *Options) {
		o.inspectError = fn
	}
}

// WithTransport replaces the default resty-based transport. Authentication
// and timeout options only apply to the default transport.
func WithTransport(transport Transport) Option {
	return func(o *Options) {
		if transport != nil {
			o.transport = transport
		}
	}
}

// WithTimeout sets the per-attempt timeout of the default transport.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

func WithBasicAuth(username, password string) Option {
	return func(o *Options) {
		o.basicAuthUsername = username
		o.basicAuthPassword = password
	}
}

func WithAuthScheme(scheme string) Option {
	return func(o *Options) {
		o.authScheme = scheme
	}
}

func WithAuthToken(token string) Option {
	return func(o *Options) {
		o.authToken = token
	}
}
