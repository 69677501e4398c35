package client

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Transport performs a single HTTP exchange. It returns an error only when no
// response was obtained (DNS, connection, TLS, timeout, cancellation). The
// returned response body must be left unread.
type Transport interface {
	Dispatch(ctx context.Context, url string, opts *RequestOptions) (*http.Response, error)
}

// TransportFunc adapts a function to [Transport].
type TransportFunc func(ctx context.Context, url string, opts *RequestOptions) (*http.Response, error)

func (f TransportFunc) Dispatch(ctx context.Context, url string, opts *RequestOptions) (*http.Response, error) {
	return f(ctx, url, opts)
}

// HTTPTransport dispatches through a plain [*http.Client].
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps hc, or [http.DefaultClient] when hc is nil.
func NewHTTPTransport(hc *http.Client) *HTTPTransport {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPTransport{client: hc}
}

func (t *HTTPTransport) Dispatch(ctx context.Context, url string, opts *RequestOptions) (*http.Response, error) {
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header = opts.Header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}

	return t.client.Do(req)
}

// RestyTransport is the default [Transport]. Retries are handled by [Client],
// so the resty client never retries on its own.
//
// A raw body sent without a Content-Type header gets one guessed by resty
// from the body bytes. [HTTPTransport] sends no Content-Type in that case.
// Set the header on the request to get the same result from both.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport wraps rc. The client's retry count is reset to zero.
func NewRestyTransport(rc *resty.Client) *RestyTransport {
	rc.SetRetryCount(0)
	rc.SetAllowGetMethodPayload(true)
	return &RestyTransport{client: rc}
}

func newDefaultTransport(o *Options) *RestyTransport {
	rc := resty.New().
		SetLogger(o.requestLogger)

	if o.timeout > 0 {
		rc.SetTimeout(o.timeout)
	}

	if o.basicAuthUsername != "" || o.basicAuthPassword != "" {
		rc.SetBasicAuth(o.basicAuthUsername, o.basicAuthPassword)
	}

	if o.authScheme != "" {
		rc.SetAuthScheme(o.authScheme)
	}

	if o.authToken != "" {
		rc.SetAuthToken(o.authToken)
	}

	return NewRestyTransport(rc)
}

func (t *RestyTransport) Dispatch(ctx context.Context, url string, opts *RequestOptions) (*http.Response, error) {
	request := t.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)

	// SetHeaderMultiValues joins values with ", ", which breaks headers like Cookie.
	for k, vv := range opts.Header {
		for _, v := range vv {
			request.Header.Add(k, v)
		}
	}

	if opts.Body != nil {
		request.SetBody(opts.Body)
	}

	response, err := request.Execute(opts.Method, url)
	if err != nil {
		if response != nil && response.RawResponse != nil && response.RawResponse.Body != nil {
			_ = response.RawResponse.Body.Close()
		}
		return nil, err
	}

	return response.RawResponse, nil
}
