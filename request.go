package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// Request is the input of the generic [Client.Do] entry point. Body and Data
// are mutually exclusive: Data is JSON-encoded into the request body.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Query  url.Values
	Body   []byte
	Data   any
}

// QueryRequest is the input of the bodiless verbs (GET, HEAD, DELETE).
type QueryRequest struct {
	Path   string
	Header http.Header
	Query  url.Values
}

// BodyRequest is the input of the verbs that carry a payload (POST, PUT, PATCH).
type BodyRequest struct {
	Path   string
	Header http.Header
	Query  url.Values
	Body   []byte
	Data   any
}

// RequestOptions is the merged, per-attempt view of a request handed to the
// request interceptor and then to the [Transport]. Every attempt gets a fresh
// copy, so changes made by an interceptor never leak into the next attempt.
type RequestOptions struct {
	Method string
	Header http.Header
	Body   []byte
}

var errBodyAndData = errors.New("request body and data are mutually exclusive")

// preparedRequest is the attempt-independent part of a call, computed once.
type preparedRequest struct {
	url    string
	method string
	header http.Header
	body   []byte
}

// options returns a fresh copy for one attempt.
func (p *preparedRequest) options() *RequestOptions {
	var body []byte
	if p.body != nil {
		body = append([]byte(nil), p.body...)
	}
	return &RequestOptions{
		Method: p.method,
		Header: p.header.Clone(),
		Body:   body,
	}
}

// prepare merges the client configuration with req. The returned error is
// already an [*Error] and is never retried.
func (c *Client) prepare(req *Request) (*preparedRequest, *Error) {
	if req.Body != nil && req.Data != nil {
		return nil, NewError(ErrorFields{Message: "invalid request", Cause: errBodyAndData, Request: req})
	}

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	header := mergeHeaders(c.options.requestHeaders, req.Header)

	body := req.Body
	if req.Data != nil {
		encoded, err := json.Marshal(req.Data)
		if err != nil {
			return nil, NewError(ErrorFields{Message: "failed to encode request data", Cause: err, Request: req})
		}
		body = encoded
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", "application/json")
		}
	}

	target, err := buildURL(c.baseURL, req.Path, req.Query)
	if err != nil {
		return nil, NewError(ErrorFields{Message: "invalid request URL", Cause: err, Request: req})
	}

	return &preparedRequest{
		url:    target,
		method: method,
		header: header,
		body:   body,
	}, nil
}

// mergeHeaders copies defaults, then overrides per key with the call-site values.
func mergeHeaders(defaults, overrides http.Header) http.Header {
	merged := make(http.Header, len(defaults)+len(overrides))
	for k, vv := range defaults {
		merged[http.CanonicalHeaderKey(k)] = append([]string(nil), vv...)
	}
	for k, vv := range overrides {
		merged[http.CanonicalHeaderKey(k)] = append([]string(nil), vv...)
	}
	return merged
}

// buildURL joins baseURL and path, then merges query over any parameters
// already present. Values in query replace existing ones with the same key.
func buildURL(baseURL, path string, query url.Values) (string, error) {
	target := path
	if baseURL != "" && !isAbsoluteURL(path) {
		switch {
		case path == "":
			target = baseURL
		case strings.HasPrefix(path, "?"):
			target = strings.TrimRight(baseURL, "/") + path
		default:
			target = strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
		}
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if len(query) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for k, vv := range query {
		q[k] = append([]string(nil), vv...)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func isAbsoluteURL(path string) bool {
	return hasPrefixFold(path, "http://") || hasPrefixFold(path, "https://")
}

// URL schemes are case-insensitive.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
