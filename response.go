package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// BodyReader is the set of typed body accessors exposed by [*Response].
// Each accessor consumes the underlying body; most transports allow a body
// to be read only once.
type BodyReader interface {
	Text() Outcome[string]
	Bytes() Outcome[[]byte]
	Blob() Outcome[Blob]
	Form() Outcome[url.Values]
}

// Blob is a response body together with its declared content type.
type Blob struct {
	ContentType string
	Data        []byte
}

// ResponseMeta is the part of a response that can be read without touching
// the body.
type ResponseMeta struct {
	// Status is the reason phrase, e.g. "Not Found".
	Status     string
	StatusCode int
	Header     http.Header
}

// OK reports whether StatusCode is in the 2xx range.
func (m ResponseMeta) OK() bool {
	return m.StatusCode >= 200 && m.StatusCode < 300
}

// Response wraps a transport response. Metadata is available directly;
// the body is read lazily through the [BodyReader] methods.
type Response struct {
	ResponseMeta
	body io.ReadCloser
}

// maxDrainBytes bounds how much of an unread body Close reads before closing.
const maxDrainBytes = 64 << 10

var _ BodyReader = (*Response)(nil)

func newResponse(raw *http.Response) *Response {
	body := raw.Body
	if body == nil {
		body = http.NoBody
	}

	header := raw.Header
	if header == nil {
		header = make(http.Header)
	}

	return &Response{
		ResponseMeta: ResponseMeta{
			Status:     reasonPhrase(raw),
			StatusCode: raw.StatusCode,
			Header:     header,
		},
		body: body,
	}
}

// reasonPhrase strips the numeric prefix from a status line like "404 Not Found".
func reasonPhrase(raw *http.Response) string {
	status := strings.TrimSpace(strings.TrimPrefix(raw.Status, strconv.Itoa(raw.StatusCode)))
	if status == "" {
		status = http.StatusText(raw.StatusCode)
	}
	return status
}

// Meta returns a copy of the response metadata.
func (r *Response) Meta() ResponseMeta {
	return r.ResponseMeta
}

// Bytes reads the whole body.
func (r *Response) Bytes() Outcome[[]byte] {
	data, err := io.ReadAll(r.body)
	_ = r.body.Close()

	if err != nil {
		return Failure[[]byte](NewError(ErrorFields{
			Message: "failed to read response body",
			Cause:   err,
		}))
	}
	return Success(data)
}

// Text reads the whole body as a string.
func (r *Response) Text() Outcome[string] {
	b := r.Bytes()
	if !b.OK() {
		return Failure[string](b.Err())
	}
	return Success(string(b.Value()))
}

// Blob reads the whole body and pairs it with the Content-Type header.
func (r *Response) Blob() Outcome[Blob] {
	b := r.Bytes()
	if !b.OK() {
		return Failure[Blob](b.Err())
	}
	return Success(Blob{
		ContentType: r.Header.Get("Content-Type"),
		Data:        b.Value(),
	})
}

// Form parses a URL-encoded body.
func (r *Response) Form() Outcome[url.Values] {
	t := r.Text()
	if !t.OK() {
		return Failure[url.Values](t.Err())
	}

	values, err := url.ParseQuery(t.Value())
	if err != nil {
		return Failure[url.Values](NewError(ErrorFields{
			Message: "failed to parse form body",
			Cause:   err,
		}))
	}
	return Success(values)
}

// Close discards the body. Use it when a successful response is not read.
// At most 64 KiB are drained so the connection can be reused; a longer body
// is closed without reading the rest.
func (r *Response) Close() error {
	_, _ = io.Copy(io.Discard, io.LimitReader(r.body, maxDrainBytes))
	return r.body.Close()
}

// DecodeJSON reads the body from r and unmarshals it into a T. A malformed
// body yields a failure whose cause is the [encoding/json] error.
func DecodeJSON[T any](r BodyReader) Outcome[T] {
	b := r.Bytes()
	if !b.OK() {
		return Failure[T](b.Err())
	}

	var v T
	if err := json.Unmarshal(b.Value(), &v); err != nil {
		return Failure[T](NewError(ErrorFields{
			Message: "failed to decode JSON body",
			Cause:   err,
		}))
	}
	return Success(v)
}
