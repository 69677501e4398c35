package client

import (
	"errors"
	"fmt"
)

// ErrorFields holds the optional inputs to [NewError]. Status and StatusCode
// are pointers so that "not set" stays distinguishable from a zero value.
type ErrorFields struct {
	Message    string
	Cause      error
	Status     *string
	StatusCode *int
	Request    *Request
	Response   *Response
}

// Error is the single failure type carried by a failed [Outcome]. Which
// fields are populated tells the kind of failure apart:
//
//   - transport failure: Cause set, no status
//   - status failure: Status, StatusCode and Response set
//   - body decode failure: Cause set, no status
//
// An Error is never modified after construction.
type Error struct {
	message    string
	cause      error
	status     string
	hasStatus  bool
	statusCode int
	hasCode    bool
	request    *Request
	response   *Response
}

// NewError builds an [Error] from the given fields. Absent fields remain absent.
func NewError(f ErrorFields) *Error {
	e := &Error{
		message:  f.Message,
		cause:    f.Cause,
		request:  f.Request,
		response: f.Response,
	}
	if f.Status != nil {
		e.status, e.hasStatus = *f.Status, true
	}
	if f.StatusCode != nil {
		e.statusCode, e.hasCode = *f.StatusCode, true
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := e.message
	switch {
	case msg != "" && e.cause != nil:
		msg = msg + ": " + e.cause.Error()
	case msg == "" && e.cause != nil:
		msg = e.cause.Error()
	case msg == "":
		msg = "request failed"
	}

	if e.hasCode {
		return fmt.Sprintf("%d: %s", e.statusCode, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.cause }

// Message returns the message the error was built with, which may be empty.
func (e *Error) Message() string { return e.message }

// Cause returns the underlying error, or nil.
func (e *Error) Cause() error { return e.cause }

// Status returns the textual status (reason phrase) and whether it was set.
func (e *Error) Status() (string, bool) { return e.status, e.hasStatus }

// StatusCode returns the numeric HTTP status and whether it was set.
func (e *Error) StatusCode() (int, bool) { return e.statusCode, e.hasCode }

// Request returns the request that produced the error, or nil.
func (e *Error) Request() *Request { return e.request }

// Response returns the response that produced the error, or nil.
func (e *Error) Response() *Response { return e.response }

// IsError reports whether v is, or wraps, an [*Error].
func IsError(v any) bool {
	switch t := v.(type) {
	case *Error:
		return t != nil
	case error:
		_, ok := AsError(t)
		return ok
	default:
		return false
	}
}

// AsError extracts an [*Error] from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
