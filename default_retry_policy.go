package client

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// RetryOnTransient is a [RetryPredicate] for callers that only want to retry
// failures likely to go away on their own. It retries on HTTP 429 (rate
// limit) and 5xx server errors, and on transient connection errors. It does
// not retry on context cancellation, deadline exceeded, DNS resolution
// failures, or any success.
//
// Supply it via [WithRetryOn] to replace [DefaultRetryOn].
func RetryOnTransient(_ int, outcome Outcome[*Response]) bool {
	if outcome.OK() {
		return false
	}

	e := outcome.Err()

	if code, ok := e.StatusCode(); ok {
		// Retry on 429 (rate limit) and 5xx (server errors)
		return code == http.StatusTooManyRequests || code >= 500
	}

	err := e.Cause()
	if err == nil {
		return false
	}

	// Don't retry on context cancellation or deadline exceeded
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Don't retry on DNS resolution errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}

	// Retry on other connection errors
	return true
}
