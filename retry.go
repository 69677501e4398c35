package client

import (
	"context"
	"time"
)

const defaultRetryDelay = time.Second

// RetryPredicate decides whether the outcome of attempt (counted from 0)
// should be followed by another attempt.
type RetryPredicate func(attempt int, outcome Outcome[*Response]) bool

// RetryDelayFunc returns how long to wait after attempt (counted from 0)
// before making the next one.
type RetryDelayFunc func(attempt int) time.Duration

// DefaultRetryOn retries every failure and never a success. Status failures
// (non-2xx responses) are failures, so they are retried as well.
func DefaultRetryOn(_ int, outcome Outcome[*Response]) bool {
	return !outcome.OK()
}

// ConstantDelay waits d before every retry.
func ConstantDelay(d time.Duration) RetryDelayFunc {
	return func(int) time.Duration {
		return d
	}
}

// ExponentialBackoff waits base * 2^attempt before the next attempt.
func ExponentialBackoff(base time.Duration) RetryDelayFunc {
	return ExponentialBackoffMax(base, 0)
}

// ExponentialBackoffMax is [ExponentialBackoff] capped at limit. A limit of
// zero means no cap.
func ExponentialBackoffMax(base, limit time.Duration) RetryDelayFunc {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}

		d := base
		for i := 0; i < attempt; i++ {
			if limit > 0 && d >= limit/2 {
				return limit
			}
			if d >= time.Duration(1<<62) {
				break
			}
			d *= 2
		}

		if limit > 0 && d > limit {
			return limit
		}
		return d
	}
}

// RetryOnStatus retries when the attempt produced one of the given status
// codes, whether the response was classified as a success or a failure.
// Transport and decode failures, which carry no status, are not retried.
func RetryOnStatus(codes ...int) RetryPredicate {
	set := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}

	return func(_ int, outcome Outcome[*Response]) bool {
		var code int
		if outcome.OK() {
			code = outcome.Value().StatusCode
		} else {
			sc, ok := outcome.Err().StatusCode()
			if !ok {
				return false
			}
			code = sc
		}
		_, retry := set[code]
		return retry
	}
}

// run drives the attempts of a single call: attempt, then either settle or
// wait and attempt again. Attempts never overlap.
func (c *Client) run(ctx context.Context, req *Request) Outcome[*Response] {
	prepared, perr := c.prepare(req)
	if perr != nil {
		c.observeError(perr)
		c.options.requestLogger.Errorf("%s %s: %v", req.Method, req.Path, perr)
		return Failure[*Response](perr)
	}

	for attempt := 0; ; attempt++ {
		outcome := c.execute(ctx, req, prepared, attempt)

		if ctx.Err() != nil || !c.shouldRetry(attempt, outcome) {
			if !outcome.OK() {
				c.options.requestLogger.Errorf("%s %s failed after %d attempt(s): %v", prepared.method, prepared.url, attempt+1, outcome.Err())
			}
			return outcome
		}

		discard(outcome)

		delay := c.options.retryDelay(attempt)
		c.options.requestLogger.Warnf("%s %s attempt %d failed, retrying in %s", prepared.method, prepared.url, attempt+1, delay)

		if err := sleep(ctx, delay); err != nil {
			e := NewError(ErrorFields{
				Message: "request cancelled",
				Cause:   err,
				Request: req,
			})
			c.observeError(e)
			return Failure[*Response](e)
		}
	}
}

func (c *Client) shouldRetry(attempt int, outcome Outcome[*Response]) bool {
	if !c.options.hasRetries || attempt >= c.options.retries {
		return false
	}
	return c.options.retryOn(attempt, outcome)
}

// discard releases the body of an outcome that is about to be replaced by
// another attempt.
func discard(outcome Outcome[*Response]) {
	resp := outcome.Value()
	if !outcome.OK() {
		resp = outcome.Err().Response()
	}
	if resp != nil {
		_ = resp.Close()
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
