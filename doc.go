// Package client provides a retrying HTTP client whose calls never fail by
// returning a bare error: every operation returns an [Outcome], which is
// either a success value or an [*Error].
//
// The default transport wraps [github.com/go-resty/resty/v2]; the retry
// loop, hooks and response classification live in this package.
//
// # Basic Usage
//
//	c := client.New("https://api.example.com",
//	    client.WithRetries(3),
//	    client.WithRetryDelay(client.ExponentialBackoff(200*time.Millisecond)),
//	)
//
//	out := c.Get(ctx, client.QueryRequest{Path: "/users/42"})
//	if !out.OK() {
//	    log.Fatal(out.Err())
//	}
//
//	user := client.DecodeJSON[User](out.Value())
//
// # Outcomes and Errors
//
// A failed [Outcome] carries an [*Error]. The kind of failure is told apart
// by which fields are present: a transport failure has a cause and no
// status, a non-2xx response has both [Error.Status] (the reason phrase) and
// [Error.StatusCode], and a body that cannot be decoded has a cause and no
// status. Body accessors on [*Response] return outcomes too.
//
// # Retry Behaviour
//
// Without [WithRetries] a call is attempted exactly once. With a ceiling of
// n, up to n further attempts are made while the predicate set by
// [WithRetryOn] allows it. The default predicate, [DefaultRetryOn], retries
// every failure, including non-2xx responses. [RetryOnStatus] and
// [RetryOnTransient] are narrower alternatives. The wait between attempts
// comes from [WithRetryDelay] and defaults to one second. Cancelling the
// context stops the loop at once.
//
// # Hooks
//
// [WithRequestInterceptor] runs before every attempt and may edit the
// outgoing [RequestOptions]. [WithResponseInspector] sees the metadata of
// each successful attempt and [WithErrorInspector] sees every failed one.
//
// # Configuration
//
// All configuration is supplied as [Option] functions passed to [New].
// Invalid values are silently ignored and the default is retained.
// [LoadConfig] reads the declarative subset from YAML and the environment.
//
// # Logging
//
// Implement [RequestLogger] and supply it via [WithRequestLogger] to
// integrate with your logging library, or use [NewZerologLogger]. The
// default [NoopLogger] discards all log output.
package client
