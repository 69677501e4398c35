package client

// Outcome is either a success holding a value or a failure holding an [*Error].
// It is the return type of every public operation in this package.
type Outcome[T any] struct {
	value T
	err   *Error
}

// Success wraps v as a successful outcome.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

// Failure wraps err as a failed outcome. A nil err is replaced with a
// generic error so that a failure is never mistaken for a success.
func Failure[T any](err *Error) Outcome[T] {
	if err == nil {
		err = NewError(ErrorFields{})
	}
	return Outcome[T]{err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome[T]) OK() bool { return o.err == nil }

// Value returns the success value, or the zero value on failure.
func (o Outcome[T]) Value() T { return o.value }

// Err returns the failure, or nil on success.
func (o Outcome[T]) Err() *Error { return o.err }

// Get returns the outcome as a conventional value/error pair.
func (o Outcome[T]) Get() (T, error) {
	if o.err != nil {
		return o.value, o.err
	}
	return o.value, nil
}
