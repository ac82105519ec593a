package device

import "context"

// Result is the outcome of an asynchronous station request
type Result[T any] struct {
	Value T
	Err   error
}

// Ok reports whether the request succeeded
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Unwrap returns the value and error as a regular Go pair
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// Async runs fn in its own goroutine and delivers exactly one Result on the returned channel
func Async[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		v, err := fn(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}
