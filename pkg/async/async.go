package async

import (
	"context"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the computation finishes.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits at most timeout and returns ErrTimeout if the
// computation has not finished by then.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the computation has finished, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn(ctx, param) in a new goroutine. A context that is already
// cancelled short-circuits with ctx.Err() and fn is never called.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// WaitAll waits for every future and returns their results in order together
// with the first error encountered.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	var firstErr error

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}

// Result pairs a value produced by Map with its own error.
type Result[U any] struct {
	Value U
	Err   error
}

// Map applies fn to every item concurrently, running at most limit calls at
// once (limit <= 0 means one goroutine per item). Results keep the order of
// items, and an error for one item never affects the others.
func Map[T any, U any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (U, error)) []Result[U] {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	sem := make(chan struct{}, max(limit, 1))
	futures := make([]*Future[U], len(items))
	for i, item := range items {
		futures[i] = Async(ctx, item, func(ctx context.Context, item T) (U, error) {
			sem <- struct{}{}
			defer func() { <-sem }()
			return fn(ctx, item)
		})
	}

	results := make([]Result[U], len(items))
	for i, f := range futures {
		results[i].Value, results[i].Err = f.Await()
	}
	return results
}
