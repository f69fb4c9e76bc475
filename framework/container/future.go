package container

import (
	"context"
	"sync"
)

// Future is a pending-or-settled asynchronous value. It settles exactly once;
// every waiter observes the identical value or error. Memoized singleton
// results are Futures, which is what lets concurrent first resolutions of the
// same name share one factory invocation.
type Future struct {
	done chan struct{}
	once sync.Once
	val  any
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolved returns an already-settled Future carrying v.
func resolved(v any) *Future {
	f := newFuture()
	f.complete(v, nil)
	return f
}

// rejected returns an already-settled Future carrying err.
func rejected(err error) *Future {
	f := newFuture()
	f.complete(nil, err)
	return f
}

// complete settles the future. Later calls are ignored.
func (f *Future) complete(v any, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future settles. Useful in select
// loops; most callers want Await.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is cancelled. Cancellation
// abandons the wait only — the underlying factory keeps running and the
// future may still settle for other waiters.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Settled reports whether the future has completed, without blocking.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await is the generic counterpart of Future.Await — it waits and
// type-asserts the result.
//
//	router, err := container.Await[*routing.Router](ctx, c.Get(ctx, "router"))
func Await[T any](ctx context.Context, f *Future) (T, error) {
	var zero T
	v, err := f.Await(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &TypeError{Want: typeName[T](), Got: v}
	}
	return typed, nil
}
