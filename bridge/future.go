package bridge

import (
	"context"
	"sync"
)

// Future is a detached computation settled exactly once with a value or
// an error. Continuations registered with Then fire after settlement, on
// the future's configured delivery context.
type Future[T any] struct {
	mu       sync.Mutex
	settled  bool
	res      Result[T]
	done     chan struct{}
	waiters  []func(Result[T])
	delivery settings
}

// Go starts work on a detached goroutine and returns a Future for its
// outcome. The work receives a background context: no caller cancellation
// propagates into it.
func Go[T any](work func(context.Context) (T, error), opts ...Option) *Future[T] {
	f := &Future[T]{
		done:     make(chan struct{}),
		delivery: applyOptions(opts),
	}

	go func() {
		v, err := work(context.Background())
		if err != nil {
			f.settle(Fail[T](err))
		} else {
			f.settle(Ok(v))
		}
	}()

	return f
}

// settle records the outcome exactly once and flushes continuations.
func (f *Future[T]) settle(res Result[T]) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}

	f.settled = true
	f.res = res
	waiters := f.waiters
	f.waiters = nil
	f.mu.Unlock()

	close(f.done)

	for _, w := range waiters {
		w := w
		f.delivery.dispatch(func() { w(res) })
	}
}

// Await blocks until the future settles and returns its outcome. The
// context bounds only the wait, never the underlying work: on ctx
// expiration Await returns ctx.Err() while the work runs to completion.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.res.Value()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// TryResult returns the outcome if the future has settled.
func (f *Future[T]) TryResult() (Result[T], bool) {
	select {
	case <-f.done:
		return f.res, true
	default:
		return Result[T]{}, false
	}
}

// Then registers a continuation invoked exactly once with the outcome,
// on the future's delivery context. If the future has already settled the
// continuation is dispatched immediately.
func (f *Future[T]) Then(fn func(Result[T])) {
	f.mu.Lock()
	if !f.settled {
		f.waiters = append(f.waiters, fn)
		f.mu.Unlock()
		return
	}

	res := f.res
	f.mu.Unlock()

	f.delivery.dispatch(func() { fn(res) })
}

// SafeFuture is a Future for non-fallible sources: it carries no error
// channel. Completion is guaranteed, so Await takes no context.
type SafeFuture[T any] struct {
	inner *Future[T]
}

// GoSafe starts non-fallible work on a detached goroutine and returns a
// SafeFuture for its value.
func GoSafe[T any](work func(context.Context) T, opts ...Option) *SafeFuture[T] {
	inner := Go(func(ctx context.Context) (T, error) {
		return work(ctx), nil
	}, opts...)

	return &SafeFuture[T]{inner: inner}
}

// Await blocks until the value is available.
func (f *SafeFuture[T]) Await() T {
	<-f.inner.done
	v, _ := f.inner.res.Value()

	return v
}

// Done returns a channel closed when the value is available.
func (f *SafeFuture[T]) Done() <-chan struct{} {
	return f.inner.done
}

// Then registers a continuation invoked exactly once with the value.
func (f *SafeFuture[T]) Then(fn func(T)) {
	f.inner.Then(func(res Result[T]) {
		v, _ := res.Value()
		fn(v)
	})
}
