package bridge

import (
	"context"
	"errors"
)

// ErrStreamDone is returned by Recv after the stream's single element has
// been consumed.
var ErrStreamDone = errors.New("bridge: stream completed")

// Stream delivers exactly one Result followed by completion. The events
// channel is buffered so the producer never blocks on a slow consumer.
type Stream[T any] struct {
	ch chan Result[T]
}

// GoStream starts work on a detached goroutine and returns a Stream that
// delivers its single outcome then completes. The work receives a
// background context: no caller cancellation propagates into it.
func GoStream[T any](work func(context.Context) (T, error), opts ...Option) *Stream[T] {
	s := &Stream[T]{ch: make(chan Result[T], 1)}
	cfg := applyOptions(opts)

	go func() {
		v, err := work(context.Background())

		res := Ok(v)
		if err != nil {
			res = Fail[T](err)
		}

		cfg.dispatch(func() {
			s.ch <- res
			close(s.ch)
		})
	}()

	return s
}

// Events returns the subscription channel: one Result, then close.
func (s *Stream[T]) Events() <-chan Result[T] {
	return s.ch
}

// Recv blocks for the next event. After the single element it returns
// ErrStreamDone. The context bounds only the wait, never the work.
func (s *Stream[T]) Recv(ctx context.Context) (T, error) {
	select {
	case res, ok := <-s.ch:
		if !ok {
			var zero T
			return zero, ErrStreamDone
		}

		return res.Value()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// SafeStream is a Stream for non-fallible sources: it carries no error
// channel, delivering one value then completing.
type SafeStream[T any] struct {
	ch chan T
}

// GoStreamSafe starts non-fallible work on a detached goroutine and
// returns a SafeStream delivering its single value then completing.
func GoStreamSafe[T any](work func(context.Context) T, opts ...Option) *SafeStream[T] {
	s := &SafeStream[T]{ch: make(chan T, 1)}
	cfg := applyOptions(opts)

	go func() {
		v := work(context.Background())

		cfg.dispatch(func() {
			s.ch <- v
			close(s.ch)
		})
	}()

	return s
}

// Events returns the subscription channel: one value, then close.
func (s *SafeStream[T]) Events() <-chan T {
	return s.ch
}
