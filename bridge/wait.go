package bridge

import (
	"context"
	"sync/atomic"
)

// Invocation states for the blocking bridge.
const (
	stateNotStarted int32 = iota
	stateRunning
	stateCompleted
	stateFailed
)

// invocation tracks one blocking bridge run. The signal channel is
// per-invocation and never shared; once started the invocation always
// runs to completion, there is no cancellation path.
type invocation[T any] struct {
	state    atomic.Int32
	done     chan struct{}
	value    T
	err      error
	panicked any
}

func (inv *invocation[T]) run(work func(context.Context) (T, error)) {
	defer func() {
		if p := recover(); p != nil {
			inv.panicked = p
			inv.state.Store(stateFailed)
		}
		close(inv.done)
	}()

	inv.state.Store(stateRunning)

	// The computation receives a context detached from any caller
	// lifetime: the bridge escapes structured cancellation on purpose.
	inv.value, inv.err = work(context.Background())
	if inv.err != nil {
		inv.state.Store(stateFailed)
	} else {
		inv.state.Store(stateCompleted)
	}
}

// Wait runs a suspending computation to completion and returns its outcome
// synchronously. The calling goroutine blocks on a per-invocation signal
// until the computation settles; errors are returned and panics re-raise
// on the caller exactly as the source would. There is no timeout: bounded
// blocking must be implemented outside this package. See the package
// documentation for the deadlock hazard.
func Wait[T any](work func(context.Context) (T, error)) (T, error) {
	inv := &invocation[T]{done: make(chan struct{})}

	go inv.run(work)
	<-inv.done

	if inv.panicked != nil {
		panic(inv.panicked)
	}

	return inv.value, inv.err
}

// WaitValue is Wait for non-fallible computations.
func WaitValue[T any](work func(context.Context) T) T {
	v, _ := Wait(func(ctx context.Context) (T, error) {
		return work(ctx), nil
	})

	return v
}

// WaitErr is Wait for fallible computations with no result value.
func WaitErr(work func(context.Context) error) error {
	_, err := Wait(func(ctx context.Context) (Unit, error) {
		return Unit{}, work(ctx)
	})

	return err
}

// WaitVoid is Wait for non-fallible computations with no result value.
func WaitVoid(work func(context.Context)) {
	_, _ = Wait(func(ctx context.Context) (Unit, error) {
		work(ctx)
		return Unit{}, nil
	})
}
