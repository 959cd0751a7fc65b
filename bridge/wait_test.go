package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReturnsValue(t *testing.T) {
	v, err := Wait(func(ctx context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestWaitReraisesSourceError(t *testing.T) {
	sentinel := errors.New("fetch failed")

	v, err := Wait(func(ctx context.Context) (string, error) {
		return "", sentinel
	})

	assert.Empty(t, v)
	// The exact source error, not a wrapped copy.
	assert.Same(t, sentinel, err) //nolint:testifylint // identity matters here
	require.ErrorIs(t, err, sentinel)
}

func TestWaitRepanicsOnCaller(t *testing.T) {
	defer func() {
		p := recover()
		require.NotNil(t, p)
		assert.Equal(t, "boom", p)
	}()

	_, _ = Wait(func(ctx context.Context) (int, error) {
		panic("boom")
	})

	t.Fatal("expected panic to propagate")
}

func TestWaitBlocksUntilCompletion(t *testing.T) {
	started := make(chan struct{})

	v, err := Wait(func(ctx context.Context) (int, error) {
		close(started)
		time.Sleep(20 * time.Millisecond)
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, v)

	select {
	case <-started:
	default:
		t.Fatal("work never started before Wait returned")
	}
}

func TestWaitContextIsDetached(t *testing.T) {
	err := WaitErr(func(ctx context.Context) error {
		// No caller lifetime reaches the computation.
		return ctx.Err()
	})

	require.NoError(t, err)
}

func TestWaitValue(t *testing.T) {
	v := WaitValue(func(ctx context.Context) string {
		return "plain"
	})

	assert.Equal(t, "plain", v)
}

func TestWaitErr(t *testing.T) {
	sentinel := errors.New("void failure")

	err := WaitErr(func(ctx context.Context) error { return sentinel })
	require.ErrorIs(t, err, sentinel)

	err = WaitErr(func(ctx context.Context) error { return nil })
	require.NoError(t, err)
}

func TestInvocationStateTransitions(t *testing.T) {
	inv := &invocation[int]{done: make(chan struct{})}
	assert.Equal(t, stateNotStarted, inv.state.Load())

	started := make(chan struct{})
	release := make(chan struct{})

	go inv.run(func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 1, nil
	})

	<-started
	assert.Equal(t, stateRunning, inv.state.Load())

	close(release)
	<-inv.done
	assert.Equal(t, stateCompleted, inv.state.Load())

	failed := &invocation[int]{done: make(chan struct{})}
	failed.run(func(ctx context.Context) (int, error) {
		return 0, errors.New("nope")
	})
	assert.Equal(t, stateFailed, failed.state.Load())

	panicked := &invocation[int]{done: make(chan struct{})}
	panicked.run(func(ctx context.Context) (int, error) {
		panic("boom")
	})
	assert.Equal(t, stateFailed, panicked.state.Load())
	assert.Equal(t, "boom", panicked.panicked)
}

func TestWaitVoid(t *testing.T) {
	ran := false

	WaitVoid(func(ctx context.Context) { ran = true })

	assert.True(t, ran)
}
