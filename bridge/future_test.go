package bridge

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureAwaitValue(t *testing.T) {
	f := Go(func(ctx context.Context) (int, error) {
		return 5, nil
	})

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestFutureAwaitError(t *testing.T) {
	sentinel := errors.New("nope")

	f := Go(func(ctx context.Context) (int, error) {
		return 0, sentinel
	})

	_, err := f.Await(context.Background())
	require.ErrorIs(t, err, sentinel)
}

func TestFutureSettlesExactlyOnce(t *testing.T) {
	var calls atomic.Int32

	f := Go(func(ctx context.Context) (int, error) {
		return 1, nil
	})

	f.Then(func(res Result[int]) { calls.Add(1) })
	f.Then(func(res Result[int]) { calls.Add(1) })

	<-f.Done()
	// Give already-settled dispatches a moment to run.
	assert.Eventually(t, func() bool {
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond)

	// Settling again is a no-op.
	f.settle(Ok(99))
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestFutureAwaitBoundsOnlyTheWait(t *testing.T) {
	release := make(chan struct{})
	f := Go(func(ctx context.Context) (int, error) {
		<-release
		return 9, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The work still runs to completion.
	close(release)
	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestFutureTryResult(t *testing.T) {
	release := make(chan struct{})
	f := Go(func(ctx context.Context) (int, error) {
		<-release
		return 3, nil
	})

	_, ok := f.TryResult()
	assert.False(t, ok)

	close(release)
	<-f.Done()

	res, ok := f.TryResult()
	require.True(t, ok)

	v, err := res.Value()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestSafeFutureHasNoErrorChannel(t *testing.T) {
	f := GoSafe(func(ctx context.Context) string {
		return "done"
	})

	assert.Equal(t, "done", f.Await())

	got := make(chan string, 1)
	f.Then(func(v string) { got <- v })
	assert.Equal(t, "done", <-got)
}

func TestFutureThenBeforeSettle(t *testing.T) {
	release := make(chan struct{})
	got := make(chan Result[int], 1)

	f := Go(func(ctx context.Context) (int, error) {
		<-release
		return 11, nil
	})

	f.Then(func(res Result[int]) { got <- res })
	close(release)

	res := <-got
	v, err := res.Value()
	require.NoError(t, err)
	assert.Equal(t, 11, v)
}
