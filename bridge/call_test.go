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

func TestGoCallInvokesHandlerExactlyOnceWithValue(t *testing.T) {
	var calls atomic.Int32

	got := make(chan Result[int], 1)

	GoCall(func(ctx context.Context) (int, error) {
		return 17, nil
	}, func(res Result[int]) {
		calls.Add(1)
		got <- res
	})

	res := <-got
	v, err := res.Value()
	require.NoError(t, err)
	assert.Equal(t, 17, v)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGoCallInvokesHandlerWithFailure(t *testing.T) {
	sentinel := errors.New("handler failure")

	got := make(chan Result[Unit], 1)

	GoCall(func(ctx context.Context) (Unit, error) {
		return Unit{}, sentinel
	}, func(res Result[Unit]) {
		got <- res
	})

	res := <-got
	require.ErrorIs(t, res.Err(), sentinel)
}

func TestGoCallVoidCarriesExplicitUnitPayload(t *testing.T) {
	got := make(chan Result[Unit], 1)

	GoCall(func(ctx context.Context) (Unit, error) {
		return Unit{}, nil
	}, func(res Result[Unit]) {
		got <- res
	})

	res := <-got
	v, err := res.Value()
	require.NoError(t, err)
	assert.Equal(t, Unit{}, v)
}
