package bridge

import "context"

// GoCall starts work on a detached goroutine and invokes handler exactly
// once with its outcome, on the configured delivery context. Non-fallible
// sources still hand over a Result so every member of a derived interface
// shares the same handler shape.
func GoCall[T any](work func(context.Context) (T, error), handler func(Result[T]), opts ...Option) {
	cfg := applyOptions(opts)

	go func() {
		v, err := work(context.Background())

		res := Ok(v)
		if err != nil {
			res = Fail[T](err)
		}

		cfg.dispatch(func() { handler(res) })
	}()
}
