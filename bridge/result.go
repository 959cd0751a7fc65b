package bridge

// Unit is the explicit success payload for derivations of void results.
// Conventions never omit the payload; a void source yields Result[Unit].
type Unit struct{}

// Result is the single-shot outcome of a forwarded call: a value or an
// error, never both. The zero Result is a success carrying the zero value.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful Result carrying v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail returns a failed Result carrying err.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Value returns the carried value and error.
func (r Result[T]) Value() (T, error) {
	return r.value, r.err
}

// Err returns the carried error, nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// Failed returns true if the result carries an error.
func (r Result[T]) Failed() bool {
	return r.err != nil
}
