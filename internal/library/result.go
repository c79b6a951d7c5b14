package library

// Result carries either a decoded payload or the operation error. It is the
// value passed across asynchronous boundaries instead of a (T, error) pair.
type Result[T any] struct {
	Value T
	Err   *OperationError
}

// ResultOf builds a Result from a conventional return pair.
func ResultOf[T any](value T, err error) Result[T] {
	if err != nil {
		var zero T
		return Result[T]{Value: zero, Err: AsOperationError(err)}
	}
	return Result[T]{Value: value}
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Get returns the payload and error as a conventional pair.
func (r Result[T]) Get() (T, error) {
	if r.Err != nil {
		return r.Value, r.Err
	}
	return r.Value, nil
}
