package domain

// Result is the outcome of a contract-layer operation. A failed Result still
// carries a user-presentable notice, but its value is the zero value, so a
// caller has to consult OK before trusting Value.
type Result[T any] struct {
	value  T
	ok     bool
	err    error
	notice string
}

// Succeeded wraps a valid value.
func Succeeded[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failed records why an operation produced no value and what to show instead.
func Failed[T any](err error, notice string) Result[T] {
	return Result[T]{err: err, notice: notice}
}

// FailedWith is Failed with an explicit failure value, for operations
// whose failure still has a well-formed shape (an empty set, for instance).
func FailedWith[T any](value T, err error, notice string) Result[T] {
	return Result[T]{value: value, err: err, notice: notice}
}

// OK reports whether the operation produced a value.
func (r Result[T]) OK() bool {
	return r.ok
}

// Value returns the produced value. On failure it is the zero value unless
// the Result was built with FailedWith.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure cause, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// Notice returns the user-facing message attached to a failure.
func (r Result[T]) Notice() string {
	return r.notice
}

// Or returns the value on success and fallback otherwise.
func (r Result[T]) Or(fallback T) T {
	if r.ok {
		return r.value
	}
	return fallback
}

// PresentableText returns the text a UI should render for a text result:
// the generated text on success, the notice on failure.
func PresentableText(r Result[string]) string {
	return r.Or(r.notice)
}
