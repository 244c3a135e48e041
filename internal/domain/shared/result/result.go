// Package result carries the uniform success/failure outcome used by domain
// operations that can fail business validation. Expected failures travel as
// coded errors through Result values; invariant violations (a failure built
// without an error, reading the value of a failure) are programming defects
// and panic.
package result

// Error is a coded domain error. It satisfies the error interface so coded
// failures can flow through ordinary error returns as well.
type Error struct {
	Code    string
	Message string
}

// None marks the absence of an error on a successful result.
var None = Error{}

// NullValue is returned when a nil value is wrapped into a result.
var NullValue = Error{Code: "Error.NullValue", Message: "a nil value was provided"}

func NewError(code, message string) Error {
	return Error{Code: code, Message: message}
}

func (e Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e Error) IsNone() bool { return e == None }

// Result is a discriminated success/failure outcome. The zero value is a
// failure with no error, which every constructor forbids; always build
// results through Success or Failure.
type Result struct {
	ok  bool
	err Error
}

func Success() Result {
	return Result{ok: true}
}

// Failure builds a failed result. A failure must carry a non-empty error.
func Failure(err Error) Result {
	if err.IsNone() {
		panic("result: a failure result must carry an error")
	}
	return Result{err: err}
}

func (r Result) IsSuccess() bool { return r.ok }

func (r Result) IsFailure() bool { return !r.ok }

// Err returns the error of a failure, or None for a success.
func (r Result) Err() Error { return r.err }

// Of is a Result carrying a typed value on success.
type Of[T any] struct {
	Result
	value T
}

func SuccessOf[T any](value T) Of[T] {
	return Of[T]{Result: Success(), value: value}
}

func FailureOf[T any](err Error) Of[T] {
	return Of[T]{Result: Failure(err)}
}

// Wrap lifts a pointer into a result: a nil pointer becomes a NullValue
// failure, anything else a success.
func Wrap[T any](value *T) Of[*T] {
	if value == nil {
		return FailureOf[*T](NullValue)
	}
	return SuccessOf(value)
}

// Value returns the carried value. Reading the value of a failure is a
// programming error and panics.
func (r Of[T]) Value() T {
	if r.IsFailure() {
		panic("result: value of a failure result accessed")
	}
	return r.value
}
