// Package result provides the success/failure value returned by every
// executor in settle.
package result

import (
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/settle/pkg/errors"
)

// Result holds exactly one of a successful value or a failure error.
// The zero Result is a failure carrying the unknown error.
type Result[T any] struct {
	data T
	err  error
	ok   bool
}

// Success returns a successful Result holding data.
func Success[T any](data T) Result[T] {
	return Result[T]{data: data, ok: true}
}

// Failure returns a failed Result. A nil err is replaced by the unknown
// error so a failure always carries an error.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = errors.Unknown(nil)
	}
	return Result[T]{err: err}
}

// From builds a Result from a conventional (value, error) pair.
func From[T any](data T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(data)
}

// IsSuccess reports whether r is a success.
func (r Result[T]) IsSuccess() bool { return r.ok }

// IsFailure reports whether r is a failure.
func (r Result[T]) IsFailure() bool { return !r.ok }

// Data returns the success value, or the zero value for a failure.
func (r Result[T]) Data() T { return r.data }

// Err returns the failure error, or nil for a success.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return errors.Unknown(nil)
	}
	return r.err
}

// Unwrap returns the Result as a (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.data, r.Err()
}

// String implements fmt.Stringer
func (r Result[T]) String() string {
	if r.ok {
		return fmt.Sprintf("Success{data: %v}", r.data)
	}
	return fmt.Sprintf("Failure{error: %v}", r.Err())
}

type resultJSON struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *string     `json:"error"`
}

// MarshalJSON renders {"success":..,"data":..,"error":..} with the
// unpopulated side as null.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	out := resultJSON{Success: r.ok}
	if r.ok {
		out.Data = r.data
	} else {
		msg := r.Err().Error()
		out.Error = &msg
	}
	return json.Marshal(out)
}
