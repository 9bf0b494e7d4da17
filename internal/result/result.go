// Package result defines the uniform return contract of the service layer:
// every backend-facing operation resolves to a Result holding exactly one of
// a data value or an error, never both and never neither.
package result

import (
	"encoding/json"
	"fmt"
)

// Error is the failure payload of a Result. ValidationErrors maps field names
// to messages when the backend rejected individual fields.
type Error struct {
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Result is a discriminated success/failure value. Callers must branch on
// OK() before reading Data or Err. The zero Result is a failure with an
// empty message; construct values with Ok or Fail.
type Result[T any] struct {
	ok   bool
	data T
	err  Error
}

// Ok wraps a success value.
func Ok[T any](data T) Result[T] {
	return Result[T]{ok: true, data: data}
}

// Fail wraps a failure.
func Fail[T any](err Error) Result[T] {
	if err.Message == "" {
		err.Message = "operation failed"
	}
	return Result[T]{err: err}
}

// Failf wraps a formatted failure message.
func Failf[T any](format string, args ...any) Result[T] {
	return Fail[T](Error{Message: fmt.Sprintf(format, args...)})
}

// OK reports whether the result carries data.
func (r Result[T]) OK() bool {
	return r.ok
}

// Data returns the success value; it is the zero value on failure.
func (r Result[T]) Data() T {
	return r.data
}

// Err returns the failure payload, or nil on success.
func (r Result[T]) Err() *Error {
	if r.ok {
		return nil
	}
	e := r.err
	return &e
}

// MarshalJSON renders the envelope in its wire shape:
// {"success":true,"data":...} or {"success":false,"error":{...}}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(struct {
			Success bool `json:"success"`
			Data    T    `json:"data"`
		}{true, r.data})
	}
	return json.Marshal(struct {
		Success bool  `json:"success"`
		Error   Error `json:"error"`
	}{false, r.err})
}
