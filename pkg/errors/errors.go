// Package errors augments the standard errors package with a
// wrap-capable error type, so that sentinel errors declared across
// dagfs packages can carry a nested cause without resorting to
// fmt.Errorf("%w", err) at every call site.
package errors

import (
	stderr "errors"
	"fmt"
)

var _ error = New("")

// New creates a new Error with the given message.
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is an error with an optional nested cause.
//
// Wrapping never mutates the receiver: sentinel errors declared as
// package-level variables stay pristine, and errors.Is matches any
// wrapped copy against its sentinel by message.
type Error struct {
	msg string
	err error
}

// Error message
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap the nested cause
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap returns a copy of this error with a nested cause attached.
func (e *Error) Wrap(err error) *Error {
	if e == nil {
		return nil
	}
	return &Error{msg: e.msg, err: err}
}

// WrapMessage returns a copy of this error with a formatted message
// attached as the nested cause.
func (e *Error) WrapMessage(format string, args ...interface{}) *Error {
	if e == nil {
		return nil
	}
	return &Error{msg: e.msg, err: fmt.Errorf(format, args...)}
}

// Is reports whether target is this error or a wrapped copy of it.
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}
	t, ok := target.(*Error)
	return ok && t.msg == e.msg
}

// As finds the first error in err's chain that matches target
// (a shortcut to the standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to the standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
