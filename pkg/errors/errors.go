// Package errors augments the standard errors
// with sentinel values that may wrap a cause
// without losing their identity.
package errors

import (
	stderr "errors"
	"fmt"

	"go.uber.org/zap"
)

var _ error = New("")

// New sentinel Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is a sentinel error that may carry a nested cause.
//
// Wrapping never mutates the sentinel: a copy is returned which still
// matches the original sentinel with errors.Is.
type Error struct {
	msg      string
	err      error
	sentinel *Error
}

// Error message, followed by the message of the nested error, if any
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func (e *Error) root() *Error {
	if e.sentinel != nil {
		return e.sentinel
	}
	return e
}

// Wrap a nested error
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, sentinel: e.root()}
}

// WrapMessage adds some detail to the message of this error
func (e *Error) WrapMessage(format string, args ...interface{}) *Error {
	return &Error{
		msg:      e.msg + ": " + fmt.Sprintf(format, args...),
		err:      e.err,
		sentinel: e.root(),
	}
}

// WrapWithLog wraps a nested error and logs it at the error level
func (e *Error) WrapWithLog(l *zap.Logger, err error, fields ...zap.Field) *Error {
	wrapped := e.Wrap(err)
	if l != nil {
		l.Error(e.msg, append(fields, zap.Error(err))...)
	}
	return wrapped
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || e.root() == t.root()
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
