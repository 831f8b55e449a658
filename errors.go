package vectorace

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code classifies a pipeline failure (spec.md §6/§7). Recoverable
// conditions (an empty mask, a region under the minimum pixel count)
// never reach this taxonomy — they are handled internally and simply
// produce less output.
type Code int

const (
	CodeInvalidDimensions Code = iota
	CodeInsufficientData
	CodeInvalidParameter
	CodeAlgorithmFailure
	CodeCancelled
)

func (c Code) String() string {
	switch c {
	case CodeInvalidDimensions:
		return "InvalidDimensions"
	case CodeInsufficientData:
		return "InsufficientData"
	case CodeInvalidParameter:
		return "InvalidParameter"
	case CodeAlgorithmFailure:
		return "AlgorithmFailure"
	case CodeCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the error type every exported vectorace operation returns
// on failure.
type Error struct {
	Code Code
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("vectorace: %s: %s: %v", e.Code, e.msg, e.err)
	}
	return fmt.Sprintf("vectorace: %s: %s", e.Code, e.msg)
}

func (e *Error) Unwrap() error { return e.err }

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, msg: fmt.Sprintf(format, args...)}
}

// wrapError wraps a lower-level error (typically from an internal
// package) with a Code and stack trace via github.com/pkg/errors, the
// teacher's own error-wrapping dependency (process.go, processor.go).
func wrapError(code Code, err error, format string, args ...interface{}) *Error {
	return &Error{Code: code, msg: fmt.Sprintf(format, args...), err: errors.WithStack(err)}
}

// AsError reports whether err is a *Error and returns it.
func AsError(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
