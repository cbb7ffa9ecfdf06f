// Package errors carries coded errors for the parts of notegraph that can
// fail.
//
// Building a graph never fails; a reference that cannot be resolved is a
// diagnostic, not an error. What can fail is everything around the engine:
// reading configuration, talking to a note store or cache, decoding an HTTP
// request. Those failures carry a [Code] that the server turns into a status
// and the CLI turns into a message.
//
//	if errors.Is(err, errors.ErrCodeGroupNotFound) {
//	    ...
//	}
//
// Sentinel errors from other packages still match through [As] and the
// standard library, since Wrap keeps the cause in the chain.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Code classifies an error for callers.
type Code string

// Request and document validation.
const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidAlgorithm Code = "INVALID_ALGORITHM"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidCanvas    Code = "INVALID_CANVAS"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidDocument  Code = "INVALID_DOCUMENT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
)

// Lookups.
const (
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeGroupNotFound   Code = "GROUP_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
)

// Collaborators and everything else.
const (
	ErrCodeSource      Code = "SOURCE"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL"
)

var statusOf = map[Code]int{
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidAlgorithm: http.StatusBadRequest,
	ErrCodeInvalidFormat:    http.StatusBadRequest,
	ErrCodeInvalidCanvas:    http.StatusBadRequest,
	ErrCodeInvalidDocument:  http.StatusBadRequest,
	ErrCodeInvalidPath:      http.StatusBadRequest,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeGroupNotFound:    http.StatusNotFound,
	ErrCodeSessionNotFound:  http.StatusNotFound,
	ErrCodeSource:           http.StatusBadGateway,
	ErrCodeUnsupported:      http.StatusNotImplemented,
}

// Error is a coded error. Message is safe to show to users; Cause may not be.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return s
	}
	return s + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap attaches code and a formatted message to cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// As is the standard library errors.As.
func As(err error, target any) bool { return stderrors.As(err, target) }

// coded finds the outermost *Error in err's chain.
func coded(err error) (*Error, bool) {
	var e *Error
	ok := stderrors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := coded(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := coded(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage is the message of the outermost coded error, or err.Error()
// for uncoded errors.
func UserMessage(err error) string {
	if e, ok := coded(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus is the status an API answers err with. Uncoded and internal
// errors are 500.
func HTTPStatus(err error) int {
	if s, ok := statusOf[GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
