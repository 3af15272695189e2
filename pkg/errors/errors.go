// Package errors defines the coded errors shared by the treemap library,
// the command line and the HTTP host.
//
// Every failure a caller can act on carries a [Code]. INVALID_* codes mean
// the input was rejected (a malformed response, a bad colour, an unknown
// format) and map to 4xx statuses; the rest describe missing charts, closed
// instances and internal faults.
//
//	err := errors.New(errors.ErrCodeInvalidQueryShape, "expected 1 measure, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidQueryShape) {
//	    http.Error(w, errors.UserMessage(err), errors.GetCode(err).HTTPStatus())
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidQueryShape Code = "INVALID_QUERY_SHAPE"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidColor      Code = "INVALID_COLOR"
	ErrCodeInvalidURL        Code = "INVALID_URL"

	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeChartClosed Code = "CHART_CLOSED"
	ErrCodeCanceled    Code = "CANCELED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// codeInfo describes how a code surfaces to callers.
type codeInfo struct {
	status     int  // HTTP status
	validation bool // the input was rejected
}

var codes = map[Code]codeInfo{
	ErrCodeInvalidInput:      {http.StatusBadRequest, true},
	ErrCodeInvalidFormat:     {http.StatusBadRequest, true},
	ErrCodeInvalidQueryShape: {http.StatusUnprocessableEntity, true},
	ErrCodeInvalidConfig:     {http.StatusUnprocessableEntity, true},
	ErrCodeInvalidColor:      {http.StatusUnprocessableEntity, true},
	ErrCodeInvalidURL:        {http.StatusUnprocessableEntity, true},
	ErrCodeNotFound:          {http.StatusNotFound, false},
	ErrCodeChartClosed:       {http.StatusGone, false},
	ErrCodeCanceled:          {StatusClientClosedRequest, false},
	ErrCodeUnsupported:       {http.StatusNotImplemented, false},
	ErrCodeInternal:          {http.StatusInternalServerError, false},
}

// StatusClientClosedRequest is the non-standard status for requests the
// client abandoned before they finished.
const StatusClientClosedRequest = 499

// HTTPStatus is the response status for c. Unknown codes are 500.
func (c Code) HTTPStatus() int {
	if info, ok := codes[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error carries a code, a message for users and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// if there is none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its
// code and cause, or err's text for other errors.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err rejects its input (an INVALID_* code).
func IsValidation(err error) bool {
	return codes[GetCode(err)].validation
}

func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
