// Package errors carries coded errors from the scan pipeline up to the HTTP envelope.
// Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine facing class of an error. Values go out on the wire as is.
type ErrorCode string

// Codes used across services. Unknown is the fallback for foreign errors.
const (
	ErrorCodeUnknown         ErrorCode = "unknown"
	ErrorCodePanic           ErrorCode = "panic"
	ErrorCodeUnavailable     ErrorCode = "unavailable"
	ErrorCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrorCodeValidation      ErrorCode = "validation"
	ErrorCodeJSON            ErrorCode = "json"
	ErrorCodeNotFound        ErrorCode = "not_found"
	ErrorCodeDuplicateKey    ErrorCode = "duplicate_key"
	ErrorCodeDB              ErrorCode = "db"

	// scan pipeline
	ErrorCodeInvalidConfig     ErrorCode = "invalid_config"
	ErrorCodeUnresolvedPolicy  ErrorCode = "unresolved_policy"
	ErrorCodeOracleUnavailable ErrorCode = "oracle_unavailable"
	ErrorCodeNonConvergent     ErrorCode = "non_convergent"
)

var statusOf = map[ErrorCode]int{
	ErrorCodeNotFound:          http.StatusNotFound,
	ErrorCodeDuplicateKey:      http.StatusConflict,
	ErrorCodeValidation:        http.StatusBadRequest,
	ErrorCodeJSON:              http.StatusBadRequest,
	ErrorCodeInvalidConfig:     http.StatusBadRequest,
	ErrorCodeInvalidArgument:   http.StatusUnprocessableEntity,
	ErrorCodeNonConvergent:     http.StatusUnprocessableEntity,
	ErrorCodeUnavailable:       http.StatusServiceUnavailable,
	ErrorCodeOracleUnavailable: http.StatusServiceUnavailable,
}

// HTTPStatusCode maps a code to its status; anything unlisted is a 500
func HTTPStatusCode(c ErrorCode) int {
	if s, ok := statusOf[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrNotFound is returned by single row reads that found nothing
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is a coded error with an optional offending field and wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
}

// Wire is the client facing form; the cause never leaves the process
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// WireFrom converts any error for the wire. Foreign errors become Unknown with their text.
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As returns the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns err's code, Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WithField returns a copy of err naming the offending field. Foreign errors pass through.
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// New returns an *Error with code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns an *Error carrying orig as its cause
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Shorthands for the common codes

// NotFoundf returns a not found error
func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }
func InvalidConfigf(format string, a ...any) error { return Newf(ErrorCodeInvalidConfig, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }
