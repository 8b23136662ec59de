package domain

import "errors"

type ErrorCode string

const (
	CodeValidation      ErrorCode = "validation"
	CodeNotFound        ErrorCode = "not_found"
	CodeConflict        ErrorCode = "conflict"
	CodeForbidden       ErrorCode = "forbidden"
	CodeAlreadyPaid     ErrorCode = "already_paid"
	CodeUpstream        ErrorCode = "upstream"
	CodeUpstreamTimeout ErrorCode = "upstream_timeout"
	CodeInternal        ErrorCode = "internal"
)

// Error is the failure shape every service returns; the API layer maps the
// code to an HTTP status and the message goes to the client verbatim.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func NewValidation(msg string) *Error { return &Error{Code: CodeValidation, Message: msg} }
func NewNotFound(msg string) *Error   { return &Error{Code: CodeNotFound, Message: msg} }
func NewConflict(msg string) *Error   { return &Error{Code: CodeConflict, Message: msg} }
func NewForbidden(msg string) *Error  { return &Error{Code: CodeForbidden, Message: msg} }

func NewAlreadyPaid(msg string) *Error { return &Error{Code: CodeAlreadyPaid, Message: msg} }

func NewUpstream(msg string, cause error) *Error {
	return &Error{Code: CodeUpstream, Message: msg, cause: cause}
}

func NewUpstreamTimeout(msg string, cause error) *Error {
	return &Error{Code: CodeUpstreamTimeout, Message: msg, cause: cause}
}

func NewInternal(msg string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: cause}
}

// CodeOf extracts the error code, defaulting to internal for untyped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
