// Package apperrors defines the error taxonomy of the sync engine.
//
// Every error crossing a package boundary carries a Code. Callers branch on
// the code with CodeOf or errors.Is against the sentinels, never on message
// text.
package apperrors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeRemote     Code = "REMOTE_ERROR"
	CodeConflict   Code = "CONFLICT"
	CodeOffline    Code = "OFFLINE"
	CodeBusy       Code = "BUSY"
	CodeAuth       Code = "UNAUTHORIZED"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Metadata describes how a code is reported and whether a retry may help.
type Metadata struct {
	HTTPStatus int
	Retryable  bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {HTTPStatus: http.StatusBadRequest, Retryable: false},
	CodeNotFound:   {HTTPStatus: http.StatusNotFound, Retryable: false},
	CodeRemote:     {HTTPStatus: http.StatusBadGateway, Retryable: true},
	CodeConflict:   {HTTPStatus: http.StatusConflict, Retryable: false},
	CodeOffline:    {HTTPStatus: http.StatusServiceUnavailable, Retryable: true},
	CodeBusy:       {HTTPStatus: http.StatusConflict, Retryable: true},
	CodeAuth:       {HTTPStatus: http.StatusUnauthorized, Retryable: false},
	CodeInternal:   {HTTPStatus: http.StatusInternalServerError, Retryable: true},
}

// CodeForStatus maps an HTTP status back to a code.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeAuth
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	default:
		return CodeRemote
	}
}

// MetadataFor returns the metadata of code, falling back to CodeInternal.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is a coded error with an optional cause.
type Error struct {
	cause   error
	code    Code
	message string
}

var (
	// ErrOffline is returned by remote-bound operations while disconnected.
	ErrOffline = New(CodeOffline, "offline")
	// ErrPushInProgress is returned when a push cycle is already running.
	ErrPushInProgress = New(CodeBusy, "push already in progress")
)

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Newf formats message according to format.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Validation builds a VALIDATION_ERROR.
func Validation(format string, args ...any) *Error {
	return Newf(CodeValidation, format, args...)
}

// NotFound builds a NOT_FOUND error for a record of table.
func NotFound(table, id string) *Error {
	return Newf(CodeNotFound, "%s record %q not found", table, id)
}

// Remote wraps a backend failure.
func Remote(err error, message string) *Error {
	return Wrap(CodeRemote, err, message)
}

// Conflict builds a CONFLICT error for a stale write.
func Conflict(table, id string, expected, actual int64) *Error {
	return Newf(CodeConflict, "%s record %q was modified remotely (expected version %d, found %d)", table, id, expected, actual)
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error with the same code and message, so sentinels
// such as ErrOffline compare equal to copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code && e.message == t.message
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var target *Error
	if stdErrors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// CodeOf returns the code of the first *Error in err's chain, CodeInternal
// otherwise. A nil error has no code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Code()
	}
	return CodeInternal
}

// HasCode reports whether err carries code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// IsRetryable reports whether retrying the failed operation may succeed.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return MetadataFor(CodeOf(err)).Retryable
}
