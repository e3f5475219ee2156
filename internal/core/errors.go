package core

import (
	"errors"
	"net/http"
)

// ErrStoreNotConfigured is the audit warning when no database is set.
var ErrStoreNotConfigured = errors.New("database not configured")

// Error is a failure with the HTTP status and message the caller should
// see. Err carries the underlying cause for logs.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

func badRequest(message string) *Error {
	return newError(http.StatusBadRequest, message, nil)
}

func notFound(message string) *Error {
	return newError(http.StatusNotFound, message, nil)
}

func internal(message string, err error) *Error {
	return newError(http.StatusInternalServerError, message, err)
}

// AuditResult reports the outcome of a best-effort audit write. Warning
// is set when the row could not be recorded; it is never returned as an
// error of the surrounding action.
type AuditResult struct {
	Recorded bool
	Warning  error
}
