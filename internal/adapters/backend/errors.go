package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes the backend sends that the portal branches on.
const (
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUnavailable      = "UNAVAILABLE"
)

// Error is a normalized backend failure. Status is zero when no response
// arrived (transport failure or cancelled context).
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

// Error implements error.
func (e *Error) Error() string {
	msg := fmt.Sprintf("backend %d %s: %s", e.Status, e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the transport or decode error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Forbidden reports a 403 status or FORBIDDEN code.
func (e *Error) Forbidden() bool {
	return e.Status == http.StatusForbidden || e.Code == CodeForbidden
}

// NotFound reports a 404 status or NOT_FOUND code.
func (e *Error) NotFound() bool {
	return e.Status == http.StatusNotFound || e.Code == CodeNotFound
}

// Unauthorized reports a missing or expired bearer token.
func (e *Error) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Code == CodeUnauthorized
}

// IsForbidden reports whether err is a backend 403.
func IsForbidden(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Forbidden()
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.NotFound()
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Unauthorized()
}

// FieldErrors returns the server-side validation errors carried by err.
func FieldErrors(err error) (map[string]string, bool) {
	var e *Error
	if errors.As(err, &e) && len(e.Fields) > 0 {
		return e.Fields, true
	}
	return nil, false
}

// Message returns the user-facing message of err, or fallback when err is
// not a backend error or carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" && e.Status != 0 && e.Status < 500 {
		return e.Message
	}
	return fallback
}
