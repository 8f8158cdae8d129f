package api

import (
	"errors"
	"log/slog"
	"net/http"

	"sportsschool/internal/adapters/storage"
	"sportsschool/internal/application/orchestrators"
	"sportsschool/internal/domain/account"
	"sportsschool/internal/domain/report"
	"sportsschool/internal/domain/validation"
)

// Error codes sent in the "code" field of an error response.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNoRecipient        = "NO_RECIPIENT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeInternal           = "INTERNAL"
)

// AppError is an error with the HTTP status and code it is answered with.
// Err is logged and never sent to the client.
type AppError struct {
	Code    string
	Message string
	Status  int
	Fields  map[string]string
	Err     error
}

// Error implements error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func badRequest(message string, err error) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message, Status: http.StatusBadRequest, Err: err}
}

func forbidden() *AppError {
	return &AppError{Code: CodeForbidden, Message: "You do not have access to this resource", Status: http.StatusForbidden}
}

func notFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

// toAppError classifies err. Unknown errors become a generic 500.
func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if fields, ok := validation.FieldErrors(err); ok {
		return &AppError{Code: CodeValidationFailed, Message: "Please correct the highlighted fields", Status: http.StatusUnprocessableEntity, Fields: fields, Err: err}
	}
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, report.ErrUnknownKind):
		return &AppError{Code: CodeNotFound, Message: "Not found", Status: http.StatusNotFound, Err: err}
	case errors.Is(err, orchestrators.ErrInvalidTransition):
		return &AppError{Code: CodeConflict, Message: transitionMessage(err), Status: http.StatusConflict, Err: err}
	case errors.Is(err, orchestrators.ErrUnknownAction), errors.Is(err, orchestrators.ErrIDRequired):
		return &AppError{Code: CodeBadRequest, Message: err.Error(), Status: http.StatusBadRequest, Err: err}
	case errors.Is(err, orchestrators.ErrNoRecipient):
		return &AppError{Code: CodeNoRecipient, Message: "The student has no email address", Status: http.StatusUnprocessableEntity, Err: err}
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		return &AppError{Code: CodeInvalidCredentials, Message: "Invalid email or password", Status: http.StatusUnauthorized, Err: err}
	case errors.Is(err, orchestrators.ErrAccountLocked):
		return &AppError{Code: CodeAccountLocked, Message: "Account locked after too many failed attempts. Try again later.", Status: http.StatusLocked, Err: err}
	case errors.Is(err, orchestrators.ErrEmailAlreadyExists):
		return &AppError{Code: CodeConflict, Message: err.Error(), Status: http.StatusConflict, Err: err}
	case errors.Is(err, account.ErrPasswordTooShort), errors.Is(err, account.ErrInvalidRole), errors.Is(err, account.ErrInvalidEmail):
		return &AppError{Code: CodeBadRequest, Message: err.Error(), Status: http.StatusBadRequest, Err: err}
	}
	return &AppError{Code: CodeInternal, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError, Err: err}
}

// transitionMessage returns the domain reason carried inside an ErrInvalidTransition.
func transitionMessage(err error) string {
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range u.Unwrap() {
			if !errors.Is(e, orchestrators.ErrInvalidTransition) {
				return e.Error()
			}
		}
	}
	return orchestrators.ErrInvalidTransition.Error()
}

// writeError logs err and answers with the normalized error body.
// Internal details are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := toAppError(err)
	attrs := []any{"code", appErr.Code, "status", appErr.Status, "method", r.Method, "path", r.URL.Path}
	switch {
	case appErr.Status >= 500:
		slog.Error("internal_error", append(attrs, "error", err)...)
	case appErr.Status == http.StatusForbidden:
		slog.Warn("auth_denied", attrs...)
	default:
		slog.Debug("request_rejected", append(attrs, "error", err)...)
	}
	respondJSON(w, appErr.Status, errorBody{Error: errorDetail{Code: appErr.Code, Message: appErr.Message, Fields: appErr.Fields}})
}
