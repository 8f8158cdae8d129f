package orchestrators

import "errors"

// Errors shared by the resource orchestrators. Handlers map them onto API
// error codes with errors.Is.
var (
	// ErrInvalidTransition wraps a domain state error such as publishing an
	// already published announcement.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnknownAction is returned for a status action the resource does not support.
	ErrUnknownAction = errors.New("unknown status action")
	// ErrIDRequired is returned when an update or status change names no entity.
	ErrIDRequired = errors.New("id is required")
)
