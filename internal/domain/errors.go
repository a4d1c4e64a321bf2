package domain

import "errors"

// Sentinel errors shared across services and delivery.
var (
	ErrNotFound        = errors.New("not found")
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrSessionClosed   = errors.New("wizard session already closed")
)

// ValidationError is a user-facing validation failure. It blocks a state
// transition and is rendered inline; it is never logged as a server fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError returns a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
