package domain

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidID          = errors.New("invalid id format")
	ErrNoteNotFound       = errors.New("note not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidToken       = errors.New("Invalid or expired token")
	ErrAccountLocked      = errors.New("Account is temporarily locked due to too many failed login attempts.")
	ErrAccountInactive    = errors.New("Account is deactivated. Please contact support.")
	ErrEmailTaken         = errors.New("User with this email already exists")
	ErrUsernameTaken      = errors.New("Username is already taken")
	ErrRateLimited        = errors.New("Too many login attempts, please try again later")
	ErrInternal           = errors.New("internal server error")
)

// ValidationError names the offending field and, when several rules failed
// at once, lists every one of them in Details.
type ValidationError struct {
	Field   string
	Message string
	Details []string
}

func NewValidationError(field, message string, details ...string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Details: details}
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
