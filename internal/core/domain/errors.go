package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated covers every token failure: missing, malformed,
	// expired, bad signature, unknown role, principal gone. Callers never
	// learn which one.
	ErrUnauthenticated = errors.New("not authorized to access this route")

	// ErrAdminRequired is returned for a valid non-admin principal on an
	// admin-only route.
	ErrAdminRequired = errors.New("admin access required")

	// ErrInvalidCredentials is returned for both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken        = errors.New("user with this email already exists")
	ErrIncorrectPassword = errors.New("current password is incorrect")
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrTooManyAttempts   = errors.New("too many failed login attempts")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
