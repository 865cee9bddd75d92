package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminRegistration  = errors.New("cannot register as admin directly")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	ErrDepartmentNotFound = errors.New("department not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDuplicateEmail     = errors.New("email already in use")
)

// ValidationError carries the individual input violations found during a
// write operation. It maps to a 400 response at the API boundary.
type ValidationError struct {
	Violations []string
}

func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}
