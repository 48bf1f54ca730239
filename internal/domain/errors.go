package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")

	// Gate outcomes. Only these four are ever reported to an unauthenticated caller.
	ErrInvalidCredential = errors.New("invalid access code")
	ErrDeactivated       = errors.New("access code deactivated")
	ErrExpired           = errors.New("access code expired")
	ErrUsageLimitReached = errors.New("access code usage limit reached")

	ErrAdminNotConfigured = errors.New("admin secret not configured")
)

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NewValidation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError is a conflict with a message that is safe to show to the caller.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func NewConflict(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// CategoryInUseError is returned when deleting a category that providers still reference.
type CategoryInUseError struct {
	CategoryID int64
	Providers  int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("Cannot delete category. %d provider(s) are using it.", e.Providers)
}

func (e *CategoryInUseError) Is(target error) bool { return target == ErrConflict }

// IsGateOutcome reports whether err is a credential outcome rather than a failure.
func IsGateOutcome(err error) bool {
	return errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrDeactivated) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrUsageLimitReached)
}
