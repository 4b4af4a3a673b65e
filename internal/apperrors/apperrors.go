package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("data integrity violation")
	ErrInvalidRequest = errors.New("invalid request body")

	// ErrStoreUnavailable marks failures where the database is unreachable
	// or errored operationally, as opposed to rejecting the data.
	ErrStoreUnavailable = errors.New("storage is unavailable")
)

// NotFoundError names the missing resource so the boundary layer can build
// a "<Resource> not found" message.
type NotFoundError struct{ Resource string }

func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UniqueViolationError carries the offending field of a uniqueness conflict
// when it could be derived from the database error.
type UniqueViolationError struct{ Field string }

func (e *UniqueViolationError) Error() string {
	if e.Field == "" {
		return "value already exists"
	}

	return fmt.Sprintf("value for field '%s' already exists", e.Field)
}
func (e *UniqueViolationError) Is(target error) bool { return target == ErrConflict }
