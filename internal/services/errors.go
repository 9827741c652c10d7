package services

import (
	"errors"
	"fmt"

	"telegram-crm-backend/internal/store"
)

// Outcome kinds. Every error returned by a service that is not an internal
// failure matches exactly one of these with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func notFound(format string, args ...any) error {
	return &domainError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) error {
	return &domainError{kind: ErrForbidden, msg: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &domainError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &domainError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func isStoreNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
