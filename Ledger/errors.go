package Ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a referenced party, product, transaction or payment
	// that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable marks a failure of the backing database. Callers
	// may retry the whole operation.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConflict marks a write that clashes with the current state, such as
	// a duplicate name or a balance changed by a concurrent write.
	ErrConflict = errors.New("conflict")
)

// ValidationError is malformed input. Field names the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError for field with a formatted message.
func Invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// NotFound wraps ErrNotFound with the kind and id of the missing record.
func NotFound(what string, id uint) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

// Unavailable wraps a backend failure of op as ErrStoreUnavailable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}

// Conflict wraps ErrConflict with a formatted message.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}
