package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist or is not visible to
// the acting user. Ownership mismatches deliberately look identical to
// missing records.
var ErrNotFound = errors.New("record not found")

// ErrConstraint is the sentinel all ConstraintError values match via errors.Is.
var ErrConstraint = errors.New("constraint violation")

// ValidationError rejects a write before it reaches the database.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConstraintError describes a rejected write caused by a uniqueness or
// referential constraint, e.g. a duplicate bookcase name for the same owner.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation on %s: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

// TranslateError maps driver and gorm errors onto the package's error kinds.
// The constraint parameter names the violated invariant for user-facing
// messages ("bookcase name", "author name", ...).
func TranslateError(err error, constraint string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConstraintError{Constraint: constraint, Err: err}
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return &ConstraintError{Constraint: constraint, Err: err}
	}
	return err
}

// IsValidationError reports whether err is a field-level validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
