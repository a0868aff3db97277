package shared

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared across modules.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrInvalidID = errors.New("invalid ID")
)

// ValidationError is a request-recoverable validation failure. Field is empty
// for errors that apply to the whole request; those render unprefixed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IntegrityError wraps a database constraint violation (unique names,
// foreign keys) so the request boundary can surface it as a structured error.
type IntegrityError struct {
	Constraint string
	Message    string
}

func (e *IntegrityError) Error() string { return e.Message }

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapPgError converts pgx-level errors into the error kinds the rest of the
// application understands. Unknown errors pass through untouched.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &IntegrityError{Constraint: pgErr.ConstraintName, Message: "duplicate entry already exists"}
		case pgForeignKeyViolation:
			return &IntegrityError{Constraint: pgErr.ConstraintName, Message: "referenced resource is missing or still in use"}
		}
	}
	return err
}
