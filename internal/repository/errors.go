package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/marshallshelly/pebble-orm/pkg/runtime"
)

// ErrNotFound is returned when no row matches the requested identifier.
var ErrNotFound = runtime.ErrNotFound

// Postgres SQLSTATE codes surfaced by the schema constraints.
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeStringTooLong       = "22001"
)

// wrap annotates err with the failing operation and, for constraint
// violations, the matching pebble-orm error so callers can use errors.Is or
// errors.As without inspecting SQLSTATE codes. The driver error stays in
// the chain.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: %w: %w", op, runtime.ErrForeignKeyViolation, err)
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w: %w", op, runtime.ErrDuplicateKey, err)
	case codeNotNullViolation, codeStringTooLong:
		field := pgErr.ColumnName
		if field == "" {
			field = pgErr.TableName
		}
		verr := &runtime.ValidationError{Field: field, Message: pgErr.Message}
		return fmt.Errorf("%s: %w: %w", op, verr, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
