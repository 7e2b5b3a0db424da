package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Engine errors. The gateway reports all of them the same way; they exist for
// logs and for direct callers such as plexoctl.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflicts with an existing row")
	ErrInvalidReference = errors.New("references a missing row")
	ErrInvalidValue     = errors.New("value rejected by a constraint")
)

// PostgreSQL error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
)

// mapError wraps err with the matching engine error and an operation label.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrInvalidReference, pgErr.ConstraintName)
		case codeCheckViolation, codeNotNullViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrInvalidValue, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
