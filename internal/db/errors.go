package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"open-producten/internal/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgRestrictViolation   = "23001"
	pgInvalidTextRepr     = "22P02"
)

// MapError converts driver errors into domain errors: no rows and malformed
// uuids become domain.ErrNotFound, key violations domain.ErrConflict.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgRestrictViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Detail)
		case pgForeignKeyViolation:
			if pgErr.Detail != "" {
				return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Detail)
			}
			return domain.ErrConflict
		case pgInvalidTextRepr:
			return domain.ErrNotFound
		}
	}
	return err
}
