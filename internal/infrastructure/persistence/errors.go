package persistence

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the store reacts to
const (
	pgUniqueViolation      = "23505"
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
)

// translateError maps driver errors onto domain errors. Errors it does not
// recognise are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return shared.ErrAlreadyExists.WithDetail("constraint", pgErr.ConstraintName)
		case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure:
			return shared.ErrConcurrencyConflict.WithDetail("sqlstate", pgErr.Code)
		}
		return err
	}

	// sqlite reports constraint failures only through the message
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return shared.ErrAlreadyExists
	}
	return err
}

// IsConcurrencyConflict reports whether err is a lock-timeout class failure
func IsConcurrencyConflict(err error) bool {
	return errors.Is(translateError(err), shared.ErrConcurrencyConflict)
}
