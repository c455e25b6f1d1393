// Package storeerr translates raw driver errors into the small set of
// sentinel errors the repositories promise their callers. Services match
// these with errors.Is instead of inspecting driver error strings.
package storeerr

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("storeerr: record not found")

	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("storeerr: duplicate key")

	// ErrForeignKey is returned when a referenced row does not exist.
	ErrForeignKey = errors.New("storeerr: foreign key violation")
)

// Err wraps a sentinel with the original driver error so callers can use
// errors.Is for classification and still reach the cause for logging.
type Err struct {
	Sentinel error
	Cause    error
}

func (e *Err) Error() string { return e.Sentinel.Error() + ": " + e.Cause.Error() }

func (e *Err) Is(target error) bool { return errors.Is(e.Sentinel, target) }

func (e *Err) Unwrap() error { return e.Cause }

// Map classifies err. sql.ErrNoRows becomes ErrNotFound; Postgres SQLSTATE
// 23505/23503 become ErrDuplicate/ErrForeignKey. Anything else passes
// through unchanged.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Err{Sentinel: ErrNotFound, Cause: err}
	}

	var already *Err
	if errors.As(err, &already) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &Err{Sentinel: ErrDuplicate, Cause: err}
		case pgerrcode.ForeignKeyViolation:
			return &Err{Sentinel: ErrForeignKey, Cause: err}
		}
	}
	return err
}

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }
