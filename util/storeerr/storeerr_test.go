package storeerr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMap_NoRows(t *testing.T) {
	err := Map(sql.ErrNoRows)
	if !IsNotFound(err) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatal("cause not preserved")
	}
}

func TestMap_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "books_isbn_key"}
	err := Map(fmt.Errorf("exec: %w", pgErr))
	if !IsDuplicate(err) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestMap_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"}
	err := Map(pgErr)
	if !errors.Is(err, ErrForeignKey) {
		t.Fatalf("want ErrForeignKey, got %v", err)
	}
}

func TestMap_PassthroughAndNil(t *testing.T) {
	if Map(nil) != nil {
		t.Fatal("nil must map to nil")
	}
	plain := errors.New("boom")
	if Map(plain) != plain {
		t.Fatal("unknown errors must pass through unchanged")
	}
}

func TestMap_DoesNotDoubleWrap(t *testing.T) {
	once := Map(sql.ErrNoRows)
	twice := Map(once)
	if once != twice {
		t.Fatal("already-mapped error was wrapped again")
	}
}
