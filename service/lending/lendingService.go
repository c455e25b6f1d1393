// Package lending owns the borrow/return state transitions. Each transition
// runs as a single transaction: the ledger write and the availability
// counter move together or not at all.
package lending

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Y-Ashiq/bosta-assessment/model"
	"github.com/Y-Ashiq/bosta-assessment/util/database"
	"github.com/Y-Ashiq/bosta-assessment/util/storeerr"
)

// errors used by controllers

type ErrCode string

const (
	// ErrBookUnavailable covers both "no such book" and "no copies left";
	// callers are not told which.
	ErrBookUnavailable  ErrCode = "BOOK_UNAVAILABLE"
	ErrBorrowerNotFound ErrCode = "BORROWER_NOT_FOUND"
	// ErrBorrowNotFound covers both "no such record" and "already
	// returned".
	ErrBorrowNotFound ErrCode = "BORROW_NOT_FOUND"
	ErrDueDatePast    ErrCode = "DUE_DATE_PAST"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, or "" for unexpected failures.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Catalog is the slice of the book store the engine mutates.
type Catalog interface {
	DecrementAvailable(ctx context.Context, tx *sql.Tx, id int64) error
	IncrementAvailable(ctx context.Context, tx *sql.Tx, id int64) error
}

// Borrowers is the slice of the borrower registry the engine reads.
type Borrowers interface {
	Exists(ctx context.Context, tx *sql.Tx, id int64) (bool, error)
}

// Ledger is the borrow-record store.
type Ledger interface {
	Insert(ctx context.Context, tx *sql.Tx, b *model.Borrow) error
	MarkReturned(ctx context.Context, tx *sql.Tx, borrowID int64) (bookID int64, err error)
	ActiveByBorrower(ctx context.Context, borrowerID int64) ([]model.BorrowWithBook, error)
	Overdue(ctx context.Context, asOf time.Time) ([]model.BorrowDetail, error)
}

type Service interface {
	// Borrow checks out one copy: decrements availability and appends a
	// ledger entry atomically.
	Borrow(ctx context.Context, bookID, borrowerID int64, dueDate time.Time) (*model.Borrow, error)

	// Return closes an active borrow record and puts the copy back.
	Return(ctx context.Context, borrowID int64) error

	// ActiveByBorrower lists a borrower's unreturned checkouts. An empty
	// result is not an error.
	ActiveByBorrower(ctx context.Context, borrowerID int64) ([]model.BorrowWithBook, error)

	// Overdue lists unreturned records due strictly before asOf. Overdue
	// is always derived from asOf, never stored.
	Overdue(ctx context.Context, asOf time.Time) ([]model.BorrowDetail, error)
}

type service struct {
	catalog   Catalog
	borrowers Borrowers
	ledger    Ledger
	execTx    func(ctx context.Context, fn func(tx *sql.Tx) error) error
	now       func() time.Time
}

func New(db *sql.DB, c Catalog, b Borrowers, l Ledger) Service {
	return &service{
		catalog:   c,
		borrowers: b,
		ledger:    l,
		execTx: func(ctx context.Context, fn func(tx *sql.Tx) error) error {
			return database.ExecTx(ctx, db, fn)
		},
		now: time.Now,
	}
}

func (s *service) Borrow(ctx context.Context, bookID, borrowerID int64, dueDate time.Time) (*model.Borrow, error) {
	if !dueDate.After(s.now()) {
		return nil, makeErr(ErrDueDatePast)
	}

	rec := &model.Borrow{
		BookID:     bookID,
		BorrowerID: borrowerID,
		DueDate:    dueDate,
		Returned:   false,
	}

	err := s.execTx(ctx, func(tx *sql.Tx) error {
		// The guarded decrement doubles as the existence/stock check:
		// a concurrent borrow of the last copy loses here instead of
		// driving the counter negative.
		if err := s.catalog.DecrementAvailable(ctx, tx, bookID); err != nil {
			if storeerr.IsNotFound(err) {
				return makeErr(ErrBookUnavailable)
			}
			return err
		}

		ok, err := s.borrowers.Exists(ctx, tx, borrowerID)
		if err != nil {
			return err
		}
		if !ok {
			return makeErr(ErrBorrowerNotFound)
		}

		return s.ledger.Insert(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Return(ctx context.Context, borrowID int64) error {
	return s.execTx(ctx, func(tx *sql.Tx) error {
		bookID, err := s.ledger.MarkReturned(ctx, tx, borrowID)
		if err != nil {
			if storeerr.IsNotFound(err) {
				return makeErr(ErrBorrowNotFound)
			}
			return err
		}
		return s.catalog.IncrementAvailable(ctx, tx, bookID)
	})
}

func (s *service) ActiveByBorrower(ctx context.Context, borrowerID int64) ([]model.BorrowWithBook, error) {
	return s.ledger.ActiveByBorrower(ctx, borrowerID)
}

func (s *service) Overdue(ctx context.Context, asOf time.Time) ([]model.BorrowDetail, error) {
	return s.ledger.Overdue(ctx, asOf)
}
