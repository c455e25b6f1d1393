package borrowersvc

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/Y-Ashiq/bosta-assessment/model"
	"github.com/Y-Ashiq/bosta-assessment/util/database"
	"github.com/Y-Ashiq/bosta-assessment/util/storeerr"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "NOT_FOUND"
	// ErrConflict means the email address is already registered.
	ErrConflict ErrCode = "CONFLICT"
	ErrBadInput ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Create(ctx context.Context, b *model.Borrower) error
	List(ctx context.Context) ([]model.Borrower, error)
	Update(ctx context.Context, id int64, name, email string) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) (int64, error)
}

type Service interface {
	// Register creates a borrower; the registration date is set by the
	// store. Duplicate email maps to ErrConflict.
	Register(ctx context.Context, name, email string) (*model.Borrower, error)
	List(ctx context.Context) ([]model.Borrower, error)
	Update(ctx context.Context, id int64, name, email string) error
	// Delete removes the borrower and their borrow records in one
	// transaction.
	Delete(ctx context.Context, id int64) error
}

type service struct {
	r      Repo
	log    *slog.Logger
	execTx func(ctx context.Context, fn func(tx *sql.Tx) error) error
}

func New(db *sql.DB, r Repo, log *slog.Logger) Service {
	return &service{
		r:   r,
		log: log,
		execTx: func(ctx context.Context, fn func(tx *sql.Tx) error) error {
			return database.ExecTx(ctx, db, fn)
		},
	}
}

func (s *service) Register(ctx context.Context, name, email string) (*model.Borrower, error) {
	if name == "" || email == "" {
		return nil, makeErr(ErrBadInput)
	}
	b := &model.Borrower{Name: name, Email: email}
	if err := s.r.Create(ctx, b); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, makeErr(ErrConflict)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context) ([]model.Borrower, error) {
	return s.r.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, name, email string) error {
	err := s.r.Update(ctx, id, name, email)
	if storeerr.IsNotFound(err) {
		return makeErr(ErrNotFound)
	}
	if storeerr.IsDuplicate(err) {
		return makeErr(ErrConflict)
	}
	return err
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.execTx(ctx, func(tx *sql.Tx) error {
		discarded, err := s.r.Delete(ctx, tx, id)
		if err != nil {
			if storeerr.IsNotFound(err) {
				return makeErr(ErrNotFound)
			}
			return err
		}
		if discarded > 0 {
			s.log.Warn("borrower delete discarded active borrows",
				"borrower_id", id, "active_borrows", discarded)
		}
		return nil
	})
}
