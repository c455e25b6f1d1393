package booksvc

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
	// ErrConflict means the ISBN is already registered.
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
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context) ([]model.Book, error)
	Search(ctx context.Context, query string) ([]model.Book, error)
	Update(ctx context.Context, id int64, p model.BookPatch) error
	Delete(ctx context.Context, tx *sql.Tx, id int64) (int64, error)
}

type Service interface {
	Create(ctx context.Context, title, author string, isbn, quantity int64, shelfLocation string) (*model.Book, error)
	// List returns every book, or a title/author/ISBN substring search
	// when query is non-empty.
	List(ctx context.Context, query string) ([]model.Book, error)
	Update(ctx context.Context, id int64, p model.BookPatch) error
	// Delete removes the book and its borrow records in one transaction.
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

func (s *service) Create(ctx context.Context, title, author string, isbn, quantity int64, shelfLocation string) (*model.Book, error) {
	if title == "" || author == "" || shelfLocation == "" || isbn <= 0 || quantity < 0 {
		return nil, makeErr(ErrBadInput)
	}
	b := &model.Book{
		Title:             title,
		Author:            author,
		ISBN:              isbn,
		AvailableQuantity: quantity,
		ShelfLocation:     shelfLocation,
	}
	if err := s.r.Create(ctx, b); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, makeErr(ErrConflict)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, query string) ([]model.Book, error) {
	if query != "" {
		return s.r.Search(ctx, query)
	}
	return s.r.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, p model.BookPatch) error {
	err := s.r.Update(ctx, id, p)
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
			// Cascade drops lending history, active records included.
			s.log.Warn("book delete discarded active borrows",
				"book_id", id, "active_borrows", discarded)
		}
		return nil
	})
}
