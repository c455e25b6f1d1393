// Package borrowrepo is the lending ledger: one row per checkout event,
// append-mostly, the system of record for lending history.
package borrowrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/Y-Ashiq/bosta-assessment/model"
	"github.com/Y-Ashiq/bosta-assessment/util/storeerr"
)

type Repo interface {
	// Insert appends a ledger entry through tx and fills in ID and
	// CheckoutDate from the database.
	Insert(ctx context.Context, tx *sql.Tx, b *model.Borrow) error

	// MarkReturned flips returned to true, once. Zero rows matched means
	// the record is missing or already returned; both surface as
	// storeerr.ErrNotFound. On success it reports which book to restock.
	MarkReturned(ctx context.Context, tx *sql.Tx, borrowID int64) (bookID int64, err error)

	ActiveByBorrower(ctx context.Context, borrowerID int64) ([]model.BorrowWithBook, error)

	// Overdue lists unreturned entries whose due date is strictly before
	// asOf, joined with book and borrower.
	Overdue(ctx context.Context, asOf time.Time) ([]model.BorrowDetail, error)

	// CheckedOutBetween lists entries with checkout_date in the inclusive
	// [start, end] range, regardless of returned status.
	CheckedOutBetween(ctx context.Context, start, end time.Time) ([]model.BorrowDetail, error)

	// DueBetween lists unreturned entries with due_date in [from, to).
	DueBetween(ctx context.Context, from, to time.Time) ([]model.BorrowDetail, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, b *model.Borrow) error {
	const q = `
		INSERT INTO borrows (book_id, borrower_id, due_date, returned)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, checkout_date`
	err := tx.QueryRowContext(ctx, q, b.BookID, b.BorrowerID, b.DueDate).
		Scan(&b.ID, &b.CheckoutDate)
	return storeerr.Map(err)
}

func (r *repo) MarkReturned(ctx context.Context, tx *sql.Tx, borrowID int64) (int64, error) {
	const q = `
		UPDATE borrows
		SET returned = TRUE
		WHERE id = $1
		  AND NOT returned
		RETURNING book_id`
	var bookID int64
	if err := tx.QueryRowContext(ctx, q, borrowID).Scan(&bookID); err != nil {
		return 0, storeerr.Map(err)
	}
	return bookID, nil
}

const detailCols = `
	bw.id, bw.book_id, bw.borrower_id, bw.checkout_date, bw.due_date, bw.returned,
	b.id, b.title, b.author, b.isbn, b.available_quantity, b.shelf_location, b.created_at, b.updated_at,
	u.id, u.name, u.email, u.registered_date`

const detailFrom = `
	FROM borrows bw
	JOIN books b ON b.id = bw.book_id
	JOIN borrowers u ON u.id = bw.borrower_id`

func (r *repo) ActiveByBorrower(ctx context.Context, borrowerID int64) ([]model.BorrowWithBook, error) {
	const q = `
		SELECT
			bw.id, bw.book_id, bw.borrower_id, bw.checkout_date, bw.due_date, bw.returned,
			b.id, b.title, b.author, b.isbn, b.available_quantity, b.shelf_location, b.created_at, b.updated_at
		FROM borrows bw
		JOIN books b ON b.id = bw.book_id
		WHERE bw.borrower_id = $1
		  AND NOT bw.returned
		ORDER BY bw.id`
	rows, err := r.db.QueryContext(ctx, q, borrowerID)
	if err != nil {
		return nil, storeerr.Map(err)
	}
	defer rows.Close()

	var out []model.BorrowWithBook
	for rows.Next() {
		var row model.BorrowWithBook
		if err := rows.Scan(
			&row.ID, &row.BookID, &row.BorrowerID, &row.CheckoutDate, &row.DueDate, &row.Returned,
			&row.Book.ID, &row.Book.Title, &row.Book.Author, &row.Book.ISBN,
			&row.Book.AvailableQuantity, &row.Book.ShelfLocation, &row.Book.CreatedAt, &row.Book.UpdatedAt,
		); err != nil {
			return nil, storeerr.Map(err)
		}
		out = append(out, row)
	}
	return out, storeerr.Map(rows.Err())
}

func (r *repo) Overdue(ctx context.Context, asOf time.Time) ([]model.BorrowDetail, error) {
	const q = `
		SELECT ` + detailCols + detailFrom + `
		WHERE bw.due_date < $1
		  AND NOT bw.returned
		ORDER BY bw.id`
	return r.queryDetails(ctx, q, asOf)
}

func (r *repo) CheckedOutBetween(ctx context.Context, start, end time.Time) ([]model.BorrowDetail, error) {
	const q = `
		SELECT ` + detailCols + detailFrom + `
		WHERE bw.checkout_date >= $1
		  AND bw.checkout_date <= $2
		ORDER BY bw.id`
	return r.queryDetails(ctx, q, start, end)
}

func (r *repo) DueBetween(ctx context.Context, from, to time.Time) ([]model.BorrowDetail, error) {
	const q = `
		SELECT ` + detailCols + detailFrom + `
		WHERE bw.due_date >= $1
		  AND bw.due_date < $2
		  AND NOT bw.returned
		ORDER BY bw.id`
	return r.queryDetails(ctx, q, from, to)
}

func (r *repo) queryDetails(ctx context.Context, q string, args ...any) ([]model.BorrowDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeerr.Map(err)
	}
	defer rows.Close()

	var out []model.BorrowDetail
	for rows.Next() {
		var d model.BorrowDetail
		if err := rows.Scan(
			&d.ID, &d.BookID, &d.BorrowerID, &d.CheckoutDate, &d.DueDate, &d.Returned,
			&d.Book.ID, &d.Book.Title, &d.Book.Author, &d.Book.ISBN,
			&d.Book.AvailableQuantity, &d.Book.ShelfLocation, &d.Book.CreatedAt, &d.Book.UpdatedAt,
			&d.Borrower.ID, &d.Borrower.Name, &d.Borrower.Email, &d.Borrower.RegisteredDate,
		); err != nil {
			return nil, storeerr.Map(err)
		}
		out = append(out, d)
	}
	return out, storeerr.Map(rows.Err())
}
