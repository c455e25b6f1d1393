package bookrepo

import (
	"context"
	"database/sql"

	"github.com/Y-Ashiq/bosta-assessment/model"
	"github.com/Y-Ashiq/bosta-assessment/util/storeerr"
)

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	List(ctx context.Context) ([]model.Book, error)
	Search(ctx context.Context, query string) ([]model.Book, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)
	Update(ctx context.Context, id int64, p model.BookPatch) error

	// Delete removes the book and, first, every borrow record that
	// references it. Must run inside a transaction. Returns how many of
	// the removed borrows were still active (unreturned).
	Delete(ctx context.Context, tx *sql.Tx, id int64) (discardedActive int64, err error)

	// DecrementAvailable takes one copy off the shelf. The guard keeps
	// available_quantity from ever going negative: zero rows affected
	// means the book is missing or out of stock.
	DecrementAvailable(ctx context.Context, tx *sql.Tx, id int64) error
	IncrementAvailable(ctx context.Context, tx *sql.Tx, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookCols = `id, title, author, isbn, available_quantity, shelf_location, created_at, updated_at`

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
		INSERT INTO books (title, author, isbn, available_quantity, shelf_location)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.ISBN, b.AvailableQuantity, b.ShelfLocation,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return storeerr.Map(err)
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	const q = `SELECT ` + bookCols + ` FROM books ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storeerr.Map(err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *repo) Search(ctx context.Context, query string) ([]model.Book, error) {
	const q = `
		SELECT ` + bookCols + `
		FROM books
		WHERE title ILIKE '%' || $1 || '%'
		   OR author ILIKE '%' || $1 || '%'
		   OR isbn::text LIKE '%' || $1 || '%'
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, query)
	if err != nil {
		return nil, storeerr.Map(err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	const q = `SELECT ` + bookCols + ` FROM books WHERE id = $1`
	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.AvailableQuantity, &b.ShelfLocation,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, storeerr.Map(err)
	}
	return b, nil
}

func (r *repo) Update(ctx context.Context, id int64, p model.BookPatch) error {
	const q = `
		UPDATE books
		SET title              = COALESCE($2, title),
		    author             = COALESCE($3, author),
		    isbn               = COALESCE($4, isbn),
		    available_quantity = COALESCE($5, available_quantity),
		    shelf_location     = COALESCE($6, shelf_location),
		    updated_at         = NOW()
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id,
		p.Title, p.Author, p.ISBN, p.AvailableQuantity, p.ShelfLocation)
	if err != nil {
		return storeerr.Map(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storeerr.Map(sql.ErrNoRows)
	}
	return nil
}

// Cascade is spelled out step by step instead of leaning on the schema:
// dependent ledger rows go first, then the parent.
func (r *repo) Delete(ctx context.Context, tx *sql.Tx, id int64) (int64, error) {
	var active int64
	const countQ = `SELECT COUNT(*) FROM borrows WHERE book_id = $1 AND NOT returned`
	if err := tx.QueryRowContext(ctx, countQ, id).Scan(&active); err != nil {
		return 0, storeerr.Map(err)
	}

	const delBorrows = `DELETE FROM borrows WHERE book_id = $1`
	if _, err := tx.ExecContext(ctx, delBorrows, id); err != nil {
		return 0, storeerr.Map(err)
	}

	const delBook = `DELETE FROM books WHERE id = $1`
	res, err := tx.ExecContext(ctx, delBook, id)
	if err != nil {
		return 0, storeerr.Map(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return 0, storeerr.Map(sql.ErrNoRows)
	}
	return active, nil
}

func (r *repo) DecrementAvailable(ctx context.Context, tx *sql.Tx, id int64) error {
	const q = `
		UPDATE books
		SET available_quantity = available_quantity - 1,
		    updated_at = NOW()
		WHERE id = $1
		  AND available_quantity >= 1`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return storeerr.Map(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storeerr.Map(sql.ErrNoRows)
	}
	return nil
}

func (r *repo) IncrementAvailable(ctx context.Context, tx *sql.Tx, id int64) error {
	const q = `
		UPDATE books
		SET available_quantity = available_quantity + 1,
		    updated_at = NOW()
		WHERE id = $1`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return storeerr.Map(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storeerr.Map(sql.ErrNoRows)
	}
	return nil
}

func scanBooks(rows *sql.Rows) ([]model.Book, error) {
	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.ISBN, &b.AvailableQuantity, &b.ShelfLocation,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, storeerr.Map(err)
		}
		out = append(out, b)
	}
	return out, storeerr.Map(rows.Err())
}
