package borrowerrepo

import (
	"context"
	"database/sql"

	"github.com/Y-Ashiq/bosta-assessment/model"
	"github.com/Y-Ashiq/bosta-assessment/util/storeerr"
)

type Repo interface {
	Create(ctx context.Context, b *model.Borrower) error
	List(ctx context.Context) ([]model.Borrower, error)
	ByID(ctx context.Context, id int64) (*model.Borrower, error)
	Update(ctx context.Context, id int64, name, email string) error

	// Exists reports whether the borrower row is present, read through the
	// given transaction so the lending engine sees a consistent snapshot.
	Exists(ctx context.Context, tx *sql.Tx, id int64) (bool, error)

	// Delete removes the borrower and their borrow records, dependents
	// first. Must run inside a transaction. Returns the number of removed
	// borrows that were still active.
	Delete(ctx context.Context, tx *sql.Tx, id int64) (discardedActive int64, err error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, b *model.Borrower) error {
	const q = `
		INSERT INTO borrowers (name, email)
		VALUES ($1, $2)
		RETURNING id, registered_date`
	err := r.db.QueryRowContext(ctx, q, b.Name, b.Email).Scan(&b.ID, &b.RegisteredDate)
	return storeerr.Map(err)
}

func (r *repo) List(ctx context.Context) ([]model.Borrower, error) {
	const q = `SELECT id, name, email, registered_date FROM borrowers ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storeerr.Map(err)
	}
	defer rows.Close()

	var out []model.Borrower
	for rows.Next() {
		var b model.Borrower
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.RegisteredDate); err != nil {
			return nil, storeerr.Map(err)
		}
		out = append(out, b)
	}
	return out, storeerr.Map(rows.Err())
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Borrower, error) {
	const q = `SELECT id, name, email, registered_date FROM borrowers WHERE id = $1`
	b := &model.Borrower{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Name, &b.Email, &b.RegisteredDate)
	if err != nil {
		return nil, storeerr.Map(err)
	}
	return b, nil
}

func (r *repo) Update(ctx context.Context, id int64, name, email string) error {
	const q = `
		UPDATE borrowers
		SET name  = COALESCE(NULLIF($2, ''), name),
		    email = COALESCE(NULLIF($3, ''), email)
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, name, email)
	if err != nil {
		return storeerr.Map(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storeerr.Map(sql.ErrNoRows)
	}
	return nil
}

func (r *repo) Exists(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM borrowers WHERE id = $1)`
	var ok bool
	if err := tx.QueryRowContext(ctx, q, id).Scan(&ok); err != nil {
		return false, storeerr.Map(err)
	}
	return ok, nil
}

func (r *repo) Delete(ctx context.Context, tx *sql.Tx, id int64) (int64, error) {
	var active int64
	const countQ = `SELECT COUNT(*) FROM borrows WHERE borrower_id = $1 AND NOT returned`
	if err := tx.QueryRowContext(ctx, countQ, id).Scan(&active); err != nil {
		return 0, storeerr.Map(err)
	}

	const delBorrows = `DELETE FROM borrows WHERE borrower_id = $1`
	if _, err := tx.ExecContext(ctx, delBorrows, id); err != nil {
		return 0, storeerr.Map(err)
	}

	const delBorrower = `DELETE FROM borrowers WHERE id = $1`
	res, err := tx.ExecContext(ctx, delBorrower, id)
	if err != nil {
		return 0, storeerr.Map(err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return 0, storeerr.Map(sql.ErrNoRows)
	}
	return active, nil
}
