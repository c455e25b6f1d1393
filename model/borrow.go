// model/borrow.go
package model

import "time"

// Borrow is one ledger entry: a single checkout of one copy of a book.
// Returned flips false -> true exactly once and never reverts.
type Borrow struct {
	ID           int64     `json:"id"`
	BookID       int64     `json:"book_id"`
	BorrowerID   int64     `json:"borrower_id"`
	CheckoutDate time.Time `json:"checkout_date"`
	DueDate      time.Time `json:"due_date"`
	Returned     bool      `json:"returned"`
}

// BorrowWithBook is the read shape for a borrower's active checkouts.
type BorrowWithBook struct {
	Borrow
	Book Book `json:"book"`
}

// BorrowDetail is the fully joined read shape used by overdue listings and
// reporting queries.
type BorrowDetail struct {
	Borrow
	Book     Book     `json:"book"`
	Borrower Borrower `json:"borrower"`
}
