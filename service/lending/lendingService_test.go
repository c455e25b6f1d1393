package lending

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Y-Ashiq/bosta-assessment/model"
	"github.com/Y-Ashiq/bosta-assessment/util/storeerr"
)

// catalogFake keeps per-book availability in memory. Decrement mirrors the
// SQL guard: missing book or zero quantity both come back as not found.
type catalogFake struct {
	qty        map[int64]int64
	decrements int
	increments int
}

func (c *catalogFake) DecrementAvailable(_ context.Context, _ *sql.Tx, id int64) error {
	q, ok := c.qty[id]
	if !ok || q < 1 {
		return storeerr.Map(sql.ErrNoRows)
	}
	c.qty[id] = q - 1
	c.decrements++
	return nil
}

func (c *catalogFake) IncrementAvailable(_ context.Context, _ *sql.Tx, id int64) error {
	if _, ok := c.qty[id]; !ok {
		return storeerr.Map(sql.ErrNoRows)
	}
	c.qty[id]++
	c.increments++
	return nil
}

type borrowersFake struct {
	ids map[int64]bool
}

func (b *borrowersFake) Exists(_ context.Context, _ *sql.Tx, id int64) (bool, error) {
	return b.ids[id], nil
}

// ledgerFake stores borrow records by id.
type ledgerFake struct {
	nextID    int64
	records   map[int64]*model.Borrow
	insertErr error
}

func newLedgerFake() *ledgerFake {
	return &ledgerFake{nextID: 1, records: map[int64]*model.Borrow{}}
}

func (l *ledgerFake) Insert(_ context.Context, _ *sql.Tx, b *model.Borrow) error {
	if l.insertErr != nil {
		return l.insertErr
	}
	b.ID = l.nextID
	b.CheckoutDate = time.Now()
	l.nextID++
	cp := *b
	l.records[b.ID] = &cp
	return nil
}

func (l *ledgerFake) MarkReturned(_ context.Context, _ *sql.Tx, borrowID int64) (int64, error) {
	rec, ok := l.records[borrowID]
	if !ok || rec.Returned {
		return 0, storeerr.Map(sql.ErrNoRows)
	}
	rec.Returned = true
	return rec.BookID, nil
}

func (l *ledgerFake) ActiveByBorrower(_ context.Context, borrowerID int64) ([]model.BorrowWithBook, error) {
	var out []model.BorrowWithBook
	for _, r := range l.records {
		if r.BorrowerID == borrowerID && !r.Returned {
			out = append(out, model.BorrowWithBook{Borrow: *r})
		}
	}
	return out, nil
}

func (l *ledgerFake) Overdue(_ context.Context, asOf time.Time) ([]model.BorrowDetail, error) {
	var out []model.BorrowDetail
	for _, r := range l.records {
		if r.DueDate.Before(asOf) && !r.Returned {
			out = append(out, model.BorrowDetail{Borrow: *r})
		}
	}
	return out, nil
}

// newTestService wires the fakes behind a tx runner that snapshots catalog
// and ledger state before fn and restores it when fn fails, so rollback
// semantics hold without a real database.
func newTestService(c *catalogFake, b *borrowersFake, l *ledgerFake) (*service, *int) {
	commits := 0
	s := &service{
		catalog:   c,
		borrowers: b,
		ledger:    l,
		now:       time.Now,
	}
	s.execTx = func(ctx context.Context, fn func(tx *sql.Tx) error) error {
		qtySnap := map[int64]int64{}
		for k, v := range c.qty {
			qtySnap[k] = v
		}
		recSnap := map[int64]*model.Borrow{}
		for k, v := range l.records {
			cp := *v
			recSnap[k] = &cp
		}
		if err := fn(nil); err != nil {
			c.qty = qtySnap
			l.records = recSnap
			return err
		}
		commits++
		return nil
	}
	return s, &commits
}

func tomorrow() time.Time { return time.Now().Add(24 * time.Hour) }

func TestBorrow_Success(t *testing.T) {
	c := &catalogFake{qty: map[int64]int64{1: 2}}
	l := newLedgerFake()
	s, commits := newTestService(c, &borrowersFake{ids: map[int64]bool{1: true}}, l)

	due := tomorrow()
	rec, err := s.Borrow(context.Background(), 1, 1, due)
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if rec.ID == 0 || rec.Returned || rec.BookID != 1 || rec.BorrowerID != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.DueDate.Equal(due) {
		t.Fatalf("due date %v, want %v", rec.DueDate, due)
	}
	if c.qty[1] != 1 {
		t.Fatalf("quantity = %d, want 1", c.qty[1])
	}
	if c.decrements != 1 || len(l.records) != 1 {
		t.Fatalf("want exactly one decrement and one ledger entry, got %d/%d",
			c.decrements, len(l.records))
	}
	if *commits != 1 {
		t.Fatalf("commits = %d, want 1", *commits)
	}
}

func TestBorrow_DueDateNotInFuture(t *testing.T) {
	c := &catalogFake{qty: map[int64]int64{1: 1}}
	l := newLedgerFake()
	s, commits := newTestService(c, &borrowersFake{ids: map[int64]bool{1: true}}, l)

	for _, due := range []time.Time{time.Now().Add(-time.Hour), s.now()} {
		_, err := s.Borrow(context.Background(), 1, 1, due)
		if Code(err) != ErrDueDatePast {
			t.Fatalf("due=%v: code = %q, want %q", due, Code(err), ErrDueDatePast)
		}
	}
	if c.qty[1] != 1 || *commits != 0 {
		t.Fatalf("state touched before validation passed")
	}
}

func TestBorrow_BookMissingOrOutOfStock(t *testing.T) {
	// A missing book and an out-of-stock book report the same code.
	c := &catalogFake{qty: map[int64]int64{2: 0}}
	l := newLedgerFake()
	s, _ := newTestService(c, &borrowersFake{ids: map[int64]bool{1: true}}, l)

	for _, bookID := range []int64{99, 2} {
		_, err := s.Borrow(context.Background(), bookID, 1, tomorrow())
		if Code(err) != ErrBookUnavailable {
			t.Fatalf("book %d: code = %q, want %q", bookID, Code(err), ErrBookUnavailable)
		}
	}
	if len(l.records) != 0 {
		t.Fatal("ledger written despite failed borrow")
	}
}

func TestBorrow_BorrowerMissing_RollsBackDecrement(t *testing.T) {
	c := &catalogFake{qty: map[int64]int64{1: 1}}
	l := newLedgerFake()
	s, commits := newTestService(c, &borrowersFake{ids: map[int64]bool{}}, l)

	_, err := s.Borrow(context.Background(), 1, 99, tomorrow())
	if Code(err) != ErrBorrowerNotFound {
		t.Fatalf("code = %q, want %q", Code(err), ErrBorrowerNotFound)
	}
	// The decrement ran inside the transaction but must not survive it.
	if c.qty[1] != 1 {
		t.Fatalf("quantity = %d after rollback, want 1", c.qty[1])
	}
	if len(l.records) != 0 || *commits != 0 {
		t.Fatal("partial effect persisted")
	}
}

func TestBorrow_LedgerFailure_NoSingleSidedEffect(t *testing.T) {
	c := &catalogFake{qty: map[int64]int64{1: 3}}
	l := newLedgerFake()
	l.insertErr = errors.New("disk on fire")
	s, commits := newTestService(c, &borrowersFake{ids: map[int64]bool{1: true}}, l)

	_, err := s.Borrow(context.Background(), 1, 1, tomorrow())
	if err == nil || Code(err) != "" {
		t.Fatalf("want plain internal error, got %v", err)
	}
	if c.qty[1] != 3 || *commits != 0 {
		t.Fatalf("decrement persisted without ledger entry: qty=%d", c.qty[1])
	}
}

func TestReturn_RoundTripRestoresQuantity(t *testing.T) {
	c := &catalogFake{qty: map[int64]int64{1: 5}}
	l := newLedgerFake()
	s, _ := newTestService(c, &borrowersFake{ids: map[int64]bool{1: true}}, l)

	rec, err := s.Borrow(context.Background(), 1, 1, tomorrow())
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if c.qty[1] != 4 {
		t.Fatalf("quantity after borrow = %d, want 4", c.qty[1])
	}

	if err := s.Return(context.Background(), rec.ID); err != nil {
		t.Fatalf("return: %v", err)
	}
	if c.qty[1] != 5 {
		t.Fatalf("quantity after return = %d, want 5", c.qty[1])
	}
	// The ledger entry stays returned forever; only the counter round-trips.
	if !l.records[rec.ID].Returned {
		t.Fatal("record not marked returned")
	}
}

func TestReturn_Twice_SecondFailsAndIncrementsOnce(t *testing.T) {
	c := &catalogFake{qty: map[int64]int64{1: 1}}
	l := newLedgerFake()
	s, _ := newTestService(c, &borrowersFake{ids: map[int64]bool{1: true}}, l)

	rec, err := s.Borrow(context.Background(), 1, 1, tomorrow())
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}

	if err := s.Return(context.Background(), rec.ID); err != nil {
		t.Fatalf("first return: %v", err)
	}
	err = s.Return(context.Background(), rec.ID)
	if Code(err) != ErrBorrowNotFound {
		t.Fatalf("second return code = %q, want %q", Code(err), ErrBorrowNotFound)
	}
	if c.increments != 1 {
		t.Fatalf("increments = %d, want 1", c.increments)
	}
	if c.qty[1] != 1 {
		t.Fatalf("quantity = %d, want 1", c.qty[1])
	}
}

func TestReturn_UnknownRecord(t *testing.T) {
	c := &catalogFake{qty: map[int64]int64{}}
	s, _ := newTestService(c, &borrowersFake{}, newLedgerFake())

	err := s.Return(context.Background(), 12345)
	if Code(err) != ErrBorrowNotFound {
		t.Fatalf("code = %q, want %q", Code(err), ErrBorrowNotFound)
	}
}

// Mirrors the single-copy contention scenario: the second borrower only
// gets the book after the first returns it.
func TestBorrow_LastCopyLifecycle(t *testing.T) {
	c := &catalogFake{qty: map[int64]int64{1: 1}}
	l := newLedgerFake()
	s, _ := newTestService(c, &borrowersFake{ids: map[int64]bool{1: true, 2: true}}, l)

	first, err := s.Borrow(context.Background(), 1, 1, tomorrow())
	if err != nil {
		t.Fatalf("first borrow: %v", err)
	}
	if c.qty[1] != 0 {
		t.Fatalf("quantity = %d, want 0", c.qty[1])
	}

	if _, err := s.Borrow(context.Background(), 1, 2, tomorrow()); Code(err) != ErrBookUnavailable {
		t.Fatalf("second borrow code = %q, want %q", Code(err), ErrBookUnavailable)
	}

	if err := s.Return(context.Background(), first.ID); err != nil {
		t.Fatalf("return: %v", err)
	}
	if c.qty[1] != 1 {
		t.Fatalf("quantity = %d, want 1", c.qty[1])
	}

	if _, err := s.Borrow(context.Background(), 1, 2, tomorrow()); err != nil {
		t.Fatalf("borrow after return: %v", err)
	}
	if c.qty[1] != 0 {
		t.Fatalf("quantity = %d, want 0", c.qty[1])
	}
}

func TestOverdue_BoundaryAtAsOf(t *testing.T) {
	c := &catalogFake{qty: map[int64]int64{1: 10}}
	l := newLedgerFake()
	s, _ := newTestService(c, &borrowersFake{ids: map[int64]bool{1: true}}, l)

	asOf := time.Now().Add(48 * time.Hour)
	early, err := s.Borrow(context.Background(), 1, 1, asOf.Add(-time.Second))
	if err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if _, err := s.Borrow(context.Background(), 1, 1, asOf.Add(time.Second)); err != nil {
		t.Fatalf("borrow: %v", err)
	}

	rows, err := s.Overdue(context.Background(), asOf)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != early.ID {
		t.Fatalf("overdue rows = %+v, want only record %d", rows, early.ID)
	}

	// A returned record stops being overdue regardless of due date.
	if err := s.Return(context.Background(), early.ID); err != nil {
		t.Fatalf("return: %v", err)
	}
	rows, err = s.Overdue(context.Background(), asOf)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("overdue rows after return = %d, want 0", len(rows))
	}
}

func TestActiveByBorrower_EmptyIsNotAnError(t *testing.T) {
	s, _ := newTestService(&catalogFake{qty: map[int64]int64{}}, &borrowersFake{}, newLedgerFake())

	rows, err := s.ActiveByBorrower(context.Background(), 7)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}
