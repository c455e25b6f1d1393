// Package report is the read-only reporting engine: date-range analytics
// over the lending ledger and serialization of report rows for download.
package report

import (
	"context"
	"time"

	"github.com/Y-Ashiq/bosta-assessment/model"
	"github.com/Y-Ashiq/bosta-assessment/util/export"
)

// Format selects the tabular output encoding for exports.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Ledger is the slice of the borrow store the reporting engine reads.
type Ledger interface {
	CheckedOutBetween(ctx context.Context, start, end time.Time) ([]model.BorrowDetail, error)
	DueBetween(ctx context.Context, from, to time.Time) ([]model.BorrowDetail, error)
}

type Service interface {
	// Analytics lists ledger entries with checkout date in the inclusive
	// [start, end] range, regardless of returned status.
	Analytics(ctx context.Context, start, end time.Time) ([]model.BorrowDetail, error)

	// OverdueLastMonth lists unreturned entries due in [lastMonth(now), now).
	OverdueLastMonth(ctx context.Context, now time.Time) ([]model.BorrowDetail, error)

	// BorrowsLastMonth lists entries checked out in [lastMonth(now), now].
	BorrowsLastMonth(ctx context.Context, now time.Time) ([]model.BorrowDetail, error)

	// ExportOverdueLastMonth and ExportBorrowsLastMonth serialize the
	// window queries for download and name the attachment.
	ExportOverdueLastMonth(ctx context.Context, now time.Time, f Format) (data []byte, filename string, err error)
	ExportBorrowsLastMonth(ctx context.Context, now time.Time, f Format) (data []byte, filename string, err error)
}

type service struct{ ledger Ledger }

func New(l Ledger) Service { return &service{ledger: l} }

// lastMonth returns midnight on the same day of the previous calendar
// month. Day overflow normalizes forward (e.g. March 31 -> "February 31"
// -> March 2/3), matching JavaScript Date arithmetic.
func lastMonth(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m-1, d, 0, 0, 0, 0, now.Location())
}

func (s *service) Analytics(ctx context.Context, start, end time.Time) ([]model.BorrowDetail, error) {
	return s.ledger.CheckedOutBetween(ctx, start, end)
}

func (s *service) OverdueLastMonth(ctx context.Context, now time.Time) ([]model.BorrowDetail, error) {
	return s.ledger.DueBetween(ctx, lastMonth(now), now)
}

func (s *service) BorrowsLastMonth(ctx context.Context, now time.Time) ([]model.BorrowDetail, error) {
	return s.ledger.CheckedOutBetween(ctx, lastMonth(now), now)
}

func (s *service) ExportOverdueLastMonth(ctx context.Context, now time.Time, f Format) ([]byte, string, error) {
	rows, err := s.OverdueLastMonth(ctx, now)
	if err != nil {
		return nil, "", err
	}
	return serialize(rows, f, "overdue_last_month")
}

func (s *service) ExportBorrowsLastMonth(ctx context.Context, now time.Time, f Format) ([]byte, string, error) {
	rows, err := s.BorrowsLastMonth(ctx, now)
	if err != nil {
		return nil, "", err
	}
	return serialize(rows, f, "borrows_last_month")
}

func serialize(rows []model.BorrowDetail, f Format, base string) ([]byte, string, error) {
	flat := export.Rows(rows)
	if f == FormatXLSX {
		data, err := export.XLSX(flat)
		return data, base + ".xlsx", err
	}
	data, err := export.CSV(flat)
	return data, base + ".csv", err
}
