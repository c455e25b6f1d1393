// Package export serializes already-computed report rows into tabular
// download formats. Pure functions: no I/O, deterministic for a given input
// ordering.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Y-Ashiq/bosta-assessment/model"
)

// Field order of every export, matching the report contract.
var header = []string{"id", "bookId", "borrowerId", "checkoutDate", "dueDate", "returned"}

const sheetName = "Borrows"

func record(b model.Borrow) []string {
	return []string{
		strconv.FormatInt(b.ID, 10),
		strconv.FormatInt(b.BookID, 10),
		strconv.FormatInt(b.BorrowerID, 10),
		b.CheckoutDate.UTC().Format(time.RFC3339),
		b.DueDate.UTC().Format(time.RFC3339),
		strconv.FormatBool(b.Returned),
	}
}

// CSV renders rows as delimited text with a header line. An empty input
// still yields the header.
func CSV(rows []model.Borrow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, b := range rows {
		if err := w.Write(record(b)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSX renders rows as a single-sheet spreadsheet workbook.
func XLSX(rows []model.Borrow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	if err := writeRow(f, 1, header); err != nil {
		return nil, err
	}
	for i, b := range rows {
		if err := writeRow(f, i+2, record(b)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheetName, cell, &cells)
}

// Rows flattens joined report rows to their ledger entries for export.
func Rows(details []model.BorrowDetail) []model.Borrow {
	out := make([]model.Borrow, 0, len(details))
	for _, d := range details {
		out = append(out, d.Borrow)
	}
	return out
}
