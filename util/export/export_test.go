package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Y-Ashiq/bosta-assessment/model"
)

func sampleRows() []model.Borrow {
	return []model.Borrow{
		{
			ID: 1, BookID: 10, BorrowerID: 20,
			CheckoutDate: time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC),
			DueDate:      time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC),
			Returned:     false,
		},
		{
			ID: 2, BookID: 11, BorrowerID: 21,
			CheckoutDate: time.Date(2024, time.June, 2, 10, 30, 0, 0, time.UTC),
			DueDate:      time.Date(2024, time.June, 16, 10, 30, 0, 0, time.UTC),
			Returned:     true,
		},
	}
}

func TestCSV_Layout(t *testing.T) {
	data, err := CSV(sampleRows())
	require.NoError(t, err)

	want := "id,bookId,borrowerId,checkoutDate,dueDate,returned\n" +
		"1,10,20,2024-06-01T09:00:00Z,2024-06-15T09:00:00Z,false\n" +
		"2,11,21,2024-06-02T10:30:00Z,2024-06-16T10:30:00Z,true\n"
	require.Equal(t, want, string(data))
}

func TestCSV_EmptyInputKeepsHeader(t *testing.T) {
	data, err := CSV(nil)
	require.NoError(t, err)
	require.Equal(t, "id,bookId,borrowerId,checkoutDate,dueDate,returned\n", string(data))
}

func TestCSV_Deterministic(t *testing.T) {
	a, err := CSV(sampleRows())
	require.NoError(t, err)
	b, err := CSV(sampleRows())
	require.NoError(t, err)
	require.True(t, bytes.Equal(a, b))
}

func TestXLSX_RoundTrip(t *testing.T) {
	data, err := XLSX(sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Borrows")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"id", "bookId", "borrowerId", "checkoutDate", "dueDate", "returned"}, rows[0])
	require.Equal(t, "1", rows[1][0])
	require.Equal(t, "true", rows[2][5])
}

func TestRows_FlattensDetails(t *testing.T) {
	details := []model.BorrowDetail{
		{Borrow: model.Borrow{ID: 5, BookID: 6, BorrowerID: 7}},
	}
	flat := Rows(details)
	require.Len(t, flat, 1)
	require.Equal(t, int64(5), flat[0].ID)
	require.Equal(t, int64(6), flat[0].BookID)
}
