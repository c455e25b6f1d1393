package borrow

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ls "github.com/Y-Ashiq/bosta-assessment/service/lending"
	rs "github.com/Y-Ashiq/bosta-assessment/service/report"
)

type Controller struct {
	Svc    ls.Service
	Report rs.Service
	V      *validator.Validate
	Log    *slog.Logger
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// POST /api/borrow/borrow
func (h *Controller) Borrow(c echo.Context) error {
	var req BorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing required fields"})
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid dueDate"})
	}

	rec, err := h.Svc.Borrow(c.Request().Context(), req.BookID, req.BorrowerID, due)
	if err != nil {
		switch ls.Code(err) {
		case ls.ErrBookUnavailable:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Book not found or not available"})
		case ls.ErrBorrowerNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Borrower not found"})
		case ls.ErrDueDatePast:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "dueDate must be in the future"})
		default:
			h.Log.Error("borrow", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book borrowed successfully", "borrow": rec})
}

// POST /api/borrow/return
func (h *Controller) Return(c echo.Context) error {
	var req ReturnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing borrowId"})
	}

	if err := h.Svc.Return(c.Request().Context(), req.BorrowID); err != nil {
		switch ls.Code(err) {
		case ls.ErrBorrowNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "No active borrow record found"})
		default:
			h.Log.Error("return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book returned successfully"})
}

// GET /api/borrow/borrower/:id/books
func (h *Controller) BorrowerBooks(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rows, err := h.Svc.ActiveByBorrower(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("borrower books", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /api/borrow/books/overdue
func (h *Controller) Overdue(c echo.Context) error {
	rows, err := h.Svc.Overdue(c.Request().Context(), time.Now())
	if err != nil {
		h.Log.Error("overdue", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /api/borrow/reports/analytics?startDate=...&endDate=...
func (h *Controller) Analytics(c echo.Context) error {
	start, err := parseDate(c.QueryParam("startDate"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid startDate"})
	}
	end, err := parseDate(c.QueryParam("endDate"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid endDate"})
	}

	rows, err := h.Report.Analytics(c.Request().Context(), start, end)
	if err != nil {
		h.Log.Error("analytics", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /api/borrow/reports/overdue-last-month?format=csv|xlsx
func (h *Controller) ExportOverdueLastMonth(c echo.Context) error {
	data, name, err := h.Report.ExportOverdueLastMonth(c.Request().Context(), time.Now(), exportFormat(c))
	if err != nil {
		h.Log.Error("export overdue", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return sendAttachment(c, data, name)
}

// GET /api/borrow/reports/borrows-last-month?format=csv|xlsx
func (h *Controller) ExportBorrowsLastMonth(c echo.Context) error {
	data, name, err := h.Report.ExportBorrowsLastMonth(c.Request().Context(), time.Now(), exportFormat(c))
	if err != nil {
		h.Log.Error("export borrows", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return sendAttachment(c, data, name)
}

func exportFormat(c echo.Context) rs.Format {
	if c.QueryParam("format") == "xlsx" {
		return rs.FormatXLSX
	}
	return rs.FormatCSV
}

func sendAttachment(c echo.Context, data []byte, name string) error {
	mime := "text/csv"
	if f := exportFormat(c); f == rs.FormatXLSX {
		mime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+name)
	return c.Blob(http.StatusOK, mime, data)
}
