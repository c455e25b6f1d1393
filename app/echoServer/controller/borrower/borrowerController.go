package borrower

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	borrowersvc "github.com/Y-Ashiq/bosta-assessment/service/borrower"
)

type Controller struct {
	Svc borrowersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/borrowers
func (h *Controller) Register(c echo.Context) error {
	var req RegisterBorrowerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	b, err := h.Svc.Register(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		switch borrowersvc.Code(err) {
		case borrowersvc.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"message": "Borrower already exists"})
		case borrowersvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
		default:
			h.Log.Error("borrower register", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Borrower registered successfully", "borrower": b})
}

// GET /api/borrowers
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("borrower list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, rows)
}

// PUT /api/borrowers/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateBorrowerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.Update(c.Request().Context(), id, req.Name, req.Email); err != nil {
		switch borrowersvc.Code(err) {
		case borrowersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "No borrower found"})
		case borrowersvc.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"message": "Borrower already exists"})
		default:
			h.Log.Error("borrower update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Borrower updated successfully"})
}

// DELETE /api/borrowers/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch borrowersvc.Code(err) {
		case borrowersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "No borrower found"})
		default:
			h.Log.Error("borrower delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Borrower deleted successfully"})
}
