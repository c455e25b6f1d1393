package echoServer

import (
	"github.com/labstack/echo/v4"

	"github.com/Y-Ashiq/bosta-assessment/app/echoServer/controller/book"
	"github.com/Y-Ashiq/bosta-assessment/app/echoServer/controller/borrow"
	"github.com/Y-Ashiq/bosta-assessment/app/echoServer/controller/borrower"
)

type C struct {
	Book     *book.Controller
	Borrower *borrower.Controller
	Borrow   *borrow.Controller
}

func Register(e *echo.Echo, c C) {
	api := e.Group("/api")

	// Catalog
	api.POST("/books", c.Book.Create)
	api.GET("/books", c.Book.List)
	api.PUT("/books/:id", c.Book.Update)
	api.DELETE("/books/:id", c.Book.Delete)

	// Borrowers
	api.POST("/borrowers", c.Borrower.Register)
	api.GET("/borrowers", c.Borrower.List)
	api.PUT("/borrowers/:id", c.Borrower.Update)
	api.DELETE("/borrowers/:id", c.Borrower.Delete)

	// Lending
	bg := api.Group("/borrow")
	bg.POST("/borrow", c.Borrow.Borrow, RateLimit(5))
	bg.POST("/return", c.Borrow.Return)
	bg.GET("/borrower/:id/books", c.Borrow.BorrowerBooks)
	bg.GET("/books/overdue", c.Borrow.Overdue)

	// Reporting
	bg.GET("/reports/analytics", c.Borrow.Analytics)
	exp := RateLimit(3)
	bg.GET("/reports/overdue-last-month", c.Borrow.ExportOverdueLastMonth, exp)
	bg.GET("/reports/borrows-last-month", c.Borrow.ExportBorrowsLastMonth, exp)
}
