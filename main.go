// Package main library lending API.
//
// @title           Library Lending API
// @version         1.0
// @description     Library inventory, borrower registry, and lending lifecycle (borrow, return, overdue, reports).
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Y-Ashiq/bosta-assessment/app/echoServer"
	bookctrl "github.com/Y-Ashiq/bosta-assessment/app/echoServer/controller/book"
	borrowctrl "github.com/Y-Ashiq/bosta-assessment/app/echoServer/controller/borrow"
	borrowerctrl "github.com/Y-Ashiq/bosta-assessment/app/echoServer/controller/borrower"
	"github.com/Y-Ashiq/bosta-assessment/app/echoServer/validation"
	"github.com/Y-Ashiq/bosta-assessment/config"
	bookrepo "github.com/Y-Ashiq/bosta-assessment/repository/book"
	borrowrepo "github.com/Y-Ashiq/bosta-assessment/repository/borrow"
	borrowerrepo "github.com/Y-Ashiq/bosta-assessment/repository/borrower"
	booksvc "github.com/Y-Ashiq/bosta-assessment/service/book"
	borrowersvc "github.com/Y-Ashiq/bosta-assessment/service/borrower"
	lendingsvc "github.com/Y-Ashiq/bosta-assessment/service/lending"
	reportsvc "github.com/Y-Ashiq/bosta-assessment/service/report"
	"github.com/Y-Ashiq/bosta-assessment/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	br := bookrepo.New(db)
	ur := borrowerrepo.New(db)
	lr := borrowrepo.New(db)

	// services
	bs := booksvc.New(db, br, log)
	us := borrowersvc.New(db, ur, log)
	ls := lendingsvc.New(db, br, ur, lr)
	rs := reportsvc.New(lr)

	// controllers
	v := validator.New()
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	borrowerC := &borrowerctrl.Controller{Svc: us, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: ls, Report: rs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Book:     bookC,
		Borrower: borrowerC,
		Borrow:   borrowC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
