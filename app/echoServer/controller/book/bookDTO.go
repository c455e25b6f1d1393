package book

import "github.com/Y-Ashiq/bosta-assessment/model"

type CreateBookReq struct {
	Title             string `json:"title" validate:"required"`
	Author            string `json:"author" validate:"required"`
	ISBN              int64  `json:"isbn" validate:"required,gt=0"`
	AvailableQuantity int64  `json:"available_quantity" validate:"gte=0"`
	ShelfLocation     string `json:"shelf_location" validate:"required"`
}

type UpdateBookReq = model.BookPatch
