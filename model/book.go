// model/book.go
package model

import "time"

type Book struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	ISBN              int64     `json:"isbn"`
	AvailableQuantity int64     `json:"available_quantity"`
	ShelfLocation     string    `json:"shelf_location"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BookPatch carries the updatable book fields. Nil means "leave unchanged".
type BookPatch struct {
	Title             *string `json:"title,omitempty"`
	Author            *string `json:"author,omitempty"`
	ISBN              *int64  `json:"isbn,omitempty"`
	AvailableQuantity *int64  `json:"available_quantity,omitempty"`
	ShelfLocation     *string `json:"shelf_location,omitempty"`
}
