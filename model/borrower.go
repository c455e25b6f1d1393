// model/borrower.go
package model

import "time"

type Borrower struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	RegisteredDate time.Time `json:"registered_date"`
}
