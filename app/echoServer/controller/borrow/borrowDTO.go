package borrow

type BorrowReq struct {
	BookID     int64  `json:"bookId" validate:"required,gt=0"`
	BorrowerID int64  `json:"borrowerId" validate:"required,gt=0"`
	DueDate    string `json:"dueDate" validate:"required"`
}

type ReturnReq struct {
	BorrowID int64 `json:"borrowId" validate:"required,gt=0"`
}
