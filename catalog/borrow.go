package catalog

import (
	"time"

	"github.com/google/uuid"
)

// BorrowStatus is the lifecycle status carried by borrows_by_user.
type BorrowStatus string

const (
	// StatusActive marks a borrow whose copy has not been returned.
	StatusActive BorrowStatus = "ACTIVE"

	// StatusReturned marks a borrow whose copy was returned.
	StatusReturned BorrowStatus = "RETURNED"
)

// BorrowRecord is the borrows_by_user projection of a borrow event.
// Its identity is (UserID, BorrowedAt).
type BorrowRecord struct {
	UserID     uuid.UUID    `json:"user_id"`
	BorrowedAt time.Time    `json:"borrow_date"`
	ISBN       string       `json:"isbn"`
	BookTitle  string       `json:"book_title"`
	Status     BorrowStatus `json:"status"`
}

// BookBorrowEntry is the borrows_by_book projection of a borrow event.
// Its identity is (ISBN, BorrowedAt). It has no status: the view is an append-only history.
type BookBorrowEntry struct {
	ISBN       string    `json:"isbn"`
	BorrowedAt time.Time `json:"borrow_date"`
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
}
