package catalog

import "errors"

var (
	// ErrNotFound is returned when a book or user does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInsufficientStock is returned when a borrow is denied because no copy is available.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStore wraps connectivity and query failures of the underlying database.
	ErrStore = errors.New("store error")

	// ErrBorrowFailed is returned when the borrow batch was rejected by the database.
	ErrBorrowFailed = errors.New("borrow failed")

	// ErrReturnFailed is returned when the return batch was rejected by the database.
	ErrReturnFailed = errors.New("return failed")

	// ErrInvalidIdentifier is returned for malformed user ids or borrow timestamps.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrRecordNotFound is returned when no borrow record matches (user id, borrow timestamp).
	ErrRecordNotFound = errors.New("borrow record not found")

	// ErrAlreadyReturned is returned when the matched borrow record has status RETURNED.
	ErrAlreadyReturned = errors.New("borrow record already returned")

	// ErrConcurrencyConflict is returned when the stock counter changed between read and conditional write.
	ErrConcurrencyConflict = errors.New("concurrency conflict, stock changed concurrently")

	// ErrBookAlreadyExists is returned when a book with the same isbn is already in the catalog.
	ErrBookAlreadyExists = errors.New("book already exists")

	// ErrEmailAlreadyRegistered is returned when a user with the same email is already registered.
	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrInvalidInput is returned when a book or user fails validation.
	ErrInvalidInput = errors.New("invalid input")
)
