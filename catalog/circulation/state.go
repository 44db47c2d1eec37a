package circulation

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

// State is a step of a borrow or return request.
type State int

const (
	Requested State = iota
	StockChecked
	RecordsWritten
	StockUpdated
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Requested:
		return "requested"
	case StockChecked:
		return "stock_checked"
	case RecordsWritten:
		return "records_written"
	case StockUpdated:
		return "stock_updated"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome describes how a borrow or return request ended.
type Outcome struct {
	// State is Complete on success and Failed otherwise.
	State State

	// LastReached is the last state the request reached before it completed or failed.
	LastReached State

	// Record identifies the borrow event. It is set on successful borrows and on returns that found their record.
	Record catalog.BorrowRecord

	// StockBefore and StockAfter are the counter values read and written. Both are zero if the stock was never read.
	StockBefore int
	StockAfter  int

	Duration time.Duration
	Err      error
}

// Succeeded reports whether the request completed.
func (o Outcome) Succeeded() bool {
	return o.State == Complete
}

// outcomeLabel classifies the result for metrics and logs.
func (o Outcome) outcomeLabel() string {
	if o.Err == nil {
		return "success"
	}

	for _, c := range []struct {
		err   error
		label string
	}{
		{catalog.ErrInsufficientStock, "insufficient_stock"},
		{catalog.ErrConcurrencyConflict, "concurrency_conflict"},
		{catalog.ErrRecordNotFound, "record_not_found"},
		{catalog.ErrAlreadyReturned, "already_returned"},
		{catalog.ErrNotFound, "not_found"},
		{catalog.ErrInvalidIdentifier, "invalid_identifier"},
		{catalog.ErrBorrowFailed, "borrow_failed"},
		{catalog.ErrReturnFailed, "return_failed"},
	} {
		if errors.Is(o.Err, c.err) {
			return c.label
		}
	}

	return "store_error"
}
