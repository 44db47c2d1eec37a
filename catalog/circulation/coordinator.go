package circulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore"
)

const (
	opBorrow = "borrow"
	opReturn = "return"

	logMsgTransition = "circulation state: "
	logMsgCompleted  = "circulation completed: "
	logMsgDenied     = "circulation denied: "
	logMsgFailed     = "circulation failed: "
	logAttrUserID    = "user_id"
	logAttrISBN      = "isbn"
	logAttrBorrowAt  = "borrow_date"
	logAttrOutcome   = "outcome"
	logAttrState     = "last_state"
	logAttrStock     = "stock_after"
	logAttrError     = "error"
	logAttrDuration  = "duration_ms"
)

// Store is the part of the view store the Coordinator reads from and writes to.
type Store interface {
	GetBookByISBN(ctx context.Context, isbn string) (catalog.Book, bool, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (catalog.User, bool, error)
	GetBorrowByUser(ctx context.Context, userID uuid.UUID, borrowedAt time.Time) (catalog.BorrowRecord, bool, error)
	BorrowByUserInsert(userID uuid.UUID, borrowedAt time.Time, isbn, bookTitle string) viewstore.BatchEntry
	BorrowByBookInsert(isbn string, borrowedAt time.Time, userID uuid.UUID, userName string) viewstore.BatchEntry
	BorrowStatusUpdate(userID uuid.UUID, borrowedAt time.Time) viewstore.BatchEntry
	StockCompareAndSet(isbn string, expected, next int) viewstore.BatchEntry
	ApplyBatch(ctx context.Context, entries ...viewstore.BatchEntry) error
}

// StockManager reads the stock counter and computes its next value.
type StockManager interface {
	ReadAvailable(ctx context.Context, isbn string) (int, error)
	ComputeNextOnBorrow(current int) (int, error)
	ComputeNextOnReturn(current, total int) int
}

// Coordinator runs borrow and return requests. It holds no mutable state and is safe for concurrent use.
type Coordinator struct {
	store            Store
	stock            StockManager
	clock            func() time.Time
	logger           catalog.Logger
	metricsCollector catalog.MetricsCollector
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger for the Coordinator.
func WithLogger(logger catalog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector for the Coordinator.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(c *Coordinator) {
		c.metricsCollector = collector
	}
}

// WithClock sets the source of borrow timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) {
		c.clock = clock
	}
}

// NewCoordinator creates a Coordinator on top of the view store and the stock manager.
func NewCoordinator(store Store, stock StockManager, opts ...Option) *Coordinator {
	c := &Coordinator{
		store: store,
		stock: stock,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Borrow lends one copy of the book to the user and returns the identity of the new borrow record.
// A borrow that races another write to the same stock counter fails with catalog.ErrConcurrencyConflict
// even while copies remain; it is not retried and the caller may issue it again.
func (c *Coordinator) Borrow(ctx context.Context, userID uuid.UUID, isbn string) (catalog.BorrowRecord, error) {
	outcome := c.BorrowWithOutcome(ctx, userID, isbn)
	return outcome.Record, outcome.Err
}

// Return takes back the copy lent by the borrow record (userID, borrowedAt).
func (c *Coordinator) Return(ctx context.Context, userID uuid.UUID, isbn string, borrowedAt time.Time) error {
	return c.ReturnWithOutcome(ctx, userID, isbn, borrowedAt).Err
}

// BorrowWithOutcome runs a borrow request and reports how far it got.
func (c *Coordinator) BorrowWithOutcome(ctx context.Context, userID uuid.UUID, isbn string) Outcome {
	start := time.Now()
	run := c.newRun(opBorrow, userID, isbn)

	c.borrow(catalog.WithStrongConsistency(ctx), run)

	return c.finish(run, start)
}

// ReturnWithOutcome runs a return request and reports how far it got.
func (c *Coordinator) ReturnWithOutcome(
	ctx context.Context,
	userID uuid.UUID,
	isbn string,
	borrowedAt time.Time,
) Outcome {
	start := time.Now()
	run := c.newRun(opReturn, userID, isbn)

	c.giveBack(catalog.WithStrongConsistency(ctx), run, catalog.NormalizeTimestamp(borrowedAt))

	return c.finish(run, start)
}

func (c *Coordinator) borrow(ctx context.Context, run *run) {
	user, found, err := c.store.GetUserByID(ctx, run.userID)
	if err != nil {
		run.fail(err)
		return
	}

	if !found {
		run.fail(errors.Join(catalog.ErrNotFound, fmt.Errorf("user %s", run.userID)))
		return
	}

	book, found, err := c.store.GetBookByISBN(ctx, run.isbn)
	if err != nil {
		run.fail(err)
		return
	}

	if !found {
		run.fail(errors.Join(catalog.ErrNotFound, fmt.Errorf("book %q", run.isbn)))
		return
	}

	current, err := c.stock.ReadAvailable(ctx, run.isbn)
	if err != nil {
		run.fail(err)
		return
	}

	run.outcome.StockBefore = current

	next, err := c.stock.ComputeNextOnBorrow(current)
	if err != nil {
		run.fail(err)
		return
	}

	run.advance(StockChecked)

	borrowedAt := catalog.NormalizeTimestamp(c.clock())

	err = c.store.ApplyBatch(ctx,
		c.store.BorrowByUserInsert(run.userID, borrowedAt, book.ISBN, book.Title),
		c.store.BorrowByBookInsert(book.ISBN, borrowedAt, run.userID, user.DisplayName()),
		c.store.StockCompareAndSet(book.ISBN, current, next),
	)
	if err != nil {
		run.fail(c.classifyBorrowBatchError(ctx, run, err))
		return
	}

	run.advance(RecordsWritten)
	run.advance(StockUpdated)

	run.outcome.StockAfter = next
	run.outcome.Record = catalog.BorrowRecord{
		UserID:     run.userID,
		BorrowedAt: borrowedAt,
		ISBN:       book.ISBN,
		BookTitle:  book.Title,
		Status:     catalog.StatusActive,
	}

	run.advance(Complete)
}

// classifyBorrowBatchError turns a rejected stock compare-and-set into a stock denial or a conflict.
func (c *Coordinator) classifyBorrowBatchError(ctx context.Context, run *run, err error) error {
	if !errors.Is(err, viewstore.ErrConditionNotApplied) {
		return errors.Join(catalog.ErrBorrowFailed, err)
	}

	c.recordConflict(opBorrow)

	current, readErr := c.stock.ReadAvailable(ctx, run.isbn)
	if readErr != nil {
		return errors.Join(catalog.ErrConcurrencyConflict, readErr)
	}

	if current <= 0 {
		return catalog.ErrInsufficientStock
	}

	return catalog.ErrConcurrencyConflict
}

func (c *Coordinator) giveBack(ctx context.Context, run *run, borrowedAt time.Time) {
	book, found, err := c.store.GetBookByISBN(ctx, run.isbn)
	if err != nil {
		run.fail(err)
		return
	}

	if !found {
		run.fail(errors.Join(catalog.ErrNotFound, fmt.Errorf("book %q", run.isbn)))
		return
	}

	current, err := c.stock.ReadAvailable(ctx, run.isbn)
	if err != nil {
		run.fail(err)
		return
	}

	run.outcome.StockBefore = current

	record, found, err := c.store.GetBorrowByUser(ctx, run.userID, borrowedAt)
	if err != nil {
		run.fail(err)
		return
	}

	if !found || record.ISBN != run.isbn {
		run.fail(errors.Join(
			catalog.ErrRecordNotFound,
			fmt.Errorf("user %s, isbn %q, borrow_date %s", run.userID, run.isbn, catalog.FormatTimestamp(borrowedAt)),
		))

		return
	}

	run.outcome.Record = record

	if record.Status == catalog.StatusReturned {
		run.fail(catalog.ErrAlreadyReturned)
		return
	}

	next := c.stock.ComputeNextOnReturn(current, book.TotalCopies)

	run.advance(StockChecked)

	err = c.store.ApplyBatch(ctx,
		c.store.BorrowStatusUpdate(run.userID, borrowedAt),
		c.store.StockCompareAndSet(run.isbn, current, next),
	)
	if err != nil {
		run.fail(c.classifyReturnBatchError(err))
		return
	}

	run.advance(RecordsWritten)
	run.advance(StockUpdated)

	run.outcome.StockAfter = next
	run.outcome.Record.Status = catalog.StatusReturned

	run.advance(Complete)
}

func (c *Coordinator) classifyReturnBatchError(err error) error {
	var notApplied *viewstore.ConditionNotAppliedError
	if !errors.As(err, &notApplied) {
		return errors.Join(catalog.ErrReturnFailed, err)
	}

	if notApplied.Entry == viewstore.EntryBorrowStatus {
		return catalog.ErrAlreadyReturned
	}

	c.recordConflict(opReturn)

	return catalog.ErrConcurrencyConflict
}
