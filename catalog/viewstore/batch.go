package viewstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore/internal/adapters"
)

// EntryKind names the write a BatchEntry performs.
type EntryKind string

const (
	EntryBorrowByUser       EntryKind = "borrow_by_user_insert"
	EntryBorrowByBook       EntryKind = "borrow_by_book_insert"
	EntryBorrowStatus       EntryKind = "borrow_status_update"
	EntryStockCompareAndSet EntryKind = "stock_compare_and_set"
)

// BatchEntry is one write of an atomic batch, built by the methods below and applied with ApplyBatch.
type BatchEntry struct {
	kind EntryKind
	item adapters.BatchItem
}

// Kind returns what the entry writes.
func (e BatchEntry) Kind() EntryKind {
	return e.kind
}

// Guarded reports whether the whole batch is rolled back when this entry affects no row.
func (e BatchEntry) Guarded() bool {
	return e.item.MustApply
}

// ConditionNotAppliedError names the guarded entry that affected no row.
type ConditionNotAppliedError struct {
	Entry EntryKind
}

func (e *ConditionNotAppliedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConditionNotApplied.Error(), e.Entry)
}

func (e *ConditionNotAppliedError) Is(target error) bool {
	return target == ErrConditionNotApplied
}

// BorrowByUserInsert builds the borrows_by_user row of a new borrow event with status ACTIVE.
func (s *ViewStore) BorrowByUserInsert(userID uuid.UUID, borrowedAt time.Time, isbn, bookTitle string) BatchEntry {
	return BatchEntry{
		kind: EntryBorrowByUser,
		item: adapters.BatchItem{
			Statement: s.stmts.insertBorrowByUser,
			Args: []any{
				userID.String(), s.dialect.timeArg(borrowedAt), isbn, bookTitle, string(catalog.StatusActive),
			},
		},
	}
}

// BorrowByBookInsert builds the borrows_by_book row of a new borrow event.
func (s *ViewStore) BorrowByBookInsert(isbn string, borrowedAt time.Time, userID uuid.UUID, userName string) BatchEntry {
	return BatchEntry{
		kind: EntryBorrowByBook,
		item: adapters.BatchItem{
			Statement: s.stmts.insertBorrowByBook,
			Args:      []any{isbn, s.dialect.timeArg(borrowedAt), userID.String(), userName},
		},
	}
}

// BorrowStatusUpdate builds the guarded ACTIVE to RETURNED transition of a borrows_by_user row.
// It affects no row if the record is missing or was already returned.
func (s *ViewStore) BorrowStatusUpdate(userID uuid.UUID, borrowedAt time.Time) BatchEntry {
	return BatchEntry{
		kind: EntryBorrowStatus,
		item: adapters.BatchItem{
			Statement: s.stmts.updateBorrowStatus,
			Args: []any{
				string(catalog.StatusReturned), userID.String(), s.dialect.timeArg(borrowedAt), string(catalog.StatusActive),
			},
			MustApply: true,
		},
	}
}

// StockCompareAndSet builds the guarded write of a book's stock counter.
// It affects no row unless the stored counter still equals expected.
func (s *ViewStore) StockCompareAndSet(isbn string, expected, next int) BatchEntry {
	return BatchEntry{
		kind: EntryStockCompareAndSet,
		item: adapters.BatchItem{
			Statement: s.stmts.stockCompareAndSet,
			Args:      []any{next, isbn, expected},
			MustApply: true,
		},
	}
}

// ApplyBatch applies all entries atomically: either every entry is persisted or none is.
// If a guarded entry affects no row, the result is a *ConditionNotAppliedError.
// Database failures are joined with catalog.ErrStore.
func (s *ViewStore) ApplyBatch(ctx context.Context, entries ...BatchEntry) error {
	items := make([]adapters.BatchItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entry.item)
	}

	err := s.execBatch(ctx, opApplyBatch, items)

	var notApplied *adapters.NotAppliedError
	if errors.As(err, &notApplied) {
		return &ConditionNotAppliedError{Entry: entries[notApplied.Index].kind}
	}

	if err != nil {
		return errors.Join(catalog.ErrStore, err)
	}

	return nil
}

// execBatch runs items through the adapter and reports timing, errors, and metrics.
// Errors are returned unwrapped so callers can tell guarded rejections from failures.
func (s *ViewStore) execBatch(ctx context.Context, operation string, items []adapters.BatchItem) error {
	start := time.Now()

	err := s.db.ExecBatch(ctx, items)
	duration := time.Since(start)

	for _, item := range items {
		s.logQueryWithDuration(item.Statement.SQL(), operation, duration)
	}

	s.recordBatchSize(operation, len(items))

	switch {
	case errors.Is(err, adapters.ErrNotApplied):
		s.logOperation(logMsgBatchNotApplied, logAttrBatchSize, len(items), logAttrEntry, err.Error())
		s.recordError(operation, errorTypeConditionFailed)
		s.recordDuration(catalog.MetricStoreBatchDuration, operation, catalog.StatusError, duration)
	case err != nil:
		s.logError(logMsgBatchFailed, err, logAttrBatchSize, len(items))
		s.recordError(operation, errorTypeBatch)
		s.recordDuration(catalog.MetricStoreBatchDuration, operation, catalog.StatusError, duration)
	default:
		s.recordDuration(catalog.MetricStoreBatchDuration, operation, catalog.StatusSuccess, duration)
	}

	return err
}
