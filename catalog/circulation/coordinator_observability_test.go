package circulation_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-views-go/catalog"
	. "github.com/AntonStoeckl/library-views-go/catalog/circulation" //nolint:revive
	"github.com/AntonStoeckl/library-views-go/catalog/stock"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore"
	. "github.com/AntonStoeckl/library-views-go/testutil/helper" //nolint:revive
)

// failingBatchStore finds every book and user but rejects every batch with batchErr.
// With activeBorrow it also finds an ACTIVE borrow record of isbn 978-0 for any lookup.
type failingBatchStore struct {
	batchErr     error
	activeBorrow bool
}

func (s failingBatchStore) GetBookByISBN(_ context.Context, isbn string) (catalog.Book, bool, error) {
	return FixtureBook(isbn, "SciFi", 1), true, nil
}

func (s failingBatchStore) GetUserByID(_ context.Context, id uuid.UUID) (catalog.User, bool, error) {
	return catalog.User{ID: id, FirstName: "Ada", LastName: "Lovelace"}, true, nil
}

func (s failingBatchStore) GetBorrowByUser(
	_ context.Context,
	userID uuid.UUID,
	borrowedAt time.Time,
) (catalog.BorrowRecord, bool, error) {
	record := catalog.BorrowRecord{
		UserID:     userID,
		BorrowedAt: borrowedAt,
		ISBN:       "978-0",
		BookTitle:  "Learning Domain-Driven Design",
		Status:     catalog.StatusActive,
	}

	return record, s.activeBorrow, nil
}

func (s failingBatchStore) ReadAvailableCopies(_ context.Context, _ string) (int, bool, error) {
	return 1, true, nil
}

func (s failingBatchStore) BorrowByUserInsert(uuid.UUID, time.Time, string, string) viewstore.BatchEntry {
	return viewstore.BatchEntry{}
}

func (s failingBatchStore) BorrowByBookInsert(string, time.Time, uuid.UUID, string) viewstore.BatchEntry {
	return viewstore.BatchEntry{}
}

func (s failingBatchStore) BorrowStatusUpdate(uuid.UUID, time.Time) viewstore.BatchEntry {
	return viewstore.BatchEntry{}
}

func (s failingBatchStore) StockCompareAndSet(string, int, int) viewstore.BatchEntry {
	return viewstore.BatchEntry{}
}

func (s failingBatchStore) ApplyBatch(context.Context, ...viewstore.BatchEntry) error {
	return s.batchErr
}

func Test_Borrow_ShouldFail_WhenTheBatchIsRejectedByTheDatabase(t *testing.T) {
	// setup
	logHandler := NewLogHandlerSpy(false)
	metricsCollector := NewMetricsCollectorSpy()
	store := failingBatchStore{batchErr: errors.Join(catalog.ErrStore, errors.New("disk full"))}
	coordinator := NewCoordinator(store, stock.NewManager(store),
		WithLogger(slog.New(logHandler)),
		WithMetrics(metricsCollector))

	// act
	outcome := coordinator.BorrowWithOutcome(context.Background(), uuid.New(), "978-0")

	// assert
	assert.ErrorIs(t, outcome.Err, catalog.ErrBorrowFailed)
	assert.ErrorIs(t, outcome.Err, catalog.ErrStore)
	assert.Equal(t, Failed, outcome.State)
	assert.Equal(t, StockChecked, outcome.LastReached)
	assert.Equal(t, 1, outcome.StockBefore)

	assert.True(t, logHandler.HasErrorLogWithMessage("circulation failed: borrow").
		WithAttr("outcome", "borrow_failed").
		WithAttr("last_state", "stock_checked").
		Assert())
	assert.True(t, metricsCollector.HasCounterRecord(catalog.MetricCirculationOutcomes, map[string]string{
		catalog.LabelOperation: "borrow",
		catalog.LabelOutcome:   "borrow_failed",
	}))
	assert.True(t, metricsCollector.HasDurationRecord(catalog.MetricBorrowDuration, map[string]string{
		catalog.LabelStatus: catalog.StatusError,
	}))
}

func Test_Return_ShouldFail_WhenTheBatchIsRejectedByTheDatabase(t *testing.T) {
	// setup
	store := failingBatchStore{batchErr: errors.New("connection reset"), activeBorrow: true}
	coordinator := NewCoordinator(store, stock.NewManager(store))

	// act
	outcome := coordinator.ReturnWithOutcome(context.Background(), uuid.New(), "978-0", time.Now())

	// assert
	assert.ErrorIs(t, outcome.Err, catalog.ErrReturnFailed)
	assert.Equal(t, StockChecked, outcome.LastReached)
	assert.Equal(t, catalog.StatusActive, outcome.Record.Status)
}

func Test_Return_ShouldReportAlreadyReturned_WhenTheStatusGuardRejects(t *testing.T) {
	// setup
	store := failingBatchStore{
		batchErr:     &viewstore.ConditionNotAppliedError{Entry: viewstore.EntryBorrowStatus},
		activeBorrow: true,
	}
	coordinator := NewCoordinator(store, stock.NewManager(store))

	// act
	err := coordinator.Return(context.Background(), uuid.New(), "978-0", time.Now())

	// assert
	assert.ErrorIs(t, err, catalog.ErrAlreadyReturned)
}

func Test_Return_ShouldFail_WhenNoBorrowRecordMatches(t *testing.T) {
	// setup
	store := failingBatchStore{}
	coordinator := NewCoordinator(store, stock.NewManager(store))

	// act
	outcome := coordinator.ReturnWithOutcome(context.Background(), uuid.New(), "978-0", time.Now())

	// assert
	assert.ErrorIs(t, outcome.Err, catalog.ErrRecordNotFound)
	assert.Equal(t, Requested, outcome.LastReached)
}

func Test_Borrow_ShouldReportAConflict_WhenTheStockChangedButCopiesRemain(t *testing.T) {
	// setup
	metricsCollector := NewMetricsCollectorSpy()
	store := failingBatchStore{batchErr: &viewstore.ConditionNotAppliedError{Entry: viewstore.EntryStockCompareAndSet}}
	coordinator := NewCoordinator(store, stock.NewManager(store), WithMetrics(metricsCollector))

	// act
	_, err := coordinator.Borrow(context.Background(), uuid.New(), "978-0")

	// assert
	assert.ErrorIs(t, err, catalog.ErrConcurrencyConflict)
	assert.Equal(t, 1, metricsCollector.CountCounterRecords(catalog.MetricConcurrencyConflicts, map[string]string{
		catalog.LabelOperation: "borrow",
	}))
}

func Test_Coordinator_WithLogger_ShouldLogTransitionsAndResults(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := NewLogHandlerSpy(false)
	metricsCollector := NewMetricsCollectorSpy()
	wrapper, vs, coordinator := givenCoordinator(t,
		WithLogger(slog.New(logHandler)),
		WithMetrics(metricsCollector),
		WithClock(FakeClock(fakeStart, time.Second)))
	defer wrapper.Close()

	// arrange
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 1)
	userID := GivenUserWasRegistered(t, ctx, vs, "Ada", "Lovelace")

	// act
	record, borrowErr := coordinator.Borrow(ctx, userID, book.ISBN)
	_, deniedErr := coordinator.Borrow(ctx, userID, book.ISBN)
	returnErr := coordinator.Return(ctx, userID, book.ISBN, record.BorrowedAt)

	// assert
	assert.NoError(t, borrowErr)
	assert.ErrorIs(t, deniedErr, catalog.ErrInsufficientStock)
	assert.NoError(t, returnErr)

	for _, state := range []string{"stock_checked", "records_written", "stock_updated", "complete"} {
		assert.True(t, logHandler.HasDebugLogWithMessage("circulation state: "+state).
			WithAttr("isbn", book.ISBN).Assert(), "state %s", state)
	}

	assert.True(t, logHandler.HasInfoLogWithMessage("circulation completed: borrow").
		WithAttr("borrow_date", catalog.FormatTimestamp(fakeStart)).
		WithDurationMS().
		Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("circulation denied: borrow").
		WithAttr("outcome", "insufficient_stock").
		Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("circulation completed: return").Assert())
	assert.False(t, logHandler.HasErrorLogWithMessage("circulation failed: borrow").Assert())

	assert.True(t, metricsCollector.HasCounterRecord(catalog.MetricCirculationOutcomes, map[string]string{
		catalog.LabelOperation: "borrow",
		catalog.LabelOutcome:   "success",
	}))
	assert.True(t, metricsCollector.HasCounterRecord(catalog.MetricCirculationOutcomes, map[string]string{
		catalog.LabelOperation: "borrow",
		catalog.LabelOutcome:   "insufficient_stock",
	}))
	assert.True(t, metricsCollector.HasDurationRecord(catalog.MetricReturnDuration, map[string]string{
		catalog.LabelOperation: "return",
		catalog.LabelStatus:    catalog.StatusSuccess,
	}))
}

func Test_State_String(t *testing.T) {
	assert.Equal(t, "requested", Requested.String())
	assert.Equal(t, "stock_checked", StockChecked.String())
	assert.Equal(t, "records_written", RecordsWritten.String())
	assert.Equal(t, "stock_updated", StockUpdated.String())
	assert.Equal(t, "complete", Complete.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}
