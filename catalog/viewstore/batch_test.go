package viewstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
	. "github.com/AntonStoeckl/library-views-go/catalog/viewstore"            //nolint:revive
	. "github.com/AntonStoeckl/library-views-go/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-views-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_ApplyBatch_ShouldPersistAllEntries(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 2)
	userID := GivenUserWasRegistered(t, ctx, vs, "Ada", "Lovelace")
	borrowedAt := time.Date(2024, 3, 1, 10, 30, 15, 123456789, time.UTC)

	// act
	err := vs.ApplyBatch(ctx,
		vs.BorrowByUserInsert(userID, borrowedAt, book.ISBN, book.Title),
		vs.BorrowByBookInsert(book.ISBN, borrowedAt, userID, "Ada Lovelace"),
		vs.StockCompareAndSet(book.ISBN, 2, 1),
	)

	// assert
	assert.NoError(t, err)

	record, found, err := vs.GetBorrowByUser(ctx, userID, borrowedAt)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, catalog.BorrowRecord{
		UserID:     userID,
		BorrowedAt: catalog.NormalizeTimestamp(borrowedAt),
		ISBN:       book.ISBN,
		BookTitle:  book.Title,
		Status:     catalog.StatusActive,
	}, record)

	entries, err := query.Collect(vs.BorrowsByBook(ctx, book.ISBN))
	assert.NoError(t, err)
	assert.Equal(t, []catalog.BookBorrowEntry{{
		ISBN:       book.ISBN,
		BorrowedAt: catalog.NormalizeTimestamp(borrowedAt),
		UserID:     userID,
		UserName:   "Ada Lovelace",
	}}, entries)

	available, _, err := vs.ReadAvailableCopies(ctx, book.ISBN)
	assert.NoError(t, err)
	assert.Equal(t, 1, available)
}

func Test_ApplyBatch_ShouldRollBackEverything_WhenTheStockChangedConcurrently(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 2)
	userID := GivenUserWasRegistered(t, ctx, vs, "Ada", "Lovelace")
	borrowedAt := time.Now()

	// act
	err := vs.ApplyBatch(ctx,
		vs.BorrowByUserInsert(userID, borrowedAt, book.ISBN, book.Title),
		vs.BorrowByBookInsert(book.ISBN, borrowedAt, userID, "Ada Lovelace"),
		vs.StockCompareAndSet(book.ISBN, 5, 4),
	)

	// assert
	assert.ErrorIs(t, err, ErrConditionNotApplied)

	var notApplied *ConditionNotAppliedError
	if assert.True(t, errors.As(err, &notApplied)) {
		assert.Equal(t, EntryStockCompareAndSet, notApplied.Entry)
	}

	_, found, err := vs.GetBorrowByUser(ctx, userID, borrowedAt)
	assert.NoError(t, err)
	assert.False(t, found)

	entries, err := query.Collect(vs.BorrowsByBook(ctx, book.ISBN))
	assert.NoError(t, err)
	assert.Empty(t, entries)

	available, _, err := vs.ReadAvailableCopies(ctx, book.ISBN)
	assert.NoError(t, err)
	assert.Equal(t, 2, available)
}

func Test_ApplyBatch_ShouldFail_WhenTheBorrowRecordWasAlreadyReturned(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 1)
	userID := GivenUserWasRegistered(t, ctx, vs, "Ada", "Lovelace")
	borrowedAt := time.Now()
	err := vs.ApplyBatch(ctx,
		vs.BorrowByUserInsert(userID, borrowedAt, book.ISBN, book.Title),
		vs.BorrowByBookInsert(book.ISBN, borrowedAt, userID, "Ada Lovelace"),
		vs.StockCompareAndSet(book.ISBN, 1, 0),
	)
	assert.NoError(t, err, "error in arranging test data")
	err = vs.ApplyBatch(ctx, vs.BorrowStatusUpdate(userID, borrowedAt), vs.StockCompareAndSet(book.ISBN, 0, 1))
	assert.NoError(t, err, "error in arranging test data")

	// act
	err = vs.ApplyBatch(ctx, vs.BorrowStatusUpdate(userID, borrowedAt), vs.StockCompareAndSet(book.ISBN, 1, 2))

	// assert
	var notApplied *ConditionNotAppliedError
	if assert.True(t, errors.As(err, &notApplied)) {
		assert.Equal(t, EntryBorrowStatus, notApplied.Entry)
	}

	record, _, err := vs.GetBorrowByUser(ctx, userID, borrowedAt)
	assert.NoError(t, err)
	assert.Equal(t, catalog.StatusReturned, record.Status)

	available, _, err := vs.ReadAvailableCopies(ctx, book.ISBN)
	assert.NoError(t, err)
	assert.Equal(t, 1, available)
}

func Test_BatchEntries_ShouldReportKindAndGuard(t *testing.T) {
	// setup
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	vs := wrapper.GetViewStore()

	// arrange
	userID := uuid.New()
	now := time.Now()

	testCases := []struct {
		entry       BatchEntry
		wantKind    EntryKind
		wantGuarded bool
	}{
		{entry: vs.BorrowByUserInsert(userID, now, "isbn", "title"), wantKind: EntryBorrowByUser},
		{entry: vs.BorrowByBookInsert("isbn", now, userID, "name"), wantKind: EntryBorrowByBook},
		{entry: vs.BorrowStatusUpdate(userID, now), wantKind: EntryBorrowStatus, wantGuarded: true},
		{entry: vs.StockCompareAndSet("isbn", 1, 0), wantKind: EntryStockCompareAndSet, wantGuarded: true},
	}

	for _, tc := range testCases {
		// assert
		assert.Equal(t, tc.wantKind, tc.entry.Kind())
		assert.Equal(t, tc.wantGuarded, tc.entry.Guarded(), "entry %s", tc.wantKind)
	}
}

func Test_BorrowHistories_ShouldBeOrderedNewestFirst(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 3)
	userID := GivenUserWasRegistered(t, ctx, vs, "Ada", "Lovelace")
	older := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	for i, borrowedAt := range []time.Time{older, newer} {
		err := vs.ApplyBatch(ctx,
			vs.BorrowByUserInsert(userID, borrowedAt, book.ISBN, book.Title),
			vs.BorrowByBookInsert(book.ISBN, borrowedAt, userID, "Ada Lovelace"),
			vs.StockCompareAndSet(book.ISBN, 3-i, 2-i),
		)
		assert.NoError(t, err, "error in arranging test data")
	}

	// act
	byUser, err := query.Collect(vs.BorrowsByUser(ctx, userID))
	byBook, bookErr := query.Collect(vs.BorrowsByBook(ctx, book.ISBN))

	// assert
	assert.NoError(t, err)
	assert.NoError(t, bookErr)

	if assert.Len(t, byUser, 2) {
		assert.True(t, byUser[0].BorrowedAt.Equal(newer))
		assert.True(t, byUser[1].BorrowedAt.Equal(older))
	}

	if assert.Len(t, byBook, 2) {
		assert.True(t, byBook[0].BorrowedAt.Equal(newer))
		assert.True(t, byBook[1].BorrowedAt.Equal(older))
	}
}
