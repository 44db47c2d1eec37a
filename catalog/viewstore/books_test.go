package viewstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
	. "github.com/AntonStoeckl/library-views-go/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-views-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_CreateBook_ShouldWriteBothBookViews(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	category := GivenUniqueCategory(t, "SciFi")
	book := FixtureBook(GivenUniqueISBN(t), category, 3)

	// act
	err := vs.CreateBook(ctx, book)

	// assert
	assert.NoError(t, err)

	stored, found, err := vs.GetBookByISBN(ctx, book.ISBN)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, book, stored)

	browsed, err := query.Collect(vs.BooksByCategory(ctx, category))
	assert.NoError(t, err)
	assert.Equal(t, []catalog.CategoryBook{book.CategoryProjection()}, browsed)
}

func Test_CreateBook_ShouldFail_WhenTheISBNExists_AndLeaveBothViewsUnchanged(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	original := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 2)
	duplicate := original
	duplicate.Title = "Another Title"
	duplicate.Category = GivenUniqueCategory(t, "Fantasy")

	// act
	err := vs.CreateBook(ctx, duplicate)

	// assert
	assert.ErrorIs(t, err, catalog.ErrBookAlreadyExists)

	stored, _, err := vs.GetBookByISBN(ctx, original.ISBN)
	assert.NoError(t, err)
	assert.Equal(t, original.Title, stored.Title)

	browsed, err := query.Collect(vs.BooksByCategory(ctx, duplicate.Category))
	assert.NoError(t, err)
	assert.Empty(t, browsed)
}

func Test_CreateBook_ShouldFail_WithInvalidInput(t *testing.T) {
	// setup
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	vs := wrapper.GetViewStore()

	// arrange
	book := FixtureBook("", "SciFi", 1)

	// act
	err := vs.CreateBook(context.Background(), book)

	// assert
	assert.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func Test_GetBookByISBN_ShouldReportNotFound_ForUnknownISBN(t *testing.T) {
	// setup
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	vs := wrapper.GetViewStore()

	// act
	_, found, err := vs.GetBookByISBN(context.Background(), GivenUniqueISBN(t))

	// assert
	assert.NoError(t, err)
	assert.False(t, found)
}

func Test_BooksByCategory_ShouldMatchExactlyAndOrderByISBN(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	category := GivenUniqueCategory(t, "History")
	isbns := []string{"978-3-c", "978-1-a", "978-2-b"}
	for _, isbn := range isbns {
		assert.NoError(t, vs.CreateBook(ctx, FixtureBook(isbn, category, 1)), "error in arranging test data")
	}
	GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "Other"), 1)

	// act
	browsed, err := query.Collect(vs.BooksByCategory(ctx, category))
	upperCased, upperErr := query.Collect(vs.BooksByCategory(ctx, "HISTORY"))

	// assert
	assert.NoError(t, err)
	assert.NoError(t, upperErr)
	assert.Empty(t, upperCased)

	if assert.Len(t, browsed, 3) {
		assert.Equal(t, "978-1-a", browsed[0].ISBN)
		assert.Equal(t, "978-2-b", browsed[1].ISBN)
		assert.Equal(t, "978-3-c", browsed[2].ISBN)
	}
}

func Test_BooksByCategory_ShouldKeepTheStockSnapshotOfCreation(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 2)
	err := vs.ApplyBatch(ctx, vs.StockCompareAndSet(book.ISBN, 2, 1))
	assert.NoError(t, err, "error in arranging test data")

	// act
	browsed, err := query.Collect(vs.BooksByCategory(ctx, book.Category))

	// assert
	assert.NoError(t, err)
	if assert.Len(t, browsed, 1) {
		assert.Equal(t, 2, browsed[0].AvailableCopies)
	}

	available, found, err := vs.ReadAvailableCopies(ctx, book.ISBN)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, available)
}

func Test_AllBooks_And_CountBooks(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	countBefore, err := vs.CountBooks(ctx)
	assert.NoError(t, err, "error in arranging test data")
	first := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "A"), 1)
	second := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "B"), 1)

	// act
	all, err := query.Collect(vs.AllBooks(ctx))
	count, countErr := vs.CountBooks(ctx)

	// assert
	assert.NoError(t, err)
	assert.NoError(t, countErr)
	assert.Equal(t, countBefore+2, count)
	assert.Len(t, all, count)

	isbns := make([]string, 0, len(all))
	for _, b := range all {
		isbns = append(isbns, b.ISBN)
	}
	assert.Contains(t, isbns, first.ISBN)
	assert.Contains(t, isbns, second.ISBN)
}

func Test_ViewStore_Sequences_ShouldBeRestartable(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 1)
	seq := vs.BooksByCategory(ctx, book.Category)

	// act
	first, err := query.Collect(seq)
	second, secondErr := query.Collect(seq)

	// assert
	assert.NoError(t, err)
	assert.NoError(t, secondErr)
	assert.Equal(t, first, second)
}

func Test_CreateBook_ShouldStoreTheNormalizedBook_AndResolvePaddedISBNs(t *testing.T) {
	// setup
	ctx := context.Background()
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	category := GivenUniqueCategory(t, "SciFi")
	book := FixtureBook(GivenUniqueISBN(t), category, 2)
	padded := book
	padded.ISBN = " " + book.ISBN + "  "
	padded.Title = book.Title + " "
	padded.Category = " " + category

	// act
	err := vs.CreateBook(ctx, padded)

	// assert
	assert.NoError(t, err)

	stored, found, err := vs.GetBookByISBN(ctx, book.ISBN)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, book, stored)

	stored, found, err = vs.GetBookByISBN(ctx, padded.ISBN)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, book.ISBN, stored.ISBN)

	available, found, err := vs.ReadAvailableCopies(ctx, padded.ISBN)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, available)

	browsed, err := query.Collect(vs.BooksByCategory(ctx, category))
	assert.NoError(t, err)
	assert.Equal(t, []catalog.CategoryBook{book.CategoryProjection()}, browsed)

	assert.ErrorIs(t, vs.CreateBook(ctx, book), catalog.ErrBookAlreadyExists)
}
