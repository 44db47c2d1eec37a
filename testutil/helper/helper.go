package helper

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

// ViewWriter is the subset of the view store the Given* helpers need.
type ViewWriter interface {
	CreateBook(ctx context.Context, book catalog.Book) error
	CreateUser(ctx context.Context, email, firstName, lastName string) (uuid.UUID, error)
}

// GivenUniqueISBN returns an isbn that no other test in the run uses.
func GivenUniqueISBN(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return "978-" + strings.ReplaceAll(id.String(), "-", "")[:16]
}

// GivenUniqueEmail returns an email address that no other test in the run uses.
func GivenUniqueEmail(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return "reader-" + id.String() + "@library.test"
}

// GivenUniqueCategory returns a category name that no other test in the run uses,
// so category listings only contain the books a test created itself.
func GivenUniqueCategory(t testing.TB, prefix string) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return prefix + "-" + id.String()
}

func FixtureBook(isbn, category string, copies int) catalog.Book {
	return catalog.Book{
		ISBN:            isbn,
		Title:           "Learning Domain-Driven Design",
		Author:          "Vlad Khononov",
		Category:        category,
		Publisher:       "O'Reilly Media, Inc.",
		PublicationYear: 2021,
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
}

func GivenBookWasCreated(t testing.TB, ctx context.Context, store ViewWriter, category string, copies int) catalog.Book {
	book := FixtureBook(GivenUniqueISBN(t), category, copies)
	err := store.CreateBook(ctx, book)
	assert.NoError(t, err, "error in arranging test data")

	return book
}

func GivenUserWasRegistered(t testing.TB, ctx context.Context, store ViewWriter, firstName, lastName string) uuid.UUID {
	id, err := store.CreateUser(ctx, GivenUniqueEmail(t), firstName, lastName)
	assert.NoError(t, err, "error in arranging test data")

	return id
}

// FakeClock returns a clock that starts at start and advances by step on each call.
// It is not safe for concurrent use.
func FakeClock(start time.Time, step time.Duration) func() time.Time {
	next := start

	return func() time.Time {
		now := next
		next = next.Add(step)

		return now
	}
}
