// Package query serves the read patterns of the library from the denormalized views.
//
// Every listing is a lazy, finite, single-use sequence: rows are fetched while the caller
// ranges over it, and a second range yields one ErrSequenceConsumed element instead of
// re-running the query. Reads are issued with eventual consistency, so a replica pool
// serves them if one is configured.
package query

import (
	"context"
	"errors"
	"iter"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

// ErrSequenceConsumed is yielded when a sequence is ranged over a second time.
var ErrSequenceConsumed = errors.New("sequence already consumed")

// Store is the part of the view store the Gateway reads from.
type Store interface {
	GetBookByISBN(ctx context.Context, isbn string) (catalog.Book, bool, error)
	BooksByCategory(ctx context.Context, category string) iter.Seq2[catalog.CategoryBook, error]
	AllBooks(ctx context.Context) iter.Seq2[catalog.Book, error]
	CountBooks(ctx context.Context) (int, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (catalog.User, bool, error)
	GetUserByEmail(ctx context.Context, email string) (catalog.User, bool, error)
	AllUsers(ctx context.Context) iter.Seq2[catalog.User, error]
	CountUsers(ctx context.Context) (int, error)
	BorrowsByUser(ctx context.Context, userID uuid.UUID) iter.Seq2[catalog.BorrowRecord, error]
	BorrowsByBook(ctx context.Context, isbn string) iter.Seq2[catalog.BookBorrowEntry, error]
}

// Gateway exposes the keyed read patterns of the catalog.
type Gateway struct {
	store            Store
	metricsCollector catalog.MetricsCollector
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithMetrics sets the metrics collector that receives the number of rows each sequence yielded.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(g *Gateway) {
		g.metricsCollector = collector
	}
}

// NewGateway creates a Gateway on top of the view store.
func NewGateway(store Store, opts ...Option) *Gateway {
	g := &Gateway{store: store}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Stats summarizes the size of the catalog and the membership.
type Stats struct {
	Books int `json:"books"`
	Users int `json:"users"`
}

// BookByISBN looks up a book by its isbn. A missing book is reported with found=false.
func (g *Gateway) BookByISBN(ctx context.Context, isbn string) (catalog.Book, bool, error) {
	return g.store.GetBookByISBN(catalog.WithEventualConsistency(ctx), isbn)
}

// BooksByCategory lists the books of exactly this category, case-sensitive. An unknown category yields nothing.
func (g *Gateway) BooksByCategory(ctx context.Context, category string) iter.Seq2[catalog.CategoryBook, error] {
	return once(g, "books_by_category", g.store.BooksByCategory(catalog.WithEventualConsistency(ctx), category))
}

// AllBooks lists the whole catalog.
func (g *Gateway) AllBooks(ctx context.Context) iter.Seq2[catalog.Book, error] {
	return once(g, "all_books", g.store.AllBooks(catalog.WithEventualConsistency(ctx)))
}

// UserByID looks up a user by id.
func (g *Gateway) UserByID(ctx context.Context, id uuid.UUID) (catalog.User, bool, error) {
	return g.store.GetUserByID(catalog.WithEventualConsistency(ctx), id)
}

// UserByEmail looks up a user by email.
func (g *Gateway) UserByEmail(ctx context.Context, email string) (catalog.User, bool, error) {
	return g.store.GetUserByEmail(catalog.WithEventualConsistency(ctx), email)
}

// AllUsers lists every registered user.
func (g *Gateway) AllUsers(ctx context.Context) iter.Seq2[catalog.User, error] {
	return once(g, "all_users", g.store.AllUsers(catalog.WithEventualConsistency(ctx)))
}

// UserBorrowHistory lists the borrow records of a user with their status, newest first.
func (g *Gateway) UserBorrowHistory(ctx context.Context, userID uuid.UUID) iter.Seq2[catalog.BorrowRecord, error] {
	return once(g, "user_borrow_history", g.store.BorrowsByUser(catalog.WithEventualConsistency(ctx), userID))
}

// BookBorrowHistory lists every borrow event of a book, newest first. Returns are not part of this history.
func (g *Gateway) BookBorrowHistory(ctx context.Context, isbn string) iter.Seq2[catalog.BookBorrowEntry, error] {
	return once(g, "book_borrow_history", g.store.BorrowsByBook(catalog.WithEventualConsistency(ctx), isbn))
}

// Stats counts books and users.
func (g *Gateway) Stats(ctx context.Context) (Stats, error) {
	ctx = catalog.WithEventualConsistency(ctx)

	books, err := g.store.CountBooks(ctx)
	if err != nil {
		return Stats{}, err
	}

	users, err := g.store.CountUsers(ctx)
	if err != nil {
		return Stats{}, err
	}

	return Stats{Books: books, Users: users}, nil
}

// once makes seq single-use.
func once[T any](g *Gateway, name string, seq iter.Seq2[T, error]) iter.Seq2[T, error] {
	var consumed atomic.Bool

	return func(yield func(T, error) bool) {
		if consumed.Swap(true) {
			var zero T
			yield(zero, ErrSequenceConsumed)

			return
		}

		yielded := 0
		defer func() { g.recordYielded(name, yielded) }()

		for item, err := range seq {
			if err == nil {
				yielded++
			}

			if !yield(item, err) {
				return
			}
		}
	}
}

func (g *Gateway) recordYielded(name string, n int) {
	if g.metricsCollector != nil {
		g.metricsCollector.RecordValue(catalog.MetricQueryRowsYielded, float64(n), map[string]string{
			catalog.LabelOperation: name,
		})
	}
}

// Collect drains a sequence into a slice and stops at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	items := make([]T, 0)

	for item, err := range seq {
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}
