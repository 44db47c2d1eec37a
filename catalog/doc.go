// Package catalog provides the core types shared by all parts of the library
// circulation system: books, users, borrow records, the error taxonomy and the
// observability interfaces every component accepts.
//
// The persisted model is denormalized. One fact is written under several keys
// so that every read pattern is a point lookup or a single-partition range scan:
//
//   - books_by_id        (isbn)                  authoritative stock counter
//   - books_by_category  (category, isbn)        browse mirror, no live stock
//   - users_by_id        (user_id)
//   - users_by_email     (email)                 uniqueness guard + lookup
//   - borrows_by_user    (user_id, borrowed_at)  carries the borrow status
//   - borrows_by_book    (isbn, borrowed_at)     append-only history log
//
// Key types:
//   - Book, CategoryBook: catalog entries and their browse projection
//   - User: a registered member
//   - BorrowRecord, BookBorrowEntry: the two projections of one borrow event
//
// Common usage pattern:
//
//	store, _ := viewstore.NewViewStoreFromPGXPool(pool)
//	coordinator := circulation.NewCoordinator(store, stock.NewManager(store))
//
//	record, err := coordinator.Borrow(ctx, userID, "978-1-098-10013-1")
//	if errors.Is(err, catalog.ErrInsufficientStock) {
//		// no copy left
//	}
//
//	err = coordinator.Return(ctx, userID, "978-1-098-10013-1", record.BorrowedAt)
package catalog
