// Package circulation coordinates borrow and return events across the denormalized views.
//
// A borrow writes three things in one atomic batch: the borrows_by_user row, the
// borrows_by_book row, and a compare-and-set of the book's stock counter. A return writes
// the status transition of the borrows_by_user row and a compare-and-set of the counter.
// If another borrow or return changed the counter between the read and the batch, nothing
// is written and the caller receives catalog.ErrInsufficientStock (no copy left) or
// catalog.ErrConcurrencyConflict (counter moved, retry is safe). The Coordinator never retries.
//
// Every request walks the states Requested, StockChecked, RecordsWritten, StockUpdated,
// and Complete. A failure ends in Failed and the Outcome records the last state reached.
package circulation
