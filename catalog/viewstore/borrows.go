package viewstore

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore/internal/adapters"
)

// GetBorrowByUser reads the borrows_by_user row identified by (userID, borrowedAt).
func (s *ViewStore) GetBorrowByUser(
	ctx context.Context,
	userID uuid.UUID,
	borrowedAt time.Time,
) (catalog.BorrowRecord, bool, error) {
	return queryOne(ctx, s, opGetBorrow, s.stmts.selectBorrowByUser, scanBorrowRecord,
		userID.String(), s.dialect.timeArg(borrowedAt))
}

// BorrowsByUser lists the borrow history of a user, newest first.
func (s *ViewStore) BorrowsByUser(ctx context.Context, userID uuid.UUID) iter.Seq2[catalog.BorrowRecord, error] {
	return scanSeq(ctx, s, opBorrowsByUser, s.stmts.selectUserBorrows, scanBorrowRecord, userID.String())
}

// BorrowsByBook lists the borrow history of a book, newest first.
// Returns do not appear here: the view is an append-only log of borrow events.
func (s *ViewStore) BorrowsByBook(ctx context.Context, isbn string) iter.Seq2[catalog.BookBorrowEntry, error] {
	return scanSeq(ctx, s, opBorrowsByBook, s.stmts.selectBookBorrows, scanBookBorrowEntry,
		catalog.NormalizeISBN(isbn))
}

func scanBorrowRecord(rows adapters.DBRows) (catalog.BorrowRecord, error) {
	var (
		r          catalog.BorrowRecord
		rawID      string
		borrowedAt any
		status     string
	)

	if err := rows.Scan(&rawID, &borrowedAt, &r.ISBN, &r.BookTitle, &status); err != nil {
		return catalog.BorrowRecord{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return catalog.BorrowRecord{}, err
	}

	r.UserID = id
	r.Status = catalog.BorrowStatus(status)

	if r.BorrowedAt, err = decodeTime(borrowedAt); err != nil {
		return catalog.BorrowRecord{}, err
	}

	return r, nil
}

func scanBookBorrowEntry(rows adapters.DBRows) (catalog.BookBorrowEntry, error) {
	var (
		e          catalog.BookBorrowEntry
		borrowedAt any
		rawID      string
	)

	if err := rows.Scan(&e.ISBN, &borrowedAt, &rawID, &e.UserName); err != nil {
		return catalog.BookBorrowEntry{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return catalog.BookBorrowEntry{}, err
	}

	e.UserID = id

	if e.BorrowedAt, err = decodeTime(borrowedAt); err != nil {
		return catalog.BookBorrowEntry{}, err
	}

	return e, nil
}
