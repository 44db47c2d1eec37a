package viewstore

import (
	"context"
	"errors"
	"iter"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore/internal/adapters"
)

// CreateBook writes the normalized book to books_by_id and books_by_category in one atomic batch.
// It fails with catalog.ErrBookAlreadyExists if the isbn is already present and leaves both views unchanged.
func (s *ViewStore) CreateBook(ctx context.Context, book catalog.Book) error {
	book = book.Normalize()

	if err := book.Validate(); err != nil {
		return err
	}

	byCategory := book.CategoryProjection()

	err := s.execBatch(ctx, opCreateBook, []adapters.BatchItem{
		{
			Statement: s.stmts.insertBookByID,
			Args: []any{
				book.ISBN, book.Title, book.Author, book.Category, book.Publisher,
				book.PublicationYear, book.TotalCopies, book.AvailableCopies,
			},
			MustApply: true,
		},
		{
			Statement: s.stmts.insertBookByCategory,
			Args: []any{
				byCategory.Category, byCategory.ISBN, byCategory.Title, byCategory.Author, byCategory.AvailableCopies,
			},
		},
	})

	if errors.Is(err, adapters.ErrNotApplied) {
		return catalog.ErrBookAlreadyExists
	}

	if err != nil {
		return errors.Join(catalog.ErrStore, err)
	}

	s.logOperation(opCreateBook, logAttrISBN, book.ISBN, logAttrCategory, book.Category)

	return nil
}

// GetBookByISBN reads a book from books_by_id. A missing book is reported with found=false.
func (s *ViewStore) GetBookByISBN(ctx context.Context, isbn string) (catalog.Book, bool, error) {
	return queryOne(ctx, s, opGetBook, s.stmts.selectBookByID, scanBook, catalog.NormalizeISBN(isbn))
}

// BooksByCategory lists the books_by_category partition of category, ordered by isbn.
// The match is exact and case-sensitive.
func (s *ViewStore) BooksByCategory(ctx context.Context, category string) iter.Seq2[catalog.CategoryBook, error] {
	return scanSeq(ctx, s, opBooksByCategory, s.stmts.selectBooksByCat, scanCategoryBook, category)
}

// AllBooks scans books_by_id.
func (s *ViewStore) AllBooks(ctx context.Context) iter.Seq2[catalog.Book, error] {
	return scanSeq(ctx, s, opAllBooks, s.stmts.selectAllBooks, scanBook)
}

// CountBooks counts the rows of books_by_id.
func (s *ViewStore) CountBooks(ctx context.Context) (int, error) {
	count, _, err := queryOne(ctx, s, opCountBooks, s.stmts.countBooks, scanCount)
	return count, err
}

// ReadAvailableCopies reads the authoritative stock counter of a book.
func (s *ViewStore) ReadAvailableCopies(ctx context.Context, isbn string) (int, bool, error) {
	return queryOne(ctx, s, opReadStock, s.stmts.selectStock, scanCount, catalog.NormalizeISBN(isbn))
}

func scanBook(rows adapters.DBRows) (catalog.Book, error) {
	var b catalog.Book

	err := rows.Scan(
		&b.ISBN, &b.Title, &b.Author, &b.Category, &b.Publisher,
		&b.PublicationYear, &b.TotalCopies, &b.AvailableCopies,
	)

	return b, err
}

func scanCategoryBook(rows adapters.DBRows) (catalog.CategoryBook, error) {
	var b catalog.CategoryBook
	err := rows.Scan(&b.Category, &b.ISBN, &b.Title, &b.Author, &b.AvailableCopies)

	return b, err
}
