package viewstore

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration

	"github.com/AntonStoeckl/library-views-go/catalog/viewstore/internal/adapters"
)

const (
	tableBooksByID       = "books_by_id"
	tableBooksByCategory = "books_by_category"
	tableUsersByID       = "users_by_id"
	tableUsersByEmail    = "users_by_email"
	tableBorrowsByUser   = "borrows_by_user"
	tableBorrowsByBook   = "borrows_by_book"

	colISBN             = "isbn"
	colTitle            = "title"
	colAuthor           = "author"
	colCategory         = "category"
	colPublisher        = "publisher"
	colPublicationYear  = "publication_year"
	colTotalCopies      = "total_copies"
	colAvailableCopies  = "available_copies"
	colUserID           = "user_id"
	colEmail            = "email"
	colFirstName        = "first_name"
	colLastName         = "last_name"
	colRegistrationDate = "registration_date"
	colTotalBorrows     = "total_borrows"
	colActiveBorrows    = "active_borrows"
	colBorrowDate       = "borrow_date"
	colBookTitle        = "book_title"
	colStatus           = "status"
	colUserName         = "user_name"
)

// Placeholder values used while rendering statements. Only the SQL text is kept;
// arguments are bound positionally at execution time in the column order below.
const (
	phText = ""
	phInt  = 0
)

var (
	bookColumns         = []any{colISBN, colTitle, colAuthor, colCategory, colPublisher, colPublicationYear, colTotalCopies, colAvailableCopies}
	categoryBookColumns = []any{colCategory, colISBN, colTitle, colAuthor, colAvailableCopies}
	userColumns         = []any{colUserID, colEmail, colFirstName, colLastName, colRegistrationDate, colTotalBorrows, colActiveBorrows}
	borrowByUserColumns = []any{colUserID, colBorrowDate, colISBN, colBookTitle, colStatus}
	borrowByBookColumns = []any{colISBN, colBorrowDate, colUserID, colUserName}
)

// statements holds every statement the ViewStore executes, prepared once.
type statements struct {
	insertBookByID       adapters.Statement
	insertBookByCategory adapters.Statement
	selectBookByID       adapters.Statement
	selectBooksByCat     adapters.Statement
	selectAllBooks       adapters.Statement
	countBooks           adapters.Statement
	selectStock          adapters.Statement
	stockCompareAndSet   adapters.Statement

	insertUserByID     adapters.Statement
	insertUserByEmail  adapters.Statement
	selectUserByID     adapters.Statement
	selectUserIDByMail adapters.Statement
	selectAllUsers     adapters.Statement
	countUsers         adapters.Statement

	insertBorrowByUser adapters.Statement
	insertBorrowByBook adapters.Statement
	updateBorrowStatus adapters.Statement
	selectBorrowByUser adapters.Statement
	selectUserBorrows  adapters.Statement
	selectBookBorrows  adapters.Statement
}

type sqlBuilder interface {
	ToSQL() (string, []any, error)
}

type pendingStatement struct {
	target  *adapters.Statement
	builder sqlBuilder
}

// prepareStatements renders all statements for the dialect and prepares them on db.
func prepareStatements(ctx context.Context, db adapters.DBAdapter, dialect Dialect) (statements, error) {
	d := goqu.Dialect(string(dialect))

	insertBuilder := func(table string, cols []any, vals []any, guarded bool) sqlBuilder {
		ds := d.Insert(table).Prepared(true).Cols(cols...).Vals(vals)
		if guarded {
			ds = ds.OnConflict(goqu.DoNothing())
		}

		return ds
	}

	textVals := func(n int) []any {
		vals := make([]any, n)
		for i := range vals {
			vals[i] = phText
		}

		return vals
	}

	var (
		stmts   statements
		pending []pendingStatement
	)

	add := func(target *adapters.Statement, builder sqlBuilder) {
		pending = append(pending, pendingStatement{target: target, builder: builder})
	}

	// books
	add(&stmts.insertBookByID, insertBuilder(tableBooksByID, bookColumns,
		[]any{phText, phText, phText, phText, phText, phInt, phInt, phInt}, true))
	add(&stmts.insertBookByCategory, insertBuilder(tableBooksByCategory, categoryBookColumns,
		[]any{phText, phText, phText, phText, phInt}, true))
	add(&stmts.selectBookByID, d.From(tableBooksByID).Prepared(true).
		Select(bookColumns...).
		Where(goqu.C(colISBN).Eq(phText)))
	add(&stmts.selectBooksByCat, d.From(tableBooksByCategory).Prepared(true).
		Select(categoryBookColumns...).
		Where(goqu.C(colCategory).Eq(phText)).
		Order(goqu.C(colISBN).Asc()))
	add(&stmts.selectAllBooks, d.From(tableBooksByID).Prepared(true).
		Select(bookColumns...).
		Order(goqu.C(colISBN).Asc()))
	add(&stmts.countBooks, d.From(tableBooksByID).Prepared(true).
		Select(goqu.COUNT(goqu.Star())))
	add(&stmts.selectStock, d.From(tableBooksByID).Prepared(true).
		Select(colAvailableCopies).
		Where(goqu.C(colISBN).Eq(phText)))
	add(&stmts.stockCompareAndSet, d.Update(tableBooksByID).Prepared(true).
		Set(goqu.Record{colAvailableCopies: phInt}).
		Where(goqu.C(colISBN).Eq(phText), goqu.C(colAvailableCopies).Eq(phInt)))

	// users
	add(&stmts.insertUserByID, insertBuilder(tableUsersByID, userColumns,
		[]any{phText, phText, phText, phText, phText, phInt, phInt}, false))
	add(&stmts.insertUserByEmail, insertBuilder(tableUsersByEmail, []any{colEmail, colUserID},
		textVals(2), true))
	add(&stmts.selectUserByID, d.From(tableUsersByID).Prepared(true).
		Select(userColumns...).
		Where(goqu.C(colUserID).Eq(phText)))
	add(&stmts.selectUserIDByMail, d.From(tableUsersByEmail).Prepared(true).
		Select(colUserID).
		Where(goqu.C(colEmail).Eq(phText)))
	add(&stmts.selectAllUsers, d.From(tableUsersByID).Prepared(true).
		Select(userColumns...).
		Order(goqu.C(colEmail).Asc()))
	add(&stmts.countUsers, d.From(tableUsersByID).Prepared(true).
		Select(goqu.COUNT(goqu.Star())))

	// borrows
	add(&stmts.insertBorrowByUser, insertBuilder(tableBorrowsByUser, borrowByUserColumns,
		textVals(len(borrowByUserColumns)), false))
	add(&stmts.insertBorrowByBook, insertBuilder(tableBorrowsByBook, borrowByBookColumns,
		textVals(len(borrowByBookColumns)), false))
	add(&stmts.updateBorrowStatus, d.Update(tableBorrowsByUser).Prepared(true).
		Set(goqu.Record{colStatus: phText}).
		Where(
			goqu.C(colUserID).Eq(phText),
			goqu.C(colBorrowDate).Eq(phText),
			goqu.C(colStatus).Eq(phText),
		))
	add(&stmts.selectBorrowByUser, d.From(tableBorrowsByUser).Prepared(true).
		Select(borrowByUserColumns...).
		Where(goqu.C(colUserID).Eq(phText), goqu.C(colBorrowDate).Eq(phText)))
	add(&stmts.selectUserBorrows, d.From(tableBorrowsByUser).Prepared(true).
		Select(borrowByUserColumns...).
		Where(goqu.C(colUserID).Eq(phText)).
		Order(goqu.C(colBorrowDate).Desc()))
	add(&stmts.selectBookBorrows, d.From(tableBorrowsByBook).Prepared(true).
		Select(borrowByBookColumns...).
		Where(goqu.C(colISBN).Eq(phText)).
		Order(goqu.C(colBorrowDate).Desc()))

	for _, b := range pending {
		query, _, err := b.builder.ToSQL()
		if err != nil {
			return statements{}, errors.Join(ErrBuildStatementFailed, err)
		}

		stmt, err := db.Prepare(ctx, query)
		if err != nil {
			return statements{}, errors.Join(ErrPrepareStatementFailed, err)
		}

		*b.target = stmt
	}

	return stmts, nil
}
