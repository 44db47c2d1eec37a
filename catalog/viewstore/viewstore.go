package viewstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore/internal/adapters"
)

var (
	// ErrNilDatabaseConnection is returned when a constructor receives a nil connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrUnsupportedDialect is returned for dialects other than postgres and sqlite3,
	// or for sqlite3 on a pgx pool.
	ErrUnsupportedDialect = errors.New("unsupported sql dialect")

	// ErrBuildStatementFailed is returned when a statement cannot be rendered.
	ErrBuildStatementFailed = errors.New("failed to build sql statement")

	// ErrPrepareStatementFailed is returned when a statement cannot be prepared on the connection.
	ErrPrepareStatementFailed = errors.New("failed to prepare sql statement")

	// ErrConditionNotApplied is returned by ApplyBatch when a guarded entry affected no row.
	// The batch was rolled back. Use errors.As with *ConditionNotAppliedError to learn which entry.
	ErrConditionNotApplied = errors.New("guarded batch entry not applied")
)

const (
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "viewstore operation: "
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgBatchFailed        = "database batch execution failed"
	logMsgBatchNotApplied    = "guarded batch entry not applied"
	logMsgCloseStmtsFailed   = "failed to close prepared statements"
	logAttrError             = "error"
	logAttrQuery             = "query"
	logAttrDurationMS        = "duration_ms"
	logAttrBatchSize         = "batch_size"
	logAttrEntry             = "entry"
	logAttrISBN              = "isbn"
	logAttrUserID            = "user_id"
	logAttrCategory          = "category"
	opCreateBook             = "create_book"
	opGetBook                = "get_book"
	opBooksByCategory        = "books_by_category"
	opAllBooks               = "all_books"
	opCountBooks             = "count_books"
	opReadStock              = "read_stock"
	opCreateUser             = "create_user"
	opGetUser                = "get_user"
	opGetUserByEmail         = "get_user_by_email"
	opAllUsers               = "all_users"
	opCountUsers             = "count_users"
	opGetBorrow              = "get_borrow"
	opBorrowsByUser          = "borrows_by_user"
	opBorrowsByBook          = "borrows_by_book"
	opApplyBatch             = "apply_batch"
	errorTypeQuery           = "query_error"
	errorTypeScan            = "scan_error"
	errorTypeBatch           = "batch_error"
	errorTypeConditionFailed = "condition_not_applied"
)

// ViewStore persists and reads the denormalized views of books, users, and borrow events.
// It is safe for concurrent use; all state lives in the database.
type ViewStore struct {
	db               adapters.DBAdapter
	dialect          Dialect
	stmts            statements
	logger           catalog.Logger
	metricsCollector catalog.MetricsCollector
}

// NewViewStoreFromPGXPool creates a new ViewStore using a pgx Pool with optional configuration.
func NewViewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*ViewStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newViewStore(adapters.NewPGXAdapter(db), true, options...)
}

// NewViewStoreFromPGXPoolAndReplica creates a new ViewStore using a primary pgx Pool and a replica Pool.
// Reads with catalog.EventualConsistency in their context are served by the replica.
func NewViewStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*ViewStore, error) {
	if db == nil || replica == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newViewStore(adapters.NewPGXAdapterWithReplica(db, replica), true, options...)
}

// NewViewStoreFromSQLDB creates a new ViewStore using a sql.DB with optional configuration.
func NewViewStoreFromSQLDB(db *sql.DB, options ...Option) (*ViewStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newViewStore(adapters.NewSQLAdapter(db), false, options...)
}

// NewViewStoreFromSQLX creates a new ViewStore using a sqlx.DB with optional configuration.
func NewViewStoreFromSQLX(db *sqlx.DB, options ...Option) (*ViewStore, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newViewStore(adapters.NewSQLXAdapter(db), false, options...)
}

func newViewStore(db adapters.DBAdapter, postgresOnly bool, options ...Option) (*ViewStore, error) {
	s := &ViewStore{
		db:      db,
		dialect: DialectPostgres,
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	if postgresOnly && s.dialect != DialectPostgres {
		return nil, ErrUnsupportedDialect
	}

	stmts, err := prepareStatements(context.Background(), s.db, s.dialect)
	if err != nil {
		s.logError(logMsgOperation+"prepare", err)
		return nil, errors.Join(catalog.ErrStore, err)
	}

	s.stmts = stmts

	return s, nil
}

// Dialect returns the SQL dialect the store was built for.
func (s *ViewStore) Dialect() Dialect {
	return s.dialect
}

// Close releases prepared statements. The connection is owned by the caller and stays open.
func (s *ViewStore) Close() error {
	if err := s.db.Close(); err != nil {
		s.logWarn(logMsgCloseStmtsFailed, logAttrError, err.Error())
		return errors.Join(catalog.ErrStore, err)
	}

	return nil
}
