package adapters

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter implements DBAdapter for sqlx.DB.
type SQLXAdapter struct {
	db *sqlx.DB

	mu       sync.Mutex
	prepared []*sqlx.Stmt
}

// sqlxStatement is a statement prepared on a sqlx connection pool.
type sqlxStatement struct {
	query string
	stmt  *sqlx.Stmt
}

func (s *sqlxStatement) SQL() string {
	return s.query
}

// NewSQLXAdapter creates a new SQLX adapter.
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

// Prepare creates a prepared statement on the pool.
func (s *SQLXAdapter) Prepare(ctx context.Context, query string) (Statement, error) {
	stmt, err := s.db.PreparexContext(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.prepared = append(s.prepared, stmt)
	s.mu.Unlock()

	return &sqlxStatement{query: query, stmt: stmt}, nil
}

// Query executes a prepared query using the sqlx.Stmt and returns wrapped rows.
func (s *SQLXAdapter) Query(ctx context.Context, stmt Statement, args ...any) (DBRows, error) {
	prepared, ok := stmt.(*sqlxStatement)
	if !ok {
		return nil, errForeignStatement
	}

	rows, err := prepared.stmt.QueryxContext(ctx, args...)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows.Rows}, nil
}

// Exec executes a prepared statement using the sqlx.Stmt and returns wrapped result.
func (s *SQLXAdapter) Exec(ctx context.Context, stmt Statement, args ...any) (DBResult, error) {
	prepared, ok := stmt.(*sqlxStatement)
	if !ok {
		return nil, errForeignStatement
	}

	result, err := prepared.stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

// ExecBatch applies all items in one sqlx transaction.
func (s *SQLXAdapter) ExecBatch(ctx context.Context, items []BatchItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	return execInTx(ctx, tx.Tx, items, func(stmt Statement) (*sql.Stmt, error) {
		prepared, ok := stmt.(*sqlxStatement)
		if !ok {
			return nil, errForeignStatement
		}

		return prepared.stmt.Stmt, nil
	})
}

// Close releases the prepared statements. The pool itself stays open.
func (s *SQLXAdapter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, stmt := range s.prepared {
		errs = append(errs, stmt.Close())
	}
	s.prepared = nil

	return errors.Join(errs...)
}
