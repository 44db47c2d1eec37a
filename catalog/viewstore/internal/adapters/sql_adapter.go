package adapters

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// SQLAdapter implements DBAdapter for sql.DB.
type SQLAdapter struct {
	db *sql.DB

	mu       sync.Mutex
	prepared []*sql.Stmt
}

// NewSQLAdapter creates a new SQL adapter.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

// Prepare creates a prepared statement on the pool.
func (s *SQLAdapter) Prepare(ctx context.Context, query string) (Statement, error) {
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.prepared = append(s.prepared, stmt)
	s.mu.Unlock()

	return &sqlStatement{query: query, stmt: stmt}, nil
}

// Query executes a prepared query and returns wrapped rows.
func (s *SQLAdapter) Query(ctx context.Context, stmt Statement, args ...any) (DBRows, error) {
	prepared, err := s.statement(stmt)
	if err != nil {
		return nil, err
	}

	rows, err := prepared.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

// Exec executes a prepared statement and returns wrapped result.
func (s *SQLAdapter) Exec(ctx context.Context, stmt Statement, args ...any) (DBResult, error) {
	prepared, err := s.statement(stmt)
	if err != nil {
		return nil, err
	}

	result, err := prepared.ExecContext(ctx, args...)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

// ExecBatch applies all items in one transaction.
func (s *SQLAdapter) ExecBatch(ctx context.Context, items []BatchItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	return execInTx(ctx, tx, items, s.statement)
}

// Close releases the prepared statements. The pool itself stays open.
func (s *SQLAdapter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, stmt := range s.prepared {
		errs = append(errs, stmt.Close())
	}
	s.prepared = nil

	return errors.Join(errs...)
}

func (s *SQLAdapter) statement(stmt Statement) (*sql.Stmt, error) {
	prepared, ok := stmt.(*sqlStatement)
	if !ok {
		return nil, errForeignStatement
	}

	return prepared.stmt, nil
}
