package adapters

import (
	"context"
	"database/sql"
	"errors"
)

// sqlStatement is a statement prepared on a database/sql connection pool.
type sqlStatement struct {
	query string
	stmt  *sql.Stmt
}

func (s *sqlStatement) SQL() string {
	return s.query
}

// stdRows wraps standard library sql.Rows to implement DBRows interface.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

// stdResult wraps standard library sql.Result to implement DBResult interface.
type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// execInTx runs all batch items on tx and commits, or rolls back on the first failure.
func execInTx(ctx context.Context, tx *sql.Tx, items []BatchItem, stmtFor func(Statement) (*sql.Stmt, error)) error {
	for i, item := range items {
		prepared, err := stmtFor(item.Statement)
		if err != nil {
			return errors.Join(err, tx.Rollback())
		}

		result, err := tx.StmtContext(ctx, prepared).ExecContext(ctx, item.Args...)
		if err != nil {
			return errors.Join(err, tx.Rollback())
		}

		if !item.MustApply {
			continue
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return errors.Join(err, tx.Rollback())
		}

		if affected == 0 {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				return errors.Join(&NotAppliedError{Index: i}, rollbackErr)
			}

			return &NotAppliedError{Index: i}
		}
	}

	return tx.Commit()
}

var errForeignStatement = errors.New("statement was not prepared by this adapter")
