package adapters

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotApplied signals that a conditional statement of a batch affected no row.
var ErrNotApplied = errors.New("conditional statement not applied")

// DBAdapter defines the interface for database operations needed by the view store.
type DBAdapter interface {
	Prepare(ctx context.Context, query string) (Statement, error)
	Query(ctx context.Context, stmt Statement, args ...any) (DBRows, error)
	Exec(ctx context.Context, stmt Statement, args ...any) (DBResult, error)
	ExecBatch(ctx context.Context, items []BatchItem) error
	Close() error
}

// Statement is a query prepared by a DBAdapter.
type Statement interface {
	SQL() string
}

// BatchItem is one statement of an atomic batch.
type BatchItem struct {
	Statement Statement
	Args      []any
	MustApply bool
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}

// NotAppliedError reports which batch item affected no row.
type NotAppliedError struct {
	Index int
}

func (e *NotAppliedError) Error() string {
	return fmt.Sprintf("%s: batch item %d", ErrNotApplied.Error(), e.Index)
}

func (e *NotAppliedError) Is(target error) bool {
	return target == ErrNotApplied
}
