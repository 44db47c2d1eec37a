package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

// PGXAdapter implements DBAdapter for pgxpool.Pool.
type PGXAdapter struct {
	pool        *pgxpool.Pool
	replicaPool *pgxpool.Pool // optional replica for eventually consistent reads
}

// pgxStatement carries the query text only. pgx prepares and caches statements per connection.
type pgxStatement struct {
	query string
}

func (p *pgxStatement) SQL() string {
	return p.query
}

// NewPGXAdapter creates a new PGX adapter with a primary pool.
func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool}
}

// NewPGXAdapterWithReplica creates a new PGX adapter with a primary pool and a replica pool.
func NewPGXAdapterWithReplica(pool *pgxpool.Pool, replica *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{pool: pool, replicaPool: replica}
}

// Prepare wraps the query text.
func (p *PGXAdapter) Prepare(_ context.Context, query string) (Statement, error) {
	return &pgxStatement{query: query}, nil
}

// Query executes a query on the replica pool for eventual consistency if one is configured,
// otherwise on the primary pool.
func (p *PGXAdapter) Query(ctx context.Context, stmt Statement, args ...any) (DBRows, error) {
	pool := p.pool

	if p.replicaPool != nil && catalog.GetConsistencyLevel(ctx) == catalog.EventualConsistency {
		pool = p.replicaPool
	}

	rows, err := pool.Query(ctx, stmt.SQL(), args...)
	if err != nil {
		return nil, err
	}

	return &pgxRows{rows: rows}, nil
}

// Exec executes a statement using the primary pool and returns wrapped result.
func (p *PGXAdapter) Exec(ctx context.Context, stmt Statement, args ...any) (DBResult, error) {
	tag, err := p.pool.Exec(ctx, stmt.SQL(), args...)
	if err != nil {
		return nil, err
	}

	return &pgxResult{tag: tag}, nil
}

// ExecBatch sends all items as one pgx.Batch inside a transaction on the primary pool.
func (p *PGXAdapter) ExecBatch(ctx context.Context, items []BatchItem) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(item.Statement.SQL(), item.Args...)
	}

	results := tx.SendBatch(ctx, batch)

	for i, item := range items {
		tag, execErr := results.Exec()
		if execErr != nil {
			return errors.Join(execErr, results.Close(), tx.Rollback(ctx))
		}

		if item.MustApply && tag.RowsAffected() == 0 {
			return errors.Join(&NotAppliedError{Index: i}, results.Close(), tx.Rollback(ctx))
		}
	}

	if err = results.Close(); err != nil {
		return errors.Join(err, tx.Rollback(ctx))
	}

	return tx.Commit(ctx)
}

// Close is a no-op. The pools are owned by the caller.
func (p *PGXAdapter) Close() error {
	return nil
}

// pgxRows wraps pgx.Rows to implement the DBRows interface.
type pgxRows struct {
	rows pgx.Rows
}

func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

func (p *pgxRows) Scan(dest ...any) error {
	return p.rows.Scan(dest...)
}

func (p *pgxRows) Err() error {
	return p.rows.Err()
}

func (p *pgxRows) Close() error {
	p.rows.Close()
	return nil
}

// pgxResult wraps pgconn.CommandTag to implement the DBResult interface.
type pgxResult struct {
	tag pgconn.CommandTag
}

func (p *pgxResult) RowsAffected() (int64, error) {
	return p.tag.RowsAffected(), nil
}
