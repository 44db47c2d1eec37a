// Package wiring assembles the view store, stock manager, coordinator, and query gateway
// from the runtime configuration. It owns the database connections and closes them last.
package wiring

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/circulation"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
	"github.com/AntonStoeckl/library-views-go/catalog/stock"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore/migrations"
	"github.com/AntonStoeckl/library-views-go/config"
)

// Options carry the optional collaborators of Open.
type Options struct {
	Logger  catalog.Logger
	Metrics catalog.MetricsCollector

	// Migrate applies pending schema migrations before the statements are prepared.
	Migrate bool
}

// Library bundles the components of one running process.
type Library struct {
	Store       *viewstore.ViewStore
	Stock       *stock.Manager
	Coordinator *circulation.Coordinator
	Gateway     *query.Gateway

	closers []func() error
}

// Open connects to the configured database and builds all components.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*Library, error) {
	lib := &Library{}

	storeOptions := []viewstore.Option{}
	if opts.Logger != nil {
		storeOptions = append(storeOptions, viewstore.WithLogger(opts.Logger))
	}
	if opts.Metrics != nil {
		storeOptions = append(storeOptions, viewstore.WithMetrics(opts.Metrics))
	}

	store, err := lib.openStore(ctx, cfg, opts.Migrate, storeOptions)
	if err != nil {
		return nil, errors.Join(err, lib.Close())
	}

	lib.Store = store
	lib.closers = append([]func() error{store.Close}, lib.closers...)

	stockOptions := []stock.Option{stock.WithClampOnReturn(cfg.StockClampOnReturn)}
	coordinatorOptions := []circulation.Option{}
	gatewayOptions := []query.Option{}

	if opts.Logger != nil {
		stockOptions = append(stockOptions, stock.WithLogger(opts.Logger))
		coordinatorOptions = append(coordinatorOptions, circulation.WithLogger(opts.Logger))
	}

	if opts.Metrics != nil {
		coordinatorOptions = append(coordinatorOptions, circulation.WithMetrics(opts.Metrics))
		gatewayOptions = append(gatewayOptions, query.WithMetrics(opts.Metrics))
	}

	lib.Stock = stock.NewManager(store, stockOptions...)
	lib.Coordinator = circulation.NewCoordinator(store, lib.Stock, coordinatorOptions...)
	lib.Gateway = query.NewGateway(store, gatewayOptions...)

	return lib, nil
}

// Close releases the store and the connections in reverse order of creation.
func (l *Library) Close() error {
	var errs []error
	for _, closer := range l.closers {
		errs = append(errs, closer())
	}
	l.closers = nil

	return errors.Join(errs...)
}

func (l *Library) openStore(
	ctx context.Context,
	cfg *config.Config,
	migrate bool,
	options []viewstore.Option,
) (*viewstore.ViewStore, error) {
	if migrate {
		if err := Migrate(ctx, cfg); err != nil {
			return nil, err
		}
	}

	switch cfg.AdapterType {
	case config.AdapterPGXPool:
		pool, err := l.openPGXPool(ctx, cfg, cfg.DSN)
		if err != nil {
			return nil, err
		}

		if cfg.ReplicaDSN == "" {
			return viewstore.NewViewStoreFromPGXPool(pool, options...)
		}

		replica, err := l.openPGXPool(ctx, cfg, cfg.ReplicaDSN)
		if err != nil {
			return nil, err
		}

		return viewstore.NewViewStoreFromPGXPoolAndReplica(pool, replica, options...)

	case config.AdapterSQLDB:
		db, err := cfg.OpenPostgresSQLDB(ctx, cfg.DSN)
		if err != nil {
			return nil, errors.Join(catalog.ErrStore, err)
		}
		l.closers = append([]func() error{db.Close}, l.closers...)

		return viewstore.NewViewStoreFromSQLDB(db, options...)

	case config.AdapterSQLXDB:
		db, err := cfg.OpenPostgresSQLX(ctx, cfg.DSN)
		if err != nil {
			return nil, errors.Join(catalog.ErrStore, err)
		}
		l.closers = append([]func() error{db.Close}, l.closers...)

		return viewstore.NewViewStoreFromSQLX(db, options...)

	case config.AdapterSQLite:
		db, err := config.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, errors.Join(catalog.ErrStore, err)
		}
		l.closers = append([]func() error{db.Close}, l.closers...)

		return viewstore.NewViewStoreFromSQLDB(db, append(options, viewstore.WithDialect(viewstore.DialectSQLite))...)

	default:
		return nil, config.ErrUnknownAdapter
	}
}

func (l *Library) openPGXPool(ctx context.Context, cfg *config.Config, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := cfg.PGXPoolConfig(dsn)
	if err != nil {
		return nil, errors.Join(catalog.ErrStore, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Join(catalog.ErrStore, err)
	}

	l.closers = append([]func() error{func() error { pool.Close(); return nil }}, l.closers...)

	return pool, nil
}

// Migrate applies pending schema migrations to the configured primary database.
// PostgreSQL is migrated through a short-lived lib/pq connection whatever the adapter type.
func Migrate(ctx context.Context, cfg *config.Config) error {
	var (
		db  *sql.DB
		err error
	)

	if cfg.AdapterType == config.AdapterSQLite {
		db, err = config.OpenSQLite(ctx, cfg.SQLitePath)
	} else {
		db, err = cfg.OpenPostgresSQLDB(ctx, cfg.DSN)
	}

	if err != nil {
		return errors.Join(catalog.ErrStore, err)
	}

	return errors.Join(migrations.Up(db, cfg.Dialect()), db.Close())
}
