package config

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// OpenPostgresSQLX opens and pings a configured *sqlx.DB for dsn using lib/pq.
func (c *Config) OpenPostgresSQLX(ctx context.Context, dsn string) (*sqlx.DB, error) {
	const defaultMaxIdleConnections = 2

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(int(c.MaxConns))
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(c.MaxConnLife)
	db.SetConnMaxIdleTime(c.ConnIdleTime)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, errors.Join(pingErr, db.Close())
	}

	return db, nil
}
