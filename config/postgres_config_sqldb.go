package config

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq" // postgres driver
)

// OpenPostgresSQLDB opens and pings a configured *sql.DB for dsn using lib/pq.
func (c *Config) OpenPostgresSQLDB(ctx context.Context, dsn string) (*sql.DB, error) {
	const defaultMaxIdleConnections = 2

	db, err := sql.Open("postgres", dsn)
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
