package config

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXPoolConfig creates a pgxpool.Config for dsn with the pool settings of c.
func (c *Config) PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	const defaultHealthCheckPeriod = time.Minute
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = c.MaxConns
	dbConfig.MinConns = c.MinConns
	dbConfig.MaxConnLifetime = c.MaxConnLife
	dbConfig.MaxConnIdleTime = c.ConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	return dbConfig, nil
}
