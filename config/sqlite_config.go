package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// SQLiteDSN returns the DSN of an SQLite file with WAL journaling, a busy timeout, and
// immediate write transactions, so that concurrent batches queue instead of failing.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
}

// OpenSQLite opens and pings an SQLite database file.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	const maxOpenConnections = 4

	db, err := sql.Open("sqlite3", SQLiteDSN(path))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConnections)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, errors.Join(pingErr, db.Close())
	}

	return db, nil
}
