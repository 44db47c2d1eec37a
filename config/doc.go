// Package config loads the runtime configuration of the library tools from environment
// variables (optionally read from a .env file) and provides factory functions for the
// supported database connections: pgx.Pool, sql.DB, and sqlx.DB for PostgreSQL, and
// sql.DB for an embedded SQLite file.
package config
