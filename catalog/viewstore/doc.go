// Package viewstore persists the denormalized views of the library catalog.
//
// The ViewStore exclusively owns persisted state. It writes books, users, and borrow
// events under every key they are read by, and exposes batch building blocks that the
// circulation coordinator combines into one atomic batch per logical event.
//
// Three connection types are supported through internal adapters:
//
//   - *pgxpool.Pool (optionally with a replica pool for eventually consistent reads)
//   - *sql.DB (lib/pq for PostgreSQL, mattn/go-sqlite3 for an embedded database)
//   - *sqlx.DB
//
// All statements are built once at construction with goqu for the configured dialect
// and prepared on the connection. Driver errors never escape this package: they are
// joined with catalog.ErrStore.
//
// Listing operations return iter.Seq2 sequences. Each range over such a sequence issues
// the query again; rows are held open only while the range loop runs.
//
// AllBooks and AllUsers scan whole tables. They are meant for small catalogs and
// administration, not for request paths.
package viewstore
