package viewstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

// Dialect names the SQL flavor of the connected database.
type Dialect string

const (
	// DialectPostgres targets PostgreSQL with native uuid and timestamptz columns.
	DialectPostgres Dialect = "postgres"

	// DialectSQLite targets SQLite, which stores ids and timestamps as TEXT.
	DialectSQLite Dialect = "sqlite3"
)

// sqliteTimestampLayout has a fixed width so that TEXT ordering equals time ordering.
const sqliteTimestampLayout = "2006-01-02 15:04:05.000000"

// timeArg converts a timestamp into the value bound for the dialect's timestamp columns.
func (d Dialect) timeArg(t time.Time) any {
	t = catalog.NormalizeTimestamp(t)

	if d == DialectSQLite {
		return t.Format(sqliteTimestampLayout)
	}

	return t
}

// decodeTime converts a scanned timestamp column into a normalized time.Time.
func decodeTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return catalog.NormalizeTimestamp(v), nil
	case string:
		return parseStoredTime(v)
	case []byte:
		return parseStoredTime(string(v))
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp column type %T", raw)
	}
}

func parseStoredTime(raw string) (time.Time, error) {
	for _, layout := range []string{sqliteTimestampLayout, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return catalog.NormalizeTimestamp(t), nil
		}
	}

	t, err := catalog.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, errors.Join(fmt.Errorf("stored timestamp %q", raw), err)
	}

	return t, nil
}
