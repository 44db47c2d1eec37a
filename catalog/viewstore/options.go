package viewstore

import (
	"github.com/AntonStoeckl/library-views-go/catalog"
)

// Option defines a functional option for configuring a ViewStore.
type Option func(*ViewStore) error

// WithLogger sets the logger for the ViewStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Written books, users, and applied batches (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Failures that cause operation failures.
func WithLogger(logger catalog.Logger) Option {
	return func(s *ViewStore) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the ViewStore.
// It will receive query and batch durations, batch sizes, and database errors.
func WithMetrics(collector catalog.MetricsCollector) Option {
	return func(s *ViewStore) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithDialect sets the SQL dialect statements are built for. The default is DialectPostgres.
// Only *sql.DB and *sqlx.DB connections can use DialectSQLite.
func WithDialect(dialect Dialect) Option {
	return func(s *ViewStore) error {
		switch dialect {
		case DialectPostgres, DialectSQLite:
			s.dialect = dialect
			return nil
		default:
			return ErrUnsupportedDialect
		}
	}
}
