package catalog

import (
	"context"
	"time"
)

// Logger interface for SQL query logging, operational information, warnings, and error reporting.
// *slog.Logger satisfies it, as does the zerolog adapter in internal/logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging, e.g. with request correlation ids.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting durations, counters, and gauges of catalog operations.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Metric names shared by all components.
const (
	MetricStoreQueryDuration   = "viewstore_query_duration_seconds"
	MetricStoreBatchDuration   = "viewstore_batch_duration_seconds"
	MetricStoreBatchSize       = "viewstore_batch_statements"
	MetricStoreErrors          = "viewstore_errors_total"
	MetricBorrowDuration       = "circulation_borrow_duration_seconds"
	MetricReturnDuration       = "circulation_return_duration_seconds"
	MetricCirculationOutcomes  = "circulation_outcomes_total"
	MetricConcurrencyConflicts = "circulation_concurrency_conflicts_total"
	MetricQueryRowsYielded     = "query_rows_yielded"
)

// Metric label keys and values.
const (
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"
	LabelOutcome   = "outcome"

	StatusSuccess = "success"
	StatusError   = "error"
)
