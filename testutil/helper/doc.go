// Package helper provides test doubles for the observability interfaces of the catalog:
// a slog.Handler spy for the Logger interface and a MetricsCollector spy.
package helper
