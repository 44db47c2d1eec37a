package viewstore

import (
	"math"
	"time"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if the logger is configured.
func (s *ViewStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s *ViewStore) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level if the logger is configured.
func (s *ViewStore) logWarn(message string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(message, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (s *ViewStore) logError(message string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func (s *ViewStore) recordDuration(metric string, operation, status string, duration time.Duration) {
	if s.metricsCollector != nil {
		s.metricsCollector.RecordDuration(metric, duration, map[string]string{
			catalog.LabelOperation: operation,
			catalog.LabelStatus:    status,
		})
	}
}

func (s *ViewStore) recordError(operation, errorType string) {
	if s.metricsCollector != nil {
		s.metricsCollector.IncrementCounter(catalog.MetricStoreErrors, map[string]string{
			catalog.LabelOperation: operation,
			catalog.LabelStatus:    catalog.StatusError,
			catalog.LabelErrorType: errorType,
		})
	}
}

func (s *ViewStore) recordBatchSize(operation string, size int) {
	if s.metricsCollector != nil {
		s.metricsCollector.RecordValue(catalog.MetricStoreBatchSize, float64(size), map[string]string{
			catalog.LabelOperation: operation,
		})
	}
}
