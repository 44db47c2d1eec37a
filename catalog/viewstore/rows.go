package viewstore

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/viewstore/internal/adapters"
)

// rowScanner converts the current row into a value.
type rowScanner[T any] func(rows adapters.DBRows) (T, error)

// query executes stmt and reports timing, errors, and metrics.
func (s *ViewStore) query(
	ctx context.Context,
	operation string,
	stmt adapters.Statement,
	args ...any,
) (adapters.DBRows, error) {
	start := time.Now()

	rows, err := s.db.Query(ctx, stmt, args...)
	duration := time.Since(start)
	s.logQueryWithDuration(stmt.SQL(), operation, duration)

	if err != nil {
		s.logError(logMsgDBQueryFailed, err, logAttrQuery, stmt.SQL())
		s.recordError(operation, errorTypeQuery)
		s.recordDuration(catalog.MetricStoreQueryDuration, operation, catalog.StatusError, duration)

		return nil, errors.Join(catalog.ErrStore, err)
	}

	s.recordDuration(catalog.MetricStoreQueryDuration, operation, catalog.StatusSuccess, duration)

	return rows, nil
}

func (s *ViewStore) closeRows(rows adapters.DBRows) {
	if err := rows.Close(); err != nil {
		s.logWarn(logMsgCloseRowsFailed, logAttrError, err.Error())
	}
}

// scanSeq returns a sequence that runs stmt on every range and yields scanned rows.
// A failure ends the sequence with one error element.
func scanSeq[T any](
	ctx context.Context,
	s *ViewStore,
	operation string,
	stmt adapters.Statement,
	scan rowScanner[T],
	args ...any,
) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		rows, err := s.query(ctx, operation, stmt, args...)
		if err != nil {
			yield(zero, err)
			return
		}
		defer s.closeRows(rows)

		for rows.Next() {
			item, scanErr := scan(rows)
			if scanErr != nil {
				s.logError(logMsgScanRowFailed, scanErr)
				s.recordError(operation, errorTypeScan)
				yield(zero, errors.Join(catalog.ErrStore, scanErr))

				return
			}

			if !yield(item, nil) {
				return
			}
		}

		if err = rows.Err(); err != nil {
			s.logError(logMsgDBQueryFailed, err, logAttrQuery, stmt.SQL())
			s.recordError(operation, errorTypeQuery)
			yield(zero, errors.Join(catalog.ErrStore, err))
		}
	}
}

// queryOne runs a point lookup and reports whether a row was found.
func queryOne[T any](
	ctx context.Context,
	s *ViewStore,
	operation string,
	stmt adapters.Statement,
	scan rowScanner[T],
	args ...any,
) (T, bool, error) {
	for item, err := range scanSeq(ctx, s, operation, stmt, scan, args...) {
		if err != nil {
			var zero T
			return zero, false, err
		}

		return item, true, nil
	}

	var zero T

	return zero, false, nil
}

func scanCount(rows adapters.DBRows) (int, error) {
	var count int
	err := rows.Scan(&count)

	return count, err
}
