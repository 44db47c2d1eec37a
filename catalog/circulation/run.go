package circulation

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

// run tracks one request through its states.
type run struct {
	operation string
	userID    uuid.UUID
	isbn      string
	logger    catalog.Logger
	outcome   Outcome
}

func (c *Coordinator) newRun(operation string, userID uuid.UUID, isbn string) *run {
	return &run{
		operation: operation,
		userID:    userID,
		isbn:      catalog.NormalizeISBN(isbn),
		logger:    c.logger,
		outcome:   Outcome{State: Requested, LastReached: Requested},
	}
}

func (r *run) advance(next State) {
	r.outcome.State = next
	r.outcome.LastReached = next

	if r.logger != nil {
		r.logger.Debug(logMsgTransition+next.String(), logAttrUserID, r.userID.String(), logAttrISBN, r.isbn)
	}
}

func (r *run) fail(err error) {
	r.outcome.State = Failed
	r.outcome.Err = err
}

// finish stamps the duration, logs the result, and records metrics.
func (c *Coordinator) finish(r *run, start time.Time) Outcome {
	r.outcome.Duration = time.Since(start)
	label := r.outcome.outcomeLabel()

	c.log(r, label)
	c.recordOutcome(r, label)

	return r.outcome
}

func (c *Coordinator) log(r *run, label string) {
	if c.logger == nil {
		return
	}

	args := []any{
		logAttrUserID, r.userID.String(),
		logAttrISBN, r.isbn,
		logAttrOutcome, label,
		logAttrState, r.outcome.LastReached.String(),
		logAttrDuration, math.Round(float64(r.outcome.Duration.Nanoseconds())/1e3) / 1e3,
	}

	switch {
	case r.outcome.Err == nil:
		args = append(args,
			logAttrBorrowAt, catalog.FormatTimestamp(r.outcome.Record.BorrowedAt),
			logAttrStock, r.outcome.StockAfter,
		)
		c.logger.Info(logMsgCompleted+r.operation, args...)
	case isDenial(r.outcome.Err):
		c.logger.Info(logMsgDenied+r.operation, append(args, logAttrError, r.outcome.Err.Error())...)
	default:
		c.logger.Error(logMsgFailed+r.operation, append(args, logAttrError, r.outcome.Err.Error())...)
	}
}

// isDenial reports errors that are expected business results rather than failures.
func isDenial(err error) bool {
	for _, denial := range []error{
		catalog.ErrInsufficientStock,
		catalog.ErrConcurrencyConflict,
		catalog.ErrNotFound,
		catalog.ErrRecordNotFound,
		catalog.ErrAlreadyReturned,
	} {
		if errors.Is(err, denial) {
			return true
		}
	}

	return false
}

func (c *Coordinator) recordOutcome(r *run, label string) {
	if c.metricsCollector == nil {
		return
	}

	status := catalog.StatusSuccess
	if r.outcome.Err != nil {
		status = catalog.StatusError
	}

	metric := catalog.MetricBorrowDuration
	if r.operation == opReturn {
		metric = catalog.MetricReturnDuration
	}

	c.metricsCollector.RecordDuration(metric, r.outcome.Duration, map[string]string{
		catalog.LabelOperation: r.operation,
		catalog.LabelStatus:    status,
	})

	c.metricsCollector.IncrementCounter(catalog.MetricCirculationOutcomes, map[string]string{
		catalog.LabelOperation: r.operation,
		catalog.LabelOutcome:   label,
	})
}

func (c *Coordinator) recordConflict(operation string) {
	if c.metricsCollector != nil {
		c.metricsCollector.IncrementCounter(catalog.MetricConcurrencyConflicts, map[string]string{
			catalog.LabelOperation: operation,
		})
	}
}
