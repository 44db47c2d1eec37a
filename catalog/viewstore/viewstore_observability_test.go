package viewstore_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-views-go/catalog"
	. "github.com/AntonStoeckl/library-views-go/catalog/viewstore"            //nolint:revive
	. "github.com/AntonStoeckl/library-views-go/testutil/helper"              //nolint:revive
	. "github.com/AntonStoeckl/library-views-go/testutil/helper/storewrapper" //nolint:revive
)

func Test_ViewStore_WithLogger_ShouldLogSQLAndOperations(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := NewLogHandlerSpy(false)
	wrapper := CreateWrapperWithTestConfig(t, WithLogger(slog.New(logHandler)))
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// act
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 1)
	_, _, err := vs.GetBookByISBN(ctx, book.ISBN)

	// assert
	assert.NoError(t, err)
	assert.True(t, logHandler.HasDebugLogWithMessage("executed sql for: create_book").WithDurationMS().WithAttrKey("query").Assert())
	assert.True(t, logHandler.HasDebugLogWithMessage("executed sql for: get_book").WithDurationMS().Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("viewstore operation: create_book").WithAttr("isbn", book.ISBN).Assert())
}

func Test_ViewStore_WithLogger_ShouldLogGuardedRejections(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler := NewLogHandlerSpy(false)
	wrapper := CreateWrapperWithTestConfig(t, WithLogger(slog.New(logHandler)))
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 1)

	// act
	err := vs.ApplyBatch(ctx, vs.StockCompareAndSet(book.ISBN, 7, 6))

	// assert
	assert.ErrorIs(t, err, ErrConditionNotApplied)
	assert.True(t, logHandler.HasInfoLogWithMessage("viewstore operation: guarded batch entry not applied").
		WithAttrKey("batch_size").Assert())
	assert.False(t, logHandler.HasErrorLogWithMessage("database batch execution failed").Assert())
}

func Test_ViewStore_WithMetrics_ShouldRecordDurationsAndErrors(t *testing.T) {
	// setup
	ctx := context.Background()
	metricsCollector := NewMetricsCollectorSpy()
	wrapper := CreateWrapperWithTestConfig(t, WithMetrics(metricsCollector))
	defer wrapper.Close()
	CleanUp(t, wrapper)
	vs := wrapper.GetViewStore()

	// arrange
	book := GivenBookWasCreated(t, ctx, vs, GivenUniqueCategory(t, "SciFi"), 1)

	// act
	_, _, readErr := vs.GetBookByISBN(ctx, book.ISBN)
	batchErr := vs.ApplyBatch(ctx, vs.StockCompareAndSet(book.ISBN, 7, 6))

	// assert
	assert.NoError(t, readErr)
	assert.Error(t, batchErr)
	assert.True(t, metricsCollector.HasDurationRecord(catalog.MetricStoreBatchDuration, map[string]string{
		catalog.LabelOperation: "create_book",
		catalog.LabelStatus:    catalog.StatusSuccess,
	}))
	assert.True(t, metricsCollector.HasDurationRecord(catalog.MetricStoreQueryDuration, map[string]string{
		catalog.LabelOperation: "get_book",
		catalog.LabelStatus:    catalog.StatusSuccess,
	}))
	assert.True(t, metricsCollector.HasCounterRecord(catalog.MetricStoreErrors, map[string]string{
		catalog.LabelOperation: "apply_batch",
		catalog.LabelErrorType: "condition_not_applied",
	}))

	sizes := metricsCollector.GetValueRecords()
	assert.NotEmpty(t, sizes)
	assert.Equal(t, catalog.MetricStoreBatchSize, sizes[len(sizes)-1].Metric)
	assert.Equal(t, float64(1), sizes[len(sizes)-1].Value)
}

func Test_ViewStore_ShouldHonorACanceledContext(t *testing.T) {
	// setup
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	vs := wrapper.GetViewStore()

	// arrange
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	cancel()

	// act
	_, _, err := vs.GetBookByISBN(ctx, GivenUniqueISBN(t))

	// assert
	assert.ErrorIs(t, err, catalog.ErrStore)
}
