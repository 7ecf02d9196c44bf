package telemetry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestMetrics(t *testing.T, log *zap.Logger) (*telemetry.POSMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp, err := telemetry.NewMeterProviderWithReader(telemetry.Config{ServiceName: "pos"}, reader, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := telemetry.NewPOSMetricsFromProvider(mp, log)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data map[string]metricdata.Aggregation, name string) int64 {
	t.Helper()
	agg, ok := data[name]
	require.True(t, ok, "metric %s not collected", name)
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewPOSMetrics_NilMeter(t *testing.T) {
	m, err := telemetry.NewPOSMetrics(nil, nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
	assert.Nil(t, m)
}

func TestPOSMetrics_SaleCompleted(t *testing.T) {
	m, reader := newTestMetrics(t, nil)
	ctx := context.Background()

	for _, units := range []int64{1, 3} {
		ev := &sales.SaleCompletedEvent{
			BaseDomainEvent: shared.NewBaseDomainEvent(sales.EventTypeSaleCompleted, "Sale", uuid.New()),
			TotalCents:      units * 50000,
			UnitsSold:       units,
		}
		require.NoError(t, m.Handle(ctx, ev))
	}

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, data, "pos_sales_completed_total"))
	assert.Equal(t, int64(200000), sumOf(t, data, "pos_sale_amount_cents_total"))
	assert.Equal(t, int64(4), sumOf(t, data, "pos_units_sold_total"))

	hist, ok := data["pos_sale_units"].(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
}

func TestPOSMetrics_StockAndPurchasing(t *testing.T) {
	m, reader := newTestMetrics(t, nil)
	ctx := context.Background()

	entry, err := ledger.NewEntry(uuid.New(), -1, ledger.EntryTypeAdjustment, "damaged", "", nil)
	require.NoError(t, err)
	require.NoError(t, m.Handle(ctx, ledger.NewStockMovedEvent(entry, 4)))

	received := &purchasing.GoodsReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(purchasing.EventTypeGoodsReceived, "PurchaseOrder", uuid.New()),
		Status:          purchasing.OrderStatusPartiallyReceived,
		Lines: []purchasing.ReceivedLine{
			{VariantID: uuid.New(), Quantity: 6},
			{VariantID: uuid.New(), Quantity: 4},
		},
	}
	require.NoError(t, m.Handle(ctx, received))
	require.NoError(t, m.Handle(ctx, &purchasing.PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(purchasing.EventTypePurchaseOrderCancelled, "PurchaseOrder", uuid.New()),
	}))

	data := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, data, "pos_stock_movements_total"))
	assert.Equal(t, int64(1), sumOf(t, data, "pos_goods_receipts_total"))
	assert.Equal(t, int64(10), sumOf(t, data, "pos_units_received_total"))
	assert.Equal(t, int64(1), sumOf(t, data, "pos_purchase_orders_cancelled_total"))
}

func TestPOSMetrics_IntegrityAndRejections(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	m, reader := newTestMetrics(t, zap.New(core))
	ctx := context.Background()

	m.ReportNegativeOnHand(ctx, uuid.New(), -2)
	m.RecordRejection(ctx, "INSUFFICIENT_STOCK")
	m.RecordRejection(ctx, "INSUFFICIENT_STOCK")

	data := collect(t, reader)
	assert.Equal(t, int64(1), sumOf(t, data, "pos_ledger_integrity_violations_total"))
	assert.Equal(t, int64(2), sumOf(t, data, "pos_rejected_operations_total"))
	assert.Equal(t, 1, logs.FilterMessage("Ledger integrity violation: negative on-hand").Len())
}

func TestPOSMetrics_SubscribesToDomainEvents(t *testing.T) {
	m, _ := newTestMetrics(t, nil)
	assert.ElementsMatch(t, []string{
		"sale.completed", "stock.adjusted", "stock.initialized", "goods.received", "purchase_order.cancelled",
	}, m.EventTypes())
}
