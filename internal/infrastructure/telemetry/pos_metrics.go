package telemetry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appledger "github.com/realmfikri/pos-shoestore/internal/application/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

const meterName = "github.com/realmfikri/pos-shoestore/pos"

// POSMetrics turns committed domain events into business counters. It
// subscribes to the event bus and also receives ledger integrity alarms.
type POSMetrics struct {
	logger *zap.Logger

	salesCompleted      *Counter
	saleRevenue         *Counter
	unitsSold           *Counter
	saleSize            *Histogram
	stockMovements      *Counter
	unitsReceived       *Counter
	receiptsPosted      *Counter
	ordersCancelled     *Counter
	integrityViolations *Counter
	rejections          *Counter
}

// NewPOSMetrics registers every POS instrument on meter
func NewPOSMetrics(meter metric.Meter, logger *zap.Logger) (*POSMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &POSMetrics{logger: logger}

	counters := []struct {
		dst               **Counter
		name, desc, unit string
	}{
		{&m.salesCompleted, "pos_sales_completed_total", "Completed sales", "{sale}"},
		{&m.saleRevenue, "pos_sale_amount_cents_total", "Sale totals in minor currency units", "{cent}"},
		{&m.unitsSold, "pos_units_sold_total", "Units sold across all variants", "{unit}"},
		{&m.stockMovements, "pos_stock_movements_total", "Ledger entries appended outside sales and receipts", "{entry}"},
		{&m.unitsReceived, "pos_units_received_total", "Units received against purchase orders", "{unit}"},
		{&m.receiptsPosted, "pos_goods_receipts_total", "Goods receipts posted", "{receipt}"},
		{&m.ordersCancelled, "pos_purchase_orders_cancelled_total", "Cancelled purchase orders", "{order}"},
		{&m.integrityViolations, "pos_ledger_integrity_violations_total", "Computed on-hand observed below zero", "{violation}"},
		{&m.rejections, "pos_rejected_operations_total", "Business rule rejections by error code", "{request}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	saleSize, err := NewHistogram(meter, "pos_sale_units", "Units per completed sale", "{unit}", SaleSizeBuckets...)
	if err != nil {
		return nil, err
	}
	m.saleSize = saleSize
	return m, nil
}

// NewPOSMetricsFromProvider uses the provider's POS meter
func NewPOSMetricsFromProvider(mp *MeterProvider, logger *zap.Logger) (*POSMetrics, error) {
	return NewPOSMetrics(mp.Meter(meterName), logger)
}

// EventTypes lists the events the metrics consume
func (m *POSMetrics) EventTypes() []string {
	return []string{
		sales.EventTypeSaleCompleted,
		ledger.EventTypeStockAdjusted,
		ledger.EventTypeStockInitialized,
		purchasing.EventTypeGoodsReceived,
		purchasing.EventTypePurchaseOrderCancelled,
	}
}

// Handle records one event. Unknown events are ignored.
func (m *POSMetrics) Handle(ctx context.Context, ev shared.DomainEvent) error {
	switch e := ev.(type) {
	case *sales.SaleCompletedEvent:
		m.salesCompleted.Inc(ctx)
		m.saleRevenue.Add(ctx, e.TotalCents)
		m.unitsSold.Add(ctx, e.UnitsSold)
		m.saleSize.Record(ctx, e.UnitsSold)
	case *ledger.StockMovedEvent:
		m.stockMovements.Inc(ctx, AttrEntryType.String(string(e.EntryType)))
	case *purchasing.GoodsReceivedEvent:
		var units int64
		for _, l := range e.Lines {
			units += l.Quantity
		}
		m.receiptsPosted.Inc(ctx, AttrOrderStatus.String(string(e.Status)))
		m.unitsReceived.Add(ctx, units)
	case *purchasing.PurchaseOrderCancelledEvent:
		m.ordersCancelled.Inc(ctx)
	}
	return nil
}

// ReportNegativeOnHand counts and logs a variant whose ledger sums below zero
func (m *POSMetrics) ReportNegativeOnHand(ctx context.Context, variantID uuid.UUID, onHand int64) {
	m.integrityViolations.Inc(ctx)
	m.logger.Error("Ledger integrity violation: negative on-hand",
		zap.String("variant_id", variantID.String()),
		zap.Int64("on_hand", onHand),
	)
}

// RecordRejection counts a request refused by a business rule
func (m *POSMetrics) RecordRejection(ctx context.Context, code string) {
	m.rejections.Inc(ctx, attribute.String("code", code))
}

var (
	_ shared.EventHandler          = (*POSMetrics)(nil)
	_ appledger.IntegrityReporter = (*POSMetrics)(nil)
)
