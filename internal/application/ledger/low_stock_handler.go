package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"go.uber.org/zap"
)

// Alert types
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// OnHandReader derives current on-hand for a variant
type OnHandReader interface {
	ComputeOnHand(ctx context.Context, variantID uuid.UUID) (int64, error)
}

// StockAlert is raised when a variant's on-hand drops to the threshold
type StockAlert struct {
	VariantID uuid.UUID `json:"variant_id"`
	OnHand    int64     `json:"on_hand"`
	Threshold int64     `json:"threshold"`
	AlertType string    `json:"alert_type"`
	Cause     string    `json:"cause"`
}

// StockAlertNotifier delivers stock alerts
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// LowStockHandler watches stock-decreasing events and alerts when a variant
// reaches the configured threshold.
type LowStockHandler struct {
	reader    OnHandReader
	threshold int64
	notifier  StockAlertNotifier
	logger    *zap.Logger
}

// NewLowStockHandler creates a handler alerting at or below threshold
func NewLowStockHandler(reader OnHandReader, threshold int64, logger *zap.Logger) *LowStockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockHandler{
		reader:    reader,
		threshold: threshold,
		notifier:  NewLoggingStockAlertNotifier(logger),
		logger:    logger,
	}
}

// WithNotifier replaces the logging notifier
func (h *LowStockHandler) WithNotifier(notifier StockAlertNotifier) *LowStockHandler {
	if notifier != nil {
		h.notifier = notifier
	}
	return h
}

// EventTypes returns the events that can lower on-hand
func (h *LowStockHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleCompleted, ledger.EventTypeStockAdjusted}
}

// Handle checks every variant touched by the event
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch ev := event.(type) {
	case *sales.SaleCompletedEvent:
		seen := make(map[uuid.UUID]struct{}, len(ev.Lines))
		for _, line := range ev.Lines {
			if _, dup := seen[line.VariantID]; dup {
				continue
			}
			seen[line.VariantID] = struct{}{}

			onHand, err := h.reader.ComputeOnHand(ctx, line.VariantID)
			if err != nil {
				h.logger.Warn("low stock check failed",
					zap.String("variant_id", line.VariantID.String()),
					zap.Error(err),
				)
				continue
			}
			h.check(ctx, line.VariantID, onHand, ev.ReceiptNumber)
		}
	case *ledger.StockMovedEvent:
		if ev.QuantityChange < 0 {
			h.check(ctx, ev.VariantID, ev.OnHandAfter, string(ev.EntryType))
		}
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

func (h *LowStockHandler) check(ctx context.Context, variantID uuid.UUID, onHand int64, cause string) {
	if h.threshold < 0 || onHand > h.threshold {
		return
	}
	alert := StockAlert{
		VariantID: variantID,
		OnHand:    onHand,
		Threshold: h.threshold,
		AlertType: AlertTypeLowStock,
		Cause:     cause,
	}
	if onHand <= 0 {
		alert.AlertType = AlertTypeOutOfStock
	}
	// notification failure never fails the committed operation
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		h.logger.Error("failed to send stock alert",
			zap.String("variant_id", variantID.String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventHandler = (*LowStockHandler)(nil)

// LoggingStockAlertNotifier writes alerts to the log
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

// SendAlert logs the alert at Warn
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("stock alert",
		zap.String("type", alert.AlertType),
		zap.String("variant_id", alert.VariantID.String()),
		zap.Int64("on_hand", alert.OnHand),
		zap.Int64("threshold", alert.Threshold),
		zap.String("cause", alert.Cause),
	)
	return nil
}
