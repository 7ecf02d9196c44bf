package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/realmfikri/pos-shoestore/internal/application/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/partner"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles purchase orders and goods receiving
type Service struct {
	scope     ledgerapp.TransactionScope
	orders    purchasing.PurchaseOrderRepository
	receipts  purchasing.GoodsReceiptRepository
	suppliers partner.SupplierRepository
	variants  catalog.VariantRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new purchasing Service
func NewService(
	scope ledgerapp.TransactionScope,
	orders purchasing.PurchaseOrderRepository,
	receipts purchasing.GoodsReceiptRepository,
	suppliers partner.SupplierRepository,
	variants catalog.VariantRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scope:     scope,
		orders:    orders,
		receipts:  receipts,
		suppliers: suppliers,
		variants:  variants,
		publisher: shared.NoopEventPublisher{},
		logger:    logger,
	}
}

// SetEventPublisher sets the publisher used after commits
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	if publisher != nil {
		s.publisher = publisher
	}
}

// Create validates and stores a DRAFT purchase order
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if req.SupplierID == uuid.Nil {
		return nil, shared.NewValidationError("supplier id is required")
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("purchase order must have at least one item")
	}
	if _, err := s.suppliers.FindByID(ctx, req.SupplierID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("supplier %s does not exist", req.SupplierID)
		}
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.VariantID)
	}
	variants, err := s.variants.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	costs := make(map[uuid.UUID]int64, len(variants))
	for _, v := range variants {
		costs[v.ID] = v.CostCents
	}

	inputs := make([]purchasing.ItemInput, len(req.Items))
	for i, it := range req.Items {
		defaultCost, ok := costs[it.VariantID]
		if !ok {
			return nil, shared.NewValidationError("item %d: variant %s does not exist", i+1, it.VariantID)
		}
		cost := defaultCost
		if it.CostCents != nil {
			cost = *it.CostCents
		}
		inputs[i] = purchasing.ItemInput{VariantID: it.VariantID, QuantityOrdered: it.QuantityOrdered, CostCents: cost}
	}

	number, err := s.orders.NextOrderNumber(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	order, err := purchasing.NewPurchaseOrder(number, req.SupplierID, inputs, req.Note, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(order.Items)),
	)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID returns an order with items and receipts
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List returns orders newest first
func (s *Service) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := purchasing.OrderFilter{
		Filter:     shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize(),
		SupplierID: filter.SupplierID,
	}
	if filter.Status != "" {
		status := purchasing.OrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("unknown purchase order status %q", filter.Status)
		}
		domainFilter.Status = &status
	}
	orders, total, err := s.orders.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

// Receipts lists the goods receipts of an order
func (s *Service) Receipts(ctx context.Context, orderID uuid.UUID) ([]ReceiptResponse, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	receipts, err := s.receipts.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]ReceiptResponse, len(receipts))
	for i := range receipts {
		out[i] = ToReceiptResponse(&receipts[i])
	}
	return out, nil
}

// Receive records a goods receipt: the order row is locked, the receipt is
// validated against outstanding quantities, then the affected variants are
// locked and one RECEIPT entry is appended per received line.
func (s *Service) Receive(ctx context.Context, orderID uuid.UUID, req ReceiveRequest) (*ReceiveResponse, error) {
	entries := make([]purchasing.ReceiveEntry, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = purchasing.ReceiveEntry{ItemID: e.ItemID, QuantityReceived: e.QuantityReceived, CostCents: e.CostCents}
	}

	var (
		order   *purchasing.PurchaseOrder
		receipt *purchasing.GoodsReceipt
	)
	err := s.scope.Execute(ctx, func(repos ledgerapp.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		receipt, err = order.Receive(entries, req.ReceivedBy, req.Note)
		if err != nil {
			return err
		}

		quantities := make(map[uuid.UUID]int64, len(receipt.Items))
		for _, it := range receipt.Items {
			quantities[it.VariantID] += it.QuantityReceived
		}
		if _, err := repos.Variants().LockForUpdate(ctx, ledgerapp.SortedIDs(quantities)); err != nil {
			return err
		}

		if err := repos.GoodsReceipts().Create(ctx, receipt); err != nil {
			return err
		}
		reference := ledger.ReceiptReference(receipt.ID)
		reason := fmt.Sprintf("received on %s", order.OrderNumber)
		for _, it := range receipt.Items {
			entry, err := ledger.NewEntry(it.VariantID, it.QuantityReceived, ledger.EntryTypeReceipt, reason, reference, req.ReceivedBy)
			if err != nil {
				return err
			}
			if err := repos.Entries().Append(ctx, entry); err != nil {
				return err
			}
		}
		return repos.PurchaseOrders().Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("goods received",
		zap.String("order_id", order.ID.String()),
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("status", order.Status.String()),
		zap.Int64("units", receipt.TotalUnits()),
	)
	s.publish(ctx, order)

	if fresh, err := s.orders.FindByID(ctx, order.ID); err == nil {
		order = fresh
	} else {
		s.logger.Warn("failed to reload purchase order", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
	return &ReceiveResponse{Order: ToOrderResponse(order), Receipt: ToReceiptResponse(receipt)}, nil
}

// Cancel closes an open order. Stock already received is untouched.
func (s *Service) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	var order *purchasing.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos ledgerapp.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(reason); err != nil {
			return err
		}
		return repos.PurchaseOrders().Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order cancelled", zap.String("order_id", order.ID.String()))
	s.publish(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *Service) publish(ctx context.Context, order *purchasing.PurchaseOrder) {
	if err := s.publisher.Publish(ctx, order.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish purchase order events", zap.Error(err))
	}
	order.ClearDomainEvents()
}
