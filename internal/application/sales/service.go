package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	ledgerapp "github.com/realmfikri/pos-shoestore/internal/application/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

const (
	// DefaultIdempotencyTTL is how long a completed key answers replays
	DefaultIdempotencyTTL = 24 * time.Hour

	idempotencyKeyPrefix = "pos:idem:sale:"
)

// Service settles carts into sales and their SALE ledger entries
type Service struct {
	scope          ledgerapp.TransactionScope
	sales          sales.SaleRepository
	variants       catalog.VariantRepository
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	publisher      shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new sales Service
func NewService(scope ledgerapp.TransactionScope, saleRepo sales.SaleRepository, variantRepo catalog.VariantRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scope:          scope,
		sales:          saleRepo,
		variants:       variantRepo,
		idempotencyTTL: DefaultIdempotencyTTL,
		publisher:      shared.NoopEventPublisher{},
		logger:         logger,
	}
}

// SetEventPublisher sets the publisher used after commits
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	if publisher != nil {
		s.publisher = publisher
	}
}

// SetIdempotencyStore enables fast-path replay detection for Idempotency-Key
func (s *Service) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// CompleteSale validates the cart, checks stock under row locks and commits
// the sale, its SALE entries and payments atomically. A request repeating a
// completed idempotency key returns the original sale.
func (s *Service) CompleteSale(ctx context.Context, req CompleteSaleRequest) (*SaleResponse, error) {
	key := strings.TrimSpace(req.IdempotencyKey)
	req.IdempotencyKey = key
	if len(key) > sales.MaxIdempotencyKeyLength {
		return nil, shared.NewValidationError("idempotency key cannot exceed %d characters", sales.MaxIdempotencyKeyLength)
	}

	if key != "" {
		replay, err := s.claimKey(ctx, key)
		if err != nil || replay != nil {
			return replay, err
		}
	}

	sale, err := s.settle(ctx, req)
	if err != nil {
		if key != "" {
			if errors.Is(err, shared.ErrAlreadyExists) {
				// lost a race on the unique key index
				if existing, findErr := s.sales.FindByIdempotencyKey(ctx, key); findErr == nil {
					resp := ToSaleResponse(existing)
					return &resp, nil
				}
			}
			s.releaseKey(ctx, key)
		}
		return nil, err
	}

	if key != "" {
		s.completeKey(ctx, key, sale.ID)
	}

	s.logger.Info("sale completed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("receipt_number", sale.ReceiptNumber),
		zap.Int64("total_cents", sale.TotalCents),
		zap.Int64("units", sale.UnitsSold()),
	)
	if err := s.publisher.Publish(ctx, sale.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish sale events", zap.Error(err))
	}
	sale.ClearDomainEvents()

	resp := ToSaleResponse(sale)
	return &resp, nil
}

func (s *Service) settle(ctx context.Context, req CompleteSaleRequest) (*sales.Sale, error) {
	lines := req.lineInputs()
	if err := sales.ValidateCart(lines); err != nil {
		return nil, err
	}
	payments, err := req.paymentInputs()
	if err != nil {
		return nil, err
	}
	requested := sales.RequestedQuantities(lines)
	ids := ledgerapp.SortedIDs(requested)

	// taken outside the transaction so tills never queue on the counter
	receiptNumber, err := s.sales.NextReceiptNumber(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	var sale *sales.Sale
	err = s.scope.Execute(ctx, func(repos ledgerapp.TransactionalRepositories) error {
		locked, err := repos.Variants().LockForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		for _, v := range locked {
			if !v.Active {
				return shared.NewValidationError("variant %s is not active", v.SKU)
			}
		}
		onHand, err := repos.Entries().SumByVariants(ctx, ids)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := ledger.EnsureAvailable(id, onHand[id], requested[id]); err != nil {
				return err
			}
		}

		sale, err = sales.NewSale(receiptNumber, lines, payments, req.SaleDiscountCents, req.TaxCents, req.CashierID, req.IdempotencyKey)
		if err != nil {
			return err
		}
		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}
		reference := ledger.SaleReference(sale.ID)
		for _, line := range sale.Lines {
			entry, err := ledger.NewEntry(line.VariantID, -line.Quantity, ledger.EntryTypeSale, "", reference, req.CashierID)
			if err != nil {
				return err
			}
			if err := repos.Entries().Append(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// claimKey returns the original sale for a replayed key, or nil when the
// caller should proceed with a fresh settlement.
func (s *Service) claimKey(ctx context.Context, key string) (*SaleResponse, error) {
	if s.idempotency == nil {
		return s.findByKey(ctx, key)
	}

	storeKey := idempotencyKeyPrefix + key
	reserved, err := s.idempotency.Reserve(ctx, storeKey, s.idempotencyTTL)
	if err != nil {
		s.logger.Warn("idempotency store unavailable, falling back to database", zap.Error(err))
		return s.findByKey(ctx, key)
	}
	if reserved {
		return nil, nil
	}

	value, err := s.idempotency.Get(ctx, storeKey)
	if err != nil {
		s.logger.Warn("idempotency lookup failed, falling back to database", zap.Error(err))
		return s.findByKey(ctx, key)
	}
	if value == shared.IdempotencyPending {
		return nil, shared.ErrIdempotencyInProgress.WithDetail("idempotency_key", key)
	}
	if saleID, err := uuid.Parse(value); err == nil {
		if sale, err := s.sales.FindByID(ctx, saleID); err == nil {
			resp := ToSaleResponse(sale)
			return &resp, nil
		}
	}
	return s.findByKey(ctx, key)
}

func (s *Service) findByKey(ctx context.Context, key string) (*SaleResponse, error) {
	sale, err := s.sales.FindByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

func (s *Service) completeKey(ctx context.Context, key string, saleID uuid.UUID) {
	if s.idempotency == nil {
		return
	}
	if err := s.idempotency.Complete(ctx, idempotencyKeyPrefix+key, saleID.String(), s.idempotencyTTL); err != nil {
		s.logger.Warn("failed to record idempotency key", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) releaseKey(ctx context.Context, key string) {
	if s.idempotency == nil {
		return
	}
	if err := s.idempotency.Release(ctx, idempotencyKeyPrefix+key); err != nil {
		s.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
	}
}

// GetByID returns one sale
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// List returns sales newest first
func (s *Service) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, 0, shared.NewValidationError("date_to must not be before date_from")
	}
	found, total, err := s.sales.FindAll(ctx, sales.SaleFilter{
		Filter:    shared.Filter{Page: filter.Page, PageSize: filter.PageSize}.Normalize(),
		DateFrom:  filter.DateFrom,
		DateTo:    filter.DateTo,
		CashierID: filter.CashierID,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]SaleResponse, len(found))
	for i := range found {
		out[i] = ToSaleResponse(&found[i])
	}
	return out, total, nil
}

// Receipt renders a sale with formatted amounts and variant labels
func (s *Service) Receipt(ctx context.Context, id uuid.UUID) (*ReceiptResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		ids = append(ids, l.VariantID)
	}
	variants, err := s.variants.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]catalog.Variant, len(variants))
	for _, v := range variants {
		byID[v.ID] = v
	}

	receipt := &ReceiptResponse{
		ReceiptNumber: sale.ReceiptNumber,
		IssuedAt:      sale.CreatedAt,
		Currency:      string(valueobject.DefaultCurrency),
		Subtotal:      money(sale.SubtotalCents),
		Discount:      money(sale.DiscountCents),
		Tax:           money(sale.TaxCents),
		Total:         money(sale.TotalCents),
		Paid:          money(sale.PaidCents),
		ChangeDue:     money(sale.ChangeDueCents),
	}
	if cash := sale.CashTenderedCents(); cash > 0 {
		receipt.CashTendered = money(cash)
	}
	for _, l := range sale.Lines {
		line := ReceiptLineResponse{
			Quantity:  l.Quantity,
			UnitPrice: money(l.UnitPriceCents),
			LineTotal: money(l.LineTotalCents),
		}
		if v, ok := byID[l.VariantID]; ok {
			line.SKU = v.SKU
			line.Label = v.Label()
		} else {
			line.SKU = l.VariantID.String()
			line.Label = line.SKU
		}
		if l.DiscountCents > 0 {
			line.Discount = money(l.DiscountCents)
		}
		receipt.Lines = append(receipt.Lines, line)
	}
	for _, p := range sale.Payments {
		receipt.Payments = append(receipt.Payments, ReceiptPaymentLine{Method: string(p.Method), Amount: money(p.AmountCents)})
	}
	return receipt, nil
}

// Summary aggregates sales in [from, to). Zero bounds default to the current UTC day.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*SummaryResponse, error) {
	if from.IsZero() {
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return nil, shared.NewValidationError("date_to must be after date_from")
	}
	sum, err := s.sales.Summarize(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{
		From:          from,
		To:            to,
		SaleCount:     sum.SaleCount,
		UnitsSold:     sum.UnitsSold,
		GrossCents:    sum.SubtotalCents,
		DiscountCents: sum.DiscountCents,
		TaxCents:      sum.TaxCents,
		NetCents:      sum.TotalCents,
		Net:           money(sum.TotalCents),
	}, nil
}
