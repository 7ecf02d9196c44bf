package ledger

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/catalog"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultInitialCountReason is stored when an initial count carries no reason
const DefaultInitialCountReason = "initial count"

// IntegrityReporter receives data-integrity alarms (negative computed on-hand)
type IntegrityReporter interface {
	ReportNegativeOnHand(ctx context.Context, variantID uuid.UUID, onHand int64)
}

// Service is the stock ledger engine: it appends entries and derives on-hand
// from them. On-hand is never stored.
type Service struct {
	scope     TransactionScope
	entries   ledger.EntryRepository
	variants  catalog.VariantRepository
	publisher shared.EventPublisher
	integrity IntegrityReporter
	logger    *zap.Logger
}

// NewService creates a new ledger Service
func NewService(scope TransactionScope, entries ledger.EntryRepository, variants catalog.VariantRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scope:     scope,
		entries:   entries,
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

// SetIntegrityReporter sets the sink for negative on-hand alarms
func (s *Service) SetIntegrityReporter(reporter IntegrityReporter) {
	s.integrity = reporter
}

// ComputeOnHand returns the sum of all committed entries for the variant.
// A negative sum is reported as an integrity alarm and returned unclamped.
func (s *Service) ComputeOnHand(ctx context.Context, variantID uuid.UUID) (int64, error) {
	if _, err := s.variants.FindByID(ctx, variantID); err != nil {
		return 0, err
	}
	onHand, err := s.entries.SumByVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}
	s.CheckIntegrity(ctx, variantID, onHand)
	return onHand, nil
}

// GetOnHand returns the derived on-hand together with the variant SKU
func (s *Service) GetOnHand(ctx context.Context, variantID uuid.UUID) (*OnHandResponse, error) {
	variant, err := s.variants.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	onHand, err := s.entries.SumByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	s.CheckIntegrity(ctx, variantID, onHand)
	return &OnHandResponse{VariantID: variant.ID, SKU: variant.SKU, OnHand: onHand}, nil
}

// CheckIntegrity raises the alarm for a negative on-hand
func (s *Service) CheckIntegrity(ctx context.Context, variantID uuid.UUID, onHand int64) {
	if !ledger.IsIntegrityViolation(onHand) {
		return
	}
	s.logger.Error("ledger integrity violation: negative on-hand",
		zap.String("variant_id", variantID.String()),
		zap.Int64("on_hand", onHand),
	)
	if s.integrity != nil {
		s.integrity.ReportNegativeOnHand(ctx, variantID, onHand)
	}
}

// AppendEntry inserts one entry under the variant's row lock. Decrements are
// refused when they would take on-hand below zero.
func (s *Service) AppendEntry(ctx context.Context, req AppendEntryRequest) (*AppendResult, error) {
	entryType, err := ledger.ParseEntryType(req.Type)
	if err != nil {
		return nil, err
	}
	entry, err := ledger.NewEntry(req.VariantID, req.QuantityChange, entryType, strings.TrimSpace(req.Reason), strings.TrimSpace(req.Reference), req.ActorID)
	if err != nil {
		return nil, err
	}
	return s.append(ctx, entry)
}

// RecordAdjustment removes quantity units for a damaged or lost reason
func (s *Service) RecordAdjustment(ctx context.Context, req AdjustmentRequest) (*AppendResult, error) {
	reason, err := ledger.ParseAdjustmentReason(req.ReasonCode)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, shared.NewValidationError("adjustment quantity must be positive")
	}
	text := string(reason)
	if note := strings.TrimSpace(req.Note); note != "" {
		text += ": " + note
	}
	entry, err := ledger.NewEntry(req.VariantID, -req.Quantity, ledger.EntryTypeAdjustment, text, "", req.ActorID)
	if err != nil {
		return nil, err
	}
	return s.append(ctx, entry)
}

// RecordInitialStock appends an INITIAL_COUNT entry
func (s *Service) RecordInitialStock(ctx context.Context, req InitialStockRequest) (*AppendResult, error) {
	if req.Quantity <= 0 {
		return nil, shared.NewValidationError("initial stock quantity must be positive")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = DefaultInitialCountReason
	}
	entry, err := ledger.NewEntry(req.VariantID, req.Quantity, ledger.EntryTypeInitialCount, reason, "", req.ActorID)
	if err != nil {
		return nil, err
	}
	return s.append(ctx, entry)
}

func (s *Service) append(ctx context.Context, entry *ledger.Entry) (*AppendResult, error) {
	var onHandAfter int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		ids := []uuid.UUID{entry.VariantID}
		onHand, err := LockOnHand(ctx, repos, ids)
		if err != nil {
			return err
		}
		before := onHand[entry.VariantID]
		if !entry.IsIncrease() {
			if err := ledger.EnsureAvailable(entry.VariantID, before, -entry.QuantityChange); err != nil {
				return err
			}
		}
		if err := repos.Entries().Append(ctx, entry); err != nil {
			return err
		}
		onHandAfter, err = repos.Entries().SumByVariant(ctx, entry.VariantID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.CheckIntegrity(ctx, entry.VariantID, onHandAfter)
	s.logger.Info("ledger entry appended",
		zap.String("variant_id", entry.VariantID.String()),
		zap.String("type", entry.Type.String()),
		zap.Int64("quantity_change", entry.QuantityChange),
		zap.Int64("on_hand_after", onHandAfter),
	)
	if entry.Type == ledger.EntryTypeAdjustment || entry.Type == ledger.EntryTypeInitialCount {
		if err := s.publisher.Publish(ctx, ledger.NewStockMovedEvent(entry, onHandAfter)); err != nil {
			s.logger.Warn("failed to publish stock event", zap.Error(err))
		}
	}

	return &AppendResult{Entry: ToEntryResponse(entry), OnHandAfter: onHandAfter}, nil
}

// ListEntries returns entries newest first with the current on-hand
func (s *Service) ListEntries(ctx context.Context, variantID uuid.UUID, filter EntryListFilter) (*EntryListResult, error) {
	domainFilter, err := filter.toDomain()
	if err != nil {
		return nil, err
	}
	if _, err := s.variants.FindByID(ctx, variantID); err != nil {
		return nil, err
	}
	entries, total, err := s.entries.FindByVariant(ctx, variantID, domainFilter)
	if err != nil {
		return nil, err
	}
	onHand, err := s.entries.SumByVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	s.CheckIntegrity(ctx, variantID, onHand)
	return &EntryListResult{Entries: ToEntryResponses(entries), Total: total, OnHand: onHand}, nil
}

// StockLevels lists derived on-hand per variant, optionally only those below a threshold
func (s *Service) StockLevels(ctx context.Context, filter StockLevelFilter) ([]OnHandResponse, int64, error) {
	levels, total, err := s.entries.ListStockLevels(ctx, ledger.StockLevelFilter{
		Filter: shared.Filter{Page: filter.Page, PageSize: filter.PageSize, Search: filter.Search}.Normalize(),
		Below:  filter.Below,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]OnHandResponse, len(levels))
	for i, l := range levels {
		s.CheckIntegrity(ctx, l.VariantID, l.OnHand)
		out[i] = OnHandResponse{VariantID: l.VariantID, SKU: l.SKU, OnHand: l.OnHand}
	}
	return out, total, nil
}
