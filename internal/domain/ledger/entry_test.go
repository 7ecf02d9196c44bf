package ledger

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	variantID := uuid.New()
	actor := uuid.New()

	t.Run("builds an immutable entry", func(t *testing.T) {
		e, err := NewEntry(variantID, -3, EntryTypeSale, "", "sale:1", &actor)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, e.ID)
		assert.Equal(t, int64(-3), e.QuantityChange)
		assert.False(t, e.IsIncrease())
		assert.Equal(t, &actor, e.ActorID)
		assert.False(t, e.CreatedAt.IsZero())
	})

	t.Run("zero quantity is a validation error", func(t *testing.T) {
		_, err := NewEntry(variantID, 0, EntryTypeAdjustment, "", "", nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("unknown type is an invalid type error", func(t *testing.T) {
		_, err := NewEntry(variantID, 1, EntryType("TRANSFER"), "", "", nil)
		assert.True(t, errors.Is(err, shared.ErrInvalidType))
	})

	t.Run("direction must match type", func(t *testing.T) {
		tests := []struct {
			typ EntryType
			qty int64
			ok  bool
		}{
			{EntryTypeInitialCount, 10, true},
			{EntryTypeInitialCount, -10, false},
			{EntryTypeReceipt, 5, true},
			{EntryTypeReceipt, -5, false},
			{EntryTypeSale, -1, true},
			{EntryTypeSale, 1, false},
			{EntryTypeAdjustment, -2, true},
			{EntryTypeAdjustment, 2, true},
		}
		for _, tt := range tests {
			_, err := NewEntry(variantID, tt.qty, tt.typ, "", "", nil)
			if tt.ok {
				assert.NoError(t, err, "%s %d", tt.typ, tt.qty)
			} else {
				assert.True(t, errors.Is(err, shared.ErrValidation), "%s %d", tt.typ, tt.qty)
			}
		}
	})

	t.Run("long reason rejected", func(t *testing.T) {
		_, err := NewEntry(variantID, 1, EntryTypeAdjustment, strings.Repeat("x", 256), "", nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("nil variant rejected", func(t *testing.T) {
		_, err := NewEntry(uuid.Nil, 1, EntryTypeAdjustment, "", "", nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestParseEntryType(t *testing.T) {
	typ, err := ParseEntryType(" receipt ")
	require.NoError(t, err)
	assert.Equal(t, EntryTypeReceipt, typ)

	_, err = ParseEntryType("refund")
	assert.True(t, errors.Is(err, shared.ErrInvalidType))
}

func TestParseAdjustmentReason(t *testing.T) {
	r, err := ParseAdjustmentReason("Damaged")
	require.NoError(t, err)
	assert.Equal(t, AdjustmentReasonDamaged, r)

	_, err = ParseAdjustmentReason("stolen")
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestEnsureAvailable(t *testing.T) {
	id := uuid.New()
	assert.NoError(t, EnsureAvailable(id, 7, 7))
	err := EnsureAvailable(id, 7, 8)
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, shared.CodeInsufficientStock, de.Code)
	assert.Equal(t, id.String(), de.Details["variant_id"])

	assert.True(t, IsIntegrityViolation(-1))
	assert.False(t, IsIntegrityViolation(0))
}

func TestNewStockMovedEvent(t *testing.T) {
	e, err := NewEntry(uuid.New(), 10, EntryTypeInitialCount, "initial count", "", nil)
	require.NoError(t, err)
	ev := NewStockMovedEvent(e, 10)
	assert.Equal(t, EventTypeStockInitialized, ev.EventType())
	assert.Equal(t, e.VariantID, ev.AggregateID())

	e2, err := NewEntry(e.VariantID, -2, EntryTypeAdjustment, "damaged", "", nil)
	require.NoError(t, err)
	assert.Equal(t, EventTypeStockAdjusted, NewStockMovedEvent(e2, 8).EventType())
}
