package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
)

// LedgerEntryModel is one row of the append-only stock ledger. Seq is the
// insertion order; rows are never updated or deleted.
type LedgerEntryModel struct {
	Seq            int64            `gorm:"primaryKey;autoIncrement;index:idx_ledger_entries_variant_seq,priority:2"`
	ID             uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	VariantID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_ledger_entries_variant_seq,priority:1"`
	QuantityChange int64            `gorm:"not null"`
	Type           ledger.EntryType `gorm:"type:varchar(20);not null;index"`
	Reason         string           `gorm:"type:varchar(255);not null"`
	Reference      string           `gorm:"type:varchar(100);not null;index"`
	ActorID        *uuid.UUID       `gorm:"type:uuid"`
	CreatedAt      time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the model to a ledger.Entry
func (m *LedgerEntryModel) ToDomain() *ledger.Entry {
	return &ledger.Entry{
		ID:             m.ID,
		Seq:            m.Seq,
		VariantID:      m.VariantID,
		QuantityChange: m.QuantityChange,
		Type:           m.Type,
		Reason:         m.Reason,
		Reference:      m.Reference,
		ActorID:        m.ActorID,
		CreatedAt:      m.CreatedAt,
	}
}

// LedgerEntryModelFromDomain builds the row for a new entry; Seq is left to the database
func LedgerEntryModelFromDomain(e *ledger.Entry) *LedgerEntryModel {
	return &LedgerEntryModel{
		ID:             e.ID,
		VariantID:      e.VariantID,
		QuantityChange: e.QuantityChange,
		Type:           e.Type,
		Reason:         e.Reason,
		Reference:      e.Reference,
		ActorID:        e.ActorID,
		CreatedAt:      e.CreatedAt,
	}
}
