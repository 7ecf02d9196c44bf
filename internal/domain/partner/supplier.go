package partner

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// Supplier is a vendor that purchase orders are placed with
type Supplier struct {
	shared.BaseAggregateRoot
	Name        string
	ContactName string
	Phone       string
	Email       string
	Notes       string
}

// NewSupplier creates a new supplier
func NewSupplier(name, contactName, phone, email, notes string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("supplier name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("supplier name cannot exceed 200 characters")
	}
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, shared.NewValidationError("supplier email %q is invalid", email)
		}
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ContactName:       strings.TrimSpace(contactName),
		Phone:             strings.TrimSpace(phone),
		Email:             email,
		Notes:             notes,
	}, nil
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, int64, error)
	Save(ctx context.Context, supplier *Supplier) error
}
