package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"  asc  ", "ASC"},
		{"desc", "DESC"},
		{"ASC; DROP TABLE ledger_entries;--", "DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ValidateSortOrder(tt.input), tt.input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty returns default", "", "created_at"},
		{"whitelisted", "sku", "sku"},
		{"trimmed", "  price_cents ", "price_cents"},
		{"unknown returns default", "quantity", "created_at"},
		{"injection returns default", "sku; DROP TABLE variants;--", "created_at"},
		{"case sensitive", "SKU", "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, VariantSortFields, "created_at"))
		})
	}
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "sku ASC", orderClause("sku", "asc", VariantSortFields, "created_at"))
	assert.Equal(t, "created_at DESC", orderClause("bogus", "", VariantSortFields, "created_at"))
}
