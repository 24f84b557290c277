package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE orders;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", "created_at", "created_at"},
		{"valid field returns field", "order_number", "created_at", "order_number"},
		{"invalid field returns default", "not_a_column", "created_at", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE orders;--", "created_at", "created_at"},
		{"case sensitive - uppercase invalid", "STATUS", "created_at", "created_at"},
		{"whitespace around valid field returns field", "  total_amount  ", "created_at", "total_amount"},
		{"field with quotes injection returns default", "status'--", "created_at", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, OrderSortFields, tt.defaultField))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	commonFields := []string{"id", "created_at", "updated_at", "status", "payment_status"}

	for name, whitelist := range map[string]map[string]bool{
		"OrderSortFields":         OrderSortFields,
		"StockPurchaseSortFields": StockPurchaseSortFields,
	} {
		for _, field := range commonFields {
			assert.True(t, whitelist[field], "%s should contain %q", name, field)
		}
	}

	assert.True(t, OrderSortFields["order_number"])
	assert.True(t, StockPurchaseSortFields["purchase_number"])
	assert.False(t, OrderSortFields["purchase_number"])
}
