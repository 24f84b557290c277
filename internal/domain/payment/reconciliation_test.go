package payment

import (
	"testing"

	"github.com/salesops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  Status
		isValid bool
	}{
		{StatusPending, true},
		{StatusPartiallyPaid, true},
		{StatusPaid, true},
		{StatusFailed, true},
		{Status("REFUNDED"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		ledgerSum int64
		want      Status
	}{
		{"no payments", 10000, 0, StatusPending},
		{"partial payment", 10000, 4000, StatusPartiallyPaid},
		{"one unit short", 10000, 9999, StatusPartiallyPaid},
		{"exactly paid", 10000, 10000, StatusPaid},
		{"single full payment", 5000, 5000, StatusPaid},
		{"smallest partial", 10000, 1, StatusPartiallyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.total, tt.ledgerSum))
		})
	}
}

func TestValidatePayment(t *testing.T) {
	t.Run("accepts a valid payment", func(t *testing.T) {
		err := ValidatePayment(4000, MethodCash, 10000, 0, false, false)
		assert.NoError(t, err)
	})

	t.Run("accepts payment that settles exactly", func(t *testing.T) {
		err := ValidatePayment(6000, MethodOnline, 10000, 4000, false, false)
		assert.NoError(t, err)
	})

	t.Run("rejects payment on closed parent", func(t *testing.T) {
		err := ValidatePayment(100, MethodCash, 10000, 0, true, false)
		assertDomainCode(t, err, "PARENT_CLOSED")
	})

	t.Run("rejects payment while channel failed", func(t *testing.T) {
		err := ValidatePayment(100, MethodCash, 10000, 0, false, true)
		assertDomainCode(t, err, "PAYMENT_CHANNEL_CLOSED")
	})

	t.Run("parent closed checked before channel", func(t *testing.T) {
		err := ValidatePayment(100, MethodCash, 10000, 0, true, true)
		assertDomainCode(t, err, "PARENT_CLOSED")
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		err := ValidatePayment(0, MethodCash, 10000, 0, false, false)
		assertDomainCode(t, err, "INVALID_AMOUNT")
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		err := ValidatePayment(-500, MethodCash, 10000, 0, false, false)
		assertDomainCode(t, err, "INVALID_AMOUNT")
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		err := ValidatePayment(100, Method("CHECK"), 10000, 0, false, false)
		assertDomainCode(t, err, "INVALID_METHOD")
	})

	t.Run("rejects overpayment by one minor unit", func(t *testing.T) {
		err := ValidatePayment(1, MethodCash, 10000, 10000, false, false)
		assertDomainCode(t, err, "OVERPAYMENT_NOT_ALLOWED")
	})

	t.Run("rejects amount exceeding outstanding", func(t *testing.T) {
		err := ValidatePayment(6001, MethodOnline, 10000, 4000, false, false)
		assertDomainCode(t, err, "OVERPAYMENT_NOT_ALLOWED")
	})
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
