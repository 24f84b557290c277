package procurement

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/payment"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	return domainErr.Code
}

func newTestPurchase(t *testing.T) *StockPurchase {
	t.Helper()
	items := []ReceivedItemSpec{
		{ProductID: uuid.New(), ProductName: "Raw material", Quantity: 10, UnitCost: 500},
	}
	purchase, err := NewStockPurchase(uuid.New(), "PO-2026-00001", uuid.New(), "Supply Co", valueobject.USD, items)
	require.NoError(t, err)
	return purchase
}

func TestNewStockPurchase(t *testing.T) {
	tenantID := uuid.New()
	supplierID := uuid.New()
	items := []ReceivedItemSpec{
		{ProductID: uuid.New(), ProductName: "Raw material", Quantity: 10, UnitCost: 300},
		{ProductID: uuid.New(), ProductName: "Packaging", Quantity: 4, UnitCost: 500},
	}

	purchase, err := NewStockPurchase(tenantID, "PO-2026-00007", supplierID, "Supply Co", valueobject.USD, items)

	require.NoError(t, err)
	assert.Equal(t, tenantID, purchase.TenantID)
	assert.Equal(t, "PO-2026-00007", purchase.PurchaseNumber)
	assert.Equal(t, "Supply Co", purchase.SupplierName)
	assert.Equal(t, StatusPending, purchase.Status)
	assert.Equal(t, payment.StatusPending, purchase.PaymentStatus)
	assert.Equal(t, int64(5000), purchase.TotalAmount)
	assert.Len(t, purchase.Items, 2)
	for _, item := range purchase.Items {
		assert.Equal(t, purchase.ID, item.StockPurchaseID)
	}
}

func TestNewStockPurchase_Validation(t *testing.T) {
	tenantID := uuid.New()
	supplierID := uuid.New()

	tests := []struct {
		name           string
		purchaseNumber string
		supplierID     uuid.UUID
		items          []ReceivedItemSpec
		wantCode       string
	}{
		{
			name:           "empty purchase number",
			purchaseNumber: "",
			supplierID:     supplierID,
			items:          []ReceivedItemSpec{{ProductID: uuid.New(), ProductName: "Raw material", Quantity: 1, UnitCost: 100}},
			wantCode:       "INVALID_ORDER_NUMBER",
		},
		{
			name:           "empty supplier",
			purchaseNumber: "PO-2026-00001",
			supplierID:     uuid.Nil,
			items:          []ReceivedItemSpec{{ProductID: uuid.New(), ProductName: "Raw material", Quantity: 1, UnitCost: 100}},
			wantCode:       "INVALID_SUPPLIER",
		},
		{
			name:           "no items",
			purchaseNumber: "PO-2026-00001",
			supplierID:     supplierID,
			items:          nil,
			wantCode:       "EMPTY_ORDER",
		},
		{
			name:           "zero quantity",
			purchaseNumber: "PO-2026-00001",
			supplierID:     supplierID,
			items:          []ReceivedItemSpec{{ProductID: uuid.New(), ProductName: "Raw material", Quantity: 0, UnitCost: 100}},
			wantCode:       "INVALID_QUANTITY",
		},
		{
			name:           "negative unit cost",
			purchaseNumber: "PO-2026-00001",
			supplierID:     supplierID,
			items:          []ReceivedItemSpec{{ProductID: uuid.New(), ProductName: "Raw material", Quantity: 1, UnitCost: -100}},
			wantCode:       "INVALID_PRICE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStockPurchase(tenantID, tt.purchaseNumber, tt.supplierID, "Supply Co", valueobject.USD, tt.items)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, domainCode(t, err))
		})
	}
}

func TestStockPurchase_SinglePaymentSettles(t *testing.T) {
	// A 5000 purchase paid in full with one entry, then completed.
	purchase := newTestPurchase(t) // 10 x 500

	_, err := purchase.AddPayment(5000, payment.MethodOnline, "")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, purchase.PaymentStatus)
	assert.Equal(t, int64(0), purchase.OutstandingAmount())

	require.NoError(t, purchase.TransitionTo(StatusProcessing))
	require.NoError(t, purchase.TransitionTo(StatusCompleted))

	err = purchase.TransitionTo(StatusPending)
	assert.Equal(t, "ILLEGAL_TRANSITION", domainCode(t, err))
	assert.Equal(t, StatusCompleted, purchase.Status)
}

func TestStockPurchase_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, false},
		{"pending to cancelled", StatusPending, StatusCancelled, false},
		{"pending skips to completed", StatusPending, StatusCompleted, true},
		{"processing to completed", StatusProcessing, StatusCompleted, false},
		{"completed back to pending", StatusCompleted, StatusPending, true},
		{"cancelled is terminal", StatusCancelled, StatusProcessing, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			purchase := newTestPurchase(t)
			purchase.Status = tt.from

			err := purchase.TransitionTo(tt.to)

			if tt.wantErr {
				assert.Equal(t, "ILLEGAL_TRANSITION", domainCode(t, err))
				assert.Equal(t, tt.from, purchase.Status)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.to, purchase.Status)
			}
		})
	}
}

func TestStockPurchase_AddPayment_Validation(t *testing.T) {
	t.Run("cancelled purchase rejects payment", func(t *testing.T) {
		purchase := newTestPurchase(t)
		require.NoError(t, purchase.TransitionTo(StatusCancelled))

		_, err := purchase.AddPayment(1000, payment.MethodCash, "")

		assert.Equal(t, "PARENT_CLOSED", domainCode(t, err))
		assert.Equal(t, 0, purchase.PaymentCount())
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		purchase := newTestPurchase(t)
		_, err := purchase.AddPayment(3000, payment.MethodCash, "")
		require.NoError(t, err)

		_, err = purchase.AddPayment(2001, payment.MethodCash, "")

		assert.Equal(t, "OVERPAYMENT_NOT_ALLOWED", domainCode(t, err))
		assert.Equal(t, payment.StatusPartiallyPaid, purchase.PaymentStatus)
		assert.Equal(t, int64(3000), purchase.PaidAmount)
	})

	t.Run("failed channel rejects payment", func(t *testing.T) {
		purchase := newTestPurchase(t)
		require.NoError(t, purchase.MarkPaymentFailed())
		assert.Equal(t, payment.StatusFailed, purchase.PaymentStatus)

		_, err := purchase.AddPayment(1000, payment.MethodOnline, "")

		assert.Equal(t, "PAYMENT_CHANNEL_CLOSED", domainCode(t, err))
	})
}

func TestStockPurchase_PaymentFailureOverride(t *testing.T) {
	purchase := newTestPurchase(t)
	_, err := purchase.AddPayment(2000, payment.MethodOther, "")
	require.NoError(t, err)

	require.NoError(t, purchase.MarkPaymentFailed())
	assert.Equal(t, payment.StatusFailed, purchase.PaymentStatus)
	assert.Equal(t, int64(2000), purchase.PaidAmount)

	purchase.ClearPaymentFailure()
	assert.Equal(t, payment.StatusPartiallyPaid, purchase.PaymentStatus)
}
