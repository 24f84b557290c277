package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	stockapp "github.com/salesops/backend/internal/application/procurement"
	"github.com/salesops/backend/internal/domain/payment"
	"github.com/salesops/backend/internal/domain/procurement"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStockPurchaseRepository implements procurement.Repository for testing
type MockStockPurchaseRepository struct {
	mock.Mock
}

func (m *MockStockPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*procurement.StockPurchase, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.StockPurchase), args.Error(1)
}

func (m *MockStockPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[procurement.StockPurchase], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[procurement.StockPurchase]), args.Error(1)
}

func (m *MockStockPurchaseRepository) Save(ctx context.Context, purchase *procurement.StockPurchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockStockPurchaseRepository) SaveWithLock(ctx context.Context, purchase *procurement.StockPurchase, expectedVersion int) error {
	args := m.Called(ctx, purchase, expectedVersion)
	return args.Error(0)
}

func (m *MockStockPurchaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockStockPurchaseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockPurchaseRepository) CountByStatusForTenant(ctx context.Context, tenantID uuid.UUID) (map[procurement.Status]int64, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[procurement.Status]int64), args.Error(1)
}

func (m *MockStockPurchaseRepository) ExistsByPurchaseNumberForTenant(ctx context.Context, tenantID uuid.UUID, purchaseNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, purchaseNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockPurchaseRepository) GeneratePurchaseNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func setupStockHandler(purchaseRepo *MockStockPurchaseRepository) *StockHandler {
	stockService := stockapp.NewStockService(purchaseRepo)
	return NewStockHandler(stockService)
}

func createTestPurchase(t *testing.T, tenantID uuid.UUID) *procurement.StockPurchase {
	t.Helper()
	purchase, err := procurement.NewStockPurchase(tenantID, "PO-2026-00001", uuid.New(), "Northwind Supply", valueobject.USD, []procurement.ReceivedItemSpec{
		{ProductID: uuid.New(), ProductName: "Crate", Quantity: 10, UnitCost: 500},
	})
	require.NoError(t, err)
	return purchase
}

func TestStockHandler_Create_Success(t *testing.T) {
	purchaseRepo := new(MockStockPurchaseRepository)
	handler := setupStockHandler(purchaseRepo)

	purchaseRepo.On("GeneratePurchaseNumber", mock.Anything, testTenantID).Return("PO-2026-00001", nil)
	purchaseRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.StockPurchase")).Return(nil)

	router := setupTestRouter()
	router.POST("/stocks", handler.Create)

	reqBody := stockapp.CreateStockPurchaseRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Northwind Supply",
		Items: []stockapp.CreateReceivedItemInput{
			{ProductID: uuid.New(), ProductName: "Crate", Quantity: 10, UnitCost: 500},
		},
	}

	w := doJSON(router, http.MethodPost, "/stocks", reqBody, nil)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data stockapp.StockPurchaseResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PO-2026-00001", resp.Data.PurchaseNumber)
	assert.Equal(t, int64(5000), resp.Data.TotalAmount)
	purchaseRepo.AssertExpectations(t)
}

func TestStockHandler_AddPayment_FullSettlement(t *testing.T) {
	purchaseRepo := new(MockStockPurchaseRepository)
	handler := setupStockHandler(purchaseRepo)

	purchase := createTestPurchase(t, testTenantID)
	purchaseID := purchase.ID

	purchaseRepo.On("FindByIDForTenant", mock.Anything, testTenantID, purchaseID).Return(purchase, nil)
	purchaseRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*procurement.StockPurchase"), purchase.GetVersion()).Return(nil)

	router := setupTestRouter()
	router.POST("/stocks/:id/payments", handler.AddPayment)

	reqBody := stockapp.AddPaymentRequest{Amount: 5000, Method: "ONLINE"}
	w := doJSON(router, http.MethodPost, "/stocks/"+purchaseID.String()+"/payments", reqBody, map[string]string{
		IdempotencyKeyHeader: "po-pay-001",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data stockapp.StockPurchaseResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, payment.StatusPaid.String(), resp.Data.PaymentStatus)
	assert.Equal(t, int64(0), resp.Data.Outstanding)
	purchaseRepo.AssertExpectations(t)
}

func TestStockHandler_AddPayment_FailedChannel(t *testing.T) {
	purchaseRepo := new(MockStockPurchaseRepository)
	handler := setupStockHandler(purchaseRepo)

	purchase := createTestPurchase(t, testTenantID)
	purchaseID := purchase.ID
	require.NoError(t, purchase.MarkPaymentFailed())

	purchaseRepo.On("FindByIDForTenant", mock.Anything, testTenantID, purchaseID).Return(purchase, nil)

	router := setupTestRouter()
	router.POST("/stocks/:id/payments", handler.AddPayment)

	reqBody := stockapp.AddPaymentRequest{Amount: 1000, Method: "CASH"}
	w := doJSON(router, http.MethodPost, "/stocks/"+purchaseID.String()+"/payments", reqBody, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAYMENT_CHANNEL_CLOSED", resp.Error.Code)
	purchaseRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestStockHandler_UpdateStatus_CompletedIsTerminal(t *testing.T) {
	purchaseRepo := new(MockStockPurchaseRepository)
	handler := setupStockHandler(purchaseRepo)

	purchase := createTestPurchase(t, testTenantID)
	purchaseID := purchase.ID
	require.NoError(t, purchase.TransitionTo(procurement.StatusProcessing))
	require.NoError(t, purchase.TransitionTo(procurement.StatusCompleted))

	purchaseRepo.On("FindByIDForTenant", mock.Anything, testTenantID, purchaseID).Return(purchase, nil)

	router := setupTestRouter()
	router.PATCH("/stocks/:id/status", handler.UpdateStatus)

	reqBody := stockapp.UpdateStockPurchaseStatusRequest{Status: "PENDING"}
	w := doJSON(router, http.MethodPatch, "/stocks/"+purchaseID.String()+"/status", reqBody, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ILLEGAL_TRANSITION", resp.Error.Code)
}

func TestStockHandler_List_FiltersBySupplier(t *testing.T) {
	purchaseRepo := new(MockStockPurchaseRepository)
	handler := setupStockHandler(purchaseRepo)

	purchase := createTestPurchase(t, testTenantID)
	purchaseRepo.On("FindAllForTenant", mock.Anything, testTenantID, mock.AnythingOfType("shared.Filter")).
		Return(&shared.Paginated[procurement.StockPurchase]{Items: []procurement.StockPurchase{*purchase}, Total: 1}, nil)

	router := setupTestRouter()
	router.GET("/stocks", handler.List)

	w := doJSON(router, http.MethodGet, "/stocks?supplier_id="+uuid.New().String(), nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	purchaseRepo.AssertExpectations(t)
}

func TestStockHandler_GetStatusSummary(t *testing.T) {
	purchaseRepo := new(MockStockPurchaseRepository)
	handler := setupStockHandler(purchaseRepo)

	purchaseRepo.On("CountByStatusForTenant", mock.Anything, testTenantID).Return(map[procurement.Status]int64{
		procurement.StatusPending:    2,
		procurement.StatusProcessing: 1,
	}, nil)

	router := setupTestRouter()
	router.GET("/stocks/stats/summary", handler.GetStatusSummary)

	w := doJSON(router, http.MethodGet, "/stocks/stats/summary", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data stockapp.StockPurchaseStatusSummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Data.Total)
	purchaseRepo.AssertExpectations(t)
}
