package procurement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/procurement"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStockPurchaseRepository is a mock implementation of procurement.Repository
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

func buildPurchase(t *testing.T, tenantID uuid.UUID) *procurement.StockPurchase {
	t.Helper()
	purchase, err := procurement.NewStockPurchase(tenantID, "PO-2026-00001", uuid.New(), "Supply Co", valueobject.USD,
		[]procurement.ReceivedItemSpec{
			{ProductID: uuid.New(), ProductName: "Raw material", Quantity: 10, UnitCost: 500},
		})
	require.NoError(t, err)
	return purchase
}

func TestStockService_Create(t *testing.T) {
	mockRepo := new(MockStockPurchaseRepository)
	service := NewStockService(mockRepo)
	tenantID := uuid.New()

	req := CreateStockPurchaseRequest{
		SupplierID:   uuid.New(),
		SupplierName: "Supply Co",
		Items: []CreateReceivedItemInput{
			{ProductID: uuid.New(), ProductName: "Raw material", Quantity: 10, UnitCost: 500},
		},
	}

	mockRepo.On("GeneratePurchaseNumber", mock.Anything, tenantID).Return("PO-2026-00001", nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.StockPurchase")).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, req)

	require.NoError(t, err)
	assert.Equal(t, "PO-2026-00001", resp.PurchaseNumber)
	assert.Equal(t, int64(5000), resp.TotalAmount)
	assert.Equal(t, "PENDING", resp.Status)
	mockRepo.AssertExpectations(t)
}

func TestStockService_AddPayment_FullSettlement(t *testing.T) {
	mockRepo := new(MockStockPurchaseRepository)
	service := NewStockService(mockRepo)
	tenantID := uuid.New()
	purchase := buildPurchase(t, tenantID)

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, purchase.ID).Return(purchase, nil)
	mockRepo.On("SaveWithLock", mock.Anything, purchase, 1).Return(nil)

	resp, err := service.AddPayment(context.Background(), tenantID, purchase.ID, "", AddPaymentRequest{
		Amount: 5000,
		Method: "ONLINE",
	})

	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.PaymentStatus)
	assert.Equal(t, int64(0), resp.Outstanding)
	mockRepo.AssertExpectations(t)
}

func TestStockService_AddPayment_RetriesOnceOnConflict(t *testing.T) {
	mockRepo := new(MockStockPurchaseRepository)
	service := NewStockService(mockRepo)
	tenantID := uuid.New()
	purchaseID := uuid.New()

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, purchaseID).
		Return(buildPurchase(t, tenantID), nil).Twice()
	mockRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*procurement.StockPurchase"), 1).
		Return(shared.ErrConcurrencyConflict).Once()
	mockRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*procurement.StockPurchase"), 1).
		Return(nil).Once()

	resp, err := service.AddPayment(context.Background(), tenantID, purchaseID, "", AddPaymentRequest{
		Amount: 2000,
		Method: "CASH",
	})

	require.NoError(t, err)
	assert.Equal(t, "PARTIALLY_PAID", resp.PaymentStatus)
	mockRepo.AssertExpectations(t)
}

func TestStockService_UpdateStatus_CompletedIsTerminal(t *testing.T) {
	mockRepo := new(MockStockPurchaseRepository)
	service := NewStockService(mockRepo)
	tenantID := uuid.New()
	purchase := buildPurchase(t, tenantID)
	purchase.Status = procurement.StatusCompleted

	mockRepo.On("FindByIDForTenant", mock.Anything, tenantID, purchase.ID).Return(purchase, nil)

	_, err := service.UpdateStatus(context.Background(), tenantID, purchase.ID, UpdateStockPurchaseStatusRequest{
		Status: "PENDING",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ILLEGAL_TRANSITION", domainErr.Code)
	mockRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestStockService_List_FilterMapping(t *testing.T) {
	mockRepo := new(MockStockPurchaseRepository)
	service := NewStockService(mockRepo)
	tenantID := uuid.New()
	supplierID := uuid.New()

	var captured shared.Filter
	page := shared.NewPaginated([]procurement.StockPurchase{}, 0, 1, 20)
	mockRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("shared.Filter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(2).(shared.Filter)
		}).
		Return(&page, nil)

	_, _, err := service.List(context.Background(), tenantID, StockPurchaseListFilter{
		Status:        "PROCESSING",
		PaymentStatus: "PAID",
		PaymentMethod: "ONLINE",
		SupplierID:    supplierID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, "PROCESSING", captured.Filters["status"])
	assert.Equal(t, "PAID", captured.Filters["payment_status"])
	assert.Equal(t, "ONLINE", captured.Filters["payment_method"])
	assert.Equal(t, supplierID, captured.Filters["supplier_id"])
}

func TestStockService_StatusSummary(t *testing.T) {
	mockRepo := new(MockStockPurchaseRepository)
	service := NewStockService(mockRepo)
	tenantID := uuid.New()

	mockRepo.On("CountByStatusForTenant", mock.Anything, tenantID).Return(map[procurement.Status]int64{
		procurement.StatusPending:   2,
		procurement.StatusCancelled: 1,
	}, nil)

	summary, err := service.StatusSummary(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(1), summary.ByStatus["CANCELLED"])
}
