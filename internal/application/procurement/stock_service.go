package procurement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/payment"
	"github.com/salesops/backend/internal/domain/procurement"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/domain/shared/valueobject"
)

// StockService handles stock purchase business operations
type StockService struct {
	purchaseRepo procurement.Repository
	idempotency  shared.IdempotencyStore
	idemConfig   shared.IdempotencyConfig
}

// NewStockService creates a new StockService
func NewStockService(purchaseRepo procurement.Repository) *StockService {
	return &StockService{
		purchaseRepo: purchaseRepo,
		idemConfig:   shared.DefaultIdempotencyConfig(),
	}
}

// SetIdempotencyStore enables idempotent payment submission
func (s *StockService) SetIdempotencyStore(store shared.IdempotencyStore, config shared.IdempotencyConfig) {
	s.idempotency = store
	s.idemConfig = config
}

// Create creates a new stock purchase
func (s *StockService) Create(ctx context.Context, tenantID uuid.UUID, req CreateStockPurchaseRequest) (*StockPurchaseResponse, error) {
	purchaseNumber, err := s.purchaseRepo.GeneratePurchaseNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	items := make([]procurement.ReceivedItemSpec, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, procurement.ReceivedItemSpec{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
		})
	}

	purchase, err := procurement.NewStockPurchase(tenantID, purchaseNumber, req.SupplierID, req.SupplierName,
		valueobject.Currency(req.Currency), items)
	if err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.Save(ctx, purchase); err != nil {
		return nil, err
	}

	response := ToStockPurchaseResponse(purchase)
	return &response, nil
}

// GetByID retrieves a stock purchase by ID
func (s *StockService) GetByID(ctx context.Context, tenantID, purchaseID uuid.UUID) (*StockPurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
	if err != nil {
		return nil, err
	}
	response := ToStockPurchaseResponse(purchase)
	return &response, nil
}

// List retrieves stock purchases with filtering and pagination
func (s *StockService) List(ctx context.Context, tenantID uuid.UUID, filter StockPurchaseListFilter) ([]StockPurchaseListItemResponse, int64, error) {
	domainFilter, err := buildPurchaseFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	page, err := s.purchaseRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToStockPurchaseListItemResponses(page.Items), page.Total, nil
}

// UpdateStatus moves a stock purchase to a new status
func (s *StockService) UpdateStatus(ctx context.Context, tenantID, purchaseID uuid.UUID, req UpdateStockPurchaseStatusRequest) (*StockPurchaseResponse, error) {
	target := procurement.Status(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("Unknown purchase status: %s", req.Status))
	}

	purchase, err := s.mutateWithRetry(ctx, tenantID, purchaseID, func(purchase *procurement.StockPurchase) error {
		if err := purchase.TransitionTo(target); err != nil {
			return err
		}
		if target == procurement.StatusCancelled && req.Reason != "" {
			purchase.CancelReason = req.Reason
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToStockPurchaseResponse(purchase)
	return &response, nil
}

// AddPayment records an outgoing payment against a stock purchase. A
// replayed idempotency key returns the current purchase without a second
// ledger entry.
func (s *StockService) AddPayment(ctx context.Context, tenantID, purchaseID uuid.UUID, idempotencyKey string, req AddPaymentRequest) (*StockPurchaseResponse, error) {
	var scoped string
	if idempotencyKey != "" && s.idempotency != nil && s.idemConfig.Enabled {
		scoped = fmt.Sprintf("stock-payment:%s:%s:%s", tenantID, purchaseID, idempotencyKey)
		first, err := s.idempotency.MarkProcessed(ctx, scoped, s.idemConfig.TTL)
		if err != nil {
			return nil, err
		}
		if !first {
			return s.GetByID(ctx, tenantID, purchaseID)
		}
	}

	purchase, err := s.mutateWithRetry(ctx, tenantID, purchaseID, func(purchase *procurement.StockPurchase) error {
		_, err := purchase.AddPayment(req.Amount, payment.Method(req.Method), req.Remark)
		return err
	})
	if err != nil {
		// The payment did not happen, so the key must not count as consumed
		// or the client's retry with the same key would be deduped into a
		// success that never recorded anything.
		if scoped != "" {
			if releaseErr := s.idempotency.Release(ctx, scoped); releaseErr != nil {
				return nil, errors.Join(err, releaseErr)
			}
		}
		return nil, err
	}

	response := ToStockPurchaseResponse(purchase)
	return &response, nil
}

// MarkPaymentFailed sets the payment failure override on a stock purchase
func (s *StockService) MarkPaymentFailed(ctx context.Context, tenantID, purchaseID uuid.UUID) (*StockPurchaseResponse, error) {
	purchase, err := s.mutateWithRetry(ctx, tenantID, purchaseID, func(purchase *procurement.StockPurchase) error {
		return purchase.MarkPaymentFailed()
	})
	if err != nil {
		return nil, err
	}

	response := ToStockPurchaseResponse(purchase)
	return &response, nil
}

// ClearPaymentFailure removes the payment failure override from a stock purchase
func (s *StockService) ClearPaymentFailure(ctx context.Context, tenantID, purchaseID uuid.UUID) (*StockPurchaseResponse, error) {
	purchase, err := s.mutateWithRetry(ctx, tenantID, purchaseID, func(purchase *procurement.StockPurchase) error {
		purchase.ClearPaymentFailure()
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToStockPurchaseResponse(purchase)
	return &response, nil
}

// Delete removes a stock purchase and its received items
func (s *StockService) Delete(ctx context.Context, tenantID, purchaseID uuid.UUID) error {
	if _, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID); err != nil {
		return err
	}
	return s.purchaseRepo.DeleteForTenant(ctx, tenantID, purchaseID)
}

// StatusSummary returns per-status purchase counts for a tenant
func (s *StockService) StatusSummary(ctx context.Context, tenantID uuid.UUID) (*StockPurchaseStatusSummaryResponse, error) {
	counts, err := s.purchaseRepo.CountByStatusForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	summary := &StockPurchaseStatusSummaryResponse{ByStatus: make(map[string]int64, len(counts))}
	for status, count := range counts {
		summary.ByStatus[status.String()] = count
		summary.Total += count
	}
	return summary, nil
}

// mutateWithRetry loads the purchase, applies the mutation, and saves with
// optimistic locking, re-reading once on a version conflict.
func (s *StockService) mutateWithRetry(ctx context.Context, tenantID, purchaseID uuid.UUID, mutate func(*procurement.StockPurchase) error) (*procurement.StockPurchase, error) {
	const attempts = 2

	var lastErr error
	for i := 0; i < attempts; i++ {
		purchase, err := s.purchaseRepo.FindByIDForTenant(ctx, tenantID, purchaseID)
		if err != nil {
			return nil, err
		}

		if err := mutate(purchase); err != nil {
			return nil, err
		}

		expectedVersion := purchase.GetVersion()
		purchase.IncrementVersion()
		if err := s.purchaseRepo.SaveWithLock(ctx, purchase, expectedVersion); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return purchase, nil
	}

	return nil, lastErr
}

func buildPurchaseFilter(filter StockPurchaseListFilter) (shared.Filter, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search

	// "all" means no constraint on that dimension, same as leaving it out
	if filter.Status != "" && filter.Status != "all" {
		status := procurement.Status(filter.Status)
		if !status.IsValid() {
			return shared.Filter{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown purchase status: %s", filter.Status))
		}
		domainFilter.Filters["status"] = status.String()
	}
	if filter.PaymentStatus != "" && filter.PaymentStatus != "all" {
		status := payment.Status(filter.PaymentStatus)
		if !status.IsValid() {
			return shared.Filter{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown payment status: %s", filter.PaymentStatus))
		}
		domainFilter.Filters["payment_status"] = status.String()
	}
	if filter.PaymentMethod != "" && filter.PaymentMethod != "all" {
		method := payment.Method(filter.PaymentMethod)
		if !method.IsValid() {
			return shared.Filter{}, shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method: %s", filter.PaymentMethod))
		}
		domainFilter.Filters["payment_method"] = method.String()
	}
	if filter.SupplierID != "" {
		supplierID, err := uuid.Parse(filter.SupplierID)
		if err != nil {
			return shared.Filter{}, shared.NewDomainError("INVALID_INPUT", "Invalid supplier ID")
		}
		domainFilter.Filters["supplier_id"] = supplierID
	}

	return domainFilter, nil
}
