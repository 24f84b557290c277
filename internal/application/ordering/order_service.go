package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/ordering"
	"github.com/salesops/backend/internal/domain/payment"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/domain/shared/valueobject"
)

// OrderService handles order business operations
type OrderService struct {
	orderRepo   ordering.Repository
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo ordering.Repository) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		idemConfig: shared.DefaultIdempotencyConfig(),
	}
}

// SetIdempotencyStore enables idempotent payment submission. Without a
// store, Idempotency-Key headers are accepted but ignored.
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, config shared.IdempotencyConfig) {
	s.idempotency = store
	s.idemConfig = config
}

// Create creates a new order
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	items := make([]ordering.LineItemSpec, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ordering.LineItemSpec{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	order, err := ordering.NewOrder(tenantID, orderNumber, req.CustomerID, req.CustomerName,
		valueobject.Currency(req.Currency), items)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination. All provided
// filters are combined with AND semantics.
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	domainFilter, err := buildOrderFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	page, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListItemResponses(page.Items), page.Total, nil
}

// UpdateStatus moves an order to a new status
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	target := ordering.Status(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("Unknown order status: %s", req.Status))
	}

	order, err := s.mutateWithRetry(ctx, tenantID, orderID, func(order *ordering.Order) error {
		if err := order.TransitionTo(target); err != nil {
			return err
		}
		if target == ordering.StatusCancelled && req.Reason != "" {
			order.CancelReason = req.Reason
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// AddPayment records a payment against an order. When an idempotency key is
// supplied and already seen, the current order is returned without a second
// ledger entry.
func (s *OrderService) AddPayment(ctx context.Context, tenantID, orderID uuid.UUID, idempotencyKey string, req AddPaymentRequest) (*OrderResponse, error) {
	var scoped string
	if idempotencyKey != "" && s.idempotency != nil && s.idemConfig.Enabled {
		scoped = fmt.Sprintf("order-payment:%s:%s:%s", tenantID, orderID, idempotencyKey)
		first, err := s.idempotency.MarkProcessed(ctx, scoped, s.idemConfig.TTL)
		if err != nil {
			return nil, err
		}
		if !first {
			return s.GetByID(ctx, tenantID, orderID)
		}
	}

	order, err := s.mutateWithRetry(ctx, tenantID, orderID, func(order *ordering.Order) error {
		_, err := order.AddPayment(req.Amount, payment.Method(req.Method), req.Remark)
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

	response := ToOrderResponse(order)
	return &response, nil
}

// MarkPaymentFailed sets the payment failure override on an order
func (s *OrderService) MarkPaymentFailed(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.mutateWithRetry(ctx, tenantID, orderID, func(order *ordering.Order) error {
		return order.MarkPaymentFailed()
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ClearPaymentFailure removes the payment failure override from an order
func (s *OrderService) ClearPaymentFailure(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.mutateWithRetry(ctx, tenantID, orderID, func(order *ordering.Order) error {
		order.ClearPaymentFailure()
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete removes an order and its line items
func (s *OrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	// Existence check so callers get NOT_FOUND rather than a silent no-op
	if _, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID); err != nil {
		return err
	}
	return s.orderRepo.DeleteForTenant(ctx, tenantID, orderID)
}

// StatusSummary returns per-status order counts for a tenant
func (s *OrderService) StatusSummary(ctx context.Context, tenantID uuid.UUID) (*OrderStatusSummaryResponse, error) {
	counts, err := s.orderRepo.CountByStatusForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	summary := &OrderStatusSummaryResponse{ByStatus: make(map[string]int64, len(counts))}
	for status, count := range counts {
		summary.ByStatus[status.String()] = count
		summary.Total += count
	}
	return summary, nil
}

// mutateWithRetry loads the order, applies the mutation, and saves with
// optimistic locking. On a version conflict it re-reads once and replays
// the mutation against the fresh snapshot before giving up.
func (s *OrderService) mutateWithRetry(ctx context.Context, tenantID, orderID uuid.UUID, mutate func(*ordering.Order) error) (*ordering.Order, error) {
	const attempts = 2

	var lastErr error
	for i := 0; i < attempts; i++ {
		order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return nil, err
		}

		if err := mutate(order); err != nil {
			return nil, err
		}

		expectedVersion := order.GetVersion()
		order.IncrementVersion()
		if err := s.orderRepo.SaveWithLock(ctx, order, expectedVersion); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return order, nil
	}

	return nil, lastErr
}

func buildOrderFilter(filter OrderListFilter) (shared.Filter, error) {
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
		status := ordering.Status(filter.Status)
		if !status.IsValid() {
			return shared.Filter{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("Unknown order status: %s", filter.Status))
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
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return shared.Filter{}, shared.NewDomainError("INVALID_INPUT", "Invalid customer ID")
		}
		domainFilter.Filters["customer_id"] = customerID
	}

	return domainFilter, nil
}
