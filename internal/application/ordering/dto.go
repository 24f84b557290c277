package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/ordering"
	"github.com/salesops/backend/internal/domain/payment"
)

// CreateOrderRequest represents a request to create an order.
// All amounts are integer minor units of the order currency.
type CreateOrderRequest struct {
	CustomerID   uuid.UUID              `json:"customer_id" binding:"required"`
	CustomerName string                 `json:"customer_name" binding:"required,min=1,max=200"`
	Currency     string                 `json:"currency" binding:"omitempty,len=3"`
	Items        []CreateOrderItemInput `json:"items" binding:"required,min=1"`
}

// CreateOrderItemInput represents a line item in the create order request
type CreateOrderItemInput struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	ProductName string    `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    int64     `json:"quantity" binding:"required"`
	UnitPrice   int64     `json:"unit_price"`
}

// UpdateOrderStatusRequest represents a request to move an order to a new status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// AddPaymentRequest represents a request to record a payment against an order
type AddPaymentRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required"`
	Remark string `json:"remark" binding:"omitempty,max=500"`
}

// OrderListFilter represents filter options for the order list.
// Filters compose with AND semantics.
type OrderListFilter struct {
	Search        string `form:"search"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	PaymentMethod string `form:"payment_method"`
	CustomerID    string `form:"customer_id"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PaymentEntryResponse represents one ledger entry in API responses
type PaymentEntryResponse struct {
	ID         uuid.UUID `json:"id"`
	Amount     int64     `json:"amount"`
	Method     string    `json:"method"`
	RecordedAt time.Time `json:"recorded_at"`
	Remark     string    `json:"remark,omitempty"`
}

// OrderItemResponse represents a line item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	Amount      int64     `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID              `json:"id"`
	TenantID      uuid.UUID              `json:"tenant_id"`
	OrderNumber   string                 `json:"order_number"`
	CustomerID    uuid.UUID              `json:"customer_id"`
	CustomerName  string                 `json:"customer_name"`
	Currency      string                 `json:"currency"`
	Items         []OrderItemResponse    `json:"items"`
	ItemCount     int                    `json:"item_count"`
	TotalAmount   int64                  `json:"total_amount"`
	PaidAmount    int64                  `json:"paid_amount"`
	Outstanding   int64                  `json:"outstanding_amount"`
	Status        string                 `json:"status"`
	PaymentStatus string                 `json:"payment_status"`
	PaymentFailed bool                   `json:"payment_failed"`
	Payments      []PaymentEntryResponse `json:"payments"`
	CompletedAt   *time.Time             `json:"completed_at,omitempty"`
	CancelledAt   *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason  string                 `json:"cancel_reason,omitempty"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// OrderListItemResponse represents an order in list responses, without
// line items and the full ledger
type OrderListItemResponse struct {
	ID            uuid.UUID `json:"id"`
	OrderNumber   string    `json:"order_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Currency      string    `json:"currency"`
	ItemCount     int       `json:"item_count"`
	TotalAmount   int64     `json:"total_amount"`
	PaidAmount    int64     `json:"paid_amount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentCount  int       `json:"payment_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderStatusSummaryResponse represents per-status order counts for a tenant
type OrderStatusSummaryResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// ToOrderResponse converts an order aggregate to its API representation
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}

	return OrderResponse{
		ID:            order.ID,
		TenantID:      order.TenantID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		CustomerName:  order.CustomerName,
		Currency:      order.Currency.String(),
		Items:         items,
		ItemCount:     order.ItemCount(),
		TotalAmount:   order.TotalAmount,
		PaidAmount:    order.PaidAmount,
		Outstanding:   order.OutstandingAmount(),
		Status:        order.Status.String(),
		PaymentStatus: order.PaymentStatus.String(),
		PaymentFailed: order.PaymentFailed,
		Payments:      toPaymentEntryResponses(order.Payments),
		CompletedAt:   order.CompletedAt,
		CancelledAt:   order.CancelledAt,
		CancelReason:  order.CancelReason,
		Version:       order.GetVersion(),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToOrderListItemResponses converts orders to their list representation
func ToOrderListItemResponses(orders []ordering.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		responses = append(responses, OrderListItemResponse{
			ID:            order.ID,
			OrderNumber:   order.OrderNumber,
			CustomerID:    order.CustomerID,
			CustomerName:  order.CustomerName,
			Currency:      order.Currency.String(),
			ItemCount:     order.ItemCount(),
			TotalAmount:   order.TotalAmount,
			PaidAmount:    order.PaidAmount,
			Status:        order.Status.String(),
			PaymentStatus: order.PaymentStatus.String(),
			PaymentCount:  order.PaymentCount(),
			CreatedAt:     order.CreatedAt,
		})
	}
	return responses
}

func toPaymentEntryResponses(entries payment.Entries) []PaymentEntryResponse {
	responses := make([]PaymentEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, PaymentEntryResponse{
			ID:         entry.ID,
			Amount:     entry.Amount,
			Method:     entry.Method.String(),
			RecordedAt: entry.RecordedAt,
			Remark:     entry.Remark,
		})
	}
	return responses
}
