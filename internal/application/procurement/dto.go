package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/payment"
	"github.com/salesops/backend/internal/domain/procurement"
)

// CreateStockPurchaseRequest represents a request to create a stock purchase.
// All amounts are integer minor units of the purchase currency.
type CreateStockPurchaseRequest struct {
	SupplierID   uuid.UUID                 `json:"supplier_id" binding:"required"`
	SupplierName string                    `json:"supplier_name" binding:"required,min=1,max=200"`
	Currency     string                    `json:"currency" binding:"omitempty,len=3"`
	Items        []CreateReceivedItemInput `json:"items" binding:"required,min=1"`
}

// CreateReceivedItemInput represents a received item in the create request
type CreateReceivedItemInput struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	ProductName string    `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    int64     `json:"quantity" binding:"required"`
	UnitCost    int64     `json:"unit_cost"`
}

// UpdateStockPurchaseStatusRequest represents a request to move a purchase to a new status
type UpdateStockPurchaseStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// AddPaymentRequest represents a request to record an outgoing payment
// against a stock purchase
type AddPaymentRequest struct {
	Amount int64  `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required"`
	Remark string `json:"remark" binding:"omitempty,max=500"`
}

// StockPurchaseListFilter represents filter options for the purchase list.
// Filters compose with AND semantics.
type StockPurchaseListFilter struct {
	Search        string `form:"search"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	PaymentMethod string `form:"payment_method"`
	SupplierID    string `form:"supplier_id"`
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

// ReceivedItemResponse represents a received item in API responses
type ReceivedItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	UnitCost    int64     `json:"unit_cost"`
	Amount      int64     `json:"amount"`
}

// StockPurchaseResponse represents a stock purchase in API responses
type StockPurchaseResponse struct {
	ID             uuid.UUID              `json:"id"`
	TenantID       uuid.UUID              `json:"tenant_id"`
	PurchaseNumber string                 `json:"purchase_number"`
	SupplierID     uuid.UUID              `json:"supplier_id"`
	SupplierName   string                 `json:"supplier_name"`
	Currency       string                 `json:"currency"`
	Items          []ReceivedItemResponse `json:"items"`
	ItemCount      int                    `json:"item_count"`
	TotalAmount    int64                  `json:"total_amount"`
	PaidAmount     int64                  `json:"paid_amount"`
	Outstanding    int64                  `json:"outstanding_amount"`
	Status         string                 `json:"status"`
	PaymentStatus  string                 `json:"payment_status"`
	PaymentFailed  bool                   `json:"payment_failed"`
	Payments       []PaymentEntryResponse `json:"payments"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	CancelledAt    *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason   string                 `json:"cancel_reason,omitempty"`
	Version        int                    `json:"version"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// StockPurchaseListItemResponse represents a stock purchase in list responses
type StockPurchaseListItemResponse struct {
	ID             uuid.UUID `json:"id"`
	PurchaseNumber string    `json:"purchase_number"`
	SupplierID     uuid.UUID `json:"supplier_id"`
	SupplierName   string    `json:"supplier_name"`
	Currency       string    `json:"currency"`
	ItemCount      int       `json:"item_count"`
	TotalAmount    int64     `json:"total_amount"`
	PaidAmount     int64     `json:"paid_amount"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	PaymentCount   int       `json:"payment_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// StockPurchaseStatusSummaryResponse represents per-status purchase counts for a tenant
type StockPurchaseStatusSummaryResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// ToStockPurchaseResponse converts a stock purchase aggregate to its API representation
func ToStockPurchaseResponse(purchase *procurement.StockPurchase) StockPurchaseResponse {
	items := make([]ReceivedItemResponse, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		items = append(items, ReceivedItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
			Amount:      item.Amount,
		})
	}

	return StockPurchaseResponse{
		ID:             purchase.ID,
		TenantID:       purchase.TenantID,
		PurchaseNumber: purchase.PurchaseNumber,
		SupplierID:     purchase.SupplierID,
		SupplierName:   purchase.SupplierName,
		Currency:       purchase.Currency.String(),
		Items:          items,
		ItemCount:      purchase.ItemCount(),
		TotalAmount:    purchase.TotalAmount,
		PaidAmount:     purchase.PaidAmount,
		Outstanding:    purchase.OutstandingAmount(),
		Status:         purchase.Status.String(),
		PaymentStatus:  purchase.PaymentStatus.String(),
		PaymentFailed:  purchase.PaymentFailed,
		Payments:       toPaymentEntryResponses(purchase.Payments),
		CompletedAt:    purchase.CompletedAt,
		CancelledAt:    purchase.CancelledAt,
		CancelReason:   purchase.CancelReason,
		Version:        purchase.GetVersion(),
		CreatedAt:      purchase.CreatedAt,
		UpdatedAt:      purchase.UpdatedAt,
	}
}

// ToStockPurchaseListItemResponses converts stock purchases to their list representation
func ToStockPurchaseListItemResponses(purchases []procurement.StockPurchase) []StockPurchaseListItemResponse {
	responses := make([]StockPurchaseListItemResponse, 0, len(purchases))
	for i := range purchases {
		purchase := &purchases[i]
		responses = append(responses, StockPurchaseListItemResponse{
			ID:             purchase.ID,
			PurchaseNumber: purchase.PurchaseNumber,
			SupplierID:     purchase.SupplierID,
			SupplierName:   purchase.SupplierName,
			Currency:       purchase.Currency.String(),
			ItemCount:      purchase.ItemCount(),
			TotalAmount:    purchase.TotalAmount,
			PaidAmount:     purchase.PaidAmount,
			Status:         purchase.Status.String(),
			PaymentStatus:  purchase.PaymentStatus.String(),
			PaymentCount:   purchase.PaymentCount(),
			CreatedAt:      purchase.CreatedAt,
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
