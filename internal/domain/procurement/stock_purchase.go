package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/payment"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/domain/shared/valueobject"
)

// Status represents the status of a stock purchase
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid checks if the status is a valid purchase Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if no further transition is permitted
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ReceivedItem represents goods received under a stock purchase
type ReceivedItem struct {
	ID              uuid.UUID
	StockPurchaseID uuid.UUID
	ProductID       uuid.UUID
	ProductName     string
	Quantity        int64
	UnitCost        int64 // minor units
	Amount          int64 // Quantity * UnitCost, minor units
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (ReceivedItem) TableName() string {
	return "stock_received_items"
}

// ReceivedItemSpec is the input used to build a received item at purchase creation
type ReceivedItemSpec struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitCost    int64 // minor units
}

func newReceivedItem(purchaseID uuid.UUID, spec ReceivedItemSpec) (*ReceivedItem, error) {
	if spec.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if spec.ProductName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if spec.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if spec.UnitCost < 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &ReceivedItem{
		ID:              uuid.New(),
		StockPurchaseID: purchaseID,
		ProductID:       spec.ProductID,
		ProductName:     spec.ProductName,
		Quantity:        spec.Quantity,
		UnitCost:        spec.UnitCost,
		Amount:          spec.Quantity * spec.UnitCost,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// StockPurchase represents a supplier-side purchase aggregate root. It is the
// procurement mirror of a customer order: we owe the supplier, and outgoing
// payments flow through the same ledger and reconciliation rules.
type StockPurchase struct {
	shared.TenantAggregateRoot
	PurchaseNumber string
	SupplierID     uuid.UUID
	SupplierName   string
	Currency       valueobject.Currency `gorm:"type:varchar(3)"`
	Items          []ReceivedItem       `gorm:"foreignKey:StockPurchaseID"`
	TotalAmount    int64                // frozen at creation, minor units
	PaidAmount     int64                // ledger sum, minor units
	Status         Status
	PaymentStatus  payment.Status
	PaymentFailed  bool
	Payments       payment.Entries `gorm:"type:jsonb"`
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// TableName returns the table name for GORM
func (StockPurchase) TableName() string {
	return "stock_purchases"
}

// NewStockPurchase creates a new stock purchase in PENDING/PENDING state.
// The total is computed from the received items and frozen.
func NewStockPurchase(tenantID uuid.UUID, purchaseNumber string, supplierID uuid.UUID, supplierName string, currency valueobject.Currency, items []ReceivedItemSpec) (*StockPurchase, error) {
	if purchaseNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Purchase number cannot be empty")
	}
	if len(purchaseNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Purchase number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", currency))
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Stock purchase must contain at least one received item")
	}

	purchase := &StockPurchase{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PurchaseNumber:      purchaseNumber,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		Currency:            currency,
		Items:               make([]ReceivedItem, 0, len(items)),
		Status:              StatusPending,
		PaymentStatus:       payment.StatusPending,
		Payments:            payment.Entries{},
	}

	var total int64
	for _, spec := range items {
		item, err := newReceivedItem(purchase.ID, spec)
		if err != nil {
			return nil, err
		}
		purchase.Items = append(purchase.Items, *item)
		total += item.Amount
	}
	purchase.TotalAmount = total

	return purchase, nil
}

// TransitionTo moves the purchase to the target status
func (p *StockPurchase) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("Unknown purchase status: %s", target))
	}
	if !p.Status.CanTransitionTo(target) {
		return shared.NewDomainError("ILLEGAL_TRANSITION",
			fmt.Sprintf("Cannot transition stock purchase from %s to %s", p.Status, target))
	}

	now := time.Now()
	p.Status = target
	switch target {
	case StatusCompleted:
		p.CompletedAt = &now
	case StatusCancelled:
		p.CancelledAt = &now
	}
	p.UpdatedAt = now

	return nil
}

// AddPayment validates the submission and appends a ledger entry,
// recomputing the derived payment status
func (p *StockPurchase) AddPayment(amount int64, method payment.Method, remark string) (*payment.Entry, error) {
	if err := payment.ValidatePayment(amount, method, p.TotalAmount, p.Payments.Sum(),
		p.Status == StatusCancelled, p.PaymentFailed); err != nil {
		return nil, err
	}

	entries, entry := p.Payments.Append(amount, method, time.Now())
	entry.Remark = remark
	entries[len(entries)-1].Remark = remark
	p.Payments = entries
	p.recomputePaymentStatus()
	p.UpdatedAt = time.Now()

	return &entry, nil
}

// MarkPaymentFailed sets the failure override and closes the payment channel
func (p *StockPurchase) MarkPaymentFailed() error {
	if p.Status == StatusCancelled {
		return shared.NewDomainError("PARENT_CLOSED", "Cannot mark payment failed on a cancelled stock purchase")
	}
	p.PaymentFailed = true
	p.recomputePaymentStatus()
	p.UpdatedAt = time.Now()
	return nil
}

// ClearPaymentFailure removes the failure override
func (p *StockPurchase) ClearPaymentFailure() {
	p.PaymentFailed = false
	p.recomputePaymentStatus()
	p.UpdatedAt = time.Now()
}

func (p *StockPurchase) recomputePaymentStatus() {
	p.PaidAmount = p.Payments.Sum()
	if p.PaymentFailed {
		p.PaymentStatus = payment.StatusFailed
		return
	}
	p.PaymentStatus = payment.DeriveStatus(p.TotalAmount, p.PaidAmount)
}

// OutstandingAmount returns the unpaid remainder in minor units
func (p *StockPurchase) OutstandingAmount() int64 {
	return p.TotalAmount - p.PaidAmount
}

// GetTotalMoney returns the frozen total as Money. A stored row with a
// blank or unknown currency surfaces as an error rather than a panic.
func (p *StockPurchase) GetTotalMoney() (valueobject.Money, error) {
	return valueobject.NewMoney(p.TotalAmount, p.Currency)
}

// GetPaidMoney returns the ledger sum as Money
func (p *StockPurchase) GetPaidMoney() (valueobject.Money, error) {
	return valueobject.NewMoney(p.PaidAmount, p.Currency)
}

// ItemCount returns the number of received items
func (p *StockPurchase) ItemCount() int {
	return len(p.Items)
}

// PaymentCount returns the number of ledger entries
func (p *StockPurchase) PaymentCount() int {
	return len(p.Payments)
}

// IsTerminal returns true if the purchase is completed or cancelled
func (p *StockPurchase) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// IsCancelled returns true if the purchase is cancelled
func (p *StockPurchase) IsCancelled() bool {
	return p.Status == StatusCancelled
}
