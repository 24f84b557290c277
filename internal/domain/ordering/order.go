package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesops/backend/internal/domain/payment"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/domain/shared/valueobject"
)

// Status represents the status of a customer order
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid checks if the status is a valid order Status
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

// LineItem represents a line item in an order. Line items are fixed at
// creation; the order total is computed from them once and frozen.
type LineItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitPrice   int64 // minor units
	Amount      int64 // Quantity * UnitPrice, minor units
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "order_line_items"
}

// LineItemSpec is the input used to build a line item at order creation
type LineItemSpec struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitPrice   int64 // minor units
}

// newLineItem validates a spec and builds the line item
func newLineItem(orderID uuid.UUID, spec LineItemSpec) (*LineItem, error) {
	if spec.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if spec.ProductName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if spec.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if spec.UnitPrice < 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   spec.ProductID,
		ProductName: spec.ProductName,
		Quantity:    spec.Quantity,
		UnitPrice:   spec.UnitPrice,
		Amount:      spec.Quantity * spec.UnitPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Order represents a customer order aggregate root. It owns its payment
// ledger; ledger writes and the derived payment status move together inside
// one optimistic-lock save.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber   string
	CustomerID    uuid.UUID
	CustomerName  string
	Currency      valueobject.Currency `gorm:"type:varchar(3)"`
	Items         []LineItem           `gorm:"foreignKey:OrderID"`
	TotalAmount   int64                // frozen at creation, minor units
	PaidAmount    int64                // ledger sum, minor units
	Status        Status
	PaymentStatus payment.Status
	// PaymentFailed is the externally-set override: while true the effective
	// payment status is FAILED and the payment channel is closed.
	PaymentFailed bool
	Payments      payment.Entries `gorm:"type:jsonb"`
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in PENDING/PENDING state. The total is
// computed from the line items and frozen.
func NewOrder(tenantID uuid.UUID, orderNumber string, customerID uuid.UUID, customerName string, currency valueobject.Currency, items []LineItemSpec) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Unsupported currency: %s", currency))
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one line item")
	}

	order := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		CustomerID:          customerID,
		CustomerName:        customerName,
		Currency:            currency,
		Items:               make([]LineItem, 0, len(items)),
		Status:              StatusPending,
		PaymentStatus:       payment.StatusPending,
		Payments:            payment.Entries{},
	}

	var total int64
	for _, spec := range items {
		item, err := newLineItem(order.ID, spec)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
		total += item.Amount
	}
	order.TotalAmount = total

	return order, nil
}

// TransitionTo moves the order to the target status. Transitions are
// validated against the state machine; terminal states reject everything.
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("ILLEGAL_TRANSITION",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	now := time.Now()
	o.Status = target
	switch target {
	case StatusCompleted:
		o.CompletedAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}
	o.UpdatedAt = now

	return nil
}

// AddPayment validates the submission against the current snapshot and
// appends a ledger entry, recomputing the derived payment status. Failed
// validation leaves the ledger and status untouched.
func (o *Order) AddPayment(amount int64, method payment.Method, remark string) (*payment.Entry, error) {
	if err := payment.ValidatePayment(amount, method, o.TotalAmount, o.Payments.Sum(),
		o.Status == StatusCancelled, o.PaymentFailed); err != nil {
		return nil, err
	}

	entries, entry := o.Payments.Append(amount, method, time.Now())
	entry.Remark = remark
	entries[len(entries)-1].Remark = remark
	o.Payments = entries
	o.recomputePaymentStatus()
	o.UpdatedAt = time.Now()

	return &entry, nil
}

// MarkPaymentFailed sets the externally-driven failure override, e.g. from
// a payment provider callback. Further payments are rejected until cleared.
func (o *Order) MarkPaymentFailed() error {
	if o.Status == StatusCancelled {
		return shared.NewDomainError("PARENT_CLOSED", "Cannot mark payment failed on a cancelled order")
	}
	o.PaymentFailed = true
	o.recomputePaymentStatus()
	o.UpdatedAt = time.Now()
	return nil
}

// ClearPaymentFailure removes the failure override; the payment status
// reverts to the value derived from the ledger.
func (o *Order) ClearPaymentFailure() {
	o.PaymentFailed = false
	o.recomputePaymentStatus()
	o.UpdatedAt = time.Now()
}

// recomputePaymentStatus re-derives the payment status from the ledger.
// The override flag wins over the derived value.
func (o *Order) recomputePaymentStatus() {
	o.PaidAmount = o.Payments.Sum()
	if o.PaymentFailed {
		o.PaymentStatus = payment.StatusFailed
		return
	}
	o.PaymentStatus = payment.DeriveStatus(o.TotalAmount, o.PaidAmount)
}

// OutstandingAmount returns the unpaid remainder in minor units
func (o *Order) OutstandingAmount() int64 {
	return o.TotalAmount - o.PaidAmount
}

// GetTotalMoney returns the frozen total as Money. A stored row with a
// blank or unknown currency surfaces as an error rather than a panic.
func (o *Order) GetTotalMoney() (valueobject.Money, error) {
	return valueobject.NewMoney(o.TotalAmount, o.Currency)
}

// GetPaidMoney returns the ledger sum as Money
func (o *Order) GetPaidMoney() (valueobject.Money, error) {
	return valueobject.NewMoney(o.PaidAmount, o.Currency)
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// PaymentCount returns the number of ledger entries
func (o *Order) PaymentCount() int {
	return len(o.Payments)
}

// PaidPercentage returns the percentage of the total that has been paid (0-100)
func (o *Order) PaidPercentage() float64 {
	if o.TotalAmount == 0 {
		return 100
	}
	return float64(o.PaidAmount) / float64(o.TotalAmount) * 100
}

// IsTerminal returns true if the order is completed or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == StatusCancelled
}
