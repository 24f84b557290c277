package payment

import (
	"fmt"

	"github.com/salesops/backend/internal/domain/shared"
)

// Status represents the payment status of an order or stock purchase.
// It is derived from the ledger sum against the frozen total; FAILED is the
// one exception, set by an explicit override rather than derived.
type Status string

const (
	StatusPending       Status = "PENDING"        // No payment recorded yet
	StatusPartiallyPaid Status = "PARTIALLY_PAID" // 0 < ledger sum < total
	StatusPaid          Status = "PAID"           // Ledger sum equals total
	StatusFailed        Status = "FAILED"         // Externally-set override, blocks further payments
)

// IsValid checks if the status is a valid payment Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPartiallyPaid, StatusPaid, StatusFailed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// DeriveStatus computes the payment status from the frozen total and the
// ledger sum, both in minor units. The overpayment guard in ValidatePayment
// rejects any submission that would push the sum past the total, so this is
// only ever evaluated at ledgerSum <= total.
func DeriveStatus(total, ledgerSum int64) Status {
	switch {
	case ledgerSum <= 0:
		return StatusPending
	case ledgerSum < total:
		return StatusPartiallyPaid
	default:
		return StatusPaid
	}
}

// ValidatePayment checks a payment submission against a consistent snapshot
// of the parent aggregate. Checks run in a fixed order: parent closed,
// payment channel closed, amount validity, overpayment. It returns nil when
// the submission may be appended to the ledger.
func ValidatePayment(amount int64, method Method, total, ledgerSum int64, parentClosed, channelFailed bool) error {
	if parentClosed {
		return shared.NewDomainError("PARENT_CLOSED", "Cannot record payment on a cancelled parent")
	}
	if channelFailed {
		return shared.NewDomainError("PAYMENT_CHANNEL_CLOSED", "Payment channel is closed until the failure is cleared")
	}
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_METHOD", fmt.Sprintf("Unknown payment method: %s", method))
	}
	if amount > total-ledgerSum {
		return shared.NewDomainError("OVERPAYMENT_NOT_ALLOWED",
			fmt.Sprintf("Payment of %d exceeds outstanding amount %d", amount, total-ledgerSum))
	}
	return nil
}
