package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	JPY Currency = "JPY" // Japanese Yen
	CNY Currency = "CNY" // Chinese Yuan
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = USD

// minorUnitExponent returns the number of decimal places used by the
// currency's minor unit (ISO 4217)
func minorUnitExponent(c Currency) int32 {
	switch c {
	case JPY:
		return 0
	default:
		return 2
	}
}

// IsValid checks if the currency code is supported
func (c Currency) IsValid() bool {
	switch c {
	case USD, EUR, GBP, JPY, CNY:
		return true
	}
	return false
}

// String returns the currency code
func (c Currency) String() string {
	return string(c)
}

// Money is a value object representing monetary amounts in integer minor
// units (e.g. cents). It is immutable - all operations return new instances.
// Integer minor units keep ledger arithmetic exact; decimal conversion is
// only used at the display/parse boundary.
type Money struct {
	minor    int64
	currency Currency
}

// NewMoney creates Money from an amount in minor units
func NewMoney(minor int64, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("unsupported currency: %s", currency)
	}
	return Money{minor: minor, currency: currency}, nil
}

// MustMoney creates Money from minor units and panics on invalid currency.
// For use in tests and package-level defaults only.
func MustMoney(minor int64, currency Currency) Money {
	m, err := NewMoney(minor, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMoney creates Money from a decimal string representation of major
// units ("49.99" -> 4999 minor units for USD)
func ParseMoney(amount string, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("unsupported currency: %s", currency)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	exp := minorUnitExponent(currency)
	shifted := d.Shift(exp)
	if !shifted.IsInteger() {
		return Money{}, fmt.Errorf("amount %s has more than %d decimal places", amount, exp)
	}
	return Money{minor: shifted.IntPart(), currency: currency}, nil
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{minor: 0, currency: currency}
}

// MinorUnits returns the amount in minor units
func (m Money) MinorUnits() int64 {
	return m.minor
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Decimal returns the amount in major units as a decimal
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.minor).Shift(-minorUnitExponent(m.currency))
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.minor == 0
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.minor > 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.minor < 0
}

// Add returns a new Money with the sum of both amounts.
// Returns error if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{minor: m.minor + other.minor, currency: m.currency}, nil
}

// Sub returns a new Money with the difference of both amounts.
// Returns error if currencies don't match.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{minor: m.minor - other.minor, currency: m.currency}, nil
}

// MulInt returns a new Money multiplied by an integer factor
func (m Money) MulInt(factor int64) Money {
	return Money{minor: m.minor * factor, currency: m.currency}
}

// GreaterThan returns true if m > other. Currencies must match; mismatched
// currencies compare false.
func (m Money) GreaterThan(other Money) bool {
	return m.currency == other.currency && m.minor > other.minor
}

// LessThan returns true if m < other
func (m Money) LessThan(other Money) bool {
	return m.currency == other.currency && m.minor < other.minor
}

// Equals returns true if amount and currency are equal
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.minor == other.minor
}

// String returns a human-readable representation ("49.99 USD")
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(minorUnitExponent(m.currency)), m.currency)
}
