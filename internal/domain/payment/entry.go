package payment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Method represents the channel a payment was made through
type Method string

const (
	MethodCash   Method = "CASH"   // Cash payment
	MethodOnline Method = "ONLINE" // Online payment (gateway, transfer)
	MethodOther  Method = "OTHER"  // Other methods
)

// IsValid checks if the payment method is valid
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodOnline, MethodOther:
		return true
	}
	return false
}

// String returns the string representation of Method
func (m Method) String() string {
	return string(m)
}

// Entry represents a single payment event applied to an order or stock
// purchase. Entries are append-only: once recorded they are never edited or
// removed individually. Corrections are made by recording a compensating
// entry; negative amounts are not permitted.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	Amount     int64     `json:"amount"` // minor units, always > 0
	Method     Method    `json:"method"`
	RecordedAt time.Time `json:"recorded_at"`
	Remark     string    `json:"remark,omitempty"`
}

// Entries is the payment ledger of one aggregate, stored as JSONB so the
// ledger lives and dies with its owning row
type Entries []Entry

// Value implements driver.Valuer for GORM to store as JSONB
func (e Entries) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	return json.Marshal(e)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (e *Entries) Scan(value interface{}) error {
	if value == nil {
		*e = Entries{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan payment entries: unsupported type")
	}

	if len(bytes) == 0 {
		*e = Entries{}
		return nil
	}

	return json.Unmarshal(bytes, e)
}

// Sum returns the total of all recorded amounts in minor units
func (e Entries) Sum() int64 {
	var total int64
	for _, entry := range e {
		total += entry.Amount
	}
	return total
}

// Append records a new entry and returns the extended ledger together with
// the created entry. RecordedAt is kept monotonically non-decreasing: a
// clock reading earlier than the last entry is clamped to it.
func (e Entries) Append(amount int64, method Method, now time.Time) (Entries, Entry) {
	if n := len(e); n > 0 && now.Before(e[n-1].RecordedAt) {
		now = e[n-1].RecordedAt
	}
	entry := Entry{
		ID:         uuid.New(),
		Amount:     amount,
		Method:     method,
		RecordedAt: now,
	}
	return append(e, entry), entry
}

// ContainsMethod reports whether any entry was recorded with the given method
func (e Entries) ContainsMethod(method Method) bool {
	for _, entry := range e {
		if entry.Method == method {
			return true
		}
	}
	return false
}
