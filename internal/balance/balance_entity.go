package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is the authoritative (employee, leave type) quota record.
// Total is NULL for unbounded types (LWP); Used accumulates debits and is
// reduced by credits. Remaining is always derived, never stored, so the two
// can not drift apart.
type LeaveBalance struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_balances_employee_type"`
	LeaveType  string           `gorm:"type:varchar(30);not null;uniqueIndex:idx_balances_employee_type"`
	Total      *decimal.Decimal `gorm:"type:numeric(6,2)"`
	Used       decimal.Decimal  `gorm:"type:numeric(6,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b LeaveBalance) Unbounded() bool {
	return b.Total == nil
}

// Remaining returns total - used, or nil for unbounded types.
func (b LeaveBalance) Remaining() *decimal.Decimal {
	if b.Total == nil {
		return nil
	}
	r := b.Total.Sub(b.Used)
	return &r
}

// InDeficit reports whether an override approval has driven the balance
// negative. Recorded, not rejected.
func (b LeaveBalance) InDeficit() bool {
	r := b.Remaining()
	return r != nil && r.IsNegative()
}
