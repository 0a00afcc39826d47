package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELLED"
)

const (
	HalfDayMorning   = "MORNING"
	HalfDayAfternoon = "AFTERNOON"
)

// LeaveRequest is the workflow unit. EmployeeID, AppliedOn and CreatedBy are
// immutable after creation; Status only ever moves PENDING -> terminal, and
// EscalationLevel only ever moves 0 -> 1.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`

	LeaveType     string          `gorm:"type:varchar(30);not null"`
	StartDate     time.Time       `gorm:"type:date;not null"`
	EndDate       time.Time       `gorm:"type:date;not null"`
	IsHalfDay     bool            `gorm:"not null;default:false"`
	HalfDayPeriod *string         `gorm:"type:varchar(10)"`
	LogoutTime    *string         `gorm:"type:varchar(5)"`
	Days          decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Reason        string          `gorm:"type:text"`

	Status          string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	EscalationLevel int    `gorm:"not null;default:0"`
	PolicyViolation bool   `gorm:"not null;default:false"`

	AppliedOn time.Time `gorm:"not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`

	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedOn      *time.Time
	RejectionReason *string `gorm:"type:text"`

	IsPartial         bool `gorm:"not null;default:false"`
	ApprovedStartDate *time.Time `gorm:"type:date"`
	ApprovedEndDate   *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }

func (l LeaveRequest) Terminal() bool {
	return l.Status != StatusPending
}

// inclusiveDays is the day count of [start, end], both ends counted.
// Holiday subtraction is deliberately not performed here.
func inclusiveDays(start, end time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1)
}
