package audit

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionApplied   = "APPLIED"
	ActionApproved  = "APPROVED"
	ActionRejected  = "REJECTED"
	ActionCancelled = "CANCELLED"
	ActionUpdated   = "UPDATED"
	ActionEscalated = "ESCALATED"
)

// AuditLogEntry is append-only. Rows are created once and never mutated or
// deleted; the trail is the only way history is reconstructed.
type AuditLogEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveID     uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_leave"`
	Action      string    `gorm:"type:varchar(20);not null"`
	PerformedBy uuid.UUID `gorm:"type:uuid;not null"`
	Timestamp   time.Time `gorm:"not null"`
	OldData     []byte    `gorm:"type:jsonb"`
	NewData     []byte    `gorm:"type:jsonb"`
	Remarks     string    `gorm:"type:text"`
}

func (AuditLogEntry) TableName() string { return "audit_log_entries" }
