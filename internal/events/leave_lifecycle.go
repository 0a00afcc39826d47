package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	EventLeaveResolved  = "leave_resolved"
	EventLeaveEscalated = "leave_escalated"
)

// LeaveResolvedEvent is emitted once per terminal transition. Delivery is
// fire-and-forget; consumers must tolerate at-most-once.
type LeaveResolvedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	ApprovedBy string    `json:"approved_by,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LeaveEscalatedEvent struct {
	EventType  string    `json:"event_type"`
	LeaveID    string    `json:"leave_id"`
	EmployeeID string    `json:"employee_id"`
	NewLevel   int       `json:"new_level"`
	OccurredAt time.Time `json:"occurred_at"`
}
