package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leave-core/internal/events"
	"leave-core/internal/messaging/kafka"
	"leave-core/internal/shared/contextutil"
)

// EventPublisher stages lifecycle notifications in the outbox. Staging is
// fire-and-forget: a failure is logged and never fails the caller, because
// missing a notification must not roll back a resolution.
type EventPublisher interface {
	ResolvedTx(ctx context.Context, tx *sql.Tx, l *LeaveRequest)
	Escalated(ctx context.Context, l *LeaveRequest)
}

type outboxPublisher struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewEventPublisher(outbox kafka.OutboxRepository, logger ...*zap.Logger) EventPublisher {
	l := zap.L().Named("leave.publisher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.publisher")
	}
	return &outboxPublisher{outbox: outbox, logger: l}
}

func (p *outboxPublisher) ResolvedTx(ctx context.Context, tx *sql.Tx, l *LeaveRequest) {
	event := events.LeaveResolvedEvent{
		EventType:  events.EventLeaveResolved,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		Status:     l.Status,
		ActorID:    contextutil.GetActorID(ctx),
		OccurredAt: time.Now().UTC(),
	}
	if l.ApprovedBy != nil {
		event.ApprovedBy = l.ApprovedBy.String()
	}
	p.stage(ctx, p.outbox.WithTx(tx), events.EventLeaveResolved, l.ID.String(), event)
}

func (p *outboxPublisher) Escalated(ctx context.Context, l *LeaveRequest) {
	event := events.LeaveEscalatedEvent{
		EventType:  events.EventLeaveEscalated,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		NewLevel:   l.EscalationLevel,
		OccurredAt: time.Now().UTC(),
	}
	p.stage(ctx, p.outbox, events.EventLeaveEscalated, l.ID.String(), event)
}

func (p *outboxPublisher) stage(ctx context.Context, repo kafka.OutboxRepository, eventType, leaveID string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("marshal lifecycle event failed",
			zap.String("event_type", eventType),
			zap.String("leave_id", leaveID),
			zap.Error(err),
		)
		return
	}

	err = repo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   leaveID,
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		p.logger.Error("stage lifecycle event failed",
			zap.String("event_type", eventType),
			zap.String("leave_id", leaveID),
			zap.Error(err),
		)
	}
}
