package consumer

import (
	"context"
	"encoding/json"

	"leave-core/internal/directory"
	"leave-core/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveLifecycle turns lifecycle events into notifications. Delivery
// here is a structured log line per recipient; a mail or chat sink can be
// swapped in without touching the producers. Undecodable messages are
// committed and skipped, transient failures are retried by not committing.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	dir directory.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var envelope struct {
			EventType string `json:"event_type"`
		}
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			log.Error("decode lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		switch envelope.EventType {
		case events.EventLeaveResolved:
			err = notifyResolved(ctx, msg.Value, log)
		case events.EventLeaveEscalated:
			err = notifyEscalated(ctx, msg.Value, dir, log)
		default:
			log.Warn("unknown lifecycle event type, skipping",
				zap.String("event_type", envelope.EventType),
			)
		}
		if err != nil {
			log.Error("handle lifecycle event failed",
				zap.String("event_type", envelope.EventType),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit lifecycle message failed", zap.Error(err))
		}
	}
}

func notifyResolved(ctx context.Context, payload []byte, log *zap.Logger) error {
	var event events.LeaveResolvedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	log.Info("notify employee of resolution",
		zap.String("leave_id", event.LeaveID),
		zap.String("recipient", event.EmployeeID),
		zap.String("status", event.Status),
		zap.String("resolved_by", event.ApprovedBy),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

func notifyEscalated(ctx context.Context, payload []byte, dir directory.Service, log *zap.Logger) error {
	var event events.LeaveEscalatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}

	// Escalations notify the whole admin pool, the new owners of the
	// request.
	admins, err := dir.ListAdmins(ctx)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		log.Info("notify admin of escalation",
			zap.String("leave_id", event.LeaveID),
			zap.String("recipient", admin.ID),
			zap.String("employee_id", event.EmployeeID),
			zap.Int("level", event.NewLevel),
		)
	}
	return nil
}
