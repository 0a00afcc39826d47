package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	// RecordTx appends one entry inside the caller's transaction so the
	// entry commits or rolls back together with the mutation it describes.
	RecordTx(ctx context.Context, tx *sql.Tx, leaveID, performedBy, action string, before, after map[string]any, remarks string) error
	// Record appends one entry outside of any transaction, for mutations
	// that are themselves single-statement (escalation promotion).
	Record(ctx context.Context, leaveID, performedBy, action string, before, after map[string]any, remarks string) error
	ListByLeave(ctx context.Context, leaveID string) ([]AuditEntryResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) RecordTx(ctx context.Context, tx *sql.Tx, leaveID, performedBy, action string, before, after map[string]any, remarks string) error {
	return s.record(ctx, s.repo.WithTx(tx), leaveID, performedBy, action, before, after, remarks)
}

func (s *service) Record(ctx context.Context, leaveID, performedBy, action string, before, after map[string]any, remarks string) error {
	return s.record(ctx, s.repo, leaveID, performedBy, action, before, after, remarks)
}

func (s *service) record(ctx context.Context, repo Repository, leaveID, performedBy, action string, before, after map[string]any, remarks string) error {
	leaveUUID, err := uuid.Parse(leaveID)
	if err != nil {
		return err
	}
	actorUUID, err := uuid.Parse(performedBy)
	if err != nil {
		return err
	}

	oldData, newData, err := Diff(before, after)
	if err != nil {
		return err
	}

	entry := &AuditLogEntry{
		ID:          uuid.New(),
		LeaveID:     leaveUUID,
		Action:      action,
		PerformedBy: actorUUID,
		Timestamp:   time.Now().UTC(),
		OldData:     oldData,
		NewData:     newData,
		Remarks:     remarks,
	}

	if err := repo.Append(ctx, entry); err != nil {
		s.logger.Error("append audit entry failed",
			zap.String("leave_id", leaveID),
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) ListByLeave(ctx context.Context, leaveID string) ([]AuditEntryResponse, error) {
	if _, err := uuid.Parse(leaveID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListByLeave(ctx, leaveID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(entries), nil
}
