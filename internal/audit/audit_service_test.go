package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"leave-core/internal/audit"

	auditMock "leave-core/internal/audit/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuditService_RecordTx(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := auditMock.NewMockRepository(ctrl)
		svc := audit.NewService(repo)

		sqlMock.ExpectBegin()
		tx, err := db.Begin()
		assert.NoError(t, err)

		var captured *audit.AuditLogEntry
		repo.EXPECT().WithTx(tx).Return(repo)
		repo.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, e *audit.AuditLogEntry) error {
				captured = e
				return nil
			},
		)

		before := map[string]any{"status": "PENDING"}
		after := map[string]any{"status": "APPROVED"}
		err = svc.RecordTx(ctx, tx, leaveID, actorID, audit.ActionApproved, before, after, "looks fine")

		assert.NoError(t, err)
		assert.NotNil(t, captured)
		assert.Equal(t, leaveID, captured.LeaveID.String())
		assert.Equal(t, actorID, captured.PerformedBy.String())
		assert.Equal(t, audit.ActionApproved, captured.Action)
		assert.Equal(t, "looks fine", captured.Remarks)
		assert.WithinDuration(t, time.Now().UTC(), captured.Timestamp, time.Minute)

		var oldMap map[string]any
		assert.NoError(t, json.Unmarshal(captured.OldData, &oldMap))
		assert.Equal(t, "PENDING", oldMap["status"])
	})

	t.Run("negative invalid leave id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := auditMock.NewMockRepository(ctrl)
		svc := audit.NewService(repo)

		err := svc.Record(ctx, "not-a-uuid", actorID, audit.ActionApplied, nil, map[string]any{"status": "PENDING"}, "")

		assert.Error(t, err)
	})
}

func TestAuditService_ListByLeave(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New().String()

	t.Run("success ordered as stored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := auditMock.NewMockRepository(ctrl)
		svc := audit.NewService(repo)

		entryID := uuid.New()
		actorID := uuid.New()
		repo.EXPECT().ListByLeave(ctx, leaveID).Return([]audit.AuditLogEntry{
			{
				ID:          entryID,
				LeaveID:     uuid.MustParse(leaveID),
				Action:      audit.ActionApplied,
				PerformedBy: actorID,
				Timestamp:   time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
			},
		}, nil)

		resp, err := svc.ListByLeave(ctx, leaveID)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, entryID.String(), resp[0].ID)
		assert.Equal(t, audit.ActionApplied, resp[0].Action)
		assert.Equal(t, "2026-05-01T08:00:00Z", resp[0].Timestamp)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := auditMock.NewMockRepository(ctrl)
		svc := audit.NewService(repo)

		_, err := svc.ListByLeave(ctx, "nope")

		assert.Error(t, err)
	})
}
