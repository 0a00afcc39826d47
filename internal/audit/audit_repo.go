package audit

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"leave-core/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var ErrDuplicateEntry = apperror.New(
	apperror.CodeConflict,
	"audit entry already recorded",
	http.StatusConflict,
)

// Repository is intentionally narrow: Append and ListByLeave only. There is
// no update and no delete.
//
//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, e *AuditLogEntry) error
	ListByLeave(ctx context.Context, leaveID string) ([]AuditLogEntry, error)
}

type repository struct {
	gormDB *gorm.DB
	db     *sql.DB
	tx     *sql.Tx
}

func NewRepository(gormDB *gorm.DB, db *sql.DB) Repository {
	return &repository{gormDB: gormDB, db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{gormDB: r.gormDB, db: r.db, tx: tx}
}

func (r *repository) Append(ctx context.Context, e *AuditLogEntry) error {
	query := `
        INSERT INTO audit_log_entries (
            id, leave_id, action, performed_by, timestamp, old_data, new_data, remarks
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		e.ID, e.LeaveID, e.Action, e.PerformedBy, e.Timestamp,
		nullableJSON(e.OldData), nullableJSON(e.NewData), e.Remarks,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEntry
		}
		return err
	}
	return nil
}

func (r *repository) ListByLeave(ctx context.Context, leaveID string) ([]AuditLogEntry, error) {
	var entries []AuditLogEntry
	err := r.gormDB.WithContext(ctx).
		Where("leave_id = ?", leaveID).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
