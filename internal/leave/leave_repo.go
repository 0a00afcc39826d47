package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	leaveerrors "leave-core/internal/leave/errors"
	"leave-core/internal/shared/apperror"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindPendingByEmployees(ctx context.Context, employeeIDs []string) ([]LeaveRequest, error)
	// FindPendingForAdmin returns pending requests visible to the admin
	// pool: escalated ones plus those of employees without a manager.
	FindPendingForAdmin(ctx context.Context) ([]LeaveRequest, error)
	FindPendingOverdue(ctx context.Context, cutoff time.Time) ([]LeaveRequest, error)

	// UpdatePending rewrites the mutable fields guarded on the request
	// still being pending. The returned count is the rows touched.
	UpdatePending(ctx context.Context, l *LeaveRequest) (int64, error)
	// MarkTerminal moves a pending request to a terminal status. The
	// status guard in the WHERE clause is what makes resolution
	// at-most-once: of two racing approvers exactly one sees 1 row.
	MarkTerminal(ctx context.Context, l *LeaveRequest) (int64, error)
	// PromoteEscalation lifts a pending request from manager level to the
	// admin pool. Calling it twice is harmless, the second call touches
	// zero rows.
	PromoteEscalation(ctx context.Context, id string) (int64, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	query := `
INSERT INTO leave_requests (
	id, employee_id, leave_type, start_date, end_date,
	is_half_day, half_day_period, logout_time, days, reason,
	status, escalation_level, policy_violation, applied_on, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`
	_, err := r.execer().ExecContext(ctx, query,
		l.ID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate,
		l.IsHalfDay, l.HalfDayPeriod, l.LogoutTime, l.Days, l.Reason,
		l.Status, l.EscalationLevel, l.PolicyViolation, l.AppliedOn, l.CreatedBy,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.gormDB.WithContext(ctx).
		Where("id = ?", id).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load leave request", 500)
	}
	return &l, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.gormDB.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("applied_on DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPendingByEmployees(ctx context.Context, employeeIDs []string) ([]LeaveRequest, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var leaves []LeaveRequest
	err := r.gormDB.WithContext(ctx).
		Where("status = ?", StatusPending).
		Where("employee_id IN ?", employeeIDs).
		Order("applied_on ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPendingForAdmin(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.gormDB.WithContext(ctx).
		Where("status = ?", StatusPending).
		Where("escalation_level >= ? OR employee_id IN (?)",
			MaxEscalationLevel,
			r.gormDB.Table("employees").Select("id").Where("manager_id IS NULL"),
		).
		Order("applied_on ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPendingOverdue(ctx context.Context, cutoff time.Time) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.gormDB.WithContext(ctx).
		Where("status = ?", StatusPending).
		Where("escalation_level < ?", MaxEscalationLevel).
		Where("applied_on <= ?", cutoff).
		Order("applied_on ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) UpdatePending(ctx context.Context, l *LeaveRequest) (int64, error) {
	query := `
UPDATE leave_requests
SET leave_type = $2, start_date = $3, end_date = $4,
	is_half_day = $5, half_day_period = $6, logout_time = $7,
	days = $8, reason = $9, policy_violation = $10, updated_at = NOW()
WHERE id = $1 AND status = 'PENDING'
`
	res, err := r.execer().ExecContext(ctx, query,
		l.ID, l.LeaveType, l.StartDate, l.EndDate,
		l.IsHalfDay, l.HalfDayPeriod, l.LogoutTime,
		l.Days, l.Reason, l.PolicyViolation,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) MarkTerminal(ctx context.Context, l *LeaveRequest) (int64, error) {
	query := `
UPDATE leave_requests
SET status = $2, approved_by = $3, approved_on = $4, rejection_reason = $5,
	is_partial = $6, approved_start_date = $7, approved_end_date = $8,
	days = $9, updated_at = NOW()
WHERE id = $1 AND status = 'PENDING'
`
	res, err := r.execer().ExecContext(ctx, query,
		l.ID, l.Status, l.ApprovedBy, l.ApprovedOn, l.RejectionReason,
		l.IsPartial, l.ApprovedStartDate, l.ApprovedEndDate, l.Days,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) PromoteEscalation(ctx context.Context, id string) (int64, error) {
	query := `
UPDATE leave_requests
SET escalation_level = $2, updated_at = NOW()
WHERE id = $1 AND status = 'PENDING' AND escalation_level < $2
`
	res, err := r.execer().ExecContext(ctx, query, id, MaxEscalationLevel)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
