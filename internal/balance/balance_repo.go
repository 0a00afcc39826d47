package balance

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Get(ctx context.Context, employeeID, leaveType string) (*LeaveBalance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveBalance, error)
	// ApplyDelta atomically shifts the used column for one (employee, type)
	// key and returns the post-mutation row. Positive delta consumes balance,
	// negative delta restores it. A missing row is created with no quota, so
	// recording usage never fails.
	ApplyDelta(ctx context.Context, employeeID, leaveType string, delta decimal.Decimal) (*LeaveBalance, error)
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

func (r *repository) Get(ctx context.Context, employeeID, leaveType string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.gormDB.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		First(&b).Error
	return &b, err
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.gormDB.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("leave_type ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) ApplyDelta(ctx context.Context, employeeID, leaveType string, delta decimal.Decimal) (*LeaveBalance, error) {
	// Single-statement read-modify-write: the store serializes concurrent
	// deltas on the same key, so lost updates cannot happen.
	query := `
INSERT INTO leave_balances (id, employee_id, leave_type, total, used)
VALUES (gen_random_uuid(), $1, $2, NULL, $3)
ON CONFLICT (employee_id, leave_type)
DO UPDATE SET used = leave_balances.used + EXCLUDED.used, updated_at = NOW()
RETURNING id, employee_id, leave_type, total, used
`

	row := r.querier().QueryRowContext(ctx, query, employeeID, leaveType, delta)

	var (
		b     LeaveBalance
		total decimal.NullDecimal
	)
	if err := row.Scan(&b.ID, &b.EmployeeID, &b.LeaveType, &total, &b.Used); err != nil {
		return nil, err
	}
	if total.Valid {
		b.Total = &total.Decimal
	}
	return &b, nil
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
