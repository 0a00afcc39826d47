package balance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leave-core/internal/audit"
	balanceerrors "leave-core/internal/balance/errors"
	"leave-core/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const cacheTTL = 60 * time.Second

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetByEmployee(ctx context.Context, employeeID string) ([]BalanceResponse, error)
	// Sufficient reports whether the remaining balance covers the requested
	// days. Unbounded types are always sufficient. Callers surface a
	// shortfall as a warning, never as a gate.
	Sufficient(ctx context.Context, employeeID, leaveType string, days decimal.Decimal) (bool, error)
	// Adjust is the administrative override path: a manual credit or debit,
	// optionally tied to a leave request for the audit trail.
	Adjust(ctx context.Context, actorID, employeeID string, req AdjustBalanceRequest) (BalanceResponse, error)

	// DebitTx/CreditTx run inside the caller's transaction so the ledger
	// effect commits atomically with the owning state transition. They do
	// not touch the cache; the caller invalidates once its tx commits.
	DebitTx(ctx context.Context, tx *sql.Tx, employeeID, leaveType string, amount decimal.Decimal) (*LeaveBalance, error)
	CreditTx(ctx context.Context, tx *sql.Tx, employeeID, leaveType string, amount decimal.Decimal) (*LeaveBalance, error)

	// InvalidateCache drops the cached balances for an employee. Called
	// after commit, never inside the transaction, so a concurrent read
	// cannot re-fill the cache with pre-commit data.
	InvalidateCache(ctx context.Context, employeeID string)
}

type service struct {
	db       *sql.DB
	repo     Repository
	auditSvc audit.Service
	rdb      *redis.Client
	sf       singleflight.Group
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, auditSvc audit.Service, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, auditSvc: auditSvc, rdb: rdb, logger: l}
}

func cacheKey(employeeID string) string {
	return fmt.Sprintf("balances:%s", employeeID)
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}

	key := cacheKey(employeeID)
	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached []BalanceResponse
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	// Collapse concurrent fills for the same employee.
	v, err, _ := s.sf.Do(key, func() (any, error) {
		balances, err := s.repo.ListByEmployee(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(balances)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
					s.logger.Warn("balance cache set failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]BalanceResponse), nil
}

func (s *service) Sufficient(ctx context.Context, employeeID, leaveType string, days decimal.Decimal) (bool, error) {
	if domain.UnboundedLeaveType(leaveType) {
		return true, nil
	}

	b, err := s.repo.Get(ctx, employeeID, leaveType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No quota row provisioned: nothing to consume from.
			return false, nil
		}
		return false, err
	}

	remaining := b.Remaining()
	if remaining == nil {
		return true, nil
	}
	return remaining.GreaterThanOrEqual(days), nil
}

func (s *service) DebitTx(ctx context.Context, tx *sql.Tx, employeeID, leaveType string, amount decimal.Decimal) (*LeaveBalance, error) {
	if !amount.IsPositive() {
		return nil, balanceerrors.ErrNonPositiveAmount
	}
	b, err := s.repo.WithTx(tx).ApplyDelta(ctx, employeeID, leaveType, amount)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) CreditTx(ctx context.Context, tx *sql.Tx, employeeID, leaveType string, amount decimal.Decimal) (*LeaveBalance, error) {
	if !amount.IsPositive() {
		return nil, balanceerrors.ErrNonPositiveAmount
	}
	b, err := s.repo.WithTx(tx).ApplyDelta(ctx, employeeID, leaveType, amount.Neg())
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Adjust(ctx context.Context, actorID, employeeID string, req AdjustBalanceRequest) (BalanceResponse, error) {
	s.logger.Debug("adjust balance requested",
		zap.String("actor_id", actorID),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("direction", req.Direction),
		zap.Float64("amount", req.Amount),
	)

	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
	}
	if !domain.ValidLeaveType(req.LeaveType) {
		return BalanceResponse{}, balanceerrors.ErrInvalidLeaveType
	}
	amount := decimal.NewFromFloat(req.Amount)
	if !amount.IsPositive() {
		return BalanceResponse{}, balanceerrors.ErrNonPositiveAmount
	}
	if req.LeaveID != nil {
		if _, err := uuid.Parse(*req.LeaveID); err != nil {
			return BalanceResponse{}, balanceerrors.ErrInvalidLeaveID
		}
	}

	delta := amount
	if req.Direction == "credit" {
		delta = amount.Neg()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("adjust balance begin tx failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	b, err := s.repo.WithTx(tx).ApplyDelta(ctx, employeeID, req.LeaveType, delta)
	if err != nil {
		s.logger.Error("adjust balance apply failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	if req.LeaveID != nil {
		usedBefore := b.Used.Sub(delta)
		err = s.auditSvc.RecordTx(ctx, tx, *req.LeaveID, actorID, audit.ActionUpdated,
			map[string]any{"balance_used": usedBefore.InexactFloat64()},
			map[string]any{"balance_used": b.Used.InexactFloat64()},
			req.Remarks,
		)
		if err != nil {
			return BalanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("adjust balance commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	s.InvalidateCache(ctx, employeeID)
	s.logger.Info("adjust balance success",
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("direction", req.Direction),
	)
	return mapToResponse(*b), nil
}

func (s *service) InvalidateCache(ctx context.Context, employeeID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cacheKey(employeeID)).Err(); err != nil {
		s.logger.Warn("balance cache invalidate failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
	}
}
