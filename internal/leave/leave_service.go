package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"leave-core/internal/audit"
	"leave-core/internal/balance"
	"leave-core/internal/directory"
	"leave-core/internal/domain"
	leaveerrors "leave-core/internal/leave/errors"
	"leave-core/internal/shared/contextutil"
)

// SystemActorID marks mutations performed by the engine itself, such as
// timeout escalations recorded by the background sweep.
var SystemActorID = uuid.Nil.String()

const balanceWarningMessage = "remaining balance does not cover this request; approval will drive the ledger negative"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, id string, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, id, rejectionReason string) (LeaveResponse, error)

	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	ListPending(ctx context.Context, actorID, scope string) ([]LeaveResponse, error)
	ListHistory(ctx context.Context, employeeID string) ([]LeaveResponse, error)

	// EscalateOverdue promotes every pending request past the escalation
	// deadline and reports how many were promoted. Safe to run on a timer
	// from several workers at once.
	EscalateOverdue(ctx context.Context) (int, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    balance.Service
	auditSvc  audit.Service
	dir       directory.Service
	publisher EventPublisher
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger balance.Service,
	auditSvc audit.Service,
	dir directory.Service,
	publisher EventPublisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    ledger,
		auditSvc:  auditSvc,
		dir:       dir,
		publisher: publisher,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, actorID string, req SubmitLeaveRequest) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	employeeUUID := actorUUID
	onBehalf := false
	if req.EmployeeID != nil && *req.EmployeeID != actorID {
		employeeUUID, err = uuid.Parse(*req.EmployeeID)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
		}
		onBehalf = true
	}

	if onBehalf {
		isAdmin, err := s.dir.IsAdmin(ctx, actorID)
		if err != nil {
			return LeaveResponse{}, err
		}
		if !isAdmin {
			return LeaveResponse{}, leaveerrors.ErrOnBehalfForbidden
		}
	}

	start, end, days, err := validateWindow(req.LeaveType, req.StartDate, req.EndDate, req.IsHalfDay, req.HalfDayPeriod, req.LogoutTime)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !onBehalf && req.Reason == "" {
		return LeaveResponse{}, leaveerrors.ErrReasonRequired
	}

	now := time.Now().UTC()

	// The planned-leave notice window is a hard rule for self-service and
	// a recorded violation when an admin files on someone's behalf.
	policyViolation := false
	if violatesPlannedNotice(req.LeaveType, start, now) {
		if !onBehalf {
			return LeaveResponse{}, leaveerrors.ErrPlannedNoticeTooShort
		}
		policyViolation = true
	}

	// Balance shortfall warns, never blocks. The ledger settles at
	// approval time and may legitimately go negative.
	balanceWarning := ""
	sufficient, err := s.ledger.Sufficient(ctx, employeeUUID.String(), req.LeaveType, days)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("balance check failed on submit",
			zap.String("employee_id", employeeUUID.String()),
			zap.Error(err),
		)
	} else if !sufficient {
		balanceWarning = balanceWarningMessage
	}

	l := &LeaveRequest{
		ID:              uuid.New(),
		EmployeeID:      employeeUUID,
		LeaveType:       req.LeaveType,
		StartDate:       start,
		EndDate:         end,
		IsHalfDay:       req.IsHalfDay,
		HalfDayPeriod:   req.HalfDayPeriod,
		LogoutTime:      req.LogoutTime,
		Days:            days,
		Reason:          req.Reason,
		Status:          StatusPending,
		EscalationLevel: 0,
		PolicyViolation: policyViolation,
		AppliedOn:       now,
		CreatedBy:       actorUUID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, l); err != nil {
		return LeaveResponse{}, err
	}
	if err := s.auditSvc.RecordTx(ctx, tx, l.ID.String(), actorID, audit.ActionApplied, nil, snapshot(l), req.Reason); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	resp := mapToResponse(l)
	resp.BalanceWarning = balanceWarning
	resp.Route = s.resolveRoute(ctx, l)
	return resp, nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	l, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Terminal() {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	start, end, days, err := validateWindow(req.LeaveType, req.StartDate, req.EndDate, req.IsHalfDay, req.HalfDayPeriod, req.LogoutTime)
	if err != nil {
		return LeaveResponse{}, err
	}
	ownerEdit := actorID == l.EmployeeID.String()
	if ownerEdit && req.Reason == "" {
		return LeaveResponse{}, leaveerrors.ErrReasonRequired
	}

	policyViolation := l.PolicyViolation
	if violatesPlannedNotice(req.LeaveType, start, time.Now().UTC()) {
		if ownerEdit {
			return LeaveResponse{}, leaveerrors.ErrPlannedNoticeTooShort
		}
		policyViolation = true
	}

	before := snapshot(l)

	updated := *l
	updated.LeaveType = req.LeaveType
	updated.StartDate = start
	updated.EndDate = end
	updated.IsHalfDay = req.IsHalfDay
	updated.HalfDayPeriod = req.HalfDayPeriod
	updated.LogoutTime = req.LogoutTime
	updated.Days = days
	updated.Reason = req.Reason
	updated.PolicyViolation = policyViolation

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	n, err := s.repo.WithTx(tx).UpdatePending(ctx, &updated)
	if err != nil {
		return LeaveResponse{}, err
	}
	if n == 0 {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}
	if err := s.auditSvc.RecordTx(ctx, tx, id, actorID, audit.ActionUpdated, before, snapshot(&updated), ""); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	resp := mapToResponse(&updated)
	resp.Route = s.resolveRoute(ctx, &updated)
	return resp, nil
}

func (s *service) Cancel(ctx context.Context, actorID, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	l, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Terminal() {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	if actorID != l.EmployeeID.String() && actorID != SystemActorID {
		isAdmin, err := s.dir.IsAdmin(ctx, actorID)
		if err != nil {
			return LeaveResponse{}, err
		}
		if !isAdmin {
			return LeaveResponse{}, leaveerrors.ErrCancelForbidden
		}
	}

	before := snapshot(l)
	updated := *l
	updated.Status = StatusCanceled

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	n, err := s.repo.WithTx(tx).MarkTerminal(ctx, &updated)
	if err != nil {
		return LeaveResponse{}, err
	}
	if n == 0 {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}
	if err := s.auditSvc.RecordTx(ctx, tx, id, actorID, audit.ActionCancelled, before, snapshot(&updated), ""); err != nil {
		return LeaveResponse{}, err
	}
	s.publisher.ResolvedTx(ctx, tx, &updated)
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	return mapToResponse(&updated), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string, req ApproveLeaveRequest) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	l, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Terminal() {
		return LeaveResponse{}, leaveerrors.ErrAlreadyResolved
	}

	approvedStart, approvedEnd, isPartial, err := resolvePartialRange(l, req.ApprovedStartDate, req.ApprovedEndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	approvedDays := l.Days
	if isPartial {
		approvedDays = inclusiveDays(approvedStart, approvedEnd)
	}

	now := time.Now().UTC()
	before := snapshot(l)

	updated := *l
	updated.Status = StatusApproved
	updated.ApprovedBy = &actorUUID
	updated.ApprovedOn = &now
	updated.IsPartial = isPartial
	if isPartial {
		updated.ApprovedStartDate = &approvedStart
		updated.ApprovedEndDate = &approvedEnd
		updated.Days = approvedDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	// CAS first: lose the race here and the ledger is never touched.
	n, err := s.repo.WithTx(tx).MarkTerminal(ctx, &updated)
	if err != nil {
		return LeaveResponse{}, err
	}
	if n == 0 {
		return LeaveResponse{}, leaveerrors.ErrAlreadyResolved
	}

	bal, err := s.ledger.DebitTx(ctx, tx, l.EmployeeID.String(), l.LeaveType, approvedDays)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := s.auditSvc.RecordTx(ctx, tx, id, actorID, audit.ActionApproved, before, snapshot(&updated), req.Remarks); err != nil {
		return LeaveResponse{}, err
	}
	s.publisher.ResolvedTx(ctx, tx, &updated)
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}
	s.ledger.InvalidateCache(ctx, l.EmployeeID.String())

	resp := mapToResponse(&updated)
	resp.DeficitWarning = bal.InDeficit()
	return resp, nil
}

func (s *service) Reject(ctx context.Context, actorID, id, rejectionReason string) (LeaveResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if rejectionReason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	l, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Terminal() {
		return LeaveResponse{}, leaveerrors.ErrAlreadyResolved
	}

	before := snapshot(l)

	// The rejecting actor lives in the audit entry; approved_by and
	// approved_on are reserved for the APPROVED transition.
	updated := *l
	updated.Status = StatusRejected
	updated.RejectionReason = &rejectionReason

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	n, err := s.repo.WithTx(tx).MarkTerminal(ctx, &updated)
	if err != nil {
		return LeaveResponse{}, err
	}
	if n == 0 {
		return LeaveResponse{}, leaveerrors.ErrAlreadyResolved
	}
	if err := s.auditSvc.RecordTx(ctx, tx, id, actorID, audit.ActionRejected, before, snapshot(&updated), rejectionReason); err != nil {
		return LeaveResponse{}, err
	}
	s.publisher.ResolvedTx(ctx, tx, &updated)
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	return mapToResponse(&updated), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	l, err := s.findByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	s.ensureEscalated(ctx, l)

	resp := mapToResponse(l)
	if !l.Terminal() {
		resp.Route = s.resolveRoute(ctx, l)
	}
	return resp, nil
}

func (s *service) ListPending(ctx context.Context, actorID, scope string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	var (
		leaves []LeaveRequest
		err    error
	)
	switch scope {
	case "manager":
		reports, rerr := s.dir.GetDirectReports(ctx, actorID)
		if rerr != nil {
			return nil, rerr
		}
		ids := make([]string, 0, len(reports))
		for _, r := range reports {
			ids = append(ids, r.ID)
		}
		leaves, err = s.repo.FindPendingByEmployees(ctx, ids)
	case "admin":
		isAdmin, aerr := s.dir.IsAdmin(ctx, actorID)
		if aerr != nil {
			return nil, aerr
		}
		if !isAdmin {
			return nil, leaveerrors.ErrScopeForbidden
		}
		leaves, err = s.repo.FindPendingForAdmin(ctx)
	default:
		return nil, leaveerrors.ErrInvalidScope
	}
	if err != nil {
		return nil, err
	}

	resps := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		s.ensureEscalated(ctx, &leaves[i])
		resps = append(resps, mapToResponse(&leaves[i]))
	}
	return resps, nil
}

func (s *service) ListHistory(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaves, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	resps := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		if !leaves[i].Terminal() {
			s.ensureEscalated(ctx, &leaves[i])
		}
		resps = append(resps, mapToResponse(&leaves[i]))
	}
	return resps, nil
}

func (s *service) EscalateOverdue(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-EscalationAfterDays * 24 * time.Hour)
	overdue, err := s.repo.FindPendingOverdue(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	promoted := 0
	for i := range overdue {
		if s.promote(ctx, &overdue[i]) {
			promoted++
		}
	}
	return promoted, nil
}

// ensureEscalated applies the deadline on the read path so a stale stored
// level never reaches a caller between sweeps.
func (s *service) ensureEscalated(ctx context.Context, l *LeaveRequest) {
	if l.Terminal() {
		return
	}
	level := EscalationLevelAt(l.AppliedOn, time.Now().UTC(), l.EscalationLevel)
	if level <= l.EscalationLevel {
		return
	}
	s.promote(ctx, l)
}

// promote lifts one request into the admin pool. The compare-and-set in the
// store decides the winner when the sweep and a read race; only the winner
// records the audit entry and stages the event.
func (s *service) promote(ctx context.Context, l *LeaveRequest) bool {
	before := snapshot(l)
	n, err := s.repo.PromoteEscalation(ctx, l.ID.String())
	if err != nil {
		s.logger.Error("escalation promote failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return false
	}
	if n == 0 {
		l.EscalationLevel = MaxEscalationLevel
		return false
	}
	l.EscalationLevel = MaxEscalationLevel

	if err := s.auditSvc.Record(ctx, l.ID.String(), SystemActorID, audit.ActionEscalated, before, snapshot(l), ""); err != nil {
		s.logger.Error("escalation audit failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
	}
	s.publisher.Escalated(ctx, l)
	return true
}

func (s *service) resolveRoute(ctx context.Context, l *LeaveRequest) *directory.ApprovalRoute {
	route, err := directory.ResolveApprovalRoute(ctx, s.dir, l.EmployeeID.String(), l.EscalationLevel)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("approval route lookup failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return nil
	}
	return &route
}

func (s *service) findByID(ctx context.Context, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	return s.repo.FindByID(ctx, id)
}

func validateWindow(leaveType, startDate, endDate string, isHalfDay bool, halfDayPeriod, logoutTime *string) (time.Time, time.Time, decimal.Decimal, error) {
	var zero time.Time

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return zero, zero, decimal.Zero, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return zero, zero, decimal.Zero, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return zero, zero, decimal.Zero, leaveerrors.ErrInvalidDateRange
	}

	if isHalfDay {
		if !start.Equal(end) {
			return zero, zero, decimal.Zero, leaveerrors.ErrHalfDaySingleDay
		}
		if halfDayPeriod == nil || (*halfDayPeriod != HalfDayMorning && *halfDayPeriod != HalfDayAfternoon) {
			return zero, zero, decimal.Zero, leaveerrors.ErrHalfDayPeriodRequired
		}
	}
	if leaveType == domain.LeaveTypeEarlyLogout && (logoutTime == nil || *logoutTime == "") {
		return zero, zero, decimal.Zero, leaveerrors.ErrLogoutTimeRequired
	}

	days := inclusiveDays(start, end)
	if isHalfDay {
		days = decimal.NewFromFloat(0.5)
	}
	return start, end, days, nil
}

func violatesPlannedNotice(leaveType string, start, now time.Time) bool {
	if leaveType != domain.LeaveTypePlanned {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start.Before(today.AddDate(0, 0, 7))
}

func resolvePartialRange(l *LeaveRequest, approvedStart, approvedEnd *string) (time.Time, time.Time, bool, error) {
	var zero time.Time
	if approvedStart == nil && approvedEnd == nil {
		return zero, zero, false, nil
	}
	if approvedStart == nil || approvedEnd == nil {
		return zero, zero, false, leaveerrors.ErrPartialRangeOutOfBounds
	}

	start, err := time.Parse(dateLayout, *approvedStart)
	if err != nil {
		return zero, zero, false, leaveerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse(dateLayout, *approvedEnd)
	if err != nil {
		return zero, zero, false, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return zero, zero, false, leaveerrors.ErrInvalidDateRange
	}
	if start.Before(l.StartDate) || end.After(l.EndDate) {
		return zero, zero, false, leaveerrors.ErrPartialRangeOutOfBounds
	}

	if start.Equal(l.StartDate) && end.Equal(l.EndDate) {
		return zero, zero, false, nil
	}
	if l.IsHalfDay {
		return zero, zero, false, leaveerrors.ErrPartialHalfDay
	}
	return start, end, true, nil
}

// snapshot flattens the auditable fields. The audit diff keeps only the
// keys whose values changed between two snapshots.
func snapshot(l *LeaveRequest) map[string]any {
	m := map[string]any{
		"status":           l.Status,
		"leave_type":       l.LeaveType,
		"start_date":       l.StartDate.Format(dateLayout),
		"end_date":         l.EndDate.Format(dateLayout),
		"is_half_day":      l.IsHalfDay,
		"days":             l.Days.InexactFloat64(),
		"reason":           l.Reason,
		"escalation_level": l.EscalationLevel,
		"policy_violation": l.PolicyViolation,
		"is_partial":       l.IsPartial,
	}
	if l.HalfDayPeriod != nil {
		m["half_day_period"] = *l.HalfDayPeriod
	}
	if l.LogoutTime != nil {
		m["logout_time"] = *l.LogoutTime
	}
	if l.ApprovedBy != nil {
		m["approved_by"] = l.ApprovedBy.String()
	}
	if l.ApprovedOn != nil {
		m["approved_on"] = l.ApprovedOn.UTC().Format(time.RFC3339)
	}
	if l.RejectionReason != nil {
		m["rejection_reason"] = *l.RejectionReason
	}
	if l.ApprovedStartDate != nil {
		m["approved_start_date"] = l.ApprovedStartDate.Format(dateLayout)
	}
	if l.ApprovedEndDate != nil {
		m["approved_end_date"] = l.ApprovedEndDate.Format(dateLayout)
	}
	return m
}
