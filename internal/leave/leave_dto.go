package leave

import (
	"time"

	"leave-core/internal/directory"
)

type SubmitLeaveRequest struct {
	// EmployeeID is only honored for admins filing on behalf of someone
	// else; everyone else files for themselves.
	EmployeeID    *string `json:"employee_id" binding:"omitempty,uuid"`
	LeaveType     string  `json:"leave_type" binding:"required,oneof=SICK PLANNED OPTIONAL LWP EARLY_LOGOUT"`
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	IsHalfDay     bool    `json:"is_half_day"`
	HalfDayPeriod *string `json:"half_day_period" binding:"omitempty,oneof=MORNING AFTERNOON"`
	LogoutTime    *string `json:"logout_time" binding:"omitempty,len=5"`
	Reason        string  `json:"reason"`
}

type UpdateLeaveRequest struct {
	LeaveType     string  `json:"leave_type" binding:"required,oneof=SICK PLANNED OPTIONAL LWP EARLY_LOGOUT"`
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	IsHalfDay     bool    `json:"is_half_day"`
	HalfDayPeriod *string `json:"half_day_period" binding:"omitempty,oneof=MORNING AFTERNOON"`
	LogoutTime    *string `json:"logout_time" binding:"omitempty,len=5"`
	Reason        string  `json:"reason"`
}

type ApproveLeaveRequest struct {
	ApprovedStartDate *string `json:"approved_start_date"`
	ApprovedEndDate   *string `json:"approved_end_date"`
	Remarks           string  `json:"remarks"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	IsHalfDay       bool    `json:"is_half_day"`
	HalfDayPeriod   *string `json:"half_day_period,omitempty"`
	LogoutTime      *string `json:"logout_time,omitempty"`
	Days            float64 `json:"days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	EscalationLevel int     `json:"escalation_level"`
	PolicyViolation bool    `json:"policy_violation"`
	AppliedOn       string  `json:"applied_on"`
	CreatedBy       string  `json:"created_by"`

	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedOn      *string `json:"approved_on,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	IsPartial         bool    `json:"is_partial"`
	ApprovedStartDate *string `json:"approved_start_date,omitempty"`
	ApprovedEndDate   *string `json:"approved_end_date,omitempty"`

	Route          *directory.ApprovalRoute `json:"route,omitempty"`
	BalanceWarning string                   `json:"balance_warning,omitempty"`
	DeficitWarning bool                     `json:"deficit_warning,omitempty"`
}

const dateLayout = "2006-01-02"

func mapToResponse(l *LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format(dateLayout),
		EndDate:         l.EndDate.Format(dateLayout),
		IsHalfDay:       l.IsHalfDay,
		HalfDayPeriod:   l.HalfDayPeriod,
		LogoutTime:      l.LogoutTime,
		Days:            l.Days.InexactFloat64(),
		Reason:          l.Reason,
		Status:          l.Status,
		EscalationLevel: l.EscalationLevel,
		PolicyViolation: l.PolicyViolation,
		AppliedOn:       l.AppliedOn.UTC().Format(time.RFC3339),
		CreatedBy:       l.CreatedBy.String(),
		IsPartial:       l.IsPartial,
		RejectionReason: l.RejectionReason,
	}
	if l.ApprovedBy != nil {
		s := l.ApprovedBy.String()
		resp.ApprovedBy = &s
	}
	if l.ApprovedOn != nil {
		s := l.ApprovedOn.UTC().Format(time.RFC3339)
		resp.ApprovedOn = &s
	}
	if l.ApprovedStartDate != nil {
		s := l.ApprovedStartDate.Format(dateLayout)
		resp.ApprovedStartDate = &s
	}
	if l.ApprovedEndDate != nil {
		s := l.ApprovedEndDate.Format(dateLayout)
		resp.ApprovedEndDate = &s
	}
	return resp
}
