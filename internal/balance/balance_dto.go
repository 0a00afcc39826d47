package balance

type BalanceResponse struct {
	EmployeeID string   `json:"employee_id"`
	LeaveType  string   `json:"leave_type"`
	Total      *float64 `json:"total,omitempty"`
	Used       float64  `json:"used"`
	Remaining  *float64 `json:"remaining,omitempty"`
	Unlimited  bool     `json:"unlimited"`
	Deficit    bool     `json:"deficit"`
}

type AdjustBalanceRequest struct {
	LeaveType string  `json:"leave_type" binding:"required,oneof=SICK PLANNED OPTIONAL LWP EARLY_LOGOUT"`
	Direction string  `json:"direction" binding:"required,oneof=credit debit"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	LeaveID   *string `json:"leave_id"`
	Remarks   string  `json:"remarks"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	resp := BalanceResponse{
		EmployeeID: b.EmployeeID.String(),
		LeaveType:  b.LeaveType,
		Used:       b.Used.InexactFloat64(),
		Unlimited:  b.Unbounded(),
		Deficit:    b.InDeficit(),
	}
	if b.Total != nil {
		t := b.Total.InexactFloat64()
		resp.Total = &t
	}
	if r := b.Remaining(); r != nil {
		v := r.InexactFloat64()
		resp.Remaining = &v
	}
	return resp
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
