package directory

import "context"

// ApprovalRoute names the approver pool responsible for a pending request.
// Escalation changes routing visibility, not authority: a manager may still
// resolve a request that has been promoted to the admin pool.
type ApprovalRoute struct {
	Level     int               `json:"level"`
	Manager   *IdentityResponse `json:"manager,omitempty"`
	AdminPool bool              `json:"admin_pool"`
}

// ResolveApprovalRoute computes the route for (employee, escalation level).
// Level 0 routes to the direct manager; level 1 to the admin pool. An orphan
// employee (no reports-to edge) is visible to the admin pool from creation
// without the stored escalation level being advanced.
func ResolveApprovalRoute(ctx context.Context, dir Service, employeeID string, escalationLevel int) (ApprovalRoute, error) {
	if escalationLevel >= 1 {
		return ApprovalRoute{Level: escalationLevel, AdminPool: true}, nil
	}

	manager, err := dir.GetManagerOf(ctx, employeeID)
	if err != nil {
		return ApprovalRoute{}, err
	}
	if manager == nil {
		return ApprovalRoute{Level: escalationLevel, AdminPool: true}, nil
	}
	return ApprovalRoute{Level: escalationLevel, Manager: manager}, nil
}
