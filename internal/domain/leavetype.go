package domain

// Leave types are a fixed set. LWP (leave without pay) is unbounded: it has
// no quota, only accumulated usage.
const (
	LeaveTypeSick        = "SICK"
	LeaveTypePlanned     = "PLANNED"
	LeaveTypeOptional    = "OPTIONAL"
	LeaveTypeLWP         = "LWP"
	LeaveTypeEarlyLogout = "EARLY_LOGOUT"
)

func ValidLeaveType(t string) bool {
	switch t {
	case LeaveTypeSick, LeaveTypePlanned, LeaveTypeOptional, LeaveTypeLWP, LeaveTypeEarlyLogout:
		return true
	}
	return false
}

func UnboundedLeaveType(t string) bool {
	return t == LeaveTypeLWP
}
