package leave

import "time"

const (
	// EscalationAfterDays is how long a request may sit at manager level
	// before it escalates to the admin pool.
	EscalationAfterDays = 2

	// MaxEscalationLevel is the admin pool. There is nothing above it.
	MaxEscalationLevel = 1
)

// EscalationLevelAt returns the level a pending request should hold at the
// given instant. It never de-escalates and is safe to call repeatedly; the
// elapsed-day count floors, so a request applied 47 hours ago is still at
// day 1.
func EscalationLevelAt(appliedOn, now time.Time, current int) int {
	if current >= MaxEscalationLevel {
		return current
	}
	elapsed := now.Sub(appliedOn)
	if elapsed < 0 {
		return current
	}
	if int(elapsed.Hours())/24 >= EscalationAfterDays {
		return MaxEscalationLevel
	}
	return current
}
