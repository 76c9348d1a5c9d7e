package booking

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

// Active bookings hold their vehicle's window and count toward conflict
// checks.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:  {StatusApproved: true, StatusCancelled: true},
	StatusApproved: {StatusCompleted: true, StatusCancelled: true},
	// Terminal: completed and cancelled never move again.
	StatusCompleted: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}
