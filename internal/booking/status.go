package booking

import "fmt"

type Status string

const (
	StatusBooked          Status = "BOOKED"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusWaitingForParts Status = "WAITING_FOR_PARTS"
	StatusCompleted       Status = "COMPLETED"
	StatusDelivered       Status = "DELIVERED"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusBooked, StatusInProgress, StatusWaitingForParts, StatusCompleted, StatusDelivered:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusBooked:          {StatusInProgress: true, StatusWaitingForParts: true, StatusCompleted: true},
	StatusInProgress:      {StatusWaitingForParts: true, StatusCompleted: true},
	StatusWaitingForParts: {StatusInProgress: true, StatusCompleted: true},
	StatusCompleted:       {StatusDelivered: true},
	StatusDelivered:       {}, // terminal
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// FeedbackEligible reports whether a booking in this status may receive
// customer feedback.
func FeedbackEligible(s Status) bool {
	return s == StatusCompleted || s == StatusDelivered
}
