package scheduling

import (
	"healthapp-server/internal/models"
)

// statusTransitions is the closed transition table for appointment statuses.
// Missing target lists mean the status is terminal.
var statusTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPendingConfirmation: {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:           {models.StatusCompleted, models.StatusCancelled, models.StatusNoShow},
	models.StatusCancelled:           {},
	models.StatusCompleted:           {},
	models.StatusNoShow:              {},
}

// CanTransition reports whether the state machine permits moving from one
// status to another.
func CanTransition(from, to models.AppointmentStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted out of s.
func IsTerminal(s models.AppointmentStatus) bool {
	return len(statusTransitions[s]) == 0 && s.Valid()
}

func validateStatusChange(from, to models.AppointmentStatus) error {
	if IsTerminal(from) {
		return invalidStatusChange("cannot change appointment from %s status", from)
	}
	if !CanTransition(from, to) {
		return invalidStatusChange("invalid status change from %s to %s", from, to)
	}
	return nil
}
