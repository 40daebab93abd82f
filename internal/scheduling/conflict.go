package scheduling

import (
	"healthapp-server/internal/models"
)

// ConflictDetector finds existing bookings that collide with a candidate slot.
type ConflictDetector struct {
	appointments AppointmentStore
}

// NewConflictDetector creates a detector reading from the given store.
func NewConflictDetector(appointments AppointmentStore) *ConflictDetector {
	return &ConflictDetector{appointments: appointments}
}

// FindOverlaps returns the doctor's non-cancelled appointments on date whose
// interval intersects [start, end]. excludeID removes the appointment being
// rescheduled from its own overlap check; pass "" otherwise.
func (d *ConflictDetector) FindOverlaps(doctorID string, date models.Date, start, end models.TimeOfDay, excludeID string) ([]models.Appointment, error) {
	overlaps, err := d.appointments.FindOverlapping(doctorID, date, start, end)
	if err != nil {
		return nil, err
	}
	if excludeID == "" {
		return overlaps, nil
	}
	kept := overlaps[:0]
	for _, a := range overlaps {
		if a.ID != excludeID {
			kept = append(kept, a)
		}
	}
	return kept, nil
}
