package scheduling

import (
	"healthapp-server/internal/models"
)

// AvailabilityChecker decides whether a doctor is open for a requested slot.
type AvailabilityChecker struct {
	windows AvailabilityStore
}

// NewAvailabilityChecker creates a checker reading from the given store.
func NewAvailabilityChecker(windows AvailabilityStore) *AvailabilityChecker {
	return &AvailabilityChecker{windows: windows}
}

// IsAvailable reports whether at least one available window fully contains
// [start, end]. A slot spanning two adjacent windows is rejected even if they
// are contiguous, and a doctor with no windows for the date counts as
// unavailable.
func (c *AvailabilityChecker) IsAvailable(doctorID string, date models.Date, start, end models.TimeOfDay) (bool, error) {
	windows, err := c.windows.WindowsForDate(doctorID, date)
	if err != nil {
		return false, err
	}
	for _, w := range windows {
		if w.Available && w.StartTime <= start && w.EndTime >= end {
			return true, nil
		}
	}
	return false, nil
}
