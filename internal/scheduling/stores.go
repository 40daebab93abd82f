package scheduling

import (
	"healthapp-server/internal/models"
)

// ListFilter narrows appointment listings. Nil fields are ignored.
type ListFilter struct {
	Status *models.AppointmentStatus
	From   *models.Date
	To     *models.Date
}

// AppointmentStore persists appointments. Lookups return (nil, nil) when no
// record matches; errors are reserved for infrastructure failures.
type AppointmentStore interface {
	Save(a *models.Appointment) error
	FindByID(id string) (*models.Appointment, error)
	FindByNumber(number string) (*models.Appointment, error)
	// FindOverlapping returns the doctor's non-cancelled appointments on date
	// whose interval intersects [start, end] under inclusive bounds.
	FindOverlapping(doctorID string, date models.Date, start, end models.TimeOfDay) ([]models.Appointment, error)
	FindByDoctor(doctorID string, filter ListFilter) ([]models.Appointment, error)
	FindByPatient(patientID string, filter ListFilter) ([]models.Appointment, error)
	// FindDueReminders returns CONFIRMED appointments on date whose reminder
	// has not been sent yet.
	FindDueReminders(date models.Date) ([]models.Appointment, error)
}

// AvailabilityStore provides read access to a doctor's declared windows.
type AvailabilityStore interface {
	// WindowsForDate returns the windows declared for the specific date, or
	// the recurring day-of-week windows when no dated windows exist.
	WindowsForDate(doctorID string, date models.Date) ([]models.DoctorAvailability, error)
}

// UserStore resolves doctors and patients.
type UserStore interface {
	FindByID(id string) (*models.User, error)
	FindByRole(id string, role models.Role) (*models.User, error)
}

// Store bundles the persistence collaborators of the scheduling core.
type Store interface {
	Appointments() AppointmentStore
	Availability() AvailabilityStore
	Users() UserStore
	// Transaction runs fn against transaction-scoped stores so that the
	// availability read, conflict read and appointment write commit as one
	// unit.
	Transaction(fn func(Store) error) error
}

// Notification is the event record handed to the dispatcher.
type Notification struct {
	RecipientID   string
	SenderID      string
	Title         string
	Message       string
	Category      string
	CorrelationID string
}

// Notifier delivers event messages. Delivery is best effort; the scheduling
// core logs failures and never propagates them.
type Notifier interface {
	Notify(n Notification) error
}
