package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPendingConfirmation AppointmentStatus = "PENDING_CONFIRMATION"
	StatusConfirmed           AppointmentStatus = "CONFIRMED"
	StatusCancelled           AppointmentStatus = "CANCELLED"
	StatusCompleted           AppointmentStatus = "COMPLETED"
	StatusNoShow              AppointmentStatus = "NO_SHOW"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPendingConfirmation, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Appointment represents a scheduled medical appointment. Start and end are
// wall-clock times on AppointmentDate; appointments never span midnight.
type Appointment struct {
	BaseModel
	AppointmentNumber string            `gorm:"uniqueIndex;size:16" json:"appointmentNumber"`
	DoctorID          string            `gorm:"size:36;index" json:"doctorId"`
	PatientID         string            `gorm:"size:36;index" json:"patientId"`
	AppointmentDate   Date              `gorm:"type:date;index" json:"appointmentDate"`
	StartTime         TimeOfDay         `gorm:"type:time" json:"startTime"`
	EndTime           TimeOfDay         `gorm:"type:time" json:"endTime"`
	Status            AppointmentStatus `gorm:"size:32;default:'PENDING_CONFIRMATION'" json:"status"`
	Reason            string            `gorm:"size:255" json:"reason"`
	Notes             string            `gorm:"type:text" json:"notes"`
	CancellationReason string           `gorm:"type:text" json:"cancellationReason,omitempty"`
	ReminderSent      bool              `gorm:"default:false" json:"reminderSent"`

	// Payment fields are carried for billing but never touched by scheduling.
	Amount           *float64 `json:"amount,omitempty"`
	IsPaid           bool     `gorm:"default:false" json:"isPaid"`
	PaymentReference string   `gorm:"size:100" json:"paymentReference,omitempty"`

	// Relations
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
}
