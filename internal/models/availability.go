package models

// DoctorAvailability is a doctor-declared time window, either for one
// specific date or recurring on a day of week. Available=false marks the
// window as explicitly blocked.
type DoctorAvailability struct {
	BaseModel
	DoctorID             string    `gorm:"size:36;index" json:"doctorId"`
	Date                 *Date     `gorm:"type:date;index" json:"date,omitempty"`
	DayOfWeek            string    `gorm:"size:12" json:"dayOfWeek,omitempty"` // MONDAY..SUNDAY, empty for dated windows
	StartTime            TimeOfDay `gorm:"type:time" json:"startTime"`
	EndTime              TimeOfDay `gorm:"type:time" json:"endTime"`
	Available            bool      `gorm:"default:true" json:"available"`
	UnavailabilityReason string    `gorm:"size:255" json:"unavailabilityReason,omitempty"`

	// Relations
	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}
