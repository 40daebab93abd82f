package models

import (
	"time"
)

// NotificationCategoryAppointment tags notifications emitted by the
// scheduling flow.
const NotificationCategoryAppointment = "APPOINTMENT"

// Notification represents a stored event message for a user. Delivery over
// WebSocket is best effort; the row is the source of truth.
type Notification struct {
	BaseModel
	UserID        string     `gorm:"size:36;index" json:"userId"`
	SenderID      string     `gorm:"size:36;index" json:"senderId,omitempty"`
	Title         string     `gorm:"size:255" json:"title"`
	Message       string     `gorm:"type:text" json:"message"`
	Type          string     `gorm:"size:50;index" json:"type"`
	CorrelationID string     `gorm:"size:36" json:"correlationId,omitempty"`
	IsRead        bool       `gorm:"default:false" json:"isRead"`
	ReadAt        *time.Time `json:"readAt,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
