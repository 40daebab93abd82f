package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"healthapp-server/internal/models"
)

// NotificationRepo persists user notifications.
type NotificationRepo struct {
	db *gorm.DB
}

func (r *NotificationRepo) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepo) FindByID(id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepo) FindUnreadForUser(userID string) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *NotificationRepo) FindAllForUser(userID string) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags the notification as read and returns the updated record, or
// (nil, nil) when it does not exist.
func (r *NotificationRepo) MarkRead(id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	if err := r.db.Save(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}
