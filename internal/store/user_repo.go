package store

import (
	"errors"

	"gorm.io/gorm"

	"healthapp-server/internal/models"
)

// UserRepo is the GORM implementation of scheduling.UserStore.
type UserRepo struct {
	db *gorm.DB
}

func (r *UserRepo) FindByID(id string) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByRole(id string, role models.Role) (*models.User, error) {
	var u models.User
	if err := r.db.Where("id = ? AND role = ?", id, role).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
