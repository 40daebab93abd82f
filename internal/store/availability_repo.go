package store

import (
	"errors"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"

	"healthapp-server/internal/models"
)

// availabilityCacheSize bounds the per-(doctor, date) window cache.
const availabilityCacheSize = 512

// AvailabilityRepo persists doctor availability windows. Reads for a specific
// date go through an LRU cache which every write invalidates for the doctor.
type AvailabilityRepo struct {
	db    *gorm.DB
	cache *lru.Cache[string, []models.DoctorAvailability]
}

// WindowsForDate returns the windows declared for the specific date. When the
// doctor has no dated windows for it, the recurring day-of-week windows apply.
func (r *AvailabilityRepo) WindowsForDate(doctorID string, date models.Date) ([]models.DoctorAvailability, error) {
	key := cacheKey(doctorID, date)
	if windows, ok := r.cache.Get(key); ok {
		return windows, nil
	}

	var windows []models.DoctorAvailability
	if err := r.db.Where("doctor_id = ? AND date = ?", doctorID, date).Find(&windows).Error; err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		day := strings.ToUpper(date.Weekday().String())
		err := r.db.Where("doctor_id = ? AND date IS NULL AND day_of_week = ?", doctorID, day).
			Find(&windows).Error
		if err != nil {
			return nil, err
		}
	}

	r.cache.Add(key, windows)
	return windows, nil
}

func (r *AvailabilityRepo) FindByID(id string) (*models.DoctorAvailability, error) {
	var w models.DoctorAvailability
	if err := r.db.First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *AvailabilityRepo) FindByDoctor(doctorID string) ([]models.DoctorAvailability, error) {
	var windows []models.DoctorAvailability
	err := r.db.Where("doctor_id = ?", doctorID).
		Order("date asc, day_of_week asc, start_time asc").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *AvailabilityRepo) FindByDoctorAndRange(doctorID string, from, to models.Date) ([]models.DoctorAvailability, error) {
	var windows []models.DoctorAvailability
	err := r.db.Where("doctor_id = ? AND date >= ? AND date <= ?", doctorID, from, to).
		Order("date asc, start_time asc").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

func (r *AvailabilityRepo) Create(w *models.DoctorAvailability) error {
	if err := r.db.Create(w).Error; err != nil {
		return err
	}
	r.invalidate(w.DoctorID)
	return nil
}

func (r *AvailabilityRepo) Update(w *models.DoctorAvailability) error {
	if err := r.db.Save(w).Error; err != nil {
		return err
	}
	r.invalidate(w.DoctorID)
	return nil
}

func (r *AvailabilityRepo) Delete(id string) error {
	w, err := r.FindByID(id)
	if err != nil {
		return err
	}
	if w == nil {
		return gorm.ErrRecordNotFound
	}
	if err := r.db.Delete(&models.DoctorAvailability{}, "id = ?", id).Error; err != nil {
		return err
	}
	r.invalidate(w.DoctorID)
	return nil
}

// MarkUnavailable flips every window of the doctor on date to unavailable
// with the given reason and returns the number of affected windows.
func (r *AvailabilityRepo) MarkUnavailable(doctorID string, date models.Date, reason string) (int64, error) {
	result := r.db.Model(&models.DoctorAvailability{}).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Updates(map[string]interface{}{
			"available":             false,
			"unavailability_reason": reason,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	r.invalidate(doctorID)
	return result.RowsAffected, nil
}

func (r *AvailabilityRepo) invalidate(doctorID string) {
	prefix := doctorID + "|"
	for _, key := range r.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Remove(key)
		}
	}
}

func cacheKey(doctorID string, date models.Date) string {
	return doctorID + "|" + date.String()
}
