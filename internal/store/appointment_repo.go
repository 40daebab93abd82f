package store

import (
	"errors"

	"gorm.io/gorm"

	"healthapp-server/internal/models"
	"healthapp-server/internal/scheduling"
)

// AppointmentRepo is the GORM implementation of scheduling.AppointmentStore.
type AppointmentRepo struct {
	db *gorm.DB
}

// Save creates or updates an appointment. A trip of the unique appointment
// number constraint is reported as scheduling.ErrDuplicateNumber.
func (r *AppointmentRepo) Save(a *models.Appointment) error {
	if err := r.db.Save(a).Error; err != nil {
		if isDuplicateKey(err) {
			return scheduling.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (r *AppointmentRepo) FindByID(id string) (*models.Appointment, error) {
	var a models.Appointment
	if err := r.db.First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) FindByNumber(number string) (*models.Appointment, error) {
	var a models.Appointment
	if err := r.db.First(&a, "appointment_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// FindOverlapping implements the inclusive-bound overlap query:
// existing.start <= requested.end AND existing.end >= requested.start.
func (r *AppointmentRepo) FindOverlapping(doctorID string, date models.Date, start, end models.TimeOfDay) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.
		Where("doctor_id = ? AND appointment_date = ?", doctorID, date).
		Where("status <> ?", models.StatusCancelled).
		Where("start_time <= ? AND end_time >= ?", end, start).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentRepo) FindByDoctor(doctorID string, filter scheduling.ListFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	q := applyFilter(r.db.Where("doctor_id = ?", doctorID), filter)
	if err := q.Order("appointment_date desc, start_time desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentRepo) FindByPatient(patientID string, filter scheduling.ListFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	q := applyFilter(r.db.Where("patient_id = ?", patientID), filter)
	if err := q.Order("appointment_date desc, start_time desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentRepo) FindDueReminders(date models.Date) ([]models.Appointment, error) {
	var out []models.Appointment
	err := r.db.
		Where("appointment_date = ? AND status = ? AND reminder_sent = ?",
			date, models.StatusConfirmed, false).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyFilter(q *gorm.DB, filter scheduling.ListFilter) *gorm.DB {
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		q = q.Where("appointment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("appointment_date <= ?", *filter.To)
	}
	return q
}
