package scheduling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"healthapp-server/internal/models"
)

// appointmentNumberPrefix prefixes every human-readable appointment number.
const appointmentNumberPrefix = "RQ"

// Scheduler owns appointment creation, the status state machine and
// rescheduling. Every mutation runs inside a single store transaction; the
// conflict check and the write are only as atomic as the underlying isolation
// level, so concurrent bookings for overlapping slots remain a known hazard
// that callers mitigate with retries on STORAGE_FAILURE.
type Scheduler struct {
	store    Store
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewScheduler creates a Scheduler on top of the given store and notifier.
func NewScheduler(store Store, notifier Notifier, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
	}
}

// CreateRequest carries the inputs for booking a new appointment.
type CreateRequest struct {
	DoctorID  string
	PatientID string
	Date      models.Date
	StartTime models.TimeOfDay
	EndTime   models.TimeOfDay
	Reason    string
	Notes     string
	Amount    *float64
}

// CreateAppointment validates the requested slot against the doctor's
// availability and existing bookings, then persists a new appointment in
// PENDING_CONFIRMATION and notifies the doctor.
func (s *Scheduler) CreateAppointment(req CreateRequest) (*models.Appointment, error) {
	if req.StartTime >= req.EndTime {
		return nil, invalidTimeRange()
	}
	if req.Date.Before(s.today()) {
		return nil, pastDate("cannot book an appointment for a past date")
	}

	var (
		appointment *models.Appointment
		doctor      *models.User
		patient     *models.User
	)
	err := s.store.Transaction(func(tx Store) error {
		var err error
		if doctor, err = s.findUser(tx, req.DoctorID, models.RoleDoctor, "doctor"); err != nil {
			return err
		}
		if patient, err = s.findUser(tx, req.PatientID, models.RolePatient, "patient"); err != nil {
			return err
		}
		if err := s.checkSlot(tx, req.DoctorID, req.Date, req.StartTime, req.EndTime, ""); err != nil {
			return err
		}

		a := &models.Appointment{
			AppointmentNumber: newAppointmentNumber(),
			DoctorID:          doctor.ID,
			PatientID:         patient.ID,
			AppointmentDate:   req.Date,
			StartTime:         req.StartTime,
			EndTime:           req.EndTime,
			Status:            models.StatusPendingConfirmation,
			Reason:            req.Reason,
			Notes:             req.Notes,
			ReminderSent:      false,
		}
		if req.Amount != nil {
			a.Amount = req.Amount
			a.IsPaid = false
		}
		if err := tx.Appointments().Save(a); err != nil {
			return storage(err)
		}
		appointment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(Notification{
		RecipientID: doctor.ID,
		SenderID:    patient.ID,
		Title:       "New Appointment Request",
		Message: fmt.Sprintf("New appointment request from %s %s on %s at %s",
			patient.FirstName, patient.LastName, appointment.AppointmentDate, appointment.StartTime),
		Category:      models.NotificationCategoryAppointment,
		CorrelationID: appointment.ID,
	})
	return appointment, nil
}

// UpdateStatus moves an appointment through the state machine.
// cancellationReason is stored only when transitioning to CANCELLED.
func (s *Scheduler) UpdateStatus(id string, status models.AppointmentStatus, cancellationReason string) (*models.Appointment, error) {
	if !status.Valid() {
		return nil, invalidStatusChange("unknown appointment status %q", status)
	}

	var appointment *models.Appointment
	err := s.store.Transaction(func(tx Store) error {
		a, err := s.findAppointment(tx, id)
		if err != nil {
			return err
		}
		if err := validateStatusChange(a.Status, status); err != nil {
			return err
		}
		a.Status = status
		if status == models.StatusCancelled && cancellationReason != "" {
			a.CancellationReason = cancellationReason
		}
		if err := tx.Appointments().Save(a); err != nil {
			return storage(err)
		}
		appointment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStatusChange(appointment)
	return appointment, nil
}

// Reschedule moves a pending or confirmed appointment to a new slot after
// re-running the availability and conflict checks, excluding the appointment
// itself from the overlap test. The status is left unchanged.
func (s *Scheduler) Reschedule(id string, newDate models.Date, newStart, newEnd models.TimeOfDay) (*models.Appointment, error) {
	if newStart >= newEnd {
		return nil, invalidTimeRange()
	}
	if newDate.Before(s.today()) {
		return nil, pastDate("cannot reschedule an appointment to a past date")
	}

	var appointment *models.Appointment
	err := s.store.Transaction(func(tx Store) error {
		a, err := s.findAppointment(tx, id)
		if err != nil {
			return err
		}
		if a.Status != models.StatusPendingConfirmation && a.Status != models.StatusConfirmed {
			return invalidStatusChange("only pending or confirmed appointments can be rescheduled")
		}
		if err := s.checkSlot(tx, a.DoctorID, newDate, newStart, newEnd, a.ID); err != nil {
			return err
		}

		a.AppointmentDate = newDate
		a.StartTime = newStart
		a.EndTime = newEnd
		if err := tx.Appointments().Save(a); err != nil {
			return storage(err)
		}
		appointment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(Notification{
		RecipientID: appointment.PatientID,
		SenderID:    appointment.DoctorID,
		Title:       "Appointment Rescheduled",
		Message: fmt.Sprintf("Your appointment has been rescheduled to %s at %s",
			appointment.AppointmentDate, appointment.StartTime),
		Category:      models.NotificationCategoryAppointment,
		CorrelationID: appointment.ID,
	})
	return appointment, nil
}

// AddNotes replaces the appointment notes. There is no status precondition.
func (s *Scheduler) AddNotes(id string, notes string) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := s.store.Transaction(func(tx Store) error {
		a, err := s.findAppointment(tx, id)
		if err != nil {
			return err
		}
		a.Notes = notes
		if err := tx.Appointments().Save(a); err != nil {
			return storage(err)
		}
		appointment = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// SendReminder notifies the patient of an upcoming appointment and marks the
// reminder as sent. Only CONFIRMED appointments get reminders; anything else
// is a silent no-op.
func (s *Scheduler) SendReminder(id string) error {
	var appointment *models.Appointment
	err := s.store.Transaction(func(tx Store) error {
		a, err := s.findAppointment(tx, id)
		if err != nil {
			return err
		}
		if a.Status != models.StatusConfirmed {
			return nil
		}
		a.ReminderSent = true
		if err := tx.Appointments().Save(a); err != nil {
			return storage(err)
		}
		appointment = a
		return nil
	})
	if err != nil {
		return err
	}
	if appointment == nil {
		return nil
	}

	s.dispatch(Notification{
		RecipientID: appointment.PatientID,
		SenderID:    appointment.DoctorID,
		Title:       "Appointment Reminder",
		Message: fmt.Sprintf("Reminder: you have an appointment on %s at %s",
			appointment.AppointmentDate, appointment.StartTime),
		Category:      models.NotificationCategoryAppointment,
		CorrelationID: appointment.ID,
	})
	return nil
}

// MarkComplete is sugar over UpdateStatus(COMPLETED).
func (s *Scheduler) MarkComplete(id string) (*models.Appointment, error) {
	return s.UpdateStatus(id, models.StatusCompleted, "")
}

// MarkNoShow is sugar over UpdateStatus(NO_SHOW).
func (s *Scheduler) MarkNoShow(id string) (*models.Appointment, error) {
	return s.UpdateStatus(id, models.StatusNoShow, "")
}

// CheckAvailability is a read-only passthrough to the availability checker.
// It deliberately skips the conflict detector: a slot can look open here and
// still be rejected at booking time, which CreateAppointment re-validates.
func (s *Scheduler) CheckAvailability(doctorID string, date models.Date, start, end models.TimeOfDay) (bool, error) {
	if _, err := s.findUser(s.store, doctorID, models.RoleDoctor, "doctor"); err != nil {
		return false, err
	}
	checker := NewAvailabilityChecker(s.store.Availability())
	available, err := checker.IsAvailable(doctorID, date, start, end)
	if err != nil {
		return false, storage(err)
	}
	return available, nil
}

// GetByID fetches an appointment by surrogate id.
func (s *Scheduler) GetByID(id string) (*models.Appointment, error) {
	return s.findAppointment(s.store, id)
}

// GetByNumber fetches an appointment by its human-readable number.
func (s *Scheduler) GetByNumber(number string) (*models.Appointment, error) {
	a, err := s.store.Appointments().FindByNumber(number)
	if err != nil {
		return nil, storage(err)
	}
	if a == nil {
		return nil, notFound("appointment not found")
	}
	return a, nil
}

// ListForDoctor returns a doctor's appointments, optionally filtered by
// status and date range.
func (s *Scheduler) ListForDoctor(doctorID string, filter ListFilter) ([]models.Appointment, error) {
	if _, err := s.findUser(s.store, doctorID, models.RoleDoctor, "doctor"); err != nil {
		return nil, err
	}
	appointments, err := s.store.Appointments().FindByDoctor(doctorID, filter)
	if err != nil {
		return nil, storage(err)
	}
	return appointments, nil
}

// ListForPatient returns a patient's appointments, optionally filtered by
// status and date range.
func (s *Scheduler) ListForPatient(patientID string, filter ListFilter) ([]models.Appointment, error) {
	if _, err := s.findUser(s.store, patientID, models.RolePatient, "patient"); err != nil {
		return nil, err
	}
	appointments, err := s.store.Appointments().FindByPatient(patientID, filter)
	if err != nil {
		return nil, storage(err)
	}
	return appointments, nil
}

func (s *Scheduler) today() models.Date {
	return models.DateOf(s.now())
}

func (s *Scheduler) findUser(tx Store, id string, role models.Role, what string) (*models.User, error) {
	u, err := tx.Users().FindByRole(id, role)
	if err != nil {
		return nil, storage(err)
	}
	if u == nil {
		return nil, notFound("%s not found", what)
	}
	return u, nil
}

func (s *Scheduler) findAppointment(tx Store, id string) (*models.Appointment, error) {
	a, err := tx.Appointments().FindByID(id)
	if err != nil {
		return nil, storage(err)
	}
	if a == nil {
		return nil, notFound("appointment not found")
	}
	return a, nil
}

// checkSlot runs the availability and overlap checks for one candidate slot.
func (s *Scheduler) checkSlot(tx Store, doctorID string, date models.Date, start, end models.TimeOfDay, excludeID string) error {
	checker := NewAvailabilityChecker(tx.Availability())
	available, err := checker.IsAvailable(doctorID, date, start, end)
	if err != nil {
		return storage(err)
	}
	if !available {
		return doctorUnavailable()
	}

	detector := NewConflictDetector(tx.Appointments())
	overlaps, err := detector.FindOverlaps(doctorID, date, start, end, excludeID)
	if err != nil {
		return storage(err)
	}
	if len(overlaps) > 0 {
		return overlapping()
	}
	return nil
}

// notifyStatusChange informs the patient about the doctor's decision. Status
// values without a dedicated message fall back to a generic update.
func (s *Scheduler) notifyStatusChange(a *models.Appointment) {
	doctor, err := s.store.Users().FindByID(a.DoctorID)
	if err != nil || doctor == nil {
		s.log.Warn().Err(err).Str("doctor", a.DoctorID).Msg("skipping status notification: doctor lookup failed")
		return
	}

	var title, message string
	switch a.Status {
	case models.StatusConfirmed:
		title = "Appointment Confirmed"
		message = fmt.Sprintf("Your appointment with Dr. %s %s on %s at %s has been confirmed",
			doctor.FirstName, doctor.LastName, a.AppointmentDate, a.StartTime)
	case models.StatusCancelled:
		title = "Appointment Cancelled"
		message = fmt.Sprintf("Your appointment on %s at %s has been cancelled",
			a.AppointmentDate, a.StartTime)
	default:
		title = "Appointment Update"
		message = fmt.Sprintf("Your appointment on %s at %s has been updated",
			a.AppointmentDate, a.StartTime)
	}

	s.dispatch(Notification{
		RecipientID:   a.PatientID,
		SenderID:      a.DoctorID,
		Title:         title,
		Message:       message,
		Category:      models.NotificationCategoryAppointment,
		CorrelationID: a.ID,
	})
}

// dispatch hands a notification to the dispatcher after commit. Failures are
// logged and swallowed; notification delivery never rolls back scheduling.
func (s *Scheduler) dispatch(n Notification) {
	if err := s.notifier.Notify(n); err != nil {
		s.log.Warn().Err(err).
			Str("recipient", n.RecipientID).
			Str("title", n.Title).
			Msg("notification delivery failed")
	}
}

// newAppointmentNumber builds the short booking code printed on patient
// confirmations. Uniqueness is probabilistic; the unique column constraint is
// the second line of defense.
func newAppointmentNumber() string {
	return appointmentNumberPrefix + uuid.NewString()[:8]
}
