package scheduling

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"healthapp-server/internal/models"
)

// ---- in-memory fakes -------------------------------------------------------

type fakeAppointments struct {
	records []*models.Appointment
	saveErr error
	seq     int
}

func (f *fakeAppointments) Save(a *models.Appointment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if a.ID == "" {
		f.seq++
		a.ID = fmt.Sprintf("appt-%d", f.seq)
		cp := *a
		f.records = append(f.records, &cp)
		return nil
	}
	for i, existing := range f.records {
		if existing.ID == a.ID {
			cp := *a
			f.records[i] = &cp
			return nil
		}
	}
	cp := *a
	f.records = append(f.records, &cp)
	return nil
}

func (f *fakeAppointments) FindByID(id string) (*models.Appointment, error) {
	for _, a := range f.records {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointments) FindByNumber(number string) (*models.Appointment, error) {
	for _, a := range f.records {
		if a.AppointmentNumber == number {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointments) FindOverlapping(doctorID string, date models.Date, start, end models.TimeOfDay) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.records {
		if a.DoctorID != doctorID || !a.AppointmentDate.Equal(date) || a.Status == models.StatusCancelled {
			continue
		}
		if a.StartTime <= end && a.EndTime >= start {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) FindByDoctor(doctorID string, filter ListFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.records {
		if a.DoctorID == doctorID && matchesFilter(*a, filter) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) FindByPatient(patientID string, filter ListFilter) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.records {
		if a.PatientID == patientID && matchesFilter(*a, filter) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) FindDueReminders(date models.Date) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.records {
		if a.Status == models.StatusConfirmed && !a.ReminderSent && a.AppointmentDate.Equal(date) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func matchesFilter(a models.Appointment, filter ListFilter) bool {
	if filter.Status != nil && a.Status != *filter.Status {
		return false
	}
	if filter.From != nil && a.AppointmentDate.Before(*filter.From) {
		return false
	}
	if filter.To != nil && a.AppointmentDate.After(*filter.To) {
		return false
	}
	return true
}

type fakeAvailability struct {
	windows map[string][]models.DoctorAvailability
	err     error
}

func (f *fakeAvailability) WindowsForDate(doctorID string, date models.Date) ([]models.DoctorAvailability, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.windows[doctorID], nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) FindByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByRole(id string, role models.Role) (*models.User, error) {
	u, ok := f.users[id]
	if !ok || u.Role != role {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type fakeStore struct {
	appointments *fakeAppointments
	availability *fakeAvailability
	users        *fakeUsers
}

func (s *fakeStore) Appointments() AppointmentStore   { return s.appointments }
func (s *fakeStore) Availability() AvailabilityStore  { return s.availability }
func (s *fakeStore) Users() UserStore                 { return s.users }
func (s *fakeStore) Transaction(fn func(Store) error) error {
	return fn(s)
}

type fakeNotifier struct {
	sent []Notification
	err  error
}

func (f *fakeNotifier) Notify(n Notification) error {
	f.sent = append(f.sent, n)
	return f.err
}

// ---- fixture ---------------------------------------------------------------

const (
	doctorID  = "doc-1"
	patientID = "pat-1"
)

func newTestScheduler(t *testing.T) (*Scheduler, *fakeStore, *fakeNotifier) {
	t.Helper()
	store := &fakeStore{
		appointments: &fakeAppointments{},
		availability: &fakeAvailability{windows: map[string][]models.DoctorAvailability{}},
		users: &fakeUsers{users: map[string]*models.User{
			doctorID:  {BaseModel: models.BaseModel{ID: doctorID}, FirstName: "Gregory", LastName: "House", Role: models.RoleDoctor},
			patientID: {BaseModel: models.BaseModel{ID: patientID}, FirstName: "Lisa", LastName: "Cuddy", Role: models.RolePatient},
		}},
	}
	notifier := &fakeNotifier{}
	s := NewScheduler(store, notifier, zerolog.Nop())
	// pin the clock so "today" is stable
	s.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }
	return s, store, notifier
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func mustTime(t *testing.T, s string) models.TimeOfDay {
	t.Helper()
	tod, err := models.ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
	}
	return tod
}

func openWindow(t *testing.T, store *fakeStore, doctor, start, end string) {
	t.Helper()
	store.availability.windows[doctor] = append(store.availability.windows[doctor], models.DoctorAvailability{
		DoctorID:  doctor,
		StartTime: mustTime(t, start),
		EndTime:   mustTime(t, end),
		Available: true,
	})
}

func baseRequest(t *testing.T) CreateRequest {
	t.Helper()
	return CreateRequest{
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      mustDate(t, "2025-06-10"),
		StartTime: mustTime(t, "09:00"),
		EndTime:   mustTime(t, "09:30"),
		Reason:    "Annual checkup",
	}
}

func mustCreate(t *testing.T, s *Scheduler, req CreateRequest) *models.Appointment {
	t.Helper()
	a, err := s.CreateAppointment(req)
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	return a
}

// ---- creation --------------------------------------------------------------

func TestCreateAppointment(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")

	a := mustCreate(t, s, baseRequest(t))

	if a.Status != models.StatusPendingConfirmation {
		t.Errorf("status = %s, want %s", a.Status, models.StatusPendingConfirmation)
	}
	if !strings.HasPrefix(a.AppointmentNumber, "RQ") || len(a.AppointmentNumber) != 10 {
		t.Errorf("appointment number %q, want RQ + 8 chars", a.AppointmentNumber)
	}
	if a.ReminderSent {
		t.Error("new appointment should not have reminder sent")
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.sent))
	}
	n := notifier.sent[0]
	if n.RecipientID != doctorID || n.Title != "New Appointment Request" {
		t.Errorf("notification = %+v, want doctor recipient with request title", n)
	}
	if n.CorrelationID != a.ID {
		t.Errorf("correlation id = %q, want %q", n.CorrelationID, a.ID)
	}

	// the appointment number round-trips through lookup
	got, err := s.GetByNumber(a.AppointmentNumber)
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if got.ID != a.ID {
		t.Errorf("GetByNumber returned %q, want %q", got.ID, a.ID)
	}
}

func TestCreateAppointmentInvalidTimeRange(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")

	req := baseRequest(t)
	req.StartTime = mustTime(t, "10:00")
	req.EndTime = mustTime(t, "09:30")
	if _, err := s.CreateAppointment(req); CodeOf(err) != CodeInvalidTimeRange {
		t.Errorf("got %v, want %s", err, CodeInvalidTimeRange)
	}

	// zero-length slots are rejected too
	req.EndTime = req.StartTime
	if _, err := s.CreateAppointment(req); CodeOf(err) != CodeInvalidTimeRange {
		t.Errorf("got %v, want %s", err, CodeInvalidTimeRange)
	}
}

func TestCreateAppointmentPastDate(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")

	req := baseRequest(t)
	req.Date = mustDate(t, "2025-05-31")
	if _, err := s.CreateAppointment(req); CodeOf(err) != CodePastDateSelected {
		t.Errorf("got %v, want %s", err, CodePastDateSelected)
	}

	// today itself is allowed
	req.Date = mustDate(t, "2025-06-01")
	if _, err := s.CreateAppointment(req); err != nil {
		t.Errorf("same-day booking failed: %v", err)
	}
}

func TestCreateAppointmentUnknownUsers(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")

	req := baseRequest(t)
	req.DoctorID = "no-such-doctor"
	if _, err := s.CreateAppointment(req); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown doctor: got %v, want %s", err, CodeNotFound)
	}

	req = baseRequest(t)
	req.PatientID = "no-such-patient"
	if _, err := s.CreateAppointment(req); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown patient: got %v, want %s", err, CodeNotFound)
	}

	// a doctor id pointing at a patient record is still not found
	req = baseRequest(t)
	req.DoctorID = patientID
	if _, err := s.CreateAppointment(req); CodeOf(err) != CodeNotFound {
		t.Errorf("role mismatch: got %v, want %s", err, CodeNotFound)
	}

	if len(notifier.sent) != 0 {
		t.Errorf("failed bookings must not notify, got %d", len(notifier.sent))
	}
}

func TestCreateAppointmentOutsideAvailability(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "12:00")

	req := baseRequest(t)
	req.StartTime = mustTime(t, "11:45")
	req.EndTime = mustTime(t, "12:15")
	if _, err := s.CreateAppointment(req); CodeOf(err) != CodeDoctorUnavailable {
		t.Errorf("got %v, want %s", err, CodeDoctorUnavailable)
	}
}

func TestCreateAppointmentOverlap(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")

	mustCreate(t, s, baseRequest(t)) // 09:00-09:30

	req := baseRequest(t)
	req.StartTime = mustTime(t, "09:15")
	req.EndTime = mustTime(t, "09:45")
	if _, err := s.CreateAppointment(req); CodeOf(err) != CodeOverlapping {
		t.Errorf("got %v, want %s", err, CodeOverlapping)
	}

	// bounds are inclusive, back-to-back slots collide
	req.StartTime = mustTime(t, "09:30")
	req.EndTime = mustTime(t, "10:00")
	if _, err := s.CreateAppointment(req); CodeOf(err) != CodeOverlapping {
		t.Errorf("back-to-back: got %v, want %s", err, CodeOverlapping)
	}

	// a cancelled appointment frees the slot
	first, _ := s.GetByNumber(store.appointments.records[0].AppointmentNumber)
	if _, err := s.UpdateStatus(first.ID, models.StatusCancelled, "patient request"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	req = baseRequest(t)
	if _, err := s.CreateAppointment(req); err != nil {
		t.Errorf("slot of cancelled appointment should be bookable: %v", err)
	}
}

func TestCreateAppointmentDuplicateNumberIsRetryable(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	store.appointments.saveErr = ErrDuplicateNumber

	_, err := s.CreateAppointment(baseRequest(t))
	if CodeOf(err) != CodeStorageFailure {
		t.Fatalf("got %v, want %s", err, CodeStorageFailure)
	}
	var serr *Error
	if !errors.As(err, &serr) || !serr.Retryable {
		t.Errorf("duplicate number failure should be retryable, got %+v", serr)
	}
}

func TestCreateAppointmentNotifierFailureIsSwallowed(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	notifier.err = errors.New("broker down")

	if _, err := s.CreateAppointment(baseRequest(t)); err != nil {
		t.Fatalf("notifier failure must not fail booking: %v", err)
	}
}

// ---- status machine --------------------------------------------------------

func TestUpdateStatusFlow(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	a := mustCreate(t, s, baseRequest(t))
	notifier.sent = nil

	confirmed, err := s.UpdateStatus(a.ID, models.StatusConfirmed, "")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != models.StatusConfirmed {
		t.Errorf("status = %s, want %s", confirmed.Status, models.StatusConfirmed)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Title != "Appointment Confirmed" || notifier.sent[0].RecipientID != patientID {
		t.Errorf("confirmation notification = %+v", notifier.sent)
	}
	if !strings.Contains(notifier.sent[0].Message, "Dr. Gregory House") {
		t.Errorf("confirmation message %q should name the doctor", notifier.sent[0].Message)
	}

	if _, err := s.MarkComplete(a.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// completed is terminal
	if _, err := s.UpdateStatus(a.ID, models.StatusCancelled, ""); CodeOf(err) != CodeInvalidStatusChange {
		t.Errorf("got %v, want %s", err, CodeInvalidStatusChange)
	}
}

func TestUpdateStatusRejectsInvalidMoves(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	a := mustCreate(t, s, baseRequest(t))

	// pending cannot jump straight to completed or no-show
	for _, to := range []models.AppointmentStatus{models.StatusCompleted, models.StatusNoShow} {
		if _, err := s.UpdateStatus(a.ID, to, ""); CodeOf(err) != CodeInvalidStatusChange {
			t.Errorf("pending -> %s: got %v, want %s", to, err, CodeInvalidStatusChange)
		}
	}

	if _, err := s.UpdateStatus(a.ID, models.AppointmentStatus("ARCHIVED"), ""); CodeOf(err) != CodeInvalidStatusChange {
		t.Errorf("unknown status: got %v, want %s", err, CodeInvalidStatusChange)
	}

	if _, err := s.UpdateStatus("missing", models.StatusConfirmed, ""); CodeOf(err) != CodeNotFound {
		t.Errorf("missing appointment: got %v, want %s", err, CodeNotFound)
	}
}

func TestUpdateStatusCancellationReason(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	a := mustCreate(t, s, baseRequest(t))
	notifier.sent = nil

	cancelled, err := s.UpdateStatus(a.ID, models.StatusCancelled, "doctor is ill")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.CancellationReason != "doctor is ill" {
		t.Errorf("cancellation reason = %q", cancelled.CancellationReason)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Title != "Appointment Cancelled" {
		t.Errorf("cancellation notification = %+v", notifier.sent)
	}
}

func TestUpdateStatusReasonIgnoredUnlessCancelling(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	a := mustCreate(t, s, baseRequest(t))

	confirmed, err := s.UpdateStatus(a.ID, models.StatusConfirmed, "should be dropped")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.CancellationReason != "" {
		t.Errorf("cancellation reason leaked on confirm: %q", confirmed.CancellationReason)
	}
}

func TestMarkNoShow(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	a := mustCreate(t, s, baseRequest(t))

	if _, err := s.MarkNoShow(a.ID); CodeOf(err) != CodeInvalidStatusChange {
		t.Errorf("no-show from pending: got %v, want %s", err, CodeInvalidStatusChange)
	}

	if _, err := s.UpdateStatus(a.ID, models.StatusConfirmed, ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	noShow, err := s.MarkNoShow(a.ID)
	if err != nil {
		t.Fatalf("no-show: %v", err)
	}
	if noShow.Status != models.StatusNoShow {
		t.Errorf("status = %s, want %s", noShow.Status, models.StatusNoShow)
	}
}

// ---- rescheduling ----------------------------------------------------------

func TestReschedule(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")

	req := baseRequest(t)
	req.StartTime = mustTime(t, "10:00")
	req.EndTime = mustTime(t, "10:30")
	a := mustCreate(t, s, req)
	notifier.sent = nil

	// overlapping the appointment's own old slot is fine
	moved, err := s.Reschedule(a.ID, a.AppointmentDate, mustTime(t, "10:15"), mustTime(t, "10:45"))
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.StartTime != mustTime(t, "10:15") || moved.EndTime != mustTime(t, "10:45") {
		t.Errorf("slot = %s-%s, want 10:15-10:45", moved.StartTime, moved.EndTime)
	}
	if moved.Status != models.StatusPendingConfirmation {
		t.Errorf("reschedule must not change status, got %s", moved.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Title != "Appointment Rescheduled" || notifier.sent[0].RecipientID != patientID {
		t.Errorf("reschedule notification = %+v", notifier.sent)
	}
}

func TestRescheduleConflictsWithOtherAppointment(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")

	a := mustCreate(t, s, baseRequest(t)) // 09:00-09:30
	second := baseRequest(t)
	second.StartTime = mustTime(t, "11:00")
	second.EndTime = mustTime(t, "11:30")
	b := mustCreate(t, s, second)

	if _, err := s.Reschedule(b.ID, b.AppointmentDate, mustTime(t, "09:15"), mustTime(t, "09:45")); CodeOf(err) != CodeOverlapping {
		t.Errorf("got %v, want %s", err, CodeOverlapping)
	}
	_ = a
}

func TestRescheduleRejections(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "12:00")
	a := mustCreate(t, s, baseRequest(t))

	if _, err := s.Reschedule(a.ID, mustDate(t, "2025-05-01"), mustTime(t, "09:00"), mustTime(t, "09:30")); CodeOf(err) != CodePastDateSelected {
		t.Errorf("past date: got %v, want %s", err, CodePastDateSelected)
	}
	if _, err := s.Reschedule(a.ID, a.AppointmentDate, mustTime(t, "10:00"), mustTime(t, "10:00")); CodeOf(err) != CodeInvalidTimeRange {
		t.Errorf("empty range: got %v, want %s", err, CodeInvalidTimeRange)
	}
	if _, err := s.Reschedule(a.ID, a.AppointmentDate, mustTime(t, "13:00"), mustTime(t, "13:30")); CodeOf(err) != CodeDoctorUnavailable {
		t.Errorf("outside window: got %v, want %s", err, CodeDoctorUnavailable)
	}

	if _, err := s.UpdateStatus(a.ID, models.StatusCancelled, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := s.Reschedule(a.ID, a.AppointmentDate, mustTime(t, "10:00"), mustTime(t, "10:30")); CodeOf(err) != CodeInvalidStatusChange {
		t.Errorf("cancelled: got %v, want %s", err, CodeInvalidStatusChange)
	}
}

// ---- reminders and notes ---------------------------------------------------

func TestSendReminder(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	a := mustCreate(t, s, baseRequest(t))
	notifier.sent = nil

	// pending appointments get no reminder
	if err := s.SendReminder(a.ID); err != nil {
		t.Fatalf("reminder on pending: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("pending appointment must not notify, got %+v", notifier.sent)
	}

	if _, err := s.UpdateStatus(a.ID, models.StatusConfirmed, ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	notifier.sent = nil

	if err := s.SendReminder(a.ID); err != nil {
		t.Fatalf("reminder: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Title != "Appointment Reminder" || notifier.sent[0].RecipientID != patientID {
		t.Errorf("reminder notification = %+v", notifier.sent)
	}
	got, _ := s.GetByID(a.ID)
	if !got.ReminderSent {
		t.Error("reminder flag not set")
	}
}

func TestAddNotes(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	a := mustCreate(t, s, baseRequest(t))

	if _, err := s.UpdateStatus(a.ID, models.StatusConfirmed, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MarkComplete(a.ID); err != nil {
		t.Fatal(err)
	}

	// notes can be added regardless of status, even after completion
	updated, err := s.AddNotes(a.ID, "patient recovering well")
	if err != nil {
		t.Fatalf("AddNotes: %v", err)
	}
	if updated.Notes != "patient recovering well" {
		t.Errorf("notes = %q", updated.Notes)
	}
}

// ---- queries ---------------------------------------------------------------

func TestCheckAvailability(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "12:00")

	date := mustDate(t, "2025-06-10")
	ok, err := s.CheckAvailability(doctorID, date, mustTime(t, "09:00"), mustTime(t, "09:30"))
	if err != nil || !ok {
		t.Errorf("in-window slot: ok=%v err=%v", ok, err)
	}
	ok, err = s.CheckAvailability(doctorID, date, mustTime(t, "14:00"), mustTime(t, "14:30"))
	if err != nil || ok {
		t.Errorf("out-of-window slot: ok=%v err=%v", ok, err)
	}
	if _, err := s.CheckAvailability("ghost", date, mustTime(t, "09:00"), mustTime(t, "09:30")); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown doctor: got %v, want %s", err, CodeNotFound)
	}
}

func TestCheckAvailabilityIgnoresBookings(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")
	a := mustCreate(t, s, baseRequest(t))

	// availability check answers "is the doctor open", not "is the slot free"
	ok, err := s.CheckAvailability(doctorID, a.AppointmentDate, a.StartTime, a.EndTime)
	if err != nil || !ok {
		t.Errorf("booked slot inside a window: ok=%v err=%v", ok, err)
	}
}

func TestListForDoctorAndPatient(t *testing.T) {
	s, store, _ := newTestScheduler(t)
	openWindow(t, store, doctorID, "09:00", "17:00")

	a := mustCreate(t, s, baseRequest(t))
	second := baseRequest(t)
	second.Date = mustDate(t, "2025-06-12")
	b := mustCreate(t, s, second)
	if _, err := s.UpdateStatus(b.ID, models.StatusConfirmed, ""); err != nil {
		t.Fatal(err)
	}

	all, err := s.ListForDoctor(doctorID, ListFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("ListForDoctor: %d appointments, err=%v", len(all), err)
	}

	confirmed := models.StatusConfirmed
	got, err := s.ListForDoctor(doctorID, ListFilter{Status: &confirmed})
	if err != nil || len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("status filter: %+v err=%v", got, err)
	}

	from := mustDate(t, "2025-06-11")
	got, err = s.ListForPatient(patientID, ListFilter{From: &from})
	if err != nil || len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("date filter: %+v err=%v", got, err)
	}

	if _, err := s.ListForDoctor("ghost", ListFilter{}); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown doctor: got %v, want %s", err, CodeNotFound)
	}
	_ = a
}
