package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthapp-server/internal/middleware"
	"healthapp-server/internal/models"
	"healthapp-server/internal/scheduling"
	"healthapp-server/internal/utils"
)

// AppointmentHandler exposes the scheduling core over REST.
type AppointmentHandler struct {
	Scheduler *scheduling.Scheduler
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(scheduler *scheduling.Scheduler) *AppointmentHandler {
	return &AppointmentHandler{Scheduler: scheduler}
}

// respondSchedulingError maps core error codes onto HTTP statuses.
func respondSchedulingError(c *gin.Context, err error) {
	var serr *scheduling.Error
	if !errors.As(err, &serr) {
		utils.InternalServerError(c, err.Error())
		return
	}
	switch serr.Code {
	case scheduling.CodeNotFound:
		utils.NotFound(c, serr.Message)
	case scheduling.CodeOverlapping:
		utils.Conflict(c, serr.Code, serr.Message)
	case scheduling.CodePastDateSelected,
		scheduling.CodeDoctorUnavailable,
		scheduling.CodeInvalidStatusChange,
		scheduling.CodeInvalidTimeRange:
		utils.ErrorWithCode(c, http.StatusBadRequest, serr.Code, serr.Message)
	default:
		utils.InternalServerError(c, serr.Message)
	}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	DoctorID        string           `json:"doctorId" binding:"required,uuid"`
	PatientID       string           `json:"patientId" binding:"required,uuid"`
	AppointmentDate models.Date      `json:"appointmentDate" binding:"required"`
	StartTime       models.TimeOfDay `json:"startTime"`
	EndTime         models.TimeOfDay `json:"endTime" binding:"required"`
	Reason          string           `json:"reason" binding:"required"`
	Notes           string           `json:"notes"`
	Amount          *float64         `json:"amount"`
}

// CreateAppointment handles booking a new appointment.
// Typically initiated by a patient.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient ID not found in token")
		return
	}
	// Patients can only book for themselves; doctors and admins may book on
	// a patient's behalf.
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RolePatient && userID != req.PatientID {
		utils.Forbidden(c, "Patients can only book appointments for themselves.")
		return
	}

	appointment, err := h.Scheduler.CreateAppointment(scheduling.CreateRequest{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.AppointmentDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		Notes:     req.Notes,
		Amount:    req.Amount,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", appointment)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by the involved patient, doctor, or an admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appointment, err := h.Scheduler.GetByID(c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if !h.canView(c, appointment) {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// GetAppointmentByNumber handles fetching an appointment by its booking code.
func (h *AppointmentHandler) GetAppointmentByNumber(c *gin.Context) {
	appointment, err := h.Scheduler.GetByNumber(c.Param("number"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	if !h.canView(c, appointment) {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}
	utils.Success(c, "Appointment fetched successfully", appointment)
}

// GetDoctorAppointments lists a doctor's appointments with optional status
// and date-range filters (?status=, ?from=, ?to=).
func (h *AppointmentHandler) GetDoctorAppointments(c *gin.Context) {
	doctorID := c.Param("doctorId")
	if !h.canList(c, doctorID) {
		utils.Forbidden(c, "You are not authorized to view these appointments")
		return
	}

	filter, ok := parseListFilter(c)
	if !ok {
		return
	}
	appointments, err := h.Scheduler.ListForDoctor(doctorID, filter)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetPatientAppointments lists a patient's appointments with optional status
// and date-range filters.
func (h *AppointmentHandler) GetPatientAppointments(c *gin.Context) {
	patientID := c.Param("patientId")
	if !h.canList(c, patientID) {
		utils.Forbidden(c, "You are not authorized to view these appointments")
		return
	}

	filter, ok := parseListFilter(c)
	if !ok {
		return
	}
	appointments, err := h.Scheduler.ListForPatient(patientID, filter)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}

// UpdateAppointmentStatusRequest represents the request body for updating an
// appointment's status.
type UpdateAppointmentStatusRequest struct {
	Status             models.AppointmentStatus `json:"status" binding:"required,oneof=PENDING_CONFIRMATION CONFIRMED CANCELLED COMPLETED NO_SHOW"`
	CancellationReason string                   `json:"cancellationReason"`
}

// UpdateAppointmentStatus handles moving an appointment through the state
// machine. Doctors and admins may set any permitted status; patients may only
// cancel their own appointments.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Scheduler.GetByID(c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	canUpdate := false
	switch {
	case userRole == models.RoleAdmin:
		canUpdate = true
	case userRole == models.RoleDoctor && userID == appointment.DoctorID:
		canUpdate = true
	case userRole == models.RolePatient && userID == appointment.PatientID:
		if req.Status != models.StatusCancelled {
			utils.Forbidden(c, "Patients can only cancel appointments.")
			return
		}
		canUpdate = true
	}
	if !canUpdate {
		utils.Forbidden(c, "You are not authorized to update this appointment's status.")
		return
	}

	updated, err := h.Scheduler.UpdateStatus(appointment.ID, req.Status, req.CancellationReason)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointment status updated successfully", updated)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	NewDate      models.Date      `json:"newDate" binding:"required"`
	NewStartTime models.TimeOfDay `json:"newStartTime"`
	NewEndTime   models.TimeOfDay `json:"newEndTime" binding:"required"`
}

// RescheduleAppointment handles moving an appointment to a new slot.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Scheduler.GetByID(c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	canReschedule := userRole == models.RoleAdmin ||
		(userRole == models.RoleDoctor && userID == appointment.DoctorID) ||
		(userRole == models.RolePatient && userID == appointment.PatientID)
	if !canReschedule {
		utils.Forbidden(c, "You are not authorized to reschedule this appointment.")
		return
	}

	updated, err := h.Scheduler.Reschedule(appointment.ID, req.NewDate, req.NewStartTime, req.NewEndTime)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointment rescheduled successfully", updated)
}

// AddNotesRequest represents the request body for updating appointment notes.
type AddNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// AddAppointmentNotes handles replacing the notes on an appointment.
func (h *AppointmentHandler) AddAppointmentNotes(c *gin.Context) {
	var req AddNotesRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	updated, err := h.Scheduler.AddNotes(c.Param("id"), req.Notes)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointment notes updated successfully", updated)
}

// SendReminder triggers a reminder for a confirmed appointment.
func (h *AppointmentHandler) SendReminder(c *gin.Context) {
	if err := h.Scheduler.SendReminder(c.Param("id")); err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Reminder processed", nil)
}

// MarkComplete marks an appointment as completed.
func (h *AppointmentHandler) MarkComplete(c *gin.Context) {
	updated, err := h.Scheduler.MarkComplete(c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointment marked as completed", updated)
}

// MarkNoShow marks an appointment as a no-show.
func (h *AppointmentHandler) MarkNoShow(c *gin.Context) {
	updated, err := h.Scheduler.MarkNoShow(c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Appointment marked as no-show", updated)
}

// CheckAvailability reports whether a doctor is open for a slot
// (?doctorId=&date=&startTime=&endTime=). It does not consult existing
// bookings; creation re-validates those.
func (h *AppointmentHandler) CheckAvailability(c *gin.Context) {
	doctorID := c.Query("doctorId")
	if doctorID == "" {
		utils.BadRequest(c, "doctorId is required")
		return
	}
	date, err := models.ParseDate(c.Query("date"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	start, err := models.ParseTimeOfDay(c.Query("startTime"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	end, err := models.ParseTimeOfDay(c.Query("endTime"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	available, err := h.Scheduler.CheckAvailability(doctorID, date, start, end)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	utils.Success(c, "Availability checked", gin.H{"available": available})
}

func (h *AppointmentHandler) canView(c *gin.Context, a *models.Appointment) bool {
	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	return userRole == models.RoleAdmin || userID == a.DoctorID || userID == a.PatientID
}

func (h *AppointmentHandler) canList(c *gin.Context, ownerID string) bool {
	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	return userRole == models.RoleAdmin || userID == ownerID
}

// parseListFilter reads the optional status/from/to query parameters. It
// responds with 400 and returns false on malformed input.
func parseListFilter(c *gin.Context) (scheduling.ListFilter, bool) {
	var filter scheduling.ListFilter

	if raw := c.Query("status"); raw != "" {
		status := models.AppointmentStatus(raw)
		if !status.Valid() {
			utils.BadRequest(c, "unknown appointment status: "+raw)
			return filter, false
		}
		filter.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		from, err := models.ParseDate(raw)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return filter, false
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := models.ParseDate(raw)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return filter, false
		}
		filter.To = &to
	}
	return filter, true
}
