package handlers

import (
	"errors"

	"healthapp-server/internal/middleware"
	"healthapp-server/internal/models"
	"healthapp-server/internal/store"
	"healthapp-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler handles doctor availability management. The scheduling
// core only reads these windows; mutation happens here.
type AvailabilityHandler struct {
	Windows *store.AvailabilityRepo
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(windows *store.AvailabilityRepo) *AvailabilityHandler {
	return &AvailabilityHandler{Windows: windows}
}

// canManage restricts window mutation to the owning doctor or an admin.
func canManage(c *gin.Context, doctorID string) bool {
	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	return userRole == models.RoleAdmin || (userRole == models.RoleDoctor && userID == doctorID)
}

// CreateAvailabilityRequest represents the request body for declaring a window.
// Either a specific date or a recurring day of week must be set, not both.
type CreateAvailabilityRequest struct {
	DoctorID             string           `json:"doctorId" binding:"required,uuid"`
	Date                 *models.Date     `json:"date"`
	DayOfWeek            string           `json:"dayOfWeek" binding:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime            models.TimeOfDay `json:"startTime"`
	EndTime              models.TimeOfDay `json:"endTime" binding:"required"`
	Available            *bool            `json:"available"`
	UnavailabilityReason string           `json:"unavailabilityReason"`
}

func (req *CreateAvailabilityRequest) validate(c *gin.Context) bool {
	if req.StartTime >= req.EndTime {
		utils.BadRequest(c, "startTime must be before endTime")
		return false
	}
	if (req.Date == nil) == (req.DayOfWeek == "") {
		utils.BadRequest(c, "exactly one of date or dayOfWeek must be set")
		return false
	}
	return true
}

func (req *CreateAvailabilityRequest) toModel() *models.DoctorAvailability {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	w := &models.DoctorAvailability{
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Available: available,
	}
	if !available {
		w.UnavailabilityReason = req.UnavailabilityReason
	}
	return w
}

// CreateAvailability handles declaring a new availability window.
func (h *AvailabilityHandler) CreateAvailability(c *gin.Context) {
	var req CreateAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if !req.validate(c) {
		return
	}
	if !canManage(c, req.DoctorID) {
		utils.Forbidden(c, "You can only manage your own availability.")
		return
	}

	window := req.toModel()
	if err := h.Windows.Create(window); err != nil {
		utils.InternalServerError(c, "Failed to create availability: "+err.Error())
		return
	}
	utils.Created(c, "Availability created successfully", window)
}

// BulkAvailabilityRequest declares the same recurring window for several days
// of the week at once, e.g. a standard working week.
type BulkAvailabilityRequest struct {
	DoctorID   string           `json:"doctorId" binding:"required,uuid"`
	DaysOfWeek []string         `json:"daysOfWeek" binding:"required,min=1,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime  models.TimeOfDay `json:"startTime"`
	EndTime    models.TimeOfDay `json:"endTime" binding:"required"`
}

// CreateBulkAvailability handles declaring recurring windows for several days.
func (h *AvailabilityHandler) CreateBulkAvailability(c *gin.Context) {
	var req BulkAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.StartTime >= req.EndTime {
		utils.BadRequest(c, "startTime must be before endTime")
		return
	}
	if !canManage(c, req.DoctorID) {
		utils.Forbidden(c, "You can only manage your own availability.")
		return
	}

	windows := make([]*models.DoctorAvailability, 0, len(req.DaysOfWeek))
	for _, day := range req.DaysOfWeek {
		window := &models.DoctorAvailability{
			DoctorID:  req.DoctorID,
			DayOfWeek: day,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Available: true,
		}
		if err := h.Windows.Create(window); err != nil {
			utils.InternalServerError(c, "Failed to create availability: "+err.Error())
			return
		}
		windows = append(windows, window)
	}
	utils.Created(c, "Availability created successfully", windows)
}

// GetAvailabilityByID fetches a single availability window.
func (h *AvailabilityHandler) GetAvailabilityByID(c *gin.Context) {
	window, err := h.Windows.FindByID(c.Param("id"))
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if window == nil {
		utils.NotFound(c, "Availability window not found")
		return
	}
	utils.Success(c, "Availability fetched successfully", window)
}

// GetDoctorAvailability lists all windows declared by a doctor.
func (h *AvailabilityHandler) GetDoctorAvailability(c *gin.Context) {
	windows, err := h.Windows.FindByDoctor(c.Param("doctorId"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch availability: "+err.Error())
		return
	}
	utils.Success(c, "Availability fetched successfully", windows)
}

// GetDoctorAvailabilityForDate lists the windows effective on one date,
// including recurring day-of-week windows when no dated windows exist.
func (h *AvailabilityHandler) GetDoctorAvailabilityForDate(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	windows, err := h.Windows.WindowsForDate(c.Param("doctorId"), date)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch availability: "+err.Error())
		return
	}
	utils.Success(c, "Availability fetched successfully", windows)
}

// GetDoctorAvailabilityForRange lists dated windows in [from, to]
// (?from=&to=).
func (h *AvailabilityHandler) GetDoctorAvailabilityForRange(c *gin.Context) {
	from, err := models.ParseDate(c.Query("from"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	to, err := models.ParseDate(c.Query("to"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	windows, err := h.Windows.FindByDoctorAndRange(c.Param("doctorId"), from, to)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch availability: "+err.Error())
		return
	}
	utils.Success(c, "Availability fetched successfully", windows)
}

// UpdateAvailabilityRequest represents the request body for updating a window.
type UpdateAvailabilityRequest struct {
	Date                 *models.Date      `json:"date"`
	StartTime            *models.TimeOfDay `json:"startTime"`
	EndTime              *models.TimeOfDay `json:"endTime"`
	Available            *bool             `json:"available"`
	UnavailabilityReason string            `json:"unavailabilityReason"`
}

// apply folds the provided fields into the window. Setting a date turns a
// recurring window into a dated one, so the day of week is cleared; a window
// never carries both.
func (req *UpdateAvailabilityRequest) apply(w *models.DoctorAvailability) error {
	if req.Date != nil {
		w.Date = req.Date
		w.DayOfWeek = ""
	}
	if req.StartTime != nil {
		w.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		w.EndTime = *req.EndTime
	}
	if req.Available != nil {
		w.Available = *req.Available
		if !w.Available {
			w.UnavailabilityReason = req.UnavailabilityReason
		} else {
			w.UnavailabilityReason = ""
		}
	}
	if w.StartTime >= w.EndTime {
		return errors.New("startTime must be before endTime")
	}
	return nil
}

// UpdateAvailability handles partial updates of an availability window.
func (h *AvailabilityHandler) UpdateAvailability(c *gin.Context) {
	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	window, err := h.Windows.FindByID(c.Param("id"))
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if window == nil {
		utils.NotFound(c, "Availability window not found")
		return
	}
	if !canManage(c, window.DoctorID) {
		utils.Forbidden(c, "You can only manage your own availability.")
		return
	}

	if err := req.apply(window); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.Windows.Update(window); err != nil {
		utils.InternalServerError(c, "Failed to update availability: "+err.Error())
		return
	}
	utils.Success(c, "Availability updated successfully", window)
}

// DeleteAvailability removes an availability window.
func (h *AvailabilityHandler) DeleteAvailability(c *gin.Context) {
	window, err := h.Windows.FindByID(c.Param("id"))
	if err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if window == nil {
		utils.NotFound(c, "Availability window not found")
		return
	}
	if !canManage(c, window.DoctorID) {
		utils.Forbidden(c, "You can only manage your own availability.")
		return
	}

	if err := h.Windows.Delete(window.ID); err != nil {
		utils.InternalServerError(c, "Failed to delete availability: "+err.Error())
		return
	}
	utils.Success(c, "Availability deleted successfully", nil)
}

// MarkUnavailableRequest represents the request body for blocking a full date.
type MarkUnavailableRequest struct {
	Date   models.Date `json:"date" binding:"required"`
	Reason string      `json:"reason" binding:"required"`
}

// MarkDoctorUnavailable flips every window of the doctor on a date to
// unavailable, e.g. for sick leave.
func (h *AvailabilityHandler) MarkDoctorUnavailable(c *gin.Context) {
	doctorID := c.Param("doctorId")
	if !canManage(c, doctorID) {
		utils.Forbidden(c, "You can only manage your own availability.")
		return
	}

	var req MarkUnavailableRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	affected, err := h.Windows.MarkUnavailable(doctorID, req.Date, req.Reason)
	if err != nil {
		utils.InternalServerError(c, "Failed to mark doctor unavailable: "+err.Error())
		return
	}
	utils.Success(c, "Doctor marked unavailable", gin.H{"windowsUpdated": affected})
}
