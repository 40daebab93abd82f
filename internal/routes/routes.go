package routes

import (
	"healthapp-server/internal/config"
	"healthapp-server/internal/handlers"
	"healthapp-server/internal/middleware"
	"healthapp-server/internal/models"
	"healthapp-server/internal/notify"
	"healthapp-server/internal/scheduling"
	"healthapp-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SetupRoutes wires the stores, scheduling core and handlers onto the router
// and returns the components main needs to keep running (the data store and
// scheduler, for background jobs).
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log zerolog.Logger) (*store.Store, *scheduling.Scheduler) {
	dataStore := store.New(db)
	hub := notify.NewHub(log)
	dispatcher := notify.NewDispatcher(dataStore.Notifications(), hub, log)
	scheduler := scheduling.NewScheduler(dataStore, dispatcher, log)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(scheduler)
	availabilityHandler := handlers.NewAvailabilityHandler(dataStore.AvailabilityWindows())
	notificationHandler := handlers.NewNotificationHandler(dataStore.Notifications(), hub, cfg, log)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User management routes
		userRoutes := private.Group("/users")
		{
			// Doctor directory - accessible by all authenticated users
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			// Patient directory - accessible by doctors and admins
			userRoutes.GET("/doctor-patients", userHandler.GetDoctorPatients)

			// Admin-only routes
			adminRoutes := userRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminRoutes.POST("", userHandler.CreateUser)
				adminRoutes.GET("", userHandler.GetUsers)
				adminRoutes.GET("/:id", userHandler.GetUserByID)
				adminRoutes.PUT("/:id", userHandler.UpdateUser)
				adminRoutes.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Appointment routes; fine-grained authorization lives in the handlers
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleDoctor, models.RoleAdmin), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("/availability/check", appointmentHandler.CheckAvailability)
			appointmentRoutes.GET("/number/:number", appointmentHandler.GetAppointmentByNumber)
			appointmentRoutes.GET("/doctor/:doctorId", appointmentHandler.GetDoctorAppointments)
			appointmentRoutes.GET("/patient/:patientId", appointmentHandler.GetPatientAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PATCH("/:id/reschedule", appointmentHandler.RescheduleAppointment)
			appointmentRoutes.PATCH("/:id/notes", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.AddAppointmentNotes)
			appointmentRoutes.PATCH("/:id/complete", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.MarkComplete)
			appointmentRoutes.PATCH("/:id/noshow", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.MarkNoShow)
			appointmentRoutes.POST("/:id/reminder", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), appointmentHandler.SendReminder)
		}

		// Doctor availability management routes
		availabilityRoutes := private.Group("/availability")
		{
			availabilityRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), availabilityHandler.CreateAvailability)
			availabilityRoutes.POST("/bulk", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), availabilityHandler.CreateBulkAvailability)
			availabilityRoutes.GET("/doctor/:doctorId", availabilityHandler.GetDoctorAvailability)
			availabilityRoutes.GET("/doctor/:doctorId/date/:date", availabilityHandler.GetDoctorAvailabilityForDate)
			availabilityRoutes.GET("/doctor/:doctorId/range", availabilityHandler.GetDoctorAvailabilityForRange)
			availabilityRoutes.POST("/doctor/:doctorId/unavailable", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), availabilityHandler.MarkDoctorUnavailable)
			availabilityRoutes.GET("/:id", availabilityHandler.GetAvailabilityByID)
			availabilityRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), availabilityHandler.UpdateAvailability)
			availabilityRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), availabilityHandler.DeleteAvailability)
		}

		// Notification routes
		notificationRoutes := private.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.GetNotifications)
			notificationRoutes.GET("/ws", notificationHandler.Stream)
			notificationRoutes.PATCH("/:id/read", notificationHandler.MarkNotificationRead)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	return dataStore, scheduler
}
