package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"healthapp-server/internal/config"
	"healthapp-server/internal/middleware"
	"healthapp-server/internal/models"
	"healthapp-server/internal/notify"
	"healthapp-server/internal/utils"
)

// NotificationStore is the slice of the notification repository the handler
// reads and writes through.
type NotificationStore interface {
	FindByID(id string) (*models.Notification, error)
	FindUnreadForUser(userID string) ([]models.Notification, error)
	FindAllForUser(userID string) ([]models.Notification, error)
	MarkRead(id string) (*models.Notification, error)
}

// NotificationHandler serves stored notifications and the WebSocket stream.
type NotificationHandler struct {
	Notifications NotificationStore
	Hub           *notify.Hub
	upgrader      websocket.Upgrader
	log           zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications NotificationStore, hub *notify.Hub, cfg *config.Config, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		Notifications: notifications,
		Hub:           hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == cfg.Origin
			},
		},
		log: log.With().Str("component", "notification-handler").Logger(),
	}
}

// GetNotifications lists the authenticated user's notifications. ?unread=true
// narrows the list to unread ones.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var err error
	var notifications interface{}
	if c.Query("unread") == "true" {
		notifications, err = h.Notifications.FindUnreadForUser(userID)
	} else {
		notifications, err = h.Notifications.FindAllForUser(userID)
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch notifications: "+err.Error())
		return
	}
	utils.Success(c, "Notifications fetched successfully", notifications)
}

// MarkNotificationRead flags a notification as read. Ownership is checked
// before anything is written.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	notification, err := h.Notifications.FindByID(c.Param("id"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch notification: "+err.Error())
		return
	}
	if notification == nil {
		utils.NotFound(c, "Notification not found")
		return
	}
	if notification.UserID != userID {
		utils.Forbidden(c, "You are not authorized to modify this notification")
		return
	}

	updated, err := h.Notifications.MarkRead(notification.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to mark notification read: "+err.Error())
		return
	}
	utils.Success(c, "Notification marked as read", updated)
}

// Stream upgrades the connection to WebSocket and registers it with the hub.
// The server only pushes; incoming frames are read and discarded to keep the
// connection alive until the client disconnects.
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug().Err(err).Str("user", userID).Msg("websocket upgrade failed")
		return
	}

	h.Hub.Register(userID, conn)
	defer h.Hub.Unregister(userID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
