package notify

import (
	"fmt"

	"github.com/rs/zerolog"

	"healthapp-server/internal/models"
	"healthapp-server/internal/scheduling"
	"healthapp-server/internal/store"
)

// Dispatcher persists notifications and pushes them to connected recipients.
// The stored row is the source of truth; the WebSocket push runs on its own
// goroutine so callers never wait on a slow client.
type Dispatcher struct {
	notifications *store.NotificationRepo
	hub           *Hub
	log           zerolog.Logger
}

// NewDispatcher creates a Dispatcher writing through the given repository.
func NewDispatcher(notifications *store.NotificationRepo, hub *Hub, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		hub:           hub,
		log:           log.With().Str("component", "dispatcher").Logger(),
	}
}

// Notify implements scheduling.Notifier.
func (d *Dispatcher) Notify(n scheduling.Notification) error {
	record := &models.Notification{
		UserID:        n.RecipientID,
		SenderID:      n.SenderID,
		Title:         n.Title,
		Message:       n.Message,
		Type:          n.Category,
		CorrelationID: n.CorrelationID,
	}
	if err := d.notifications.Create(record); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	go d.hub.Push(n.RecipientID, record)
	return nil
}
