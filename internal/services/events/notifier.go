package events

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/formfill/internal/interfaces"
	"github.com/ternarybob/formfill/internal/models"
)

// Notifier publishes user-facing notifications onto the event bus, where
// the websocket handler picks them up for connected clients.
type Notifier struct {
	events interfaces.EventService
	logger arbor.ILogger
}

// NewNotifier creates a new event-bus backed notifier
func NewNotifier(events interfaces.EventService, logger arbor.ILogger) *Notifier {
	return &Notifier{
		events: events,
		logger: logger,
	}
}

// Success delivers a success notification
func (n *Notifier) Success(message string) {
	n.notify(models.NotificationSuccess, message)
}

// Error delivers an error notification
func (n *Notifier) Error(message string) {
	n.notify(models.NotificationError, message)
}

// Warning delivers a warning notification
func (n *Notifier) Warning(message string) {
	n.notify(models.NotificationWarning, message)
}

func (n *Notifier) notify(level models.NotificationLevel, message string) {
	n.logger.Info().Str("level", string(level)).Msg(message)

	if n.events == nil {
		return
	}
	if err := n.events.Publish(context.Background(), interfaces.Event{
		Type: interfaces.EventNotification,
		Payload: models.Notification{
			Level:     level,
			Message:   message,
			Timestamp: time.Now(),
		},
	}); err != nil {
		n.logger.Warn().Err(err).Msg("Failed to publish notification event")
	}
}
