package messagingadapter

import (
	"context"
	"log/slog"
	"time"

	application "confhub/contexts/conference-program/program-engine/application"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	"confhub/contexts/conference-program/program-engine/ports"
	"confhub/internal/shared/events"

	"github.com/google/uuid"
)

const (
	NotificationTopic     = "program-engine.notifications"
	notificationEventType = "notification.requested"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// Notifier turns notifications into bus events. Publish failures are logged
// and dropped.
type Notifier struct {
	Publisher Publisher
	Topic     string
	Logger    *slog.Logger
}

func (n Notifier) Notify(ctx context.Context, notification entities.Notification) {
	logger := application.ResolveLogger(n.Logger)
	topic := n.Topic
	if topic == "" {
		topic = NotificationTopic
	}
	envelope := NewNotificationEnvelope(notification, time.Now().UTC())
	if err := n.Publisher.Publish(ctx, topic, envelope); err != nil {
		logger.Error("notification publish failed",
			"event", "program_notification_publish_failed",
			"module", application.LogModule,
			"layer", "adapter",
			"user_id", notification.UserID,
			"kind", string(notification.Kind),
			"error", err.Error(),
		)
	}
}

type NotificationPayload struct {
	UserID  string `json:"user_id"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

func NewNotificationEnvelope(notification entities.Notification, now time.Time) events.Envelope {
	eventID := uuid.NewString()
	return events.Envelope{
		EventID:        eventID,
		EventType:      notificationEventType,
		SourceService:  "program-engine",
		OccurredAtUTC:  now,
		CorrelationID:  eventID,
		EntityType:     "user",
		EntityID:       notification.UserID,
		PayloadVersion: 1,
		Payload: NotificationPayload{
			UserID:  notification.UserID,
			Kind:    string(notification.Kind),
			Title:   notification.Title,
			Message: notification.Message,
			Link:    notification.Link,
		},
	}
}

var _ ports.Notifier = Notifier{}
