package natsadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	messagingadapter "confhub/contexts/conference-program/program-engine/adapters/messaging"
	application "confhub/contexts/conference-program/program-engine/application"
	"confhub/contexts/conference-program/program-engine/domain/entities"
	"confhub/contexts/conference-program/program-engine/ports"

	"github.com/nats-io/nats.go"
)

const DefaultSubjectPrefix = "program.notifications"

// Notifier publishes each notification as a JSON envelope on
// <prefix>.<user id>. Core NATS publish is at-most-once, which matches the
// fire-and-forget contract.
type Notifier struct {
	conn          *nats.Conn
	subjectPrefix string
	logger        *slog.Logger
}

func NewNotifier(conn *nats.Conn, subjectPrefix string, logger *slog.Logger) *Notifier {
	if strings.TrimSpace(subjectPrefix) == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	return &Notifier{
		conn:          conn,
		subjectPrefix: strings.TrimSuffix(subjectPrefix, "."),
		logger:        application.ResolveLogger(logger),
	}
}

func (n *Notifier) Subject(userID string) string {
	token := strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_").Replace(strings.TrimSpace(userID))
	if token == "" {
		token = "unknown"
	}
	return n.subjectPrefix + "." + token
}

func (n *Notifier) Notify(_ context.Context, notification entities.Notification) {
	envelope := messagingadapter.NewNotificationEnvelope(notification, time.Now().UTC())
	data, err := json.Marshal(envelope)
	if err != nil {
		n.logFailure(notification, err)
		return
	}
	if err := n.conn.Publish(n.Subject(notification.UserID), data); err != nil {
		n.logFailure(notification, err)
	}
}

func (n *Notifier) logFailure(notification entities.Notification, err error) {
	n.logger.Error("notification publish failed",
		"event", "program_notification_nats_publish_failed",
		"module", application.LogModule,
		"layer", "adapter",
		"user_id", notification.UserID,
		"kind", string(notification.Kind),
		"error", err.Error(),
	)
}

var _ ports.Notifier = (*Notifier)(nil)
