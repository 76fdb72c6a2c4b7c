package messagingadapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"confhub/contexts/conference-program/program-engine/domain/entities"
	"confhub/internal/platform/messaging"
	"confhub/internal/shared/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct {
	calls int
}

func (p *failingPublisher) Publish(context.Context, string, events.Envelope) error {
	p.calls++
	return errors.New("broker unavailable")
}

func TestNotifierPublishesEnvelopeOnBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := messaging.NewBus(nil)
	received := make(chan events.Envelope, 1)
	bus.Subscribe(ctx, NotificationTopic, func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	})

	Notifier{Publisher: bus}.Notify(ctx, entities.Notification{
		UserID:  "rev_1",
		Kind:    entities.NotificationKindAssignment,
		Title:   "New review assignment",
		Message: "hello",
		Link:    "/reviews/sub_1",
	})

	select {
	case event := <-received:
		assert.Equal(t, "rev_1", event.EntityID)
		assert.Equal(t, notificationEventType, event.EventType)
		payload, ok := event.Payload.(NotificationPayload)
		require.True(t, ok)
		assert.Equal(t, "assignment", payload.Kind)
		assert.Equal(t, "/reviews/sub_1", payload.Link)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestNotifierSwallowsPublishErrors(t *testing.T) {
	publisher := &failingPublisher{}
	require.NotPanics(t, func() {
		Notifier{Publisher: publisher, Topic: "custom"}.Notify(context.Background(), entities.Notification{UserID: "rev_1"})
	})
	assert.Equal(t, 1, publisher.calls)
}
