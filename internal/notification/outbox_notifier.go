package notification

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go-attend/internal/events"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxNotifier persists notification events to the kafka outbox table; the
// relay worker delivers them. Called after the business transaction commits,
// so a lost notification never loses attendance data.
type OutboxNotifier struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, logger ...*zap.Logger) *OutboxNotifier {
	l := zap.L().Named("notification.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.outbox")
	}
	return &OutboxNotifier{outbox: outbox, logger: l}
}

func (n *OutboxNotifier) Notify(ctx context.Context, target string, event string, payload map[string]any) error {
	evt := events.NotificationEvent{
		EventType:  event,
		Target:     target,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	if cid, ok := payload["company_id"].(string); ok {
		evt.CompanyID = cid
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	return n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:          uuid.NewString(),
		TraceID:     contextutil.GetRequestID(ctx),
		Source:      eventSource(event),
		RecipientID: target,
		EventType:   event,
		Topic:       events.NotificationTopic,
		Payload:     body,
		Status:      kafka.OutboxStatusPending,
	})
}

// eventSource derives the emitting module from the event name prefix, e.g.
// "regularization_decided" comes from the regularization module.
func eventSource(event string) string {
	if module, _, found := strings.Cut(event, "_"); found {
		return module
	}
	return event
}
