package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodgram/pkg/logging"
)

// EventPublisher is satisfied by mykafka.Producer and mykafka.Nop.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Event struct {
	Type     string    `json:"type"`
	UserID   uuid.UUID `json:"user_id"`
	TargetID uuid.UUID `json:"target_id"`
	At       time.Time `json:"at"`
}

// publish never fails the caller; delivery errors are only logged.
func publish(ctx context.Context, p EventPublisher, topic, typ string, userID, targetID uuid.UUID) {
	if p == nil {
		return
	}
	ev := Event{Type: typ, UserID: userID, TargetID: targetID, At: time.Now().UTC()}
	if err := p.PublishEvent(ctx, topic, userID.String(), ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", typ, "error", err)
	}
}
