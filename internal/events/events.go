package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const AggregateOrder = "order"

const (
	EventOrderCreated         = "order.created"
	EventOrderStatusChanged   = "order.status_changed"
	EventOrderPositionUpdated = "order.position_updated"
	EventOrderDelivered       = "order.delivered"
	EventOrderCancelled       = "order.cancelled"
)

// Event is the envelope pushed to subscribers; the tracking UI consumes these
// instead of polling order state.
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func NewEvent(eventType, aggregateID string, payload any) Event {
	data, _ := json.Marshal(payload)
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AggregateType: AggregateOrder,
		AggregateID:   aggregateID,
		Payload:       data,
		OccurredAt:    time.Now(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
