package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/shared/domain"
)

// Envelope is the wire format for a published domain event. The payload
// carries the event's own exported fields.
type Envelope struct {
	EventID       string          `json:"event_id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// PublishEvents wraps each domain event in an envelope and publishes it
// under the event's routing key. Publishing stops at the first failure.
func PublishEvents(ctx context.Context, pub Publisher, events []domain.DomainEvent) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event payload: %w", err)
		}

		envelope := Envelope{
			EventID:       event.EventID().String(),
			AggregateID:   event.AggregateID().String(),
			AggregateType: event.AggregateType(),
			RoutingKey:    event.RoutingKey(),
			OccurredAt:    event.OccurredAt(),
			Payload:       payload,
		}

		body, err := json.Marshal(envelope)
		if err != nil {
			return fmt.Errorf("failed to marshal event envelope: %w", err)
		}

		if err := pub.Publish(ctx, event.RoutingKey(), body); err != nil {
			return fmt.Errorf("failed to publish %s: %w", event.RoutingKey(), err)
		}
	}
	return nil
}
