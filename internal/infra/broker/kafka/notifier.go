package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"staycal/internal/app/policies"
)

// Notifier publishes application events as JSON onto per-event topics. The
// mail service consumes booking.requested; availability.changed feeds cache
// invalidation downstream.
type Notifier struct {
	Producer    *Producer
	TopicPrefix string
}

func (n *Notifier) Send(ctx context.Context, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("kafka: encode %s event: %w", event, err)
	}
	topic := n.TopicPrefix + event
	return n.Producer.Publish(ctx, topic, event, payload, map[string]string{"event": event})
}

var _ policies.Notifier = (*Notifier)(nil)
