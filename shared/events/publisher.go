package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Broker is the subset of the RabbitMQ client used for publishing
type Broker interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Publisher encodes posting events and hands them to the broker
type Publisher struct {
	broker Broker
}

// NewPublisher creates a Publisher on top of a broker client
func NewPublisher(broker Broker) *Publisher {
	return &Publisher{broker: broker}
}

// Publish sends a single event
func (p *Publisher) Publish(ctx context.Context, event PostingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode posting event: %w", err)
	}

	if err := p.broker.PublishWithRetry(ctx, body, ContentType); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}
