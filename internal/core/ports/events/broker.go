package events

import "context"

// Message is a serialized event ready for a broker.
type Message struct {
	RoutingKey  string
	MessageID   string
	ContentType string
	Body        []byte
}

// Broker delivers messages to downstream consumers.
type Broker interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}
