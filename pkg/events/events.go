package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/homeservices/exchange-api/pkg/logger"
	"github.com/nats-io/nats.go"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher is used when no event bus is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

// Event subjects
const (
	ServiceCreated = "service.created"
	ServiceUpdated = "service.updated"
	ServiceDeleted = "service.deleted"
	BookingCreated = "booking.created"
)

// Event payloads
type ServiceCreatedEvent struct {
	ServiceID     string    `json:"service_id"`
	ServiceName   string    `json:"service_name"`
	ProviderEmail string    `json:"provider_email"`
	CreatedAt     time.Time `json:"created_at"`
}

type ServiceUpdatedEvent struct {
	ServiceID string    `json:"service_id"`
	Upserted  bool      `json:"upserted"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ServiceDeletedEvent struct {
	ServiceID string    `json:"service_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

type BookingCreatedEvent struct {
	BookingID     string    `json:"booking_id"`
	ConsumerEmail string    `json:"consumer_email"`
	ProviderEmail string    `json:"provider_email"`
	CreatedAt     time.Time `json:"created_at"`
}
