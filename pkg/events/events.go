package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/weddingwise/weddingwise-bookings/pkg/logger"
)

// Publisher emits domain events for downstream consumers (analytics,
// notification fan-out). Publishing is always best-effort: a failed
// publish never fails the request that triggered it.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

// Event subjects
const (
	BookingConfirmed = "booking.confirmed"
	BookingCanceled  = "booking.canceled"
	UserRegistered   = "user.registered"
)

type BookingConfirmedEvent struct {
	UserEmail    string    `json:"user_email"`
	EventCount   int       `json:"event_count"`
	VendorCount  int       `json:"vendor_count"`
	EmailSent    bool      `json:"email_sent"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

type BookingCanceledEvent struct {
	BookingID  int64     `json:"booking_id"`
	UserEmail  string    `json:"user_email"`
	CanceledAt time.Time `json:"canceled_at"`
}

type UserRegisteredEvent struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }
