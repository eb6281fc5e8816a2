package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/gvarobotics/estop-controller/internal/logger"
)

// defaultFlushTimeout bounds how long a publish waits for broker handoff.
const defaultFlushTimeout = 2 * time.Second

// BusPublisher announces safety events on the NATS bus.
type BusPublisher struct {
	// conn is the shared broker connection.
	conn *nats.Conn
	// flushTimeout bounds the wait for the broker to take the message.
	flushTimeout time.Duration
}

// BusOption customises a BusPublisher.
type BusOption func(*BusPublisher)

// WithFlushTimeout overrides the broker handoff timeout.
func WithFlushTimeout(d time.Duration) BusOption {
	return func(p *BusPublisher) {
		p.flushTimeout = d
	}
}

// NewBusPublisher wraps an established broker connection.
func NewBusPublisher(conn *nats.Conn, opts ...BusOption) *BusPublisher {
	p := &BusPublisher{
		conn:         conn,
		flushTimeout: defaultFlushTimeout,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Publish sends the event to its subject and flushes the connection so the
// broker handoff is confirmed before the receipt is returned.
func (p *BusPublisher) Publish(ctx context.Context, event Event) (*Receipt, error) {
	subject := EventSubject(event.UnitID, event.State)

	data, err := json.Marshal(event.wirePayload())
	if err != nil {
		return &Receipt{Subject: subject}, fmt.Errorf("encode event: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return &Receipt{Subject: subject}, fmt.Errorf("publish event: %w", err)
	}

	if err := p.conn.FlushTimeout(p.flushTimeout); err != nil {
		return &Receipt{Subject: subject}, fmt.Errorf("confirm broker handoff: %w", err)
	}

	logger.InfoKV(ctx, "Safety event published", "subject", subject, "state", event.State)

	return &Receipt{
		Acked:   true,
		Subject: subject,
	}, nil
}
