// Package events publishes bookstore domain events (orders placed, stock and price changes)
// to downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a domain event.
type Type string

const (
	OrderCreated Type = "order.created"
	StockChanged Type = "stock.changed"
	PriceChanged Type = "price.changed"
)

// Event is the envelope written to the event stream.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`

	// Key partitions the stream, e.g. by order id or isbn.
	Key string `json:"-"`
}

// New builds an event with a fresh id and the current time.
func New(t Type, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
		Key:        key,
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

var _ Publisher = Noop{}
