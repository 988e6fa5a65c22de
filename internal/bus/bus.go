// Package bus is the room-scoped publish/subscribe layer behind realtime
// notifications. Delivery is fire-and-forget and at-most-once: a room with
// no connected subscriber simply drops the event. Order and cart state stay
// retrievable over the read endpoints, so the bus is a convenience channel,
// never the source of truth.
package bus

import (
	"context"
	"time"

	"menumate/internal/domain"
)

// Event is one notification addressed to a single room (a shop's private
// room or a customer's private room).
type Event struct {
	Type    domain.EventType `json:"event"`
	Room    string           `json:"room"`
	Payload any              `json:"payload"`
	At      time.Time        `json:"at"`
}

// Publisher is injected into the order and cart services; tests swap in a
// recording fake.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}
