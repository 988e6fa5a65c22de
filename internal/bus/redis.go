package bus

import (
	"context"
	"encoding/json"
	"time"

	"menumate/internal/domain"
	"menumate/internal/logger"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "room:"

// RedisBus bridges the in-process hub over Redis pub/sub so events published
// on any instance reach subscribers connected to every instance. Semantics
// stay at-most-once: Redis pub/sub holds nothing for absent subscribers.
type RedisBus struct {
	client *redis.Client
	hub    *Hub
	log    *logger.Logger
}

type wireEvent struct {
	Type    domain.EventType `json:"event"`
	Room    string           `json:"room"`
	Payload json.RawMessage  `json:"payload"`
	At      time.Time        `json:"at"`
}

func NewRedisBus(client *redis.Client, hub *Hub, log *logger.Logger) *RedisBus {
	return &RedisBus{client: client, hub: hub, log: log}
}

// Publish sends the event to the room's Redis channel. Local delivery
// happens when Run receives the message back, same as on any other node.
func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelPrefix+ev.Room, body).Err()
}

// Run consumes every room channel and feeds the local hub until ctx ends.
func (b *RedisBus) Run(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Err("drop malformed bus message", err, "channel", msg.Channel)
				continue
			}
			b.hub.Deliver(Event{Type: ev.Type, Room: ev.Room, Payload: ev.Payload, At: ev.At})
		}
	}
}
