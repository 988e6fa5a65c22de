package bus

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

// Hub fans events out to in-process subscribers grouped by room. It
// satisfies Publisher on its own for single-instance deployments; with the
// Redis bridge in front, Deliver is fed from the bridge instead.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Subscription
}

// Subscription is one connected client's membership in one room. Events
// arrive on C until Unsubscribe; slow consumers lose events rather than
// block the hub.
type Subscription struct {
	id   string
	room string
	ch   chan Event
}

// C is the subscriber's event stream.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Room returns the room this subscription joined.
func (s *Subscription) Room() string {
	return s.room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[string]*Subscription)}
}

// Subscribe joins a room. Membership is always explicit; there is no
// implicit or wildcard join.
func (h *Hub) Subscribe(room string) *Subscription {
	sub := &Subscription{
		id:   uuid.NewString(),
		room: room,
		ch:   make(chan Event, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Subscription)
	}
	h.rooms[room][sub.id] = sub
	return sub
}

// Unsubscribe leaves the room and closes the subscription's channel.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[sub.room]
	if !ok {
		return
	}
	if _, ok := members[sub.id]; !ok {
		return
	}
	delete(members, sub.id)
	if len(members) == 0 {
		delete(h.rooms, sub.room)
	}
	close(sub.ch)
}

// Publish implements Publisher by delivering locally.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.Deliver(ev)
	return nil
}

// Deliver hands the event to every current subscriber of its room. A full
// subscriber buffer drops the event for that subscriber only.
func (h *Hub) Deliver(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.rooms[ev.Room] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports current membership of a room.
func (h *Hub) SubscriberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
