package bus

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"chatgraph/internal/models"
	"chatgraph/internal/observability"
)

const subscriberBuffer = 16

// Predicate decides whether a published event is delivered to a subscriber.
type Predicate func(models.MessageEvent) bool

type subscriber struct {
	id     string
	events chan models.MessageEvent
	match  Predicate
}

// Hub fans newly appended messages out to live subscribers. Delivery is
// fire-and-forget: no persistence, no replay, and a subscriber only sees
// events published after it subscribed.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]*subscriber
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]*subscriber)}
}

// Subscribe registers a listener whose channel receives every future event
// accepted by match. The subscription is removed and the channel closed when
// ctx is cancelled. A nil match accepts everything.
func (h *Hub) Subscribe(ctx context.Context, match Predicate) <-chan models.MessageEvent {
	sub := &subscriber{
		id:     uuid.NewString(),
		events: make(chan models.MessageEvent, subscriberBuffer),
		match:  match,
	}

	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	observability.IncSubscribers()

	go func() {
		<-ctx.Done()
		h.remove(sub.id)
	}()

	return sub.events
}

// Publish delivers an event to every matching subscriber. Sends never block:
// an event is dropped for a subscriber whose buffer is full.
func (h *Hub) Publish(event models.MessageEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if sub.match != nil && !sub.match(event) {
			continue
		}
		select {
		case sub.events <- event:
			observability.IncEventsDelivered()
		default:
			observability.IncEventsDropped()
		}
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if ok {
		close(sub.events)
		observability.DecSubscribers()
	}
}
