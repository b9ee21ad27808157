package events

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

type Type string

const (
	// TurboToggled is published when the turbo state was changed outside of g2go, e.g. by the hardware hotkey.
	TurboToggled Type = "turbo_toggled"
)

// Event carries no payload besides its origin.
type Event struct {
	Type   Type      `json:"type"`
	Origin string    `json:"origin"`
	Time   time.Time `json:"time"`
}

func NewTurboToggled(origin string) Event {
	return Event{Type: TurboToggled, Origin: origin, Time: time.Now()}
}

type Handler func(Event)

// UnsubscribeFunc removes the subscription it was returned for. Calling it more than once is a no-op.
type UnsubscribeFunc func()

type subscription struct {
	eventType Type
	handler   Handler
}

type Bus struct {
	subscribers cmap.ConcurrentMap[string, subscription]
	nextId      atomic.Uint64
}

func NewBus() *Bus {
	return &Bus{
		subscribers: cmap.New[subscription](),
	}
}

func (b *Bus) Subscribe(eventType Type, handler Handler) UnsubscribeFunc {
	id := strconv.FormatUint(b.nextId.Add(1), 10)
	b.subscribers.Set(id, subscription{eventType: eventType, handler: handler})
	return func() {
		b.subscribers.Remove(id)
	}
}

func (b *Bus) handlersFor(eventType Type) []Handler {
	var handlers []Handler
	for item := range b.subscribers.IterBuffered() {
		if item.Val.eventType == eventType {
			handlers = append(handlers, item.Val.handler)
		}
	}
	return handlers
}

// Publish delivers event to all subscribers without waiting for them.
func (b *Bus) Publish(event Event) {
	for _, handler := range b.handlersFor(event.Type) {
		go handler(event)
	}
}

// PublishSync delivers event to all subscribers and waits until every handler returned.
func (b *Bus) PublishSync(event Event) {
	var wg sync.WaitGroup
	for _, handler := range b.handlersFor(event.Type) {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			h(event)
		}(handler)
	}
	wg.Wait()
}

func (b *Bus) SubscriberCount(eventType Type) int {
	return len(b.handlersFor(eventType))
}
