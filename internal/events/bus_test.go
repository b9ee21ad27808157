package events

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_Subscribe(t *testing.T) {
	// GIVEN
	bus := NewBus()

	// WHEN
	bus.Subscribe(TurboToggled, func(e Event) {})

	// THEN
	assert.Equal(t, 1, bus.SubscriberCount(TurboToggled))
	assert.Equal(t, 0, bus.SubscriberCount("other"))
}

func TestBus_Unsubscribe(t *testing.T) {
	// GIVEN
	bus := NewBus()
	unsubscribe := bus.Subscribe(TurboToggled, func(e Event) {})

	// WHEN
	unsubscribe()
	unsubscribe()

	// THEN
	assert.Equal(t, 0, bus.SubscriberCount(TurboToggled))
}

func TestBus_PublishSync(t *testing.T) {
	// GIVEN
	bus := NewBus()
	var received atomic.Int32
	var other atomic.Int32
	bus.Subscribe(TurboToggled, func(e Event) {
		received.Add(1)
	})
	bus.Subscribe(TurboToggled, func(e Event) {
		received.Add(1)
	})
	bus.Subscribe("other", func(e Event) {
		other.Add(1)
	})

	// WHEN
	bus.PublishSync(NewTurboToggled("hotkey"))

	// THEN
	assert.Equal(t, int32(2), received.Load())
	assert.Equal(t, int32(0), other.Load())
}

func TestBus_Publish(t *testing.T) {
	// GIVEN
	bus := NewBus()
	received := make(chan Event, 1)
	bus.Subscribe(TurboToggled, func(e Event) {
		received <- e
	})

	// WHEN
	bus.Publish(NewTurboToggled("hotkey"))

	// THEN
	select {
	case e := <-received:
		assert.Equal(t, TurboToggled, e.Type)
		assert.Equal(t, "hotkey", e.Origin)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestBus_NoDeliveryAfterUnsubscribe(t *testing.T) {
	// GIVEN
	bus := NewBus()
	var received atomic.Int32
	unsubscribe := bus.Subscribe(TurboToggled, func(e Event) {
		received.Add(1)
	})
	unsubscribe()

	// WHEN
	bus.PublishSync(NewTurboToggled("hotkey"))

	// THEN
	assert.Equal(t, int32(0), received.Load())
}
