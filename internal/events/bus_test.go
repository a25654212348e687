package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(func(e Event) { order = append(order, "first") })
	bus.Subscribe(func(e Event) { order = append(order, "second") })
	bus.Subscribe(func(e Event) { order = append(order, "third") })

	bus.Publish(Event{Kind: NewChatDiscovered, ChatId: "1"})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPublishIsSynchronous(t *testing.T) {
	bus := NewBus()

	var received []Event
	bus.Subscribe(func(e Event) { received = append(received, e) })

	bus.Publish(Event{Kind: UserUpdated, UserId: "42"})
	assert.Len(t, received, 1)

	bus.Publish(Event{Kind: ChatOrderUpdated, ChatId: "1", Order: "100"})
	assert.Len(t, received, 2)

	assert.Equal(t, UserUpdated, received[0].Kind)
	assert.Equal(t, "42", received[0].UserId)
	assert.Equal(t, ChatOrderUpdated, received[1].Kind)
	assert.Equal(t, "100", received[1].Order)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()

	assert.NotPanics(t, func() {
		bus.Publish(Event{Kind: ConnectionStateChanged})
	})
}

func TestSubscriberSeesEveryEvent(t *testing.T) {
	bus := NewBus()

	counts := make(map[Kind]int)
	bus.Subscribe(func(e Event) { counts[e.Kind]++ })

	kinds := []Kind{NewChatDiscovered, UserUpdated, UserUpdated, MessagesReceived}
	for _, k := range kinds {
		bus.Publish(Event{Kind: k})
	}

	assert.Equal(t, 1, counts[NewChatDiscovered])
	assert.Equal(t, 2, counts[UserUpdated])
	assert.Equal(t, 1, counts[MessagesReceived])
}
