package events

import "testing"

func TestPublishSynchronous(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(DealsChanged, func(evt Event) {
		got = append(got, evt.EntityID)
	})

	bus.Publish(Event{Name: DealsChanged, EntityID: "d1"})
	bus.Publish(Event{Name: ContactsChanged, EntityID: "c1"})

	if len(got) != 1 || got[0] != "d1" {
		t.Fatalf("expected one delivery for d1, got %v", got)
	}
}

func TestWildcardSubscriber(t *testing.T) {
	bus := NewBus()
	count := 0
	bus.Subscribe("", func(Event) { count++ })
	bus.Subscribe(DealsChanged, func(Event) { count++ })

	bus.Publish(Event{Name: DealsChanged})
	bus.Publish(Event{Name: TouchpointsChanged})

	if count != 3 {
		t.Fatalf("expected 3 deliveries, got %d", count)
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Publish(Event{Name: TasksChanged, EntityID: "t1"})
}
