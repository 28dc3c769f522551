// Package notify is a small in-process broadcast bus. Preference writes
// publish here so other components can react without polling the store.
package notify

import (
	"sync"

	"github.com/pricescout/pricescout/internal/model"
)

// Event is a broadcast payload.
type Event struct {
	// Topic is one of the Topic* constants.
	Topic string
	// CountryCode is set for TopicCountryChanged.
	CountryCode string
	// Location is set for TopicLocationChanged.
	Location *model.UserLocation
}

const (
	TopicCountryChanged  = "country_changed"
	TopicLocationChanged = "location_changed"
)

// Bus fans events out to subscribers. Sends never block: a subscriber that
// falls behind misses events rather than stalling the publisher.
type Bus struct {
	mu   sync.Mutex
	subs []chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel receiving all future events. The returned
// cancel function removes the subscription and closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub == ch {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber with room in its buffer.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}

// CountryChanged publishes a country change.
func (b *Bus) CountryChanged(code string) {
	b.Publish(Event{Topic: TopicCountryChanged, CountryCode: code})
}

// LocationChanged publishes a location change.
func (b *Bus) LocationChanged(loc model.UserLocation) {
	b.Publish(Event{Topic: TopicLocationChanged, Location: &loc})
}
