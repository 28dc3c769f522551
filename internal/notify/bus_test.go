package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricescout/pricescout/internal/model"
)

func TestBus_PublishSubscribe(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.CountryChanged("US")

	select {
	case ev := <-ch:
		assert.Equal(t, TopicCountryChanged, ev.Topic)
		assert.Equal(t, "US", ev.CountryCode)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestBus_LocationChanged(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.LocationChanged(model.UserLocation{CountryCode: "IN", City: "Mumbai"})

	select {
	case ev := <-ch:
		assert.Equal(t, TopicLocationChanged, ev.Topic)
		require.NotNil(t, ev.Location)
		assert.Equal(t, "Mumbai", ev.Location.City)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestBus_CancelRemovesSubscription(t *testing.T) {
	b := NewBus()
	ch, cancel := b.Subscribe()
	cancel()

	// channel is closed after cancel
	_, open := <-ch
	assert.False(t, open)

	// publishing after cancel must not panic
	b.CountryChanged("GB")
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBus()
	_, cancel := b.Subscribe() // never drained
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.CountryChanged("IN")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
