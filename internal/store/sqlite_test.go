package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/notify"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestAddAndListHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.AddHistory(ctx, model.HistoryItem{
		Query: "iPhone 13",
		Kind:  model.KindName,
		BestPrice: &model.BestPrice{
			Store: "Flipkart",
			Price: "₹52,490",
		},
	})
	require.NoError(t, err)

	items, err := s.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, "iPhone 13", items[0].Query)
	assert.Equal(t, model.KindName, items[0].Kind)
	require.NotNil(t, items[0].BestPrice)
	assert.Equal(t, "Flipkart", items[0].BestPrice.Store)
	assert.False(t, items[0].CreatedAt.IsZero())
}

func TestListHistory_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AddHistory(ctx, model.HistoryItem{
			Query:     fmt.Sprintf("query %d", i),
			Kind:      model.KindName,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	items, err := s.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "query 4", items[0].Query)
	assert.Equal(t, "query 0", items[4].Query)
}

func TestAddHistory_EnforcesCap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < model.MaxHistoryItems+10; i++ {
		require.NoError(t, s.AddHistory(ctx, model.HistoryItem{
			Query:     fmt.Sprintf("query %d", i),
			Kind:      model.KindName,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	items, err := s.ListHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, items, model.MaxHistoryItems)
	// the newest survives, the oldest were evicted
	assert.Equal(t, fmt.Sprintf("query %d", model.MaxHistoryItems+9), items[0].Query)
	assert.Equal(t, "query 10", items[len(items)-1].Query)
}

func TestDeleteHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := model.HistoryItem{ID: "h-1", Query: "pixel 8", Kind: model.KindName}
	require.NoError(t, s.AddHistory(ctx, item))

	require.NoError(t, s.DeleteHistory(ctx, "h-1"))

	items, err := s.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = s.DeleteHistory(ctx, "h-1")
	assert.Error(t, err)
}

func TestClearHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.AddHistory(ctx, model.HistoryItem{
			Query: fmt.Sprintf("q%d", i), Kind: model.KindBarcode,
		}))
	}
	require.NoError(t, s.ClearHistory(ctx))

	items, err := s.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSelectedCountry_DefaultWhenAbsent(t *testing.T) {
	s := newTestStore(t)

	code, err := s.SelectedCountry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "IN", code)
}

func TestSelectedCountry_UnknownCodeFallsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSelectedCountry(ctx, "ZZ"))

	code, err := s.SelectedCountry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "IN", code)
}

func TestSetSelectedCountry_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSelectedCountry(ctx, "US"))

	code, err := s.SelectedCountry(ctx)
	require.NoError(t, err)
	assert.Equal(t, "US", code)
}

func TestSetSelectedCountry_Broadcasts(t *testing.T) {
	bus := notify.NewBus()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"), bus)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))

	ch, cancel := bus.Subscribe()
	defer cancel()

	require.NoError(t, s.SetSelectedCountry(ctx, "GB"))

	select {
	case ev := <-ch:
		assert.Equal(t, notify.TopicCountryChanged, ev.Topic)
		assert.Equal(t, "GB", ev.CountryCode)
	case <-time.After(time.Second):
		t.Fatal("no broadcast after country write")
	}
}

func TestUserLocation_RoundTripAndOverwrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	loc, err := s.UserLocation(ctx)
	require.NoError(t, err)
	assert.Nil(t, loc)

	first := model.UserLocation{
		Country: "India", CountryCode: "IN", City: "Mumbai",
		Latitude: 19.07, Longitude: 72.87,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, s.SetUserLocation(ctx, first))

	second := model.UserLocation{Country: "United States", CountryCode: "US"}
	require.NoError(t, s.SetUserLocation(ctx, second))

	loc, err = s.UserLocation(ctx)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "US", loc.CountryCode)
	// overwritten wholesale, not merged
	assert.Empty(t, loc.City)
	assert.Zero(t, loc.Latitude)
}
