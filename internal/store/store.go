package store

import (
	"context"

	"github.com/pricescout/pricescout/internal/model"
)

// Store is the persistence interface for local state: bounded search history
// and user preferences. All data is per-machine; there is no server-side
// copy and no cross-device synchronization.
type Store interface {
	// History. Inserts keep the list bounded at model.MaxHistoryItems,
	// evicting the oldest entries; listing is newest-first.
	AddHistory(ctx context.Context, item model.HistoryItem) error
	ListHistory(ctx context.Context) ([]model.HistoryItem, error)
	DeleteHistory(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error

	// Preferences. Reads apply documented defaults when the stored value is
	// absent or fails to parse; writes broadcast an in-process notification.
	SelectedCountry(ctx context.Context) (string, error)
	SetSelectedCountry(ctx context.Context, code string) error
	UserLocation(ctx context.Context) (*model.UserLocation, error)
	SetUserLocation(ctx context.Context, loc model.UserLocation) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
