package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// CollectionStore holds the three bounded, ordered collections of a session.
// No removal operation exists for any collection.
type CollectionStore interface {
	// Entries returns carbon entries, most recent first.
	Entries(ctx context.Context) ([]CarbonEntry, error)

	// InsertEntry puts e at the front and truncates to EntryCap.
	InsertEntry(ctx context.Context, e CarbonEntry) error

	// Actions returns the eco action catalog in seed order.
	Actions(ctx context.Context) ([]EcoAction, error)

	// UpdateAction replaces the action with a.ID; unknown ids are ignored.
	UpdateAction(ctx context.Context, a EcoAction) error

	// Locations returns e-waste locations in insertion order.
	Locations(ctx context.Context) ([]EWasteLocation, error)

	// AppendLocation adds l at the end.
	AppendLocation(ctx context.Context, l EWasteLocation) error

	// Close releases the store. Its contents are discarded.
	Close() error
}

// StoreFactory builds a fresh, seeded store for a new session.
type StoreFactory func(ctx context.Context) (CollectionStore, error)
