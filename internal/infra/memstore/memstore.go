// Package memstore implements domain.CollectionStore over plain slices.
// It is the default backend: every call succeeds until the store is closed.
package memstore

import (
	"context"
	"sync"

	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// Store holds a session's collections in memory.
type Store struct {
	mu        sync.RWMutex
	entries   []domain.CarbonEntry
	actions   []domain.EcoAction
	locations []domain.EWasteLocation
	closed    bool
}

var _ domain.CollectionStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// NewSeeded creates a store preloaded with the campus seed data.
func NewSeeded() *Store {
	return &Store{
		entries:   domain.SeedEntries(),
		actions:   domain.SeedActions(),
		locations: domain.SeedLocations(),
	}
}

// Factory is a domain.StoreFactory producing seeded stores.
func Factory(context.Context) (domain.CollectionStore, error) {
	return NewSeeded(), nil
}

// Entries returns a copy of the carbon entries, most recent first.
func (s *Store) Entries(ctx context.Context) ([]domain.CarbonEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	out := make([]domain.CarbonEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// InsertEntry prepends e and drops anything beyond domain.EntryCap.
func (s *Store) InsertEntry(ctx context.Context, e domain.CarbonEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	keep := len(s.entries)
	if keep > domain.EntryCap-1 {
		keep = domain.EntryCap - 1
	}
	next := make([]domain.CarbonEntry, 0, keep+1)
	next = append(next, e)
	s.entries = append(next, s.entries[:keep]...)
	return nil
}

// Actions returns a copy of the eco actions.
func (s *Store) Actions(ctx context.Context) ([]domain.EcoAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	out := make([]domain.EcoAction, len(s.actions))
	copy(out, s.actions)
	return out, nil
}

// UpdateAction replaces the action sharing a.ID. Unknown ids are ignored.
func (s *Store) UpdateAction(ctx context.Context, a domain.EcoAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	for i := range s.actions {
		if s.actions[i].ID == a.ID {
			s.actions[i] = a
			return nil
		}
	}
	return nil
}

// Locations returns a copy of the e-waste locations.
func (s *Store) Locations(ctx context.Context) ([]domain.EWasteLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	out := make([]domain.EWasteLocation, len(s.locations))
	for i, l := range s.locations {
		l.Items = append([]string(nil), l.Items...)
		out[i] = l
	}
	return out, nil
}

// AppendLocation adds l at the end.
func (s *Store) AppendLocation(ctx context.Context, l domain.EWasteLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	l.Items = append([]string(nil), l.Items...)
	s.locations = append(s.locations, l)
	return nil
}

// Close drops all collections.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries, s.actions, s.locations = nil, nil, nil
	s.closed = true
	return nil
}
