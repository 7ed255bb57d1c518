// Package storetest holds the behavioral suite every domain.CollectionStore
// backend must pass. Backends call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// Run exercises a seeded store produced by factory.
func Run(t *testing.T, factory domain.StoreFactory) {
	t.Helper()

	open := func(t *testing.T) domain.CollectionStore {
		t.Helper()
		s, err := factory(context.Background())
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	}

	t.Run("seeded", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		entries, err := s.Entries(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.SeedEntries(), entries)

		actions, err := s.Actions(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.SeedActions(), actions)

		locs, err := s.Locations(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.SeedLocations(), locs)
	})

	t.Run("insert entry caps at seven", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		for i := 0; i < 12; i++ {
			e := domain.CarbonEntry{
				ID:                fmt.Sprintf("n%d", i),
				Date:              "2025-02-01",
				TransportEmission: 2.1,
				TotalEmission:     2.1,
			}
			require.NoError(t, s.InsertEntry(ctx, e))

			entries, err := s.Entries(ctx)
			require.NoError(t, err)
			require.LessOrEqual(t, len(entries), domain.EntryCap)
			assert.Equal(t, e, entries[0])
		}

		entries, err := s.Entries(ctx)
		require.NoError(t, err)
		require.Len(t, entries, domain.EntryCap)
		assert.Equal(t, "n11", entries[0].ID)
		assert.Equal(t, "n5", entries[6].ID)
	})

	t.Run("update action", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		actions, err := s.Actions(ctx)
		require.NoError(t, err)
		a := actions[0]
		a.Completed = true
		require.NoError(t, s.UpdateAction(ctx, a))

		after, err := s.Actions(ctx)
		require.NoError(t, err)
		assert.True(t, after[0].Completed)
		assert.Equal(t, actions[1:], after[1:])

		require.NoError(t, s.UpdateAction(ctx, domain.EcoAction{ID: "missing", Completed: true}))
		again, err := s.Actions(ctx)
		require.NoError(t, err)
		assert.Equal(t, after, again)
	})

	t.Run("append location", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		l := domain.EWasteLocation{
			ID:      "r1",
			Name:    "New Location",
			Address: "Location pending verification",
			Items:   []string{"Electronics"},
			Status:  domain.StatusPending,
			Lat:     40.75,
			Lng:     -73.99,
		}
		require.NoError(t, s.AppendLocation(ctx, l))

		locs, err := s.Locations(ctx)
		require.NoError(t, err)
		require.Len(t, locs, 3)
		assert.Equal(t, l, locs[2])
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		locs, err := s.Locations(ctx)
		require.NoError(t, err)
		locs[0].Items[0] = "mutated"
		locs[0].Name = "mutated"

		fresh, err := s.Locations(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Main Library", fresh[0].Name)
		assert.Equal(t, "Old phones", fresh[0].Items[0])
	})

	t.Run("closed store rejects calls", func(t *testing.T) {
		s, err := factory(context.Background())
		require.NoError(t, err)
		require.NoError(t, s.Close())

		_, err = s.Entries(context.Background())
		assert.True(t, errors.Is(err, domain.ErrStoreClosed), "got %v", err)
		err = s.AppendLocation(context.Background(), domain.EWasteLocation{ID: "x"})
		assert.True(t, errors.Is(err, domain.ErrStoreClosed), "got %v", err)
	})
}
