package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack-campus/ecotrack/internal/domain"
	"github.com/ecotrack-campus/ecotrack/internal/infra/memstore"
	"github.com/ecotrack-campus/ecotrack/internal/infra/observability"
	"github.com/ecotrack-campus/ecotrack/internal/infra/sqlite"
)

var fixedNow = time.Date(2025, 1, 18, 9, 30, 0, 0, time.UTC)

func counterIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.LoginDelay = 0
	return cfg
}

func newTestManager(t *testing.T, factory domain.StoreFactory, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(counterIDs()),
	}, opts...)
	m := NewManager(testConfig(), factory, opts...)
	t.Cleanup(func() { m.Close() })
	return m
}

var backends = map[string]domain.StoreFactory{
	"memory": memstore.Factory,
	"sqlite": sqlite.Factory,
}

// ─── Session Behaviour ──────────────────────────────────────────────────────

func TestSession_RecordEntry(t *testing.T) {
	for name, factory := range backends {
		t.Run(name, func(t *testing.T) {
			m := newTestManager(t, factory)
			s, err := m.Create(context.Background())
			require.NoError(t, err)
			ctx := context.Background()

			s.SetForm(Form{Mode: domain.ModeCar, Distance: "10", Electricity: "5"})
			entry, err := s.SubmitForm(ctx)
			require.NoError(t, err)

			assert.Equal(t, 2.1, entry.TransportEmission)
			assert.Equal(t, 2.5, entry.ElectricityEmission)
			assert.Equal(t, 4.6, entry.TotalEmission)
			assert.Equal(t, "2025-01-18", entry.Date)

			entries, err := s.Entries(ctx)
			require.NoError(t, err)
			require.Len(t, entries, 4)
			assert.Equal(t, entry, entries[0])

			// Numeric fields reset, mode kept.
			assert.Equal(t, Form{Mode: domain.ModeCar}, s.Form())
		})
	}
}

func TestSession_SubmitForm_OutOfRangeInput(t *testing.T) {
	m := newTestManager(t, memstore.Factory)
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	ctx := context.Background()

	s.SetForm(Form{Mode: domain.ModeTrain, Distance: "1e400", Electricity: "1e500000"})
	entry, err := s.SubmitForm(ctx)
	require.NoError(t, err)
	assert.Zero(t, entry.TotalEmission)
	assert.Equal(t, Form{Mode: domain.ModeTrain}, s.Form())

	d, err := s.Dashboard(ctx)
	require.NoError(t, err)
	// (0 + 20 + 21 + 18) / 4 = 14.75
	assert.Equal(t, 14.8, d.WeeklyAverage)
}

func TestSession_RecordEntry_CapsHistory(t *testing.T) {
	for name, factory := range backends {
		t.Run(name, func(t *testing.T) {
			m := newTestManager(t, factory)
			s, err := m.Create(context.Background())
			require.NoError(t, err)
			ctx := context.Background()

			for i := 0; i < 10; i++ {
				_, err := s.RecordEntry(ctx, domain.ModeBus, "4", "")
				require.NoError(t, err)
			}
			entries, err := s.Entries(ctx)
			require.NoError(t, err)
			assert.Len(t, entries, domain.EntryCap)
		})
	}
}

func TestSession_CompleteAction(t *testing.T) {
	for name, factory := range backends {
		t.Run(name, func(t *testing.T) {
			m := newTestManager(t, factory)
			s, err := m.Create(context.Background())
			require.NoError(t, err)
			ctx := context.Background()

			change, err := s.CompleteAction(ctx, "1")
			require.NoError(t, err)
			assert.Equal(t, PointsChange{Delta: 10, Total: 1260}, change)

			// Second completion is a no-op.
			again, err := s.CompleteAction(ctx, "1")
			require.NoError(t, err)
			assert.Equal(t, PointsChange{Delta: 0, Total: 1260}, again)

			// Seeded completed action and unknown ids award nothing.
			for _, id := range []string{"3", "99"} {
				c, err := s.CompleteAction(ctx, id)
				require.NoError(t, err)
				assert.Zero(t, c.Delta, "id %s", id)
			}

			actions, err := s.Actions(ctx)
			require.NoError(t, err)
			assert.True(t, actions[0].Completed)
			assert.False(t, actions[1].Completed)
			assert.Equal(t, 1260, s.TotalPoints())
		})
	}
}

func TestSession_ReportLocation(t *testing.T) {
	for name, factory := range backends {
		t.Run(name, func(t *testing.T) {
			m := newTestManager(t, factory)
			s, err := m.Create(context.Background())
			require.NoError(t, err)
			ctx := context.Background()

			loc, change, err := s.ReportLocation(ctx)
			require.NoError(t, err)
			assert.Equal(t, PointsChange{Delta: 30, Total: 1280}, change)
			assert.Equal(t, "New Location", loc.Name)
			assert.Equal(t, domain.StatusPending, loc.Status)

			_, _, err = s.ReportLocation(ctx)
			require.NoError(t, err)

			locs, err := s.Locations(ctx)
			require.NoError(t, err)
			assert.Len(t, locs, 4)
			assert.Equal(t, 1310, s.TotalPoints())
		})
	}
}

func TestSession_Dashboard(t *testing.T) {
	m := newTestManager(t, memstore.Factory)
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	ctx := context.Background()

	d, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1250, d.TotalPoints)
	assert.Equal(t, 19.7, d.WeeklyAverage)
	assert.Equal(t, 2, d.EarnedCount)
	assert.Equal(t, 2, d.Rank)

	// Recomputed after each event.
	_, err = s.RecordEntry(ctx, domain.ModeWalk, "3", "2")
	require.NoError(t, err)
	_, _, err = s.ReportLocation(ctx)
	require.NoError(t, err)

	d, err = s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15.0, d.WeeklyAverage)
	assert.Equal(t, 1280, d.TotalPoints)
	assert.Equal(t, 3, d.LocationCount)
	assert.Equal(t, 2, d.EarnedCount)
}

func TestSession_ConcurrentEvents(t *testing.T) {
	m := newTestManager(t, memstore.Factory)
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.CompleteAction(ctx, "5")
			s.ReportLocation(ctx)
		}()
	}
	wg.Wait()

	// Action 5 pays out once, every report pays out.
	assert.Equal(t, 1250+50+20*30, s.TotalPoints())
}

func TestSession_Metrics(t *testing.T) {
	mt := observability.NewMetrics()
	m := newTestManager(t, memstore.Factory, WithMetrics(mt))
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	ctx := context.Background()

	s.RecordEntry(ctx, domain.ModeTrain, "10", "1")
	s.CompleteAction(ctx, "2")
	s.CompleteAction(ctx, "2")
	s.ReportLocation(ctx)

	assert.Equal(t, 1.0, testutil.ToFloat64(mt.EntriesRecorded.WithLabelValues("train")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.ActionsCompleted))
	assert.Equal(t, 15.0, testutil.ToFloat64(mt.PointsAwarded.WithLabelValues(observability.SourceAction)))
	assert.Equal(t, 30.0, testutil.ToFloat64(mt.PointsAwarded.WithLabelValues(observability.SourceReport)))
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.ActiveSessions))
}

func TestSession_ClosedStore(t *testing.T) {
	m := newTestManager(t, memstore.Factory)
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.End(s.ID))

	_, err = s.RecordEntry(context.Background(), domain.ModeCar, "1", "1")
	assert.True(t, errors.Is(err, domain.ErrStoreClosed), "got %v", err)
	assert.Equal(t, 1250, s.TotalPoints())
}
