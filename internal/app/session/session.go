// Package session owns the mutable per-user state of the tracker.
//
// A Session wraps one CollectionStore plus the EcoPoints balance. Every
// operation runs to completion under the session mutex, so one event is
// fully applied before the next is observed. Derived metrics are never
// stored; Dashboard recomputes them from the current snapshot.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecotrack-campus/ecotrack/internal/app/metrics"
	"github.com/ecotrack-campus/ecotrack/internal/domain"
	"github.com/ecotrack-campus/ecotrack/internal/infra/observability"
)

// Form holds the raw carbon calculator inputs exactly as typed.
type Form struct {
	Mode        domain.TransportMode `json:"mode"`
	Distance    string               `json:"distance_km"`
	Electricity string               `json:"electricity_kwh"`
}

// PointsChange reports the effect of a rewarding operation.
type PointsChange struct {
	Delta int `json:"points_delta"`
	Total int `json:"total_points"`
}

// Session is one user's in-memory tracker state.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	store   domain.CollectionStore
	points  int
	form    Form
	peers   []domain.Peer
	now     func() time.Time
	newID   func() string
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// ─── Form ───────────────────────────────────────────────────────────────────

// Form returns the current calculator inputs.
func (s *Session) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetForm replaces the calculator inputs.
func (s *Session) SetForm(f Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = f
}

// SubmitForm records an entry from the stored calculator inputs. The form
// is read and reset in the same step as the entry is stored.
func (s *Session) SubmitForm(ctx context.Context) (domain.CarbonEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordEntry(ctx, s.form.Mode, s.form.Distance, s.form.Electricity)
}

// ─── Carbon ─────────────────────────────────────────────────────────────────

// RecordEntry computes a carbon entry from raw input and makes it the
// newest entry. The form's numeric fields are cleared afterwards; the
// selected mode is kept.
func (s *Session) RecordEntry(ctx context.Context, mode domain.TransportMode, distanceRaw, electricityRaw string) (domain.CarbonEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordEntry(ctx, mode, distanceRaw, electricityRaw)
}

// recordEntry requires s.mu.
func (s *Session) recordEntry(ctx context.Context, mode domain.TransportMode, distanceRaw, electricityRaw string) (domain.CarbonEntry, error) {
	date := s.now().UTC().Format(domain.DateLayout)
	entry := metrics.ComputeCarbonEmission(mode, distanceRaw, electricityRaw, s.newID(), date)
	if err := s.store.InsertEntry(ctx, entry); err != nil {
		return domain.CarbonEntry{}, fmt.Errorf("record entry: %w", err)
	}

	s.form = Form{Mode: mode}
	if s.metrics != nil {
		s.metrics.EntriesRecorded.WithLabelValues(string(mode)).Inc()
	}
	s.logger.Debug().
		Str("session", s.ID).
		Str("mode", string(mode)).
		Float64("total_kg", entry.TotalEmission).
		Msg("carbon entry recorded")
	return entry, nil
}

// Entries returns the carbon history, most recent first.
func (s *Session) Entries(ctx context.Context) ([]domain.CarbonEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Entries(ctx)
}

// ─── EcoPoints ──────────────────────────────────────────────────────────────

// TotalPoints returns the EcoPoints balance.
func (s *Session) TotalPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

// Actions returns the eco action catalog.
func (s *Session) Actions(ctx context.Context) ([]domain.EcoAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Actions(ctx)
}

// CompleteAction marks an action completed and awards its points once.
// Unknown and already-completed ids yield a zero delta.
func (s *Session) CompleteAction(ctx context.Context, actionID string) (PointsChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	actions, err := s.store.Actions(ctx)
	if err != nil {
		return PointsChange{}, fmt.Errorf("load actions: %w", err)
	}
	updated, delta := metrics.CompleteAction(actions, actionID)
	if delta == 0 {
		return PointsChange{Total: s.points}, nil
	}

	for _, a := range updated {
		if a.ID == actionID {
			if err := s.store.UpdateAction(ctx, a); err != nil {
				return PointsChange{}, fmt.Errorf("update action %s: %w", actionID, err)
			}
			break
		}
	}
	s.points += delta

	if s.metrics != nil {
		s.metrics.ActionsCompleted.Inc()
		s.metrics.PointsAwarded.WithLabelValues(observability.SourceAction).Add(float64(delta))
	}
	s.logger.Debug().Str("session", s.ID).Str("action", actionID).Int("delta", delta).Msg("eco action completed")
	return PointsChange{Delta: delta, Total: s.points}, nil
}

// ─── E-Waste ────────────────────────────────────────────────────────────────

// Locations returns the known e-waste sites in insertion order.
func (s *Session) Locations(ctx context.Context) ([]domain.EWasteLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Locations(ctx)
}

// ReportLocation appends a placeholder e-waste site and awards the
// report bonus. Reports are never deduplicated.
func (s *Session) ReportLocation(ctx context.Context) (domain.EWasteLocation, PointsChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	locations, err := s.store.Locations(ctx)
	if err != nil {
		return domain.EWasteLocation{}, PointsChange{}, fmt.Errorf("load locations: %w", err)
	}
	updated, bonus := metrics.ReportLocation(locations, s.newID())
	reported := updated[len(updated)-1]
	if err := s.store.AppendLocation(ctx, reported); err != nil {
		return domain.EWasteLocation{}, PointsChange{}, fmt.Errorf("append location: %w", err)
	}
	s.points += bonus

	if s.metrics != nil {
		s.metrics.LocationsReported.Inc()
		s.metrics.PointsAwarded.WithLabelValues(observability.SourceReport).Add(float64(bonus))
	}
	s.logger.Debug().Str("session", s.ID).Str("location", reported.ID).Msg("e-waste location reported")
	return reported, PointsChange{Delta: bonus, Total: s.points}, nil
}

// ─── Derived Views ──────────────────────────────────────────────────────────

// Snapshot reads the session's raw state in one consistent step.
func (s *Session) Snapshot(ctx context.Context) (metrics.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.store.Entries(ctx)
	if err != nil {
		return metrics.Snapshot{}, fmt.Errorf("load entries: %w", err)
	}
	actions, err := s.store.Actions(ctx)
	if err != nil {
		return metrics.Snapshot{}, fmt.Errorf("load actions: %w", err)
	}
	locations, err := s.store.Locations(ctx)
	if err != nil {
		return metrics.Snapshot{}, fmt.Errorf("load locations: %w", err)
	}
	peers := make([]domain.Peer, len(s.peers))
	copy(peers, s.peers)

	return metrics.Snapshot{
		Entries:     entries,
		Actions:     actions,
		Locations:   locations,
		TotalPoints: s.points,
		Peers:       peers,
	}, nil
}

// Dashboard derives every displayed metric from the current snapshot.
func (s *Session) Dashboard(ctx context.Context) (metrics.Dashboard, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return metrics.Dashboard{}, err
	}
	return metrics.BuildDashboard(snap), nil
}

func (s *Session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}
