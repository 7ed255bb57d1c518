package metrics

import "github.com/ecotrack-campus/ecotrack/internal/domain"

// CompleteAction marks the action with actionID completed and returns the
// points it awards. Unknown ids and already-completed actions are no-ops
// with a zero delta, so repeating a call never double-awards.
//
// The input slice is never modified; on a transition a copy is returned
// with only that one action changed.
func CompleteAction(actions []domain.EcoAction, actionID string) ([]domain.EcoAction, int) {
	for i, a := range actions {
		if a.ID != actionID {
			continue
		}
		if a.Completed {
			return actions, 0
		}
		out := make([]domain.EcoAction, len(actions))
		copy(out, actions)
		out[i].Completed = true
		return out, a.PointValue
	}
	return actions, 0
}

// Placeholder values for a user-reported location. The map is not
// interactive, so every report lands on the same coordinates.
const (
	ReportedName    = "New Location"
	ReportedAddress = "Location pending verification"
	ReportedLat     = 40.7500
	ReportedLng     = -73.9900
)

// NewReportedLocation builds the placeholder location for id.
func NewReportedLocation(id string) domain.EWasteLocation {
	return domain.EWasteLocation{
		ID:      id,
		Name:    ReportedName,
		Address: ReportedAddress,
		Items:   []string{"Electronics"},
		Status:  domain.StatusPending,
		Lat:     ReportedLat,
		Lng:     ReportedLng,
	}
}

// ReportLocation appends a placeholder location and returns the fixed
// report bonus. It always succeeds.
func ReportLocation(locations []domain.EWasteLocation, id string) ([]domain.EWasteLocation, int) {
	out := make([]domain.EWasteLocation, len(locations), len(locations)+1)
	copy(out, locations)
	return append(out, NewReportedLocation(id)), domain.ReportBonus
}

// Impact factors per location (kg).
const (
	CollectedMassPerLocation = 5.0
	CO2PreventedPerLocation  = 15.0
)

// ImpactAggregates summarizes e-waste impact.
//
// CO2PreventedKg scales with the total location count regardless of
// status, matching the dashboard as shipped.
func ImpactAggregates(locations []domain.EWasteLocation) domain.ImpactAggregates {
	var agg domain.ImpactAggregates
	for _, l := range locations {
		switch l.Status {
		case domain.StatusCollected:
			agg.CollectedCount++
		case domain.StatusPending:
			agg.PendingCount++
		}
	}
	agg.ReportedCount = len(locations)
	agg.CollectedMassKg = CollectedMassPerLocation * float64(agg.CollectedCount)
	agg.CO2PreventedKg = CO2PreventedPerLocation * float64(agg.ReportedCount)
	return agg
}
