// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the tracker and depends on nothing.
package domain

import "time"

// ─── Carbon Types ───────────────────────────────────────────────────────────

// TransportMode is the way a user travelled on a given day.
type TransportMode string

const (
	ModeCar   TransportMode = "car"
	ModeBus   TransportMode = "bus"
	ModeTrain TransportMode = "train"
	ModeBike  TransportMode = "bike"
	ModeWalk  TransportMode = "walk"
)

// TransportModes lists every supported mode in selector order.
func TransportModes() []TransportMode {
	return []TransportMode{ModeCar, ModeBus, ModeTrain, ModeBike, ModeWalk}
}

// Valid reports whether m is one of the supported modes.
func (m TransportMode) Valid() bool {
	for _, known := range TransportModes() {
		if m == known {
			return true
		}
	}
	return false
}

// DateLayout is the calendar-date format used for carbon entries.
const DateLayout = time.DateOnly

// CarbonEntry is one computed record of a day's estimated CO₂ emissions.
// TotalEmission is fixed at creation and never recomputed.
type CarbonEntry struct {
	ID                  string  `json:"id"`
	Date                string  `json:"date"`
	TransportEmission   float64 `json:"transport_kg"`
	ElectricityEmission float64 `json:"electricity_kg"`
	TotalEmission       float64 `json:"total_kg"`
}

// EntryCap is the maximum number of carbon entries a session keeps.
const EntryCap = 7

// ─── EcoPoints Types ────────────────────────────────────────────────────────

// EcoAction is a predefined sustainable action worth EcoPoints.
// Once Completed is true it never reverts.
type EcoAction struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	PointValue int    `json:"points"`
	Completed  bool   `json:"completed"`
}

// ReportBonus is the EcoPoints bonus for reporting an e-waste location.
const ReportBonus = 30

// ─── E-Waste Types ──────────────────────────────────────────────────────────

// LocationStatus is the collection state of an e-waste site.
type LocationStatus string

const (
	StatusPending   LocationStatus = "pending"
	StatusCollected LocationStatus = "collected"
)

// EWasteLocation is an electronic-waste collection site.
type EWasteLocation struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Address string         `json:"address"`
	Items   []string       `json:"items"`
	Status  LocationStatus `json:"status"`
	Lat     float64        `json:"lat"`
	Lng     float64        `json:"lng"`
}

// ImpactAggregates summarizes e-waste impact across all known locations.
type ImpactAggregates struct {
	CollectedMassKg float64 `json:"collected_mass_kg"`
	CO2PreventedKg  float64 `json:"co2_prevented_kg"`
	ReportedCount   int     `json:"reported_count"`
	PendingCount    int     `json:"pending_count"`
	CollectedCount  int     `json:"collected_count"`
}

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementID identifies a milestone. Earned status is always derived,
// never stored.
type AchievementID string

const (
	AchievementCarbonSaver  AchievementID = "carbon-saver"
	AchievementGreenWarrior AchievementID = "green-warrior"
	AchievementEWasteHero   AchievementID = "ewaste-hero"
)

// Achievement is a named milestone with its derived earned flag.
type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Earned      bool          `json:"earned"`
}

// ─── Leaderboard Types ──────────────────────────────────────────────────────

// CurrentUserName is the display name substituted for the session owner.
const CurrentUserName = "You"

// Peer is another campus user on the static leaderboard.
type Peer struct {
	Name   string `json:"name" toml:"name"`
	Points int    `json:"points" toml:"points"`
}

// LeaderboardEntry represents a user's position on the leaderboard.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	Name          string `json:"name"`
	Points        int    `json:"points"`
	IsCurrentUser bool   `json:"is_current_user"`
}
