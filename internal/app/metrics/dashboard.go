package metrics

import "github.com/ecotrack-campus/ecotrack/internal/domain"

// Snapshot is the raw session state every derived metric is computed from.
type Snapshot struct {
	Entries     []domain.CarbonEntry
	Actions     []domain.EcoAction
	Locations   []domain.EWasteLocation
	TotalPoints int
	Peers       []domain.Peer
}

// TrendPoint is one bar of the dashboard carbon trend.
type TrendPoint struct {
	domain.CarbonEntry
	BarPercent float64 `json:"bar_percent"`
}

// Dashboard is every derived value the presentation layer renders.
type Dashboard struct {
	TotalPoints       int                       `json:"total_points"`
	WeeklyAverage     float64                   `json:"weekly_average_kg"`
	AverageBarPercent float64                   `json:"average_bar_percent"`
	Verdict           string                    `json:"verdict"`
	LocationCount     int                       `json:"location_count"`
	Achievements      []domain.Achievement      `json:"achievements"`
	EarnedCount       int                       `json:"earned_count"`
	AchievementTotal  int                       `json:"achievement_total"`
	Trend             []TrendPoint              `json:"trend"`
	Impact            domain.ImpactAggregates   `json:"impact"`
	Leaderboard       []domain.LeaderboardEntry `json:"leaderboard"`
	Rank              int                       `json:"rank"`
	CompletedActions  int                       `json:"completed_actions"`
}

// BuildDashboard derives the full dashboard from s. It is recomputed on
// every read; nothing in it is cached.
func BuildDashboard(s Snapshot) Dashboard {
	avg := WeeklyAverage(s.Entries)
	earned := AchievementEligibility(avg, s.TotalPoints, len(s.Locations))

	trend := Trend(s.Entries)
	points := make([]TrendPoint, len(trend))
	for i, e := range trend {
		points[i] = TrendPoint{CarbonEntry: e, BarPercent: EntryBarPercent(e.TotalEmission)}
	}

	completed := 0
	for _, a := range s.Actions {
		if a.Completed {
			completed++
		}
	}

	board := Leaderboard(s.Peers, s.TotalPoints)

	return Dashboard{
		TotalPoints:       s.TotalPoints,
		WeeklyAverage:     avg,
		AverageBarPercent: AverageBarPercent(avg),
		Verdict:           FootprintVerdict(avg),
		LocationCount:     len(s.Locations),
		Achievements:      Achievements(earned),
		EarnedCount:       earned.Len(),
		AchievementTotal:  AchievementCount(),
		Trend:             points,
		Impact:            ImpactAggregates(s.Locations),
		Leaderboard:       board,
		Rank:              CurrentUserRank(board),
		CompletedActions:  completed,
	}
}
