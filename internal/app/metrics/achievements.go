package metrics

import "github.com/ecotrack-campus/ecotrack/internal/domain"

// Thresholds for the achievement predicates.
const (
	GreenWarriorPoints  = 1000
	EWasteHeroLocations = 2
)

// AchievementSet is the set of achievements currently earned.
type AchievementSet map[domain.AchievementID]bool

// Has reports whether id is earned.
func (s AchievementSet) Has(id domain.AchievementID) bool { return s[id] }

// Len returns the number of earned achievements.
func (s AchievementSet) Len() int {
	n := 0
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

// AchievementEligibility evaluates every achievement predicate.
// The result is re-derived on each read and never stored.
func AchievementEligibility(weeklyAverage float64, totalPoints, locationCount int) AchievementSet {
	set := make(AchievementSet, 3)
	if weeklyAverage < CarbonSaverThreshold {
		set[domain.AchievementCarbonSaver] = true
	}
	if totalPoints >= GreenWarriorPoints {
		set[domain.AchievementGreenWarrior] = true
	}
	if locationCount >= EWasteHeroLocations {
		set[domain.AchievementEWasteHero] = true
	}
	return set
}

// achievementDefs is the display catalog, in dashboard order.
var achievementDefs = []domain.Achievement{
	{ID: domain.AchievementCarbonSaver, Name: "Carbon Saver", Description: "Reduced weekly average by 20%", Icon: "🌍"},
	{ID: domain.AchievementGreenWarrior, Name: "Green Warrior", Description: "Earned 1000+ EcoPoints", Icon: "⚔️"},
	{ID: domain.AchievementEWasteHero, Name: "E-Waste Hero", Description: "Reported 3+ e-waste locations", Icon: "♻️"},
}

// AchievementCount is the total number of achievements.
func AchievementCount() int { return len(achievementDefs) }

// Achievements returns the full catalog with Earned flags filled from set.
func Achievements(set AchievementSet) []domain.Achievement {
	out := make([]domain.Achievement, len(achievementDefs))
	for i, def := range achievementDefs {
		def.Earned = set.Has(def.ID)
		out[i] = def
	}
	return out
}
