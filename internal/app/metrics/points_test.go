package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// ─── Achievements ───────────────────────────────────────────────────────────

func TestAchievementEligibility(t *testing.T) {
	tests := []struct {
		name      string
		avg       float64
		points    int
		locations int
		want      []domain.AchievementID
	}{
		{
			name: "all earned at boundaries", avg: 14.9, points: 1000, locations: 2,
			want: []domain.AchievementID{domain.AchievementCarbonSaver, domain.AchievementGreenWarrior, domain.AchievementEWasteHero},
		},
		{name: "none earned just past boundaries", avg: 15, points: 999, locations: 1},
		{
			name: "seed session", avg: 19.7, points: 1250, locations: 2,
			want: []domain.AchievementID{domain.AchievementGreenWarrior, domain.AchievementEWasteHero},
		},
		{
			name: "empty history counts as saver", avg: 0, points: 0, locations: 0,
			want: []domain.AchievementID{domain.AchievementCarbonSaver},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := AchievementEligibility(tt.avg, tt.points, tt.locations)
			assert.Equal(t, len(tt.want), set.Len())
			for _, id := range tt.want {
				assert.True(t, set.Has(id), "expected %s earned", id)
			}
		})
	}
}

func TestAchievements_Catalog(t *testing.T) {
	set := AchievementEligibility(14.9, 0, 0)
	list := Achievements(set)

	require.Len(t, list, AchievementCount())
	assert.Equal(t, "Carbon Saver", list[0].Name)
	assert.True(t, list[0].Earned)
	assert.Equal(t, "Green Warrior", list[1].Name)
	assert.False(t, list[1].Earned)
	assert.Equal(t, "E-Waste Hero", list[2].Name)
	assert.False(t, list[2].Earned)

	// Catalog must not be mutated by filling Earned.
	again := Achievements(AchievementSet{})
	assert.False(t, again[0].Earned)
}

// ─── Eco Actions ────────────────────────────────────────────────────────────

func TestCompleteAction(t *testing.T) {
	actions := domain.SeedActions()

	updated, delta := CompleteAction(actions, "4")
	assert.Equal(t, 25, delta)
	assert.True(t, updated[3].Completed)
	assert.False(t, actions[3].Completed, "input slice must not be mutated")

	for i := range actions {
		if i == 3 {
			continue
		}
		assert.Equal(t, actions[i], updated[i], "untouched action %d changed", i)
	}
}

func TestCompleteAction_Idempotent(t *testing.T) {
	actions := domain.SeedActions()

	once, d1 := CompleteAction(actions, "5")
	twice, d2 := CompleteAction(once, "5")

	assert.Equal(t, 50, d1)
	assert.Equal(t, 0, d2)
	assert.Equal(t, once, twice)
}

func TestCompleteAction_NoOps(t *testing.T) {
	actions := domain.SeedActions()

	out, delta := CompleteAction(actions, "3") // seeded as completed
	assert.Zero(t, delta)
	assert.Equal(t, actions, out)

	out, delta = CompleteAction(actions, "missing")
	assert.Zero(t, delta)
	assert.Equal(t, actions, out)

	out, delta = CompleteAction(nil, "1")
	assert.Zero(t, delta)
	assert.Empty(t, out)
}

// ─── E-Waste ────────────────────────────────────────────────────────────────

func TestReportLocation(t *testing.T) {
	locs := domain.SeedLocations()

	out, delta := ReportLocation(locs, "new-id")
	assert.Equal(t, 30, delta)
	require.Len(t, out, 3)
	assert.Len(t, locs, 2, "input slice must not grow")

	got := out[2]
	assert.Equal(t, "new-id", got.ID)
	assert.Equal(t, "New Location", got.Name)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, []string{"Electronics"}, got.Items)
	assert.Equal(t, 40.75, got.Lat)
	assert.Equal(t, -73.99, got.Lng)
}

func TestReportLocation_AlwaysThirtyAndOne(t *testing.T) {
	var locs []domain.EWasteLocation
	for i := 0; i < 10; i++ {
		before := len(locs)
		var delta int
		locs, delta = ReportLocation(locs, "x")
		assert.Equal(t, 30, delta)
		assert.Equal(t, before+1, len(locs))
	}
}

func TestImpactAggregates(t *testing.T) {
	agg := ImpactAggregates(domain.SeedLocations())
	assert.Equal(t, 5.0, agg.CollectedMassKg)
	assert.Equal(t, 30.0, agg.CO2PreventedKg)
	assert.Equal(t, 2, agg.ReportedCount)
	assert.Equal(t, 1, agg.PendingCount)
	assert.Equal(t, 1, agg.CollectedCount)

	locs, _ := ReportLocation(domain.SeedLocations(), "n")
	agg = ImpactAggregates(locs)
	assert.Equal(t, 5.0, agg.CollectedMassKg, "pending reports add no collected mass")
	assert.Equal(t, 45.0, agg.CO2PreventedKg, "prevented CO2 follows total count")
	assert.Equal(t, 2, agg.PendingCount)

	assert.Equal(t, domain.ImpactAggregates{}, ImpactAggregates(nil))
}

// ─── Leaderboard ────────────────────────────────────────────────────────────

func TestLeaderboard_Seed(t *testing.T) {
	board := Leaderboard(domain.SeedPeers(), 1250)

	require.Len(t, board, 5)
	wantNames := []string{"Alex Chen", "You", "Sarah Kim", "Mike Johnson", "Emma Davis"}
	for i, name := range wantNames {
		assert.Equal(t, name, board[i].Name)
		assert.Equal(t, i+1, board[i].Rank)
	}
	assert.True(t, board[1].IsCurrentUser)
	assert.Equal(t, 2, CurrentUserRank(board))
}

func TestLeaderboard_Reorders(t *testing.T) {
	board := Leaderboard(domain.SeedPeers(), 3000)
	assert.Equal(t, "You", board[0].Name)
	assert.Equal(t, 1, CurrentUserRank(board))

	board = Leaderboard(domain.SeedPeers(), 100)
	assert.Equal(t, "You", board[4].Name)
	assert.Equal(t, 5, CurrentUserRank(board))
}

func TestLeaderboard_TiesKeepLiteralOrder(t *testing.T) {
	// "You" is literally second, so at equal points stays behind Alex.
	board := Leaderboard(domain.SeedPeers(), 2150)
	assert.Equal(t, "Alex Chen", board[0].Name)
	assert.Equal(t, "You", board[1].Name)

	// ...and ahead of Sarah.
	board = Leaderboard(domain.SeedPeers(), 1180)
	assert.Equal(t, "You", board[1].Name)
	assert.Equal(t, "Sarah Kim", board[2].Name)
}

func TestLeaderboard_NoPeers(t *testing.T) {
	board := Leaderboard(nil, 10)
	require.Len(t, board, 1)
	assert.Equal(t, 1, board[0].Rank)
	assert.True(t, board[0].IsCurrentUser)
	assert.Zero(t, CurrentUserRank(nil))
}
