package metrics

import (
	"sort"

	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// Leaderboard ranks peers together with the current user, descending by
// points. The user is placed at domain.CurrentUserSlot in the literal list
// first; the sort is stable so ties keep that literal order.
func Leaderboard(peers []domain.Peer, totalPoints int) []domain.LeaderboardEntry {
	slot := domain.CurrentUserSlot
	if slot > len(peers) {
		slot = len(peers)
	}

	list := make([]domain.LeaderboardEntry, 0, len(peers)+1)
	for _, p := range peers[:slot] {
		list = append(list, domain.LeaderboardEntry{Name: p.Name, Points: p.Points})
	}
	list = append(list, domain.LeaderboardEntry{
		Name:          domain.CurrentUserName,
		Points:        totalPoints,
		IsCurrentUser: true,
	})
	for _, p := range peers[slot:] {
		list = append(list, domain.LeaderboardEntry{Name: p.Name, Points: p.Points})
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Points > list[j].Points
	})
	for i := range list {
		list[i].Rank = i + 1
	}
	return list
}

// CurrentUserRank returns the user's 1-based rank, or 0 if absent.
func CurrentUserRank(board []domain.LeaderboardEntry) int {
	for _, e := range board {
		if e.IsCurrentUser {
			return e.Rank
		}
	}
	return 0
}
