package domain

// ─── Seed Data ──────────────────────────────────────────────────────────────
// Every new session starts from the same campus snapshot. Each call returns
// fresh slices so sessions never share backing arrays.

// StartingPoints is the EcoPoints balance a new session opens with.
const StartingPoints = 1250

// SeedEntries returns the initial carbon history, most recent first.
func SeedEntries() []CarbonEntry {
	return []CarbonEntry{
		{ID: "1", Date: "2025-01-17", TransportEmission: 12, ElectricityEmission: 8, TotalEmission: 20},
		{ID: "2", Date: "2025-01-16", TransportEmission: 15, ElectricityEmission: 6, TotalEmission: 21},
		{ID: "3", Date: "2025-01-15", TransportEmission: 8, ElectricityEmission: 10, TotalEmission: 18},
	}
}

// SeedActions returns the fixed eco action catalog.
func SeedActions() []EcoAction {
	return []EcoAction{
		{ID: "1", Label: "Turn off lights when leaving", Icon: "💡", PointValue: 10},
		{ID: "2", Label: "Use stairs instead of elevator", Icon: "🪜", PointValue: 15},
		{ID: "3", Label: "Bring reusable water bottle", Icon: "🍃", PointValue: 20, Completed: true},
		{ID: "4", Label: "Cycle to campus", Icon: "🚲", PointValue: 25},
		{ID: "5", Label: "Plant a tree", Icon: "🌱", PointValue: 50},
	}
}

// SeedLocations returns the known campus e-waste sites.
func SeedLocations() []EWasteLocation {
	return []EWasteLocation{
		{
			ID:      "1",
			Name:    "Main Library",
			Address: "123 Campus Drive",
			Items:   []string{"Old phones", "Batteries", "Chargers"},
			Status:  StatusPending,
			Lat:     40.7128,
			Lng:     -74.0060,
		},
		{
			ID:      "2",
			Name:    "Student Center",
			Address: "456 University Ave",
			Items:   []string{"Laptops", "Tablets"},
			Status:  StatusCollected,
			Lat:     40.7589,
			Lng:     -73.9851,
		},
	}
}

// SeedPeers returns the other users on the campus leaderboard.
func SeedPeers() []Peer {
	return []Peer{
		{Name: "Alex Chen", Points: 2150},
		{Name: "Sarah Kim", Points: 1180},
		{Name: "Mike Johnson", Points: 950},
		{Name: "Emma Davis", Points: 720},
	}
}

// CurrentUserSlot is where the session owner sits in the literal
// leaderboard list before sorting. Ties keep this literal order.
const CurrentUserSlot = 1
