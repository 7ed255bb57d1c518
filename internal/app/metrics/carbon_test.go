package metrics

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "0"},
		{"   ", "0"},
		{"10", "10"},
		{" 12.5 ", "12.5"},
		{"abc", "0"},
		{"12abc", "0"},
		{"NaN", "0"},
		{"Inf", "0"},
		{"0x10", "0"},
		{"0", "0"},
		{"1e3", "1000"},
		{"1e400", "0"},
		{"-1e400", "0"},
		{"1e500000", "0"},
		{"1e-500000", "0"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.raw), func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantity(tt.raw).String())
		})
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{2.1, 2.1},
		{19.666666, 19.7},
		{1.05, 1.1},
		{0.25, 0.3},
		{2.345, 2.3},
		{7.24, 7.2},
		{math.Inf(1), 0},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Round1(tt.in))
		})
	}
}

func TestComputeCarbonEmission(t *testing.T) {
	tests := []struct {
		name        string
		mode        domain.TransportMode
		distance    string
		electricity string
		want        [3]float64 // transport, electricity, total
	}{
		{"car 10km", domain.ModeCar, "10", "", [3]float64{2.1, 0, 2.1}},
		{"bus electricity only", domain.ModeBus, "0", "20", [3]float64{0, 10, 10}},
		{"train 100km", domain.ModeTrain, "100", "0", [3]float64{4.1, 0, 4.1}},
		{"bus rounds half up", domain.ModeBus, "15.5", "", [3]float64{1.4, 0, 1.4}},
		{"car mixed", domain.ModeCar, "7.3", "3.3", [3]float64{1.5, 1.7, 3.2}},
		{"total sums rounded parts", domain.ModeCar, "0.25", "0.1", [3]float64{0.1, 0.1, 0.2}},
		{"empty inputs", domain.ModeCar, "", "", [3]float64{0, 0, 0}},
		{"garbage inputs", domain.ModeCar, "far", "lots", [3]float64{0, 0, 0}},
		{"walk emits nothing", domain.ModeWalk, "12", "4", [3]float64{0, 2, 2}},
		{"unknown mode emits nothing", domain.TransportMode("rocket"), "12", "", [3]float64{0, 0, 0}},
		{"overflowing distance", domain.ModeCar, "1e400", "5", [3]float64{0, 2.5, 2.5}},
		{"overflowing electricity", domain.ModeCar, "10", "-1e400", [3]float64{2.1, 0, 2.1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ComputeCarbonEmission(tt.mode, tt.distance, tt.electricity, "id-1", "2025-02-01")
			assert.Equal(t, tt.want[0], e.TransportEmission, "transport")
			assert.Equal(t, tt.want[1], e.ElectricityEmission, "electricity")
			assert.Equal(t, tt.want[2], e.TotalEmission, "total")
			assert.Equal(t, "id-1", e.ID)
			assert.Equal(t, "2025-02-01", e.Date)
		})
	}
}

func TestComputeCarbonEmission_BikeAlwaysZero(t *testing.T) {
	for _, d := range []string{"0", "1", "3.7", "42", "1000000"} {
		e := ComputeCarbonEmission(domain.ModeBike, d, "0", "x", "2025-01-01")
		assert.Zero(t, e.TransportEmission, "distance %s", d)
	}
}

func TestPrependEntry_CapsAtSeven(t *testing.T) {
	var entries []domain.CarbonEntry
	for i := 0; i < 20; i++ {
		e := domain.CarbonEntry{ID: fmt.Sprintf("e%d", i)}
		entries = PrependEntry(entries, e)

		require.LessOrEqual(t, len(entries), domain.EntryCap)
		assert.Equal(t, e.ID, entries[0].ID, "most recent entry must be first")
	}
	assert.Len(t, entries, domain.EntryCap)
	assert.Equal(t, "e13", entries[6].ID)
}

func TestPrependEntry_DoesNotMutateInput(t *testing.T) {
	in := domain.SeedEntries()
	out := PrependEntry(in, domain.CarbonEntry{ID: "new"})

	assert.Len(t, in, 3)
	assert.Equal(t, "1", in[0].ID)
	assert.Len(t, out, 4)
	assert.Equal(t, "new", out[0].ID)
}

func TestWeeklyAverage(t *testing.T) {
	assert.Equal(t, 0.0, WeeklyAverage(nil))
	assert.Equal(t, 0.0, WeeklyAverage([]domain.CarbonEntry{}))
	assert.Equal(t, 19.7, WeeklyAverage(domain.SeedEntries()))
	assert.Equal(t, 2.1, WeeklyAverage([]domain.CarbonEntry{{TotalEmission: 2.1}}))
	assert.Equal(t, 0.2, WeeklyAverage([]domain.CarbonEntry{{TotalEmission: 0.1}, {TotalEmission: 0.2}}))
}

func TestWeeklyAverage_NonFiniteEntry(t *testing.T) {
	entries := []domain.CarbonEntry{{TotalEmission: math.Inf(1)}, {TotalEmission: 4}}
	assert.NotPanics(t, func() {
		assert.Equal(t, 2.0, WeeklyAverage(entries))
	})
}

func TestComputeCarbonEmission_LargeFinite(t *testing.T) {
	e := ComputeCarbonEmission(domain.ModeCar, "1e308", "1e308", "x", "2025-01-01")
	assert.False(t, math.IsInf(e.TotalEmission, 0))
	assert.Greater(t, e.TotalEmission, 1e307)
	assert.NotPanics(t, func() { WeeklyAverage([]domain.CarbonEntry{e, e, e}) })
}

func TestTrend(t *testing.T) {
	var entries []domain.CarbonEntry
	for i := 0; i < 7; i++ {
		entries = append(entries, domain.CarbonEntry{ID: fmt.Sprint(i)})
	}
	trend := Trend(entries)
	require.Len(t, trend, TrendSize)
	assert.Equal(t, "0", trend[0].ID)

	assert.Len(t, Trend(domain.SeedEntries()), 3)
	assert.Empty(t, Trend(nil))
}

func TestBarPercent(t *testing.T) {
	assert.Equal(t, 80.0, EntryBarPercent(20))
	assert.Equal(t, 100.0, EntryBarPercent(25))
	assert.Equal(t, 100.0, EntryBarPercent(40))
	assert.Equal(t, 0.0, EntryBarPercent(0))

	assert.Equal(t, 50.0, AverageBarPercent(10))
	assert.Equal(t, 100.0, AverageBarPercent(19.7*2))
}

func TestFootprintVerdict(t *testing.T) {
	assert.Contains(t, FootprintVerdict(14.9), "Great job")
	assert.Contains(t, FootprintVerdict(15), "Consider")
	assert.Contains(t, FootprintVerdict(19.7), "Consider")
}

func TestFactors(t *testing.T) {
	assert.Equal(t, 0.21, TransportFactor(domain.ModeCar))
	assert.Equal(t, 0.089, TransportFactor(domain.ModeBus))
	assert.Equal(t, 0.041, TransportFactor(domain.ModeTrain))
	assert.Zero(t, TransportFactor(domain.ModeBike))
	assert.Zero(t, TransportFactor(domain.ModeWalk))
	assert.Zero(t, TransportFactor("hovercraft"))
	assert.Equal(t, 0.5, ElectricityFactor())
}
