// Package metrics derives every displayed number of the tracker from the
// current session collections.
//
// All functions are pure: collections and values come in as arguments and
// new values come back. Nothing here fails. Unparseable input degrades to
// zero and unknown ids are no-ops, so callers never need an error path.
package metrics

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ecotrack-campus/ecotrack/internal/domain"
)

// ─── Emission Factors ───────────────────────────────────────────────────────
// kg CO₂ per km travelled, per mode.

var transportFactors = map[domain.TransportMode]decimal.Decimal{
	domain.ModeCar:   decimal.RequireFromString("0.21"),
	domain.ModeBus:   decimal.RequireFromString("0.089"),
	domain.ModeTrain: decimal.RequireFromString("0.041"),
	domain.ModeBike:  decimal.Zero,
	domain.ModeWalk:  decimal.Zero,
}

// electricityFactor is kg CO₂ per kWh, independent of transport mode.
var electricityFactor = decimal.RequireFromString("0.5")

// TransportFactor returns the per-km factor for mode. Unknown modes emit nothing.
func TransportFactor(mode domain.TransportMode) float64 {
	return transportFactors[mode].InexactFloat64()
}

// ElectricityFactor returns the per-kWh factor.
func ElectricityFactor() float64 {
	return electricityFactor.InexactFloat64()
}

// ─── Parsing & Rounding ─────────────────────────────────────────────────────

// ParseQuantity turns a raw form field into a number. Empty, unparseable
// and out-of-range input (anything float64 cannot hold, NaN, Inf) all read
// as zero.
func ParseQuantity(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	if _, err := decimal.NewFromString(raw); err != nil {
		return decimal.Zero
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	// The shortest decimal form of f keeps "2.05" exact and bounds the
	// exponent, so huge written exponents never reach Round.
	return decimal.NewFromFloat(f)
}

// Round1 rounds half away from zero to one decimal place. Non-finite
// input reads as zero.
func Round1(x float64) float64 {
	return round1(fromFloat(x)).InexactFloat64()
}

// fromFloat is decimal.NewFromFloat without the panic on NaN and Inf.
func fromFloat(x float64) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(x)
}

func round1(d decimal.Decimal) decimal.Decimal {
	return d.Round(1)
}

// ─── Carbon Entries ─────────────────────────────────────────────────────────

// ComputeCarbonEmission builds a carbon entry from raw form input.
// id and date are supplied by the caller so the computation stays pure.
func ComputeCarbonEmission(mode domain.TransportMode, distanceKm, electricityKwh, id, date string) domain.CarbonEntry {
	transport := round1(ParseQuantity(distanceKm).Mul(transportFactors[mode]))
	electricity := round1(ParseQuantity(electricityKwh).Mul(electricityFactor))
	total := round1(transport.Add(electricity))

	return domain.CarbonEntry{
		ID:                  id,
		Date:                date,
		TransportEmission:   transport.InexactFloat64(),
		ElectricityEmission: electricity.InexactFloat64(),
		TotalEmission:       total.InexactFloat64(),
	}
}

// PrependEntry returns entries with e at the front, truncated to EntryCap.
// The input slice is not modified.
func PrependEntry(entries []domain.CarbonEntry, e domain.CarbonEntry) []domain.CarbonEntry {
	n := len(entries)
	if n > domain.EntryCap-1 {
		n = domain.EntryCap - 1
	}
	out := make([]domain.CarbonEntry, 0, n+1)
	out = append(out, e)
	return append(out, entries[:n]...)
}

// WeeklyAverage is the mean total emission over whatever entries exist
// (up to seven, not a calendar week), rounded to one decimal.
func WeeklyAverage(entries []domain.CarbonEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(fromFloat(e.TotalEmission))
	}
	return round1(sum.Div(decimal.NewFromInt(int64(len(entries))))).InexactFloat64()
}

// TrendSize is how many recent entries the dashboard trend shows.
const TrendSize = 5

// Trend returns the most recent TrendSize entries.
func Trend(entries []domain.CarbonEntry) []domain.CarbonEntry {
	if len(entries) > TrendSize {
		entries = entries[:TrendSize]
	}
	out := make([]domain.CarbonEntry, len(entries))
	copy(out, entries)
	return out
}

// ─── Bar Scaling ────────────────────────────────────────────────────────────

// EntryBarPercent scales a daily total onto a 0–100 bar (25 kg fills it).
func EntryBarPercent(total float64) float64 {
	return percentOfMax(total, 4)
}

// AverageBarPercent scales the weekly average onto a 0–100 bar (20 kg fills it).
func AverageBarPercent(avg float64) float64 {
	return percentOfMax(avg, 5)
}

func percentOfMax(v, scale float64) float64 {
	p := v * scale
	if p > 100 {
		return 100
	}
	return p
}

// ─── Verdict ────────────────────────────────────────────────────────────────

// CarbonSaverThreshold is the weekly average (kg) below which a user is
// under the typical student footprint.
const CarbonSaverThreshold = 15.0

// FootprintVerdict is the feedback line shown under the weekly average.
func FootprintVerdict(avg float64) string {
	if avg < CarbonSaverThreshold {
		return "Great job! You're below the average student carbon footprint."
	}
	return "Consider using more eco-friendly transportation to reduce your impact."
}
