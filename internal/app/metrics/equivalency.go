package metrics

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EPA greenhouse-gas equivalency divisors (kg CO₂e per unit).
const (
	MilesDrivenFactor       = 0.192
	SmartphoneChargeFactor  = 0.00822
	TreeSeedlingFactor      = 60.0
	MinEquivalencyThreshold = 1.0
)

// EquivalencyKind names a relatable unit for a CO₂ amount.
type EquivalencyKind string

const (
	EquivalencyMilesDriven        EquivalencyKind = "miles_driven"
	EquivalencySmartphonesCharged EquivalencyKind = "smartphones_charged"
	EquivalencyTreeSeedlings      EquivalencyKind = "tree_seedlings"
)

// EquivalencyResult is one relatable figure.
type EquivalencyResult struct {
	Kind      EquivalencyKind `json:"kind"`
	Value     float64         `json:"value"`
	Formatted string          `json:"formatted"`
	Label     string          `json:"label"`
}

// Equivalency expresses a CO₂ amount in everyday terms.
type Equivalency struct {
	InputKg     float64             `json:"input_kg"`
	Results     []EquivalencyResult `json:"results,omitempty"`
	DisplayText string              `json:"display_text,omitempty"`
	IsEmpty     bool                `json:"is_empty"`
}

var printer = message.NewPrinter(language.English)

// Equivalencies converts kg of CO₂ into miles driven, smartphones charged
// and tree seedlings grown for ten years. Amounts below one kilogram (and
// non-finite input) yield an empty result.
func Equivalencies(kg float64) Equivalency {
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return Equivalency{IsEmpty: true}
	}
	if kg < MinEquivalencyThreshold {
		return Equivalency{InputKg: kg, IsEmpty: true}
	}

	miles := kg / MilesDrivenFactor
	phones := kg / SmartphoneChargeFactor
	trees := kg / TreeSeedlingFactor
	if math.IsInf(phones, 0) {
		return Equivalency{InputKg: kg, IsEmpty: true}
	}

	results := []EquivalencyResult{
		{Kind: EquivalencyMilesDriven, Value: miles, Formatted: formatEquivalency(miles), Label: "miles driven"},
		{Kind: EquivalencySmartphonesCharged, Value: phones, Formatted: formatEquivalency(phones), Label: "smartphones charged"},
		{Kind: EquivalencyTreeSeedlings, Value: trees, Formatted: formatEquivalency(trees), Label: "tree seedlings grown for 10 years"},
	}

	return Equivalency{
		InputKg: kg,
		Results: results,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
			results[0].Formatted, results[1].Formatted),
	}
}

// maxWhole is the largest value printed as a whole number; beyond it
// int64 conversion is no longer exact.
const maxWhole = 1 << 53

// formatEquivalency prints whole numbers with thousand separators and
// small values with one decimal.
func formatEquivalency(v float64) string {
	switch {
	case v < 10:
		return printer.Sprintf("%.1f", v)
	case v >= maxWhole:
		return fmt.Sprintf("%.3g", v)
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}
