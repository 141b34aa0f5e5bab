package service

import (
	"fmt"
	"strings"
)

type unitKind string

const (
	unitKindMass   unitKind = "mass"
	unitKindVolume unitKind = "volume"
	unitKindLength unitKind = "length"
)

type unitDef struct {
	kind       unitKind
	toBaseUnit float64
}

var unitTable = map[string]unitDef{
	// mass (base = g)
	"mg":  {kind: unitKindMass, toBaseUnit: 0.001},
	"g":   {kind: unitKindMass, toBaseUnit: 1},
	"kg":  {kind: unitKindMass, toBaseUnit: 1000},
	"oz":  {kind: unitKindMass, toBaseUnit: 28.349523125},
	"lb":  {kind: unitKindMass, toBaseUnit: 453.59237},
	"lbs": {kind: unitKindMass, toBaseUnit: 453.59237},

	// volume (base = ml)
	"ml":    {kind: unitKindVolume, toBaseUnit: 1},
	"l":     {kind: unitKindVolume, toBaseUnit: 1000},
	"tsp":   {kind: unitKindVolume, toBaseUnit: 4.92892159375},
	"tbsp":  {kind: unitKindVolume, toBaseUnit: 14.78676478125},
	"cup":   {kind: unitKindVolume, toBaseUnit: 236.5882365},
	"fl-oz": {kind: unitKindVolume, toBaseUnit: 29.5735295625},

	// length (base = cm)
	"cm": {kind: unitKindLength, toBaseUnit: 1},
	"m":  {kind: unitKindLength, toBaseUnit: 100},
	"in": {kind: unitKindLength, toBaseUnit: 2.54},
	"ft": {kind: unitKindLength, toBaseUnit: 30.48},
}

const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

func ParseDisplayUnits(v string) (string, error) {
	switch u := strings.ToLower(strings.TrimSpace(v)); u {
	case "", UnitsMetric:
		return UnitsMetric, nil
	case UnitsImperial:
		return UnitsImperial, nil
	default:
		return "", fmt.Errorf("invalid display units %q (use metric or imperial)", v)
	}
}

// ConvertWeightToKg accepts any mass unit; an empty unit means kg.
func ConvertWeightToKg(value float64, unit string) (float64, error) {
	if strings.TrimSpace(unit) == "" {
		unit = "kg"
	}
	return convertKind(value, unit, "kg", unitKindMass, "weight")
}

// ConvertHeightToCm accepts any length unit; an empty unit means cm.
func ConvertHeightToCm(value float64, unit string) (float64, error) {
	if strings.TrimSpace(unit) == "" {
		unit = "cm"
	}
	return convertKind(value, unit, "cm", unitKindLength, "height")
}

func convertKind(value float64, fromUnit, toUnit string, kind unitKind, label string) (float64, error) {
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", label)
	}
	from, ok := resolveUnit(fromUnit)
	if !ok || from.kind != kind {
		return 0, fmt.Errorf("unsupported %s unit %q", label, fromUnit)
	}
	to, _ := resolveUnit(toUnit)
	return value * from.toBaseUnit / to.toBaseUnit, nil
}

// ConvertAmount converts between food quantity units. Mass and volume can be
// mixed only with a density in g/ml.
func ConvertAmount(value float64, fromUnit, toUnit string, densityGML float64) (float64, error) {
	if value <= 0 {
		return 0, fmt.Errorf("amount must be > 0")
	}
	from, ok := resolveUnit(fromUnit)
	if !ok || from.kind == unitKindLength {
		return 0, fmt.Errorf("unsupported unit %q", fromUnit)
	}
	to, ok := resolveUnit(toUnit)
	if !ok || to.kind == unitKindLength {
		return 0, fmt.Errorf("unsupported unit %q", toUnit)
	}

	if from.kind == to.kind {
		base := value * from.toBaseUnit
		return base / to.toBaseUnit, nil
	}

	if densityGML <= 0 {
		return 0, fmt.Errorf("density-g-per-ml must be > 0 for mass/volume conversion")
	}

	var grams float64
	switch from.kind {
	case unitKindMass:
		grams = value * from.toBaseUnit
	case unitKindVolume:
		grams = value * from.toBaseUnit * densityGML
	}

	switch to.kind {
	case unitKindMass:
		return grams / to.toBaseUnit, nil
	default:
		return grams / densityGML / to.toBaseUnit, nil
	}
}

// ServingsFor expresses amount as a multiple of a reference serving, e.g.
// 150 g against a 100 g label is 1.5 servings.
func ServingsFor(amount float64, unit string, refAmount float64, refUnit string, densityGML float64) (float64, error) {
	if refAmount <= 0 {
		return 0, fmt.Errorf("reference amount must be > 0")
	}
	inRef, err := ConvertAmount(amount, unit, refUnit, densityGML)
	if err != nil {
		return 0, err
	}
	return inRef / refAmount, nil
}

func FormatWeight(kg float64, units string) string {
	if units == UnitsImperial {
		return fmt.Sprintf("%.1f lb", kg*1000/unitTable["lb"].toBaseUnit)
	}
	return fmt.Sprintf("%.1f kg", kg)
}

func FormatHeight(cm float64, units string) string {
	if units == UnitsImperial {
		inches := cm / unitTable["in"].toBaseUnit
		feet := int(inches / 12)
		return fmt.Sprintf("%d ft %.1f in", feet, inches-float64(feet)*12)
	}
	return fmt.Sprintf("%.1f cm", cm)
}

func resolveUnit(unit string) (unitDef, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	def, ok := unitTable[u]
	return def, ok
}
