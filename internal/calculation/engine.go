package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidQuantityError is returned when a formula input is negative.
type InvalidQuantityError struct {
	Field string
	Value decimal.Decimal
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity: %s must be non-negative, got %s", e.Field, e.Value)
}

var thousand = decimal.NewFromInt(1000)

// Result is the breakdown of one emissions calculation.
//
// EmissionsKg keeps full precision; EmissionsTonnes is rounded half-up to
// four decimal places, matching the reporting unit (tCO2e).
type Result struct {
	ActivityData    decimal.Decimal `json:"activity_data"`
	EmissionFactor  decimal.Decimal `json:"emission_factor"`
	GWP             decimal.Decimal `json:"gwp"`
	UnitConversion  decimal.Decimal `json:"unit_conversion"`
	EmissionsKg     decimal.Decimal `json:"emissions_kg"`
	EmissionsTonnes decimal.Decimal `json:"emissions_tco2e"`
	Scope           string          `json:"scope,omitempty"`
	Category        string          `json:"category,omitempty"`
	Formula         string          `json:"formula"`
	Breakdown       string          `json:"calculation"`
}

// Calculate computes emissions using the standard formula:
//
//	Emissions (tCO2e) = Activity Data x Emission Factor x GWP x Unit Conversion / 1000
//
// All inputs must be non-negative; zero is valid. The function is pure and
// safe for concurrent use.
func Calculate(activityData, emissionFactor, gwp, unitConversion decimal.Decimal) (*Result, error) {
	inputs := []struct {
		name  string
		value decimal.Decimal
	}{
		{"activity_data", activityData},
		{"emission_factor", emissionFactor},
		{"gwp", gwp},
		{"unit_conversion", unitConversion},
	}
	for _, in := range inputs {
		if in.value.IsNegative() {
			return nil, &InvalidQuantityError{Field: in.name, Value: in.value}
		}
	}

	kg := activityData.Mul(emissionFactor).Mul(gwp).Mul(unitConversion)
	tonnes := kg.Div(thousand).Round(4)

	return &Result{
		ActivityData:    activityData,
		EmissionFactor:  emissionFactor,
		GWP:             gwp,
		UnitConversion:  unitConversion,
		EmissionsKg:     kg,
		EmissionsTonnes: tonnes,
		Formula:         "Activity Data x Emission Factor x GWP x Unit Conversion / 1000",
		Breakdown: fmt.Sprintf("%s x %s x %s x %s / 1000 = %s tCO2e",
			activityData, emissionFactor, gwp, unitConversion, tonnes),
	}, nil
}

// CalculateScope1StationaryCombustion computes direct emissions from fuel
// burned in stationary equipment.
func CalculateScope1StationaryCombustion(fuelQuantity, emissionFactor decimal.Decimal, fuelType string) (*Result, error) {
	result, err := Calculate(fuelQuantity, emissionFactor, decimal.NewFromInt(1), decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}
	result.Scope = ScopeOne
	result.Category = "Stationary Combustion"
	if fuelType != "" {
		result.Category = result.Category + " (" + fuelType + ")"
	}
	return result, nil
}

// CalculateScope2Electricity computes emissions from purchased grid
// electricity.
func CalculateScope2Electricity(electricityKWh, gridFactor decimal.Decimal) (*Result, error) {
	result, err := Calculate(electricityKWh, gridFactor, decimal.NewFromInt(1), decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}
	result.Scope = ScopeTwo
	result.Category = "Purchased Electricity"
	return result, nil
}

// CalculateScope3Transport computes value-chain transport emissions. When
// weightTonnes is positive the activity quantity is tonne-km, otherwise km.
func CalculateScope3Transport(distanceKm, emissionFactor, weightTonnes decimal.Decimal, mode string) (*Result, error) {
	activity := distanceKm
	if weightTonnes.IsPositive() {
		activity = distanceKm.Mul(weightTonnes)
	}
	result, err := Calculate(activity, emissionFactor, decimal.NewFromInt(1), decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}
	result.Scope = ScopeThree
	result.Category = "Transportation"
	if mode != "" {
		result.Category = result.Category + " (" + mode + ")"
	}
	return result, nil
}

// CalculateScope3Waste computes emissions from waste disposal.
func CalculateScope3Waste(wasteTonnes, emissionFactor decimal.Decimal, disposalMethod string) (*Result, error) {
	result, err := Calculate(wasteTonnes, emissionFactor, decimal.NewFromInt(1), decimal.NewFromInt(1))
	if err != nil {
		return nil, err
	}
	result.Scope = ScopeThree
	result.Category = "Waste Disposal"
	if disposalMethod != "" {
		result.Category = result.Category + " (" + disposalMethod + ")"
	}
	return result, nil
}

// Totals holds per-scope subtotals and the grand total in tonnes CO2e.
type Totals struct {
	Scope1 decimal.Decimal `json:"scope1"`
	Scope2 decimal.Decimal `json:"scope2"`
	Scope3 decimal.Decimal `json:"scope3"`
	Total  decimal.Decimal `json:"total"`
}

// Scope labels as stored on calculation lines.
const (
	ScopeOne   = "Scope 1"
	ScopeTwo   = "Scope 2"
	ScopeThree = "Scope 3"
)

// Aggregate re-sums the complete set of calculation lines into per-scope
// subtotals and a grand total. It never adjusts incrementally, so totals are
// consistent after any line addition, edit, or deletion.
func Aggregate(lines []Calculation) Totals {
	totals := Totals{
		Scope1: decimal.Zero,
		Scope2: decimal.Zero,
		Scope3: decimal.Zero,
		Total:  decimal.Zero,
	}
	for _, line := range lines {
		if line.Superseded {
			continue
		}
		switch line.Scope {
		case ScopeOne:
			totals.Scope1 = totals.Scope1.Add(line.EmissionsTonnes)
		case ScopeTwo:
			totals.Scope2 = totals.Scope2.Add(line.EmissionsTonnes)
		case ScopeThree:
			totals.Scope3 = totals.Scope3.Add(line.EmissionsTonnes)
		default:
			// Unrecognized labels are counted under scope 3, the
			// catch-all bucket, so subtotals always sum to the total.
			totals.Scope3 = totals.Scope3.Add(line.EmissionsTonnes)
		}
		totals.Total = totals.Total.Add(line.EmissionsTonnes)
	}
	return totals
}
