package calculation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateStandardFormula(t *testing.T) {
	// 100 liters of diesel at 2.68 kgCO2e/liter = 268 kg = 0.268 tCO2e
	result, err := Calculate(dec("100"), dec("2.68"), dec("1.0"), dec("1.0"))
	require.NoError(t, err)

	assert.True(t, dec("268").Equal(result.EmissionsKg), "kg = %s", result.EmissionsKg)
	assert.True(t, dec("0.268").Equal(result.EmissionsTonnes), "tonnes = %s", result.EmissionsTonnes)
	assert.Contains(t, result.Breakdown, "0.268 tCO2e")
}

func TestCalculateZeroActivityIsValid(t *testing.T) {
	for _, factor := range []string{"0", "2.68", "1430"} {
		result, err := Calculate(dec("0"), dec(factor), dec("25"), dec("3.6"))
		require.NoError(t, err)
		assert.True(t, result.EmissionsTonnes.IsZero(), "factor=%s", factor)
		assert.True(t, result.EmissionsKg.IsZero())
	}
}

func TestCalculateLinearInEachArgument(t *testing.T) {
	base, err := Calculate(dec("50"), dec("2.02"), dec("1.0"), dec("1.0"))
	require.NoError(t, err)

	doubled, err := Calculate(dec("100"), dec("2.02"), dec("1.0"), dec("1.0"))
	require.NoError(t, err)
	assert.True(t, base.EmissionsKg.Mul(decimal.NewFromInt(2)).Equal(doubled.EmissionsKg))

	doubledFactor, err := Calculate(dec("50"), dec("4.04"), dec("1.0"), dec("1.0"))
	require.NoError(t, err)
	assert.True(t, base.EmissionsKg.Mul(decimal.NewFromInt(2)).Equal(doubledFactor.EmissionsKg))

	doubledGWP, err := Calculate(dec("50"), dec("2.02"), dec("2.0"), dec("1.0"))
	require.NoError(t, err)
	assert.True(t, base.EmissionsKg.Mul(decimal.NewFromInt(2)).Equal(doubledGWP.EmissionsKg))
}

func TestCalculateRejectsNegativeInputs(t *testing.T) {
	cases := []struct {
		name       string
		q, f, g, u string
	}{
		{"negative quantity", "-1", "2.68", "1", "1"},
		{"negative factor", "100", "-0.5", "1", "1"},
		{"negative gwp", "100", "2.68", "-1", "1"},
		{"negative conversion", "100", "2.68", "1", "-0.001"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Calculate(dec(tc.q), dec(tc.f), dec(tc.g), dec(tc.u))
			require.Error(t, err)
			var invalid *InvalidQuantityError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestCalculateRoundsToFourDecimalPlaces(t *testing.T) {
	// 1 x 0.33333 = 0.33333 kg = 0.00033333 t, rounds half-up to 0.0003
	result, err := Calculate(dec("1"), dec("0.33333"), dec("1"), dec("1"))
	require.NoError(t, err)
	assert.True(t, dec("0.0003").Equal(result.EmissionsTonnes), "got %s", result.EmissionsTonnes)
}

func TestScopeWrappersShareTheFormula(t *testing.T) {
	plain, err := Calculate(dec("1200"), dec("0.417"), dec("1"), dec("1"))
	require.NoError(t, err)

	s1, err := CalculateScope1StationaryCombustion(dec("1200"), dec("0.417"), "diesel")
	require.NoError(t, err)
	assert.True(t, plain.EmissionsTonnes.Equal(s1.EmissionsTonnes))
	assert.Equal(t, ScopeOne, s1.Scope)

	s2, err := CalculateScope2Electricity(dec("1200"), dec("0.417"))
	require.NoError(t, err)
	assert.True(t, plain.EmissionsTonnes.Equal(s2.EmissionsTonnes))
	assert.Equal(t, ScopeTwo, s2.Scope)

	s3, err := CalculateScope3Waste(dec("1200"), dec("0.417"), "landfill")
	require.NoError(t, err)
	assert.True(t, plain.EmissionsTonnes.Equal(s3.EmissionsTonnes))
	assert.Equal(t, ScopeThree, s3.Scope)
}

func TestScope3TransportFreightUsesTonneKm(t *testing.T) {
	// 500 km x 10 t = 5000 tonne-km at 0.062 kg/tonne-km = 310 kg
	result, err := CalculateScope3Transport(dec("500"), dec("0.062"), dec("10"), "road")
	require.NoError(t, err)
	assert.True(t, dec("310").Equal(result.EmissionsKg), "got %s", result.EmissionsKg)

	// Without weight the quantity is plain km.
	passenger, err := CalculateScope3Transport(dec("500"), dec("0.171"), decimal.Zero, "car")
	require.NoError(t, err)
	assert.True(t, dec("85.5").Equal(passenger.EmissionsKg), "got %s", passenger.EmissionsKg)
}

func TestAggregate(t *testing.T) {
	projectID := uuid.New()
	lines := []Calculation{
		{ProjectID: projectID, Scope: ScopeOne, EmissionsTonnes: dec("0.268")},
		{ProjectID: projectID, Scope: ScopeOne, EmissionsTonnes: dec("1.5")},
		{ProjectID: projectID, Scope: ScopeTwo, EmissionsTonnes: dec("0.5004")},
		{ProjectID: projectID, Scope: ScopeThree, EmissionsTonnes: dec("0.031")},
		// Superseded lines from a previous cycle are excluded.
		{ProjectID: projectID, Scope: ScopeOne, EmissionsTonnes: dec("99"), Superseded: true},
	}

	totals := Aggregate(lines)

	assert.True(t, dec("1.768").Equal(totals.Scope1), "scope1 = %s", totals.Scope1)
	assert.True(t, dec("0.5004").Equal(totals.Scope2))
	assert.True(t, dec("0.031").Equal(totals.Scope3))
	assert.True(t, totals.Scope1.Add(totals.Scope2).Add(totals.Scope3).Equal(totals.Total),
		"subtotals must sum exactly to the grand total")
}

func TestAggregateUnlabeledScopeCountsTowardScope3(t *testing.T) {
	lines := []Calculation{
		{Scope: ScopeOne, EmissionsTonnes: dec("1")},
		{Scope: "", EmissionsTonnes: dec("0.5")},
		{Scope: "Scope 4", EmissionsTonnes: dec("0.25")},
	}

	totals := Aggregate(lines)

	assert.True(t, dec("1.75").Equal(totals.Total), "total = %s", totals.Total)
	assert.True(t, dec("0.75").Equal(totals.Scope3), "scope3 = %s", totals.Scope3)
	assert.True(t, totals.Scope1.Add(totals.Scope2).Add(totals.Scope3).Equal(totals.Total),
		"subtotals must sum exactly to the grand total")
}

func TestAggregateIdempotent(t *testing.T) {
	lines := []Calculation{
		{Scope: ScopeOne, EmissionsTonnes: dec("0.1")},
		{Scope: ScopeTwo, EmissionsTonnes: dec("0.2")},
	}
	first := Aggregate(lines)
	second := Aggregate(lines)
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Scope1.Equal(second.Scope1))
	assert.True(t, first.Scope2.Equal(second.Scope2))
	assert.True(t, first.Scope3.Equal(second.Scope3))
}

func TestAggregateEmpty(t *testing.T) {
	totals := Aggregate(nil)
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.Scope1.IsZero())
}
