package masterdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCriteriaCoversAllCategories(t *testing.T) {
	criteria := DefaultCriteria()
	require.Len(t, criteria, 23)

	seen := make(map[int]bool)
	scopes := make(map[string]int)
	for _, c := range criteria {
		assert.False(t, seen[c.CriteriaNumber], "duplicate criteria number %d", c.CriteriaNumber)
		seen[c.CriteriaNumber] = true
		assert.NotEmpty(t, c.Category, "criteria %d has no category", c.CriteriaNumber)
		assert.True(t, c.IsActive)
		scopes[c.Scope]++
	}
	assert.NotZero(t, scopes["Scope 1"])
	assert.NotZero(t, scopes["Scope 2"])
	assert.NotZero(t, scopes["Scope 3"])
}

func TestDefaultReasonCodesAreUnique(t *testing.T) {
	codes := DefaultReasonCodes()
	require.NotEmpty(t, codes)

	seen := make(map[string]bool)
	for _, rc := range codes {
		assert.False(t, seen[rc.Code], "duplicate reason code %s", rc.Code)
		seen[rc.Code] = true
		assert.NotEmpty(t, rc.Description)
		assert.True(t, rc.IsActive, "reason code %s must seed active", rc.Code)
	}
	assert.True(t, seen["DQ001"])
}

func TestDefaultFactorsHavePositiveValues(t *testing.T) {
	for _, f := range DefaultFactors() {
		assert.Greater(t, f.Factor, 0.0, "factor %s", f.FactorName)
		assert.GreaterOrEqual(t, f.GWP, 1.0, "factor %s", f.FactorName)
		assert.NotEmpty(t, f.Unit, "factor %s", f.FactorName)
	}
}
