package curve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookreader/finmath-lib/calendar"
)

func testQuotes() map[string]float64 {
	return map[string]float64{
		"3M": 2.76,
		"1Y": 2.7225,
		"2Y": 2.8075,
		"5Y": 3.0189,
	}
}

func TestCurve_IDIsStableForSameConstruction(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	c1 := BuildCurve(settlement, testQuotes(), calendar.TARGET, 3)
	c2 := BuildCurve(settlement, testQuotes(), calendar.TARGET, 3)
	assert.Equal(t, c1.ID(), c2.ID())
	assert.Contains(t, c1.ID(), "2025-11-21")
}

func TestCurve_ParametersMatchesQuotedPillarCount(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	c := BuildCurve(settlement, testQuotes(), calendar.TARGET, 3)
	quoted := c.quotedPillarDates()
	params := c.Parameters()
	assert.Len(t, params, len(quoted)-1)
}

func TestCurve_CloneWithParametersRoundTripsSameZeros(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	c := BuildCurve(settlement, testQuotes(), calendar.TARGET, 3)
	params := c.Parameters()

	clone, err := c.CloneWithParameters(params)
	require.NoError(t, err)

	quoted := c.quotedPillarDates()
	for _, d := range quoted[1:] {
		assert.InDelta(t, c.zeros[d], clone.zeros[d], 1e-6)
	}
}

func TestCurve_CloneWithParametersAppliesNewZero(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	c := BuildCurve(settlement, testQuotes(), calendar.TARGET, 3)
	params := append([]float64(nil), c.Parameters()...)
	params[0] += 0.5 // bump the first quoted pillar's zero rate by 50bp

	clone, err := c.CloneWithParameters(params)
	require.NoError(t, err)

	quoted := c.quotedPillarDates()
	assert.InDelta(t, c.zeros[quoted[1]]+0.5, clone.zeros[quoted[1]], 1e-6)
}

func TestCurve_CloneWithParametersDimensionMismatch(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	c := BuildCurve(settlement, testQuotes(), calendar.TARGET, 3)
	_, err := c.CloneWithParameters([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	require.Error(t, err)
}
