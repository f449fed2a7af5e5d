package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookreader/finmath-lib/calendar"
	"github.com/bookreader/finmath-lib/calibration"
	"github.com/bookreader/finmath-lib/swap/curve"
	"github.com/bookreader/finmath-lib/swap/market"
)

func buildTestCurve(settlement time.Time) *curve.Curve {
	quotes := map[string]float64{
		"3M": 2.76,
		"1Y": 2.7225,
		"2Y": 2.8075,
		"5Y": 3.0189,
	}
	return curve.BuildCurve(settlement, quotes, calendar.TARGET, 3)
}

func TestCurveModel_ObjectsOrdersDiscountFirstThenSortedProjections(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	disc := buildTestCurve(settlement)
	projZ := buildTestCurve(settlement)
	projA := buildTestCurve(settlement)

	m := &CurveModel{Discount: disc, Projections: map[string]*curve.Curve{"zzz": projZ, "aaa": projA}}
	objs := m.Objects()
	require.Len(t, objs, 3)
	assert.Same(t, disc, objs[0])
	assert.Same(t, projA, objs[1])
	assert.Same(t, projZ, objs[2])
}

func TestCurveModel_CloneWithParametersProducesIndependentClones(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	disc := buildTestCurve(settlement)
	m := &CurveModel{Discount: disc, Projections: map[string]*curve.Curve{}}

	cloned, err := m.CloneWithParameters(nil)
	require.NoError(t, err)
	cm := cloned.(*CurveModel)
	assert.NotSame(t, disc, cm.Discount)
	original := disc.Parameters()
	roundTripped := cm.Discount.Parameters()
	require.Len(t, roundTripped, len(original))
	for i := range original {
		assert.InDelta(t, original[i], roundTripped[i], 1e-6)
	}
}

func TestCurveModel_CloneWithParametersAppliesAssignment(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	disc := buildTestCurve(settlement)
	m := &CurveModel{Discount: disc, Projections: map[string]*curve.Curve{}}

	bumped := append([]float64(nil), disc.Parameters()...)
	bumped[0] += 0.25

	cloned, err := m.CloneWithParameters(map[calibration.Parameterized][]float64{disc: bumped})
	require.NoError(t, err)
	cm := cloned.(*CurveModel)
	got := cm.Discount.Parameters()
	require.Len(t, got, len(bumped))
	for i := range bumped {
		assert.InDelta(t, bumped[i], got[i], 1e-6)
	}
}

func TestParRateResidual_RejectsWrongModelType(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	r := ParRateResidual{
		Spec:          market.SwapSpec{Notional: 1, EffectiveDate: settlement, MaturityDate: settlement.AddDate(1, 0, 0)},
		Leg:           market.LegConvention{LegType: market.LegFixed, DayCount: market.Act360, PayFrequency: market.FreqAnnual, ResetFrequency: market.FreqAnnual, Calendar: calendar.TARGET},
		ValuationDate: settlement,
	}

	_, err := r.Value(notACurveModel{})
	require.Error(t, err)
}

func TestParRateResidual_RejectsUnknownProjection(t *testing.T) {
	settlement := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	disc := buildTestCurve(settlement)
	m := &CurveModel{Discount: disc, Projections: map[string]*curve.Curve{}}

	r := ParRateResidual{
		Spec:           market.SwapSpec{Notional: 1, EffectiveDate: settlement, MaturityDate: settlement.AddDate(1, 0, 0)},
		Leg:            market.LegConvention{LegType: market.LegFixed, DayCount: market.Act360, PayFrequency: market.FreqAnnual, ResetFrequency: market.FreqAnnual, Calendar: calendar.TARGET},
		ValuationDate:  settlement,
		ProjectionName: "missing",
	}

	_, err := r.Value(m)
	require.Error(t, err)
}

type notACurveModel struct{}

func (notACurveModel) CloneWithParameters(map[calibration.Parameterized][]float64) (calibration.Model, error) {
	return notACurveModel{}, nil
}
