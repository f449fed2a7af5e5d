package calibration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookreader/finmath-lib/optimizer"
	"github.com/bookreader/finmath-lib/stochastic"
)

// scalarParam is a minimal Parameterized implementation wrapping one
// calibratable float, used to drive Calibrate against a toy model without
// pulling in the swap/curve bridge.
type scalarParam struct {
	id    string
	value float64
}

func (p *scalarParam) Parameters() []float64 { return []float64{p.value} }
func (p *scalarParam) ID() string             { return p.id }

// lineModel prices each product as slope*x + intercept.base, where base is a
// Parameterized scalar and slope is fixed -- enough to exercise
// CloneWithParameters/Split/Aggregation end to end.
type lineModel struct {
	base  *scalarParam
	slope float64
}

func (m *lineModel) CloneWithParameters(assignments map[Parameterized][]float64) (Model, error) {
	newBase := m.base.value
	if v, ok := assignments[m.base]; ok {
		newBase = v[0]
	}
	return &lineModel{base: &scalarParam{id: m.base.id, value: newBase}, slope: m.slope}, nil
}

type linePoint struct {
	x float64
}

func (p linePoint) Value(model Model) (float64, error) {
	lm := model.(*lineModel)
	return lm.slope*p.x + lm.base.value, nil
}

func TestCalibrate_FitsSingleParameterModel(t *testing.T) {
	base := &scalarParam{id: "intercept", value: 0}
	model := &lineModel{base: base, slope: 2}

	products := []AnalyticProduct{linePoint{x: 0}, linePoint{x: 1}, linePoint{x: 2}}
	targets := []float64{5, 7, 9} // intercept = 5, slope = 2
	weights := []float64{1, 1, 1}

	result, err := Calibrate(model, []Parameterized{base}, products, targets, weights, optimizer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, optimizer.StateConverged, result.State)
	require.Len(t, result.Parameters, 1)
	assert.InDelta(t, 5.0, result.Parameters[0], 1e-6)
}

// sumModel aggregates three independent scalar parameters a, b, c; its two
// products price a+b and b+c, so two targets jointly constrain three
// parameters (spec.md §8 scenario 6, underdetermined: m=2 < n=3). The
// normal equations are rank-deficient in the unconstrained direction
// (1, -1, 1) -- raising a and c while lowering b leaves both sums
// unchanged -- but LM's damped solve still drives both residuals to zero.
type sumModel struct {
	a, b, c *scalarParam
}

func (m *sumModel) CloneWithParameters(assignments map[Parameterized][]float64) (Model, error) {
	na, nb, nc := m.a.value, m.b.value, m.c.value
	if v, ok := assignments[m.a]; ok {
		na = v[0]
	}
	if v, ok := assignments[m.b]; ok {
		nb = v[0]
	}
	if v, ok := assignments[m.c]; ok {
		nc = v[0]
	}
	return &sumModel{
		a: &scalarParam{id: m.a.id, value: na},
		b: &scalarParam{id: m.b.id, value: nb},
		c: &scalarParam{id: m.c.id, value: nc},
	}, nil
}

type sumABProduct struct{}

func (sumABProduct) Value(model Model) (float64, error) {
	sm := model.(*sumModel)
	return sm.a.value + sm.b.value, nil
}

type sumBCProduct struct{}

func (sumBCProduct) Value(model Model) (float64, error) {
	sm := model.(*sumModel)
	return sm.b.value + sm.c.value, nil
}

func TestCalibrate_UnderdeterminedSystemConvergesWithFewerTargetsThanParameters(t *testing.T) {
	a := &scalarParam{id: "a", value: 0}
	b := &scalarParam{id: "b", value: 0}
	c := &scalarParam{id: "c", value: 0}
	model := &sumModel{a: a, b: b, c: c}

	products := []AnalyticProduct{sumABProduct{}, sumBCProduct{}}
	targets := []float64{5, 7}
	weights := []float64{1, 1}

	opts := optimizer.DefaultOptions()
	opts.MaxIterations = 50

	result, err := Calibrate(model, []Parameterized{a, b, c}, products, targets, weights, opts)
	require.NoError(t, err)
	assert.Equal(t, optimizer.StateConverged, result.State)
	assert.LessOrEqual(t, result.Iterations, 50)
	assert.LessOrEqual(t, result.Error, 1e-12)
	require.Len(t, result.Parameters, 3)

	assignments, err := result.Aggregation.Split(result.Parameters)
	require.NoError(t, err)
	trial, err := model.CloneWithParameters(assignments)
	require.NoError(t, err)
	for i, product := range products {
		v, err := product.Value(trial)
		require.NoError(t, err)
		assert.InDelta(t, targets[i], v, 1e-6)
	}
}

func TestCalibrate_ExhaustedStateReturnsNotConvergedErrorWithBestSoFarResult(t *testing.T) {
	base := &scalarParam{id: "intercept", value: 0}
	model := &lineModel{base: base, slope: 2}
	products := []AnalyticProduct{linePoint{x: 0}, linePoint{x: 1}, linePoint{x: 2}}
	targets := []float64{5, 7, 9}
	weights := []float64{1, 1, 1}

	opts := optimizer.DefaultOptions()
	opts.MaxIterations = 0 // forces Exhausted before a single LM step runs

	result, err := Calibrate(model, []Parameterized{base}, products, targets, weights, opts)
	assert.Nil(t, result)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, NotConverged, cerr.Kind)
	require.NotNil(t, cerr.Result)
	assert.Equal(t, optimizer.StateExhausted, cerr.Result.State)
	assert.Equal(t, 0, cerr.Result.Iterations)
}

func TestCalibrate_CancelledContextReturnsCancelledErrorWithBestSoFarResult(t *testing.T) {
	base := &scalarParam{id: "intercept", value: 0}
	model := &lineModel{base: base, slope: 2}
	products := []AnalyticProduct{linePoint{x: 0}, linePoint{x: 1}, linePoint{x: 2}}
	targets := []float64{5, 7, 9}
	weights := []float64{1, 1, 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := CalibrateContext(ctx, model, []Parameterized{base}, products, targets, weights, optimizer.DefaultOptions())
	assert.Nil(t, result)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, Cancelled, cerr.Kind)
	require.NotNil(t, cerr.Result)
	assert.Equal(t, optimizer.StateCancelled, cerr.Result.State)
}

func TestCalibrate_EmptyAggregationReturnsZeroIterationResult(t *testing.T) {
	base := &scalarParam{id: "intercept", value: 5}
	model := &lineModel{base: base, slope: 2}
	products := []AnalyticProduct{linePoint{x: 0}, linePoint{x: 1}}
	targets := []float64{5, 7}
	weights := []float64{1, 1}

	result, err := Calibrate(model, nil, products, targets, weights, optimizer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, optimizer.StateConverged, result.State)
	assert.Equal(t, 0, result.Iterations)
	assert.InDelta(t, 0.0, result.Error, 1e-9)
	assert.Nil(t, result.Parameters)
}

func TestCalibrate_DimensionMismatchBetweenProductsAndTargets(t *testing.T) {
	base := &scalarParam{id: "intercept", value: 0}
	model := &lineModel{base: base, slope: 2}
	products := []AnalyticProduct{linePoint{x: 0}, linePoint{x: 1}}
	targets := []float64{5}

	_, err := Calibrate(model, []Parameterized{base}, products, targets, []float64{1, 1}, optimizer.DefaultOptions())
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, DimensionMismatch, cerr.Kind)
}

// cloneRefusingModel always fails CloneWithParameters, exercising the
// CloneNotSupported translation path.
type cloneRefusingModel struct{ base *scalarParam }

func (m *cloneRefusingModel) CloneWithParameters(map[Parameterized][]float64) (Model, error) {
	return nil, assertErr
}

var assertErr = &Error{Kind: CloneNotSupported}

func TestCalibrate_CloneNotSupportedPropagates(t *testing.T) {
	base := &scalarParam{id: "intercept", value: 0}
	model := &cloneRefusingModel{base: base}
	products := []AnalyticProduct{linePoint{x: 0}}
	targets := []float64{1}

	_, err := Calibrate(model, []Parameterized{base}, products, targets, []float64{1}, optimizer.DefaultOptions())
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, CloneNotSupported, cerr.Kind)
}

// mcLinePoint is linePoint's Monte-Carlo counterpart: each product returns a
// deterministic RandomVariable wrapping slope*x + base, exercising the
// Mean()-reduction path in calibrateMonteCarlo.
type mcLinePoint struct {
	x float64
}

func (p mcLinePoint) Value(evaluationTime float64, model Model) (stochastic.RandomVariable, error) {
	lm := model.(*lineModel)
	return stochastic.NewDeterministic(evaluationTime, lm.slope*p.x+lm.base.value), nil
}

func TestCalibrateMonteCarlo_FitsSingleParameterModel(t *testing.T) {
	base := &scalarParam{id: "intercept", value: 0}
	model := &lineModel{base: base, slope: 1}

	products := []MonteCarloProduct{mcLinePoint{x: 0}, mcLinePoint{x: 1}}
	targets := []float64{3, 4} // intercept = 3, slope = 1
	weights := []float64{1, 1}

	result, err := CalibrateMonteCarlo(model, []Parameterized{base}, products, 1.0, targets, weights, optimizer.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, optimizer.StateConverged, result.State)
	assert.InDelta(t, 3.0, result.Parameters[0], 1e-6)
}

func TestAggregation_SplitRoundTrips(t *testing.T) {
	a := &scalarParam{id: "a", value: 1}
	b := &scalarParam{id: "b", value: 2}
	agg, err := NewAggregation([]Parameterized{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Len())
	assert.Equal(t, []float64{1, 2}, agg.Parameters())

	assignments, err := agg.Split([]float64{10, 20})
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, assignments[a])
	assert.Equal(t, []float64{20}, assignments[b])
}

func TestAggregation_SplitDimensionMismatch(t *testing.T) {
	a := &scalarParam{id: "a", value: 1}
	agg, err := NewAggregation([]Parameterized{a})
	require.NoError(t, err)
	_, err = agg.Split([]float64{1, 2})
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, DimensionMismatch, cerr.Kind)
}

func TestNewAggregation_EmptyObjectsFails(t *testing.T) {
	_, err := NewAggregation(nil)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, EmptyAggregation, cerr.Kind)
}

func TestKind_StringCoversNewMembers(t *testing.T) {
	assert.Equal(t, "CloneNotSupported", CloneNotSupported.String())
	assert.Equal(t, "EmptyAggregation", EmptyAggregation.String())
}
