package montecarlo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookreader/finmath-lib/calibration"
	"github.com/bookreader/finmath-lib/stochastic"
)

func TestCorrelationModelExponentialDecay_SelfCorrelationIsOne(t *testing.T) {
	times := []float64{0.25, 0.5, 1.0, 2.0, 5.0}
	m := NewCorrelationModelExponentialDecay("fx-decay", times, 2, 0.1, true)
	for i := range times {
		assert.InDelta(t, 1.0, m.Correlation(i, i), 1e-9)
	}
}

func TestCorrelationModelExponentialDecay_CorrelationDecaysWithDistance(t *testing.T) {
	times := []float64{0.25, 1.0, 10.0}
	m := NewCorrelationModelExponentialDecay("fx-decay", times, 3, 0.1, true)
	near := m.Correlation(0, 1)
	far := m.Correlation(0, 2)
	assert.Greater(t, near, far)
	assert.Greater(t, near, 0.0)
}

func TestCorrelationModelExponentialDecay_ParametersRespectsCalibrateableFlag(t *testing.T) {
	times := []float64{0.25, 1.0}
	fixed := NewCorrelationModelExponentialDecay("fixed", times, 2, 0.1, false)
	assert.Nil(t, fixed.Parameters())

	free := NewCorrelationModelExponentialDecay("free", times, 2, 0.1, true)
	assert.Equal(t, []float64{0.1}, free.Parameters())
}

func TestCorrelationModelExponentialDecay_CloneWithParametersRebuildsDecay(t *testing.T) {
	times := []float64{0.25, 1.0, 5.0}
	m := NewCorrelationModelExponentialDecay("decay", times, 2, 0.1, true)

	cloned, err := m.CloneWithParameters(map[calibration.Parameterized][]float64{m: {0.5}})
	require.NoError(t, err)
	clone := cloned.(*CorrelationModelExponentialDecay)

	assert.Equal(t, 0.5, clone.decay)
	assert.NotSame(t, m, clone)
	assert.Equal(t, 0.1, m.decay) // receiver untouched

	unchanged, err := m.CloneWithParameters(nil)
	require.NoError(t, err)
	assert.Same(t, m, unchanged)
}

func TestCorrelationModelExponentialDecay_CloneWithModifiedCovarianceModel(t *testing.T) {
	times := []float64{0.25, 1.0}
	m := NewCorrelationModelExponentialDecay("a", times, 1, 0.2, true)
	other := NewCorrelationModelExponentialDecay("b", times, 1, 0.4, true)

	got, err := m.CloneWithModifiedCovarianceModel(other)
	require.NoError(t, err)
	assert.Same(t, other, got)

	_, err = m.CloneWithModifiedCovarianceModel(notACorrelationModel{})
	require.Error(t, err)
	var cerr *calibration.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, calibration.CloneNotSupported, cerr.Kind)
}

type notACorrelationModel struct{}

func (notACorrelationModel) ID() string           { return "n/a" }
func (notACorrelationModel) Parameters() []float64 { return nil }

func TestFactorReduce_TruncatesToRequestedFactorCount(t *testing.T) {
	times := []float64{0.25, 0.5, 1.0, 2.0}
	reduced := factorReduce(correlationMatrix(times, 0.15), 2)
	require.Len(t, reduced, len(times))
	for _, row := range reduced {
		assert.Len(t, row, 2)
	}
}

func TestDiscountedExpectationProduct_MatchesDeterministicBondPricing(t *testing.T) {
	sim := fakeSimulation{
		numeraire: map[float64]float64{0: 1.0, 1: 1.05},
		weights:   map[float64]float64{0: 1.0, 1: 1.0},
	}
	product := NewDiscountedExpectationProduct(1.0, sim)
	rv, err := product.Value(0.0, fakeModel{})
	require.NoError(t, err)
	assert.InDelta(t, 1/1.05, rv.Mean(), 1e-12)
}

func TestDiscountedExpectationProduct_UsesSimulationProviderOverride(t *testing.T) {
	fallback := fakeSimulation{
		numeraire: map[float64]float64{0: 1.0, 1: 1.05},
		weights:   map[float64]float64{0: 1.0, 1: 1.0},
	}
	override := fakeSimulation{
		numeraire: map[float64]float64{0: 1.0, 1: 2.0},
		weights:   map[float64]float64{0: 1.0, 1: 1.0},
	}
	product := NewDiscountedExpectationProduct(1.0, fallback)
	rv, err := product.Value(0.0, providingModel{sim: override})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rv.Mean(), 1e-12)
}

type fakeSimulation struct {
	numeraire map[float64]float64
	weights   map[float64]float64
}

func (f fakeSimulation) Paths(factor int, t float64) []float64 { return nil }
func (f fakeSimulation) Numeraire(t float64) stochastic.RandomVariable {
	return stochastic.NewDeterministic(t, f.numeraire[t])
}
func (f fakeSimulation) MonteCarloWeights(t float64) stochastic.RandomVariable {
	return stochastic.NewDeterministic(t, f.weights[t])
}

type fakeModel struct{}

func (fakeModel) CloneWithParameters(map[calibration.Parameterized][]float64) (calibration.Model, error) {
	return fakeModel{}, nil
}

type providingModel struct{ sim fakeSimulation }

func (providingModel) CloneWithParameters(map[calibration.Parameterized][]float64) (calibration.Model, error) {
	return providingModel{}, nil
}
func (p providingModel) Simulation() Simulation { return p.sim }
