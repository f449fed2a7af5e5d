package montecarlo

import (
	"errors"

	"github.com/bookreader/finmath-lib/calibration"
	"github.com/bookreader/finmath-lib/stochastic"
)

var errNotACorrelationModel = errors.New("montecarlo: CloneWithModifiedCovarianceModel: argument is not a *CorrelationModelExponentialDecay")

// Simulation is the minimal path-data source a MonteCarloProduct needs: the
// realized paths of a given factor/quantity at a given time. Brownian-motion
// generation and SDE discretization are out of scope (spec.md §1 Non-goals);
// Simulation lets tests (and real simulators elsewhere) supply canned paths.
type Simulation interface {
	// Paths returns one realization per Monte-Carlo path for the named
	// factor observed at time t.
	Paths(factor int, t float64) []float64
	// Numeraire returns the numeraire random variable at time t.
	Numeraire(t float64) stochastic.RandomVariable
	// MonteCarloWeights returns the probability weight random variable at
	// time t (uniform 1/numberOfPaths unless importance-sampled).
	MonteCarloWeights(t float64) stochastic.RandomVariable
}

// DiscountedExpectationProduct ports Bond.java's numeraire-relative
// valuation idiom: a unit payoff at maturity is divided by the numeraire and
// weighted by Monte-Carlo probabilities at maturity, then converted back to
// evaluationTime by the inverse transform -- "discounted expectation" under
// the model's chosen numeraire measure.
type DiscountedExpectationProduct struct {
	maturity   float64
	simulation Simulation
}

// NewDiscountedExpectationProduct builds a zero-coupon-bond-like product
// paying 1 at maturity, valued via simulation's numeraire/weights.
func NewDiscountedExpectationProduct(maturity float64, simulation Simulation) *DiscountedExpectationProduct {
	return &DiscountedExpectationProduct{maturity: maturity, simulation: simulation}
}

// Value implements calibration.MonteCarloProduct, following Bond.java's
// getValue exactly: values = (1/numeraire(T)) * weights(T), converted to
// evaluationTime via * numeraire(t) / weights(t).
func (p *DiscountedExpectationProduct) Value(evaluationTime float64, model calibration.Model) (stochastic.RandomVariable, error) {
	sim := p.simulation
	if provider, ok := model.(SimulationProvider); ok {
		sim = provider.Simulation()
	}

	numeraireAtMaturity := sim.Numeraire(p.maturity)
	weightsAtMaturity := sim.MonteCarloWeights(p.maturity)

	unit := stochastic.NewDeterministic(p.maturity, 1.0)
	values := unit.Div(numeraireAtMaturity).Mul(weightsAtMaturity)

	numeraireAtEval := sim.Numeraire(evaluationTime)
	weightsAtEval := sim.MonteCarloWeights(evaluationTime)
	values = values.Mul(numeraireAtEval).Div(weightsAtEval)

	return values, nil
}

// SimulationProvider is implemented by a calibration.Model that carries a
// live Simulation, letting a DiscountedExpectationProduct re-resolve path
// data against each trial clone rather than a fixed Simulation fixture.
type SimulationProvider interface {
	Simulation() Simulation
}
