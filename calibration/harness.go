package calibration

import (
	"context"
	"fmt"

	"github.com/bookreader/finmath-lib/optimizer"
	"github.com/bookreader/finmath-lib/stochastic"
)

func dimErrf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Model is a clonable pricing model: a trial parameter vector is applied by
// producing a new, independent Model rather than mutating the receiver
// (spec.md §3 "immutability discipline" / Design Note "never mutate models
// in place").
type Model interface {
	// CloneWithParameters returns a new Model with each Parameterized
	// object's slice replaced by its entry in assignments. Models that
	// cannot support a parameter replacement (e.g. a fixed product
	// catalog) fail with CloneNotSupported.
	CloneWithParameters(assignments map[Parameterized][]float64) (Model, error)
}

// CovarianceModel is implemented by Monte-Carlo models whose stochastic
// dynamics are driven by a swappable covariance/correlation structure
// (spec.md §4.6; grounded on LIBORCorrelationModelExponentialDecay.java).
type CovarianceModel interface {
	Parameterized
	// CloneWithModifiedCovarianceModel returns a new Model using cov in
	// place of the receiver's current covariance structure.
	CloneWithModifiedCovarianceModel(cov CovarianceModel) (Model, error)
}

// AnalyticProduct prices itself in closed form against a trial Model.
type AnalyticProduct interface {
	Value(model Model) (float64, error)
}

// MonteCarloProduct prices itself as a path-vector (spec.md §6: the
// path-vector algebra is the ABI contract for user-written products). The
// harness reduces the returned RandomVariable to its expectation at
// evaluationTime before forming a residual.
type MonteCarloProduct interface {
	Value(evaluationTime float64, model Model) (stochastic.RandomVariable, error)
}

// Result is the outcome of a calibration: the recalibrated objects (already
// folded back into the original Parameterized values is the caller's job --
// Result exposes the flat vector and Split helper for that), plus
// optimizer diagnostics.
type Result struct {
	// Parameters is the final flat aggregated vector, in Aggregation order.
	Parameters []float64
	Error      float64
	Iterations int
	State      optimizer.State
	// Aggregation is returned so callers can Split Parameters back onto
	// their original sub-objects without re-deriving widths/offsets.
	Aggregation *Aggregation
}

// Calibrate jointly fits objects' parameters so that each product's
// Value(model) matches its target, in a weighted least-squares sense
// (spec.md §4.3, curve/analytic entrypoint).
func Calibrate(
	model Model,
	objects []Parameterized,
	products []AnalyticProduct,
	targets, weights []float64,
	opts optimizer.Options,
) (*Result, error) {
	return calibrate(context.Background(), model, objects, products, targets, weights, opts)
}

// CalibrateContext is Calibrate with explicit cancellation (the exported
// entrypoints default to context.Background; callers needing SIGINT/timeout
// propagation -- e.g. cmd/calibrate -- use this form).
func CalibrateContext(
	ctx context.Context,
	model Model,
	objects []Parameterized,
	products []AnalyticProduct,
	targets, weights []float64,
	opts optimizer.Options,
) (*Result, error) {
	return calibrate(ctx, model, objects, products, targets, weights, opts)
}

func calibrate(
	ctx context.Context,
	model Model,
	objects []Parameterized,
	products []AnalyticProduct,
	targets, weights []float64,
	opts optimizer.Options,
) (*Result, error) {
	if len(products) != len(targets) {
		return nil, &Error{Kind: DimensionMismatch, Err: dimErrf("Calibrate: %d products but %d targets", len(products), len(targets))}
	}

	agg, err := NewAggregation(objects)
	if err != nil {
		// An empty object set is calibratable-nothing, not a hard error:
		// report 0 parameters, 0 iterations, Converged, matching spec.md
		// §8 scenario 5.
		if cerr, ok := err.(*Error); ok && cerr.Kind == EmptyAggregation {
			return emptyResult(model, products, targets, weights)
		}
		return nil, err
	}

	residual := func(p []float64) ([]float64, error) {
		assignments, err := agg.Split(p)
		if err != nil {
			return nil, err
		}
		trial, err := model.CloneWithParameters(assignments)
		if err != nil {
			return nil, &Error{Kind: CloneNotSupported, Err: err}
		}
		f := make([]float64, len(products))
		for i, product := range products {
			v, err := product.Value(trial)
			if err != nil {
				return nil, &Error{Kind: EvaluationFailure, Index: i, Err: err}
			}
			f[i] = v - targets[i]
		}
		return f, nil
	}

	opts.Weights = weights
	opt := optimizer.New(agg.Len(), residual, opts)
	res, err := opt.Run(ctx, agg.Parameters())
	if err != nil {
		return translateErr(err)
	}
	return terminalResult(res, agg)
}

// CalibrateMonteCarlo is Calibrate's simulation-driven counterpart: each
// product's path-vector is reduced to E[RV] at evaluationTime before the
// residual is formed (spec.md §4.3, §6).
func CalibrateMonteCarlo(
	model Model,
	objects []Parameterized,
	products []MonteCarloProduct,
	evaluationTime float64,
	targets, weights []float64,
	opts optimizer.Options,
) (*Result, error) {
	return calibrateMonteCarlo(context.Background(), model, objects, products, evaluationTime, targets, weights, opts)
}

// CalibrateMonteCarloContext is CalibrateMonteCarlo with explicit cancellation.
func CalibrateMonteCarloContext(
	ctx context.Context,
	model Model,
	objects []Parameterized,
	products []MonteCarloProduct,
	evaluationTime float64,
	targets, weights []float64,
	opts optimizer.Options,
) (*Result, error) {
	return calibrateMonteCarlo(ctx, model, objects, products, evaluationTime, targets, weights, opts)
}

func calibrateMonteCarlo(
	ctx context.Context,
	model Model,
	objects []Parameterized,
	products []MonteCarloProduct,
	evaluationTime float64,
	targets, weights []float64,
	opts optimizer.Options,
) (*Result, error) {
	if len(products) != len(targets) {
		return nil, &Error{Kind: DimensionMismatch, Err: dimErrf("CalibrateMonteCarlo: %d products but %d targets", len(products), len(targets))}
	}

	agg, err := NewAggregation(objects)
	if err != nil {
		if cerr, ok := err.(*Error); ok && cerr.Kind == EmptyAggregation {
			return emptyResultMonteCarlo(model, products, evaluationTime, targets, weights)
		}
		return nil, err
	}

	residual := func(p []float64) ([]float64, error) {
		assignments, err := agg.Split(p)
		if err != nil {
			return nil, err
		}
		trial, err := model.CloneWithParameters(assignments)
		if err != nil {
			return nil, &Error{Kind: CloneNotSupported, Err: err}
		}
		f := make([]float64, len(products))
		for i, product := range products {
			rv, err := product.Value(evaluationTime, trial)
			if err != nil {
				return nil, &Error{Kind: EvaluationFailure, Index: i, Err: err}
			}
			f[i] = rv.Mean() - targets[i]
		}
		return f, nil
	}

	opts.Weights = weights
	opt := optimizer.New(agg.Len(), residual, opts)
	res, err := opt.Run(ctx, agg.Parameters())
	if err != nil {
		return translateErr(err)
	}
	return terminalResult(res, agg)
}

// terminalResult folds a successful optimizer.Run into the calibration
// package's own Result/Error space. Only State == StateConverged is a
// normal return (spec.md §7 "the harness surfaces LM terminal states
// directly"); Exhausted and Cancelled are soft failures -- the caller still
// gets the best-so-far fit via Error.Result, but must acknowledge the
// non-convergence by checking the returned error (spec.md §4.3).
func terminalResult(res *optimizer.Result, agg *Aggregation) (*Result, error) {
	result := &Result{
		Parameters:  res.Parameters,
		Error:       res.Error,
		Iterations:  res.Iterations,
		State:       res.State,
		Aggregation: agg,
	}
	switch res.State {
	case optimizer.StateConverged:
		return result, nil
	case optimizer.StateExhausted:
		return nil, &Error{Kind: NotConverged, Result: result}
	case optimizer.StateCancelled:
		return nil, &Error{Kind: Cancelled, Result: result}
	default:
		return nil, &Error{Kind: NumericalFault, Result: result, Err: dimErrf("Run returned unexpected terminal state %s", res.State)}
	}
}

func emptyResult(model Model, products []AnalyticProduct, targets, weights []float64) (*Result, error) {
	var e float64
	for i, product := range products {
		v, err := product.Value(model)
		if err != nil {
			return nil, &Error{Kind: EvaluationFailure, Index: i, Err: err}
		}
		d := v - targets[i]
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		e += 0.5 * w * d * d
	}
	return &Result{Parameters: nil, Error: e, Iterations: 0, State: optimizer.StateConverged}, nil
}

func emptyResultMonteCarlo(model Model, products []MonteCarloProduct, evaluationTime float64, targets, weights []float64) (*Result, error) {
	var e float64
	for i, product := range products {
		rv, err := product.Value(evaluationTime, model)
		if err != nil {
			return nil, &Error{Kind: EvaluationFailure, Index: i, Err: err}
		}
		d := rv.Mean() - targets[i]
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		e += 0.5 * w * d * d
	}
	return &Result{Parameters: nil, Error: e, Iterations: 0, State: optimizer.StateConverged}, nil
}

// translateErr maps an *optimizer.Error onto the calibration package's own
// Kind space, preserving Index/Err; unrecognized errors pass through. The
// two Kind enums are not numerically aligned (calibration has the extra
// CloneNotSupported/EmptyAggregation members), so the mapping is explicit.
func translateErr(err error) (*Result, error) {
	oerr, ok := err.(*optimizer.Error)
	if !ok {
		return nil, err
	}
	if cerr, ok := oerr.Err.(*Error); ok && oerr.Kind == optimizer.EvaluationFailure {
		// The residual callback already classified the failure (clone,
		// split or product error, with the product index); keep it as is.
		return nil, cerr
	}
	var kind Kind
	switch oerr.Kind {
	case optimizer.DimensionMismatch:
		kind = DimensionMismatch
	case optimizer.EvaluationFailure:
		kind = EvaluationFailure
	case optimizer.SingularSystem:
		kind = SingularSystem
	case optimizer.NumericalFault:
		kind = NumericalFault
	case optimizer.Cancelled:
		kind = Cancelled
	case optimizer.NotConverged:
		kind = NotConverged
	default:
		kind = NumericalFault
	}
	return nil, &Error{Kind: kind, Index: oerr.Index, Err: oerr.Err}
}
