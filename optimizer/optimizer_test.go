package optimizer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linearResidual builds f(p) = A*p - b for a tiny 2x2 linear least squares
// problem. Its Jacobian is exact, so for the diagonal A used below each
// damped step scales every residual by λ/(1+λ): with λ0 = 1e-3*max
// diag(JᵀJ) = 9e-3 and λ/10 per accepted step, E drops to ~4e-3, ~3e-9 and
// then below 1e-12 on the third iteration.
func linearResidual(a [2][2]float64, b [2]float64) ResidualFunc {
	return func(p []float64) ([]float64, error) {
		return []float64{
			a[0][0]*p[0] + a[0][1]*p[1] - b[0],
			a[1][0]*p[0] + a[1][1]*p[1] - b[1],
		}, nil
	}
}

func TestRun_LinearLeastSquaresConverges(t *testing.T) {
	a := [2][2]float64{{2, 0}, {0, 3}}
	b := [2]float64{4, 9}

	opt := New(2, linearResidual(a, b), DefaultOptions())
	result, err := opt.Run(context.Background(), []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, StateConverged, result.State)
	assert.LessOrEqual(t, result.Iterations, 3)
	assert.InDelta(t, 2.0, result.Parameters[0], 1e-6)
	assert.InDelta(t, 3.0, result.Parameters[1], 1e-6)
}

// rosenbrockResidual expresses the Rosenbrock valley as two residuals so
// least squares on it has the same minimizer as the classic unconstrained
// Rosenbrock function: f1 = 10*(y-x^2), f2 = 1-x.
func rosenbrockResidual(p []float64) ([]float64, error) {
	x, y := p[0], p[1]
	return []float64{10 * (y - x*x), 1 - x}, nil
}

func TestRun_RosenbrockConvergesToKnownMinimum(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = 500
	opt := New(2, rosenbrockResidual, opts)
	result, err := opt.Run(context.Background(), []float64{-1.2, 1})
	require.NoError(t, err)
	assert.Equal(t, StateConverged, result.State)
	assert.InDelta(t, 1.0, result.Parameters[0], 1e-4)
	assert.InDelta(t, 1.0, result.Parameters[1], 1e-4)
}

// cubicResidual's steep Jacobian far above its root (p=2) makes the τ-based
// initial damping large (λ0 = 1e-3*300² = 90 at p0 = 10), so the first steps
// are short and λ relaxes only as steps are accepted. Started above the root,
// the damped steps never overshoot it, so every trial step is accepted.
func cubicResidual(p []float64) ([]float64, error) {
	return []float64{p[0]*p[0]*p[0] - 8}, nil
}

func TestRun_CubicResidualConvergesFromHeavilyDampedStart(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = 200
	opt := New(1, cubicResidual, opts)
	result, err := opt.Run(context.Background(), []float64{10})
	require.NoError(t, err)
	assert.Equal(t, StateConverged, result.State)
	assert.InDelta(t, 2.0, result.Parameters[0], 1e-4)
}

func TestRun_ZeroParametersConvergesImmediately(t *testing.T) {
	residual := func(p []float64) ([]float64, error) {
		return []float64{1, -2, 3}, nil
	}
	opt := New(0, residual, DefaultOptions())
	result, err := opt.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateConverged, result.State)
	assert.Equal(t, 0, result.Iterations)
}

func TestRun_CancellationReturnsCancelledState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opt := New(2, rosenbrockResidual, DefaultOptions())
	result, err := opt.Run(ctx, []float64{-1.2, 1})
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, result.State)
}

func TestRun_DimensionMismatchOnWeights(t *testing.T) {
	opts := DefaultOptions()
	opts.Weights = []float64{1, 1, 1}
	opt := New(2, rosenbrockResidual, opts)
	_, err := opt.Run(context.Background(), []float64{0, 0})
	require.Error(t, err)
	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, DimensionMismatch, oerr.Kind)
}

func TestRun_EvaluationFailurePropagates(t *testing.T) {
	failing := func(p []float64) ([]float64, error) {
		return nil, context.DeadlineExceeded
	}
	opt := New(1, failing, DefaultOptions())
	_, err := opt.Run(context.Background(), []float64{1})
	require.Error(t, err)
	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, EvaluationFailure, oerr.Kind)
}

func TestRun_ExhaustsWhenMaxIterationsTooLow(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = 1
	opts.ErrorTolerance = 0 // unreachable, forces iteration exhaustion
	opts.StepTolerance = 0
	opts.GradientTolerance = 0
	opt := New(2, rosenbrockResidual, opts)
	result, err := opt.Run(context.Background(), []float64{-1.2, 1})
	require.NoError(t, err)
	assert.Equal(t, StateExhausted, result.State)
	assert.Equal(t, 1, result.Iterations)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "NotConverged", NotConverged.String())
	assert.Equal(t, "Unknown", Kind(999).String())
}

func TestError_UnwrapAndMessage(t *testing.T) {
	base := context.DeadlineExceeded
	err := &Error{Kind: EvaluationFailure, Err: base}
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "EvaluationFailure")
}

func TestInfNorm(t *testing.T) {
	assert.Equal(t, 3.0, infNorm([]float64{-1, 3, -2}))
	assert.Equal(t, 0.0, infNorm(nil))
}

func TestWeightedError(t *testing.T) {
	got := weightedError([]float64{2, 0}, []float64{1, 1})
	assert.InDelta(t, 2.0, got, 1e-12) // 0.5*(1*4 + 1*0)
}

func TestOnIterationObserverIsCalled(t *testing.T) {
	calls := 0
	opts := DefaultOptions()
	opts.OnIteration = func(iter int, err, lambda float64, p []float64) {
		calls++
	}
	opt := New(2, linearResidual([2][2]float64{{2, 0}, {0, 3}}, [2]float64{4, 9}), opts)
	result, runErr := opt.Run(context.Background(), []float64{0, 0})
	require.NoError(t, runErr)
	assert.Equal(t, result.Iterations, calls)
	assert.Greater(t, calls, 0)
}

func TestRun_NaNResidualIsNumericalFault(t *testing.T) {
	nanResidual := func(p []float64) ([]float64, error) {
		return []float64{math.NaN()}, nil
	}
	opt := New(1, nanResidual, DefaultOptions())
	_, err := opt.Run(context.Background(), []float64{1})
	require.Error(t, err)
	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, NumericalFault, oerr.Kind)
}
