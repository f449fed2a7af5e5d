// Package optimizer implements the parallel damped Gauss-Newton
// (Levenberg-Marquardt) least-squares solver described in spec.md §4.4: a
// state machine that alternates finite-difference Jacobian evaluation
// (computed in parallel across a bounded worker pool) with damped
// normal-equation solves, adapting λ on each accepted or rejected step.
package optimizer

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// State is a node in the LM state machine (spec.md §4.4).
type State int

const (
	StateInitialized State = iota
	StateEvaluating
	StateAccepting
	StateRejecting
	StateConverged
	StateExhausted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "Initialized"
	case StateEvaluating:
		return "Evaluating"
	case StateAccepting:
		return "Accepting"
	case StateRejecting:
		return "Rejecting"
	case StateConverged:
		return "Converged"
	case StateExhausted:
		return "Exhausted"
	case StateFailed:
		return "Failed"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// ResidualFunc evaluates the residual vector f(p) at a trial parameter
// vector. Design Note "Anonymous residual callback": the source's inline
// LevenbergMarquardt subclass is re-cast here as a plain function value.
type ResidualFunc func(p []float64) ([]float64, error)

// Result is the outcome of a Run: the best parameters found, the terminal
// state, and diagnostics.
type Result struct {
	Parameters []float64
	Error      float64
	Iterations int
	State      State
}

// Optimizer holds one LM run's fixed inputs: the parameter count, the
// residual callback, and its Options. It carries no other state across
// Run calls -- each Run starts fresh, matching Options' no-global-state
// design.
type Optimizer struct {
	n        int
	residual ResidualFunc
	opts     Options
}

// New constructs an Optimizer for an n-parameter problem.
func New(n int, residual ResidualFunc, opts Options) *Optimizer {
	return &Optimizer{n: n, residual: residual, opts: opts}
}

// SetWeights overrides the per-residual weights for subsequent Run calls.
func (o *Optimizer) SetWeights(weights []float64) { o.opts.Weights = weights }

// SetLambda overrides the initial damping for subsequent Run calls.
func (o *Optimizer) SetLambda(lambda float64) { o.opts.Lambda = lambda }

// SetFiniteDifferenceStep overrides the relative/absolute perturbation
// steps used to build the finite-difference Jacobian.
func (o *Optimizer) SetFiniteDifferenceStep(relative, absolute float64) {
	o.opts.FiniteDifferenceStepRelative = relative
	o.opts.FiniteDifferenceStepAbsolute = absolute
}

// Run executes the LM loop starting from p0 until a terminal state is
// reached: Converged, Exhausted, Failed, or Cancelled (spec.md §4.4).
func (o *Optimizer) Run(ctx context.Context, p0 []float64) (*Result, error) {
	n := o.n
	p := append([]float64(nil), p0...)

	f, err := o.evaluate(p)
	if err != nil {
		return nil, err
	}
	m := len(f)

	weights := o.opts.Weights
	if len(weights) == 0 {
		weights = make([]float64, m)
		for i := range weights {
			weights[i] = 1
		}
	} else if len(weights) != m {
		return nil, &Error{Kind: DimensionMismatch, Err: dimErr("Run: weights length %d does not match residual length %d", len(weights), m)}
	}

	if n == 0 {
		// spec.md §4.4 tie-break: no calibratable parameters, return
		// immediately with zero iterations.
		return &Result{Parameters: p, Error: weightedError(f, weights), Iterations: 0, State: StateConverged}, nil
	}

	E := weightedError(f, weights)
	bestP := append([]float64(nil), p...)
	bestE := E

	lambda := o.opts.Lambda
	dampingInitialized := lambda > 0

	jacobianStale := true
	var J *mat.Dense
	var rhs *mat.VecDense
	var diag []float64

	iterations := 0
	for iterations < o.opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			return &Result{Parameters: bestP, Error: bestE, Iterations: iterations, State: StateCancelled}, nil
		}

		if jacobianStale {
			var err error
			J, err = o.computeJacobian(ctx, p, f)
			if err != nil {
				if ctx.Err() != nil {
					return &Result{Parameters: bestP, Error: bestE, Iterations: iterations, State: StateCancelled}, nil
				}
				return nil, err
			}
			jacobianStale = false
		}

		var normal *mat.SymDense
		normal, rhs, diag = buildNormalEquations(J, f, weights, 0)

		if !dampingInitialized {
			maxDiag := 0.0
			for _, d := range diag {
				if d > maxDiag {
					maxDiag = d
				}
			}
			if o.opts.Tau > 0 {
				lambda = o.opts.Tau * maxDiag
			}
			if lambda <= 0 {
				lambda = o.opts.Tau
			}
			dampingInitialized = true
		}

		delta, ok := solveDamped(normal, rhs, diag, lambda)
		rejects := 0
		for !ok {
			rejects++
			if rejects > o.opts.MaxRejects {
				return nil, &Error{Kind: SingularSystem, Err: dimErr("Run: normal matrix not SPD after %d damping escalations", o.opts.MaxRejects)}
			}
			lambda *= o.opts.LambdaIncreaseFactor
			delta, ok = solveDamped(normal, rhs, diag, lambda)
		}

		pTrial := make([]float64, n)
		for j := range pTrial {
			pTrial[j] = p[j] + delta[j]
		}

		fTrial, err := o.evaluate(pTrial)
		if err != nil {
			return nil, err
		}
		ETrial := weightedError(fTrial, weights)

		if ETrial < E {
			p, f, E = pTrial, fTrial, ETrial
			if E < bestE {
				bestP = append(bestP[:0], p...)
				bestE = E
			}
			lambda /= o.opts.LambdaDecreaseFactor
			jacobianStale = true
		} else {
			lambda *= o.opts.LambdaIncreaseFactor
		}

		iterations++
		if o.opts.OnIteration != nil {
			o.opts.OnIteration(iterations, E, lambda, p)
		}

		if E <= o.opts.ErrorTolerance {
			return &Result{Parameters: bestP, Error: bestE, Iterations: iterations, State: StateConverged}, nil
		}
		if stepNormConverged(delta, p, o.opts.StepTolerance) {
			return &Result{Parameters: bestP, Error: bestE, Iterations: iterations, State: StateConverged}, nil
		}
		if gradientNormConverged(rhs, o.opts.GradientTolerance) {
			return &Result{Parameters: bestP, Error: bestE, Iterations: iterations, State: StateConverged}, nil
		}
	}

	return &Result{Parameters: bestP, Error: bestE, Iterations: iterations, State: StateExhausted}, nil
}

func (o *Optimizer) evaluate(p []float64) ([]float64, error) {
	f, err := o.residual(p)
	if err != nil {
		return nil, &Error{Kind: EvaluationFailure, Err: err}
	}
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &Error{Kind: NumericalFault, Err: dimErr("evaluate: residual contains NaN/Inf")}
		}
	}
	return f, nil
}

// computeJacobian forms the finite-difference Jacobian in parallel across a
// worker pool sized once per Run (spec.md §5): T = min(max(GOMAXPROCS,1), n),
// or Options.ParallelThreads when set. Columns are independent work units
// submitted to an errgroup.Group; the group's derived context is checked
// between column evaluations for cooperative cancellation.
func (o *Optimizer) computeJacobian(ctx context.Context, p, f0 []float64) (*mat.Dense, error) {
	n := len(p)
	m := len(f0)

	threads := o.opts.ParallelThreads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads < 1 {
		threads = 1
	}
	if threads > n {
		threads = n
	}

	columns := make([][]float64, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for j := 0; j < n; j++ {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h := math.Max(math.Abs(p[j])*o.opts.FiniteDifferenceStepRelative, o.opts.FiniteDifferenceStepAbsolute)

			pPlus := append([]float64(nil), p...)
			pPlus[j] += h
			fPlus, err := o.evaluate(pPlus)
			if err != nil {
				return err
			}

			col := make([]float64, m)
			if o.opts.CentralDifference {
				pMinus := append([]float64(nil), p...)
				pMinus[j] -= h
				fMinus, err := o.evaluate(pMinus)
				if err != nil {
					return err
				}
				for i := 0; i < m; i++ {
					col[i] = (fPlus[i] - fMinus[i]) / (2 * h)
				}
			} else {
				for i := 0; i < m; i++ {
					col[i] = (fPlus[i] - f0[i]) / h
				}
			}
			columns[j] = col
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	J := mat.NewDense(m, n, nil)
	for j, col := range columns {
		J.SetCol(j, col)
	}
	return J, nil
}

// buildNormalEquations forms JᵀWJ (undamped) and the Gauss-Newton RHS
// JᵀW(y-f(p)) = -JᵀWf(p) (residuals already encode model-target), following
// the assembly shape of other_examples/charlerive-library's LMFit
// (rTranspose/alpha.Mul/beta pattern), generalized to weighted least squares.
func buildNormalEquations(J *mat.Dense, f, weights []float64, _ float64) (*mat.SymDense, *mat.VecDense, []float64) {
	m, n := J.Dims()

	wj := mat.NewDense(m, n, nil)
	wf := make([]float64, m)
	for i := 0; i < m; i++ {
		wf[i] = weights[i] * f[i]
		for j := 0; j < n; j++ {
			wj.Set(i, j, weights[i]*J.At(i, j))
		}
	}

	var jtwj mat.Dense
	jtwj.Mul(J.T(), wj)

	wfVec := mat.NewVecDense(m, wf)
	var jtwf mat.VecDense
	jtwf.MulVec(J.T(), wfVec)

	rhs := mat.NewVecDense(n, nil)
	rhs.ScaleVec(-1, &jtwf)

	diag := make([]float64, n)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		diag[i] = jtwj.At(i, i)
		for j := i; j < n; j++ {
			sym.SetSym(i, j, jtwj.At(i, j))
		}
	}
	return sym, rhs, diag
}

// solveDamped solves (JᵀWJ + λ·diag(JᵀWJ))Δ = rhs via Cholesky (Marquardt's
// scaled damping: the diagonal of the Gauss-Newton matrix, not the
// identity). Returns ok=false on a non-SPD factorization so the caller can
// escalate λ and retry.
func solveDamped(jtwj *mat.SymDense, rhs *mat.VecDense, diag []float64, lambda float64) ([]float64, bool) {
	n := rhs.Len()
	damped := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := jtwj.At(i, j)
			if i == j {
				v += lambda * diag[i]
			}
			damped.SetSym(i, j, v)
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(damped) {
		return nil, false
	}

	var delta mat.VecDense
	if err := chol.SolveVecTo(&delta, rhs); err != nil {
		return nil, false
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = delta.AtVec(i)
	}
	return out, true
}

func weightedError(f, weights []float64) float64 {
	var e float64
	for i, v := range f {
		e += weights[i] * v * v
	}
	return 0.5 * e
}

func stepNormConverged(delta, p []float64, epsX float64) bool {
	return infNorm(delta) <= epsX*(infNorm(p)+epsX)
}

func gradientNormConverged(rhs *mat.VecDense, epsG float64) bool {
	max := 0.0
	for i := 0; i < rhs.Len(); i++ {
		v := math.Abs(rhs.AtVec(i))
		if v > max {
			max = v
		}
	}
	return max <= epsG
}

func infNorm(v []float64) float64 {
	max := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > max {
			max = a
		}
	}
	return max
}

func dimErr(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
