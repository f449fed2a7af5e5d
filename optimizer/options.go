package optimizer

// Options carries every tunable named in spec.md §6's configuration surface.
// It is a plain struct with a package-level DefaultOptions constructor,
// following the teacher's swap/config.Config / DefaultConfig pattern -- but
// unlike that package's intentionally global config, each Run takes its own
// Options: concurrent LM runs must not share mutable state.
type Options struct {
	// MaxIterations bounds the run before it terminates Exhausted.
	MaxIterations int

	// ErrorTolerance is ε_err: the residual-based convergence threshold.
	ErrorTolerance float64
	// StepTolerance is ε_x: the step-size convergence threshold.
	StepTolerance float64
	// GradientTolerance is ε_g: the gradient-norm convergence threshold.
	GradientTolerance float64

	// Lambda is the initial damping. Zero selects the τ-based rule
	// (λ0 = τ * max_i diag(JᵀWJ)_ii) computed after the first Jacobian.
	Lambda float64
	// Tau scales the τ-based initial damping rule.
	Tau float64

	// LambdaIncreaseFactor multiplies λ on a rejected step or a non-SPD solve.
	LambdaIncreaseFactor float64
	// LambdaDecreaseFactor divides λ on an accepted step.
	LambdaDecreaseFactor float64

	// FiniteDifferenceStepRelative / Absolute set h_j = max(|p_j|*rel, abs).
	FiniteDifferenceStepRelative float64
	FiniteDifferenceStepAbsolute float64
	// CentralDifference selects central (true) vs forward (false) finite
	// differences. Central is the default: spec.md §9's open question
	// resolves in favor of accuracy over halving the evaluation count.
	CentralDifference bool

	// MaxRejects bounds the non-SPD retry-with-escalated-λ loop inside a
	// single solve (spec.md §4.4 step 3) before the run fails Failed.
	MaxRejects int

	// ParallelThreads overrides the worker pool size for Jacobian
	// evaluation. Zero selects min(max(GOMAXPROCS,1), n) automatically.
	ParallelThreads int

	// Weights are per-residual weights w_i >= 0; nil/empty defaults to all 1.
	Weights []float64

	// OnIteration is an injected observer (Design Note: "Global logger" ->
	// injected observer callback); library code never imports a logger
	// directly. Callers that want logs wire this up externally.
	OnIteration func(iter int, err, lambda float64, p []float64)
}

// DefaultOptions returns spec.md §6's default tunables for curve calibration
// (MaxIterations 10000; callers doing Monte-Carlo calibration should
// override to 400 per spec.md §6).
func DefaultOptions() Options {
	return Options{
		MaxIterations:                10000,
		ErrorTolerance:               1e-12,
		StepTolerance:                1e-10,
		GradientTolerance:            1e-12,
		Tau:                          1e-3,
		LambdaIncreaseFactor:         10,
		LambdaDecreaseFactor:         10,
		FiniteDifferenceStepRelative: 1e-8,
		FiniteDifferenceStepAbsolute: 1e-10,
		CentralDifference:            true,
		MaxRejects:                   20,
	}
}
