// Package stochastic implements the path-vector algebra consumed by
// calibration products: a random variable is either a scalar (deterministic)
// or a vector of Monte-Carlo realizations, tagged with a filtration time.
//
// RandomVariable is an immutable value. Every operation returns a fresh
// value and never mutates a receiver's backing slice.
package stochastic

import (
	"math"
	"sort"
)

// RandomVariable is the evaluation of a stochastic process at a filtration
// time: either a scalar (deterministic, size 1) or a vector of realizations
// (stochastic, one entry per simulated path).
type RandomVariable struct {
	time         float64
	value        float64 // used only when realizations == nil
	realizations []float64
}

// Constant creates a deterministic random variable at filtration time 0.
func Constant(value float64) RandomVariable {
	return RandomVariable{value: value}
}

// NewDeterministic creates a deterministic random variable at the given
// filtration time.
func NewDeterministic(time, value float64) RandomVariable {
	return RandomVariable{time: time, value: value}
}

// NewStochastic creates a random variable from a vector of realizations.
// The slice is taken by reference; callers must not mutate it afterwards.
func NewStochastic(time float64, realizations []float64) RandomVariable {
	return RandomVariable{time: time, realizations: realizations}
}

// IsDeterministic reports whether the random variable carries no path data.
func (r RandomVariable) IsDeterministic() bool {
	return r.realizations == nil
}

// FiltrationTime returns the time at which this random variable is known.
func (r RandomVariable) FiltrationTime() float64 {
	return r.time
}

// Size returns the number of realizations (1 for a deterministic RV).
func (r RandomVariable) Size() int {
	if r.IsDeterministic() {
		return 1
	}
	return len(r.realizations)
}

// At returns the realization at the given path index, broadcasting the
// scalar value if the RV is deterministic.
func (r RandomVariable) At(path int) float64 {
	if r.IsDeterministic() {
		return r.value
	}
	return r.realizations[path]
}

// Realizations returns a copy of the path vector. A deterministic RV
// returns a single-element slice holding its scalar value.
func (r RandomVariable) Realizations() []float64 {
	if r.IsDeterministic() {
		return []float64{r.value}
	}
	out := make([]float64, len(r.realizations))
	copy(out, r.realizations)
	return out
}

// Expand materializes a deterministic random variable into a stochastic one
// of the given length, broadcasting its scalar value. A stochastic receiver
// is returned unchanged (immutability preserved: no aliasing of the callers
// slice leaks through construction because the slice below is fresh).
func (r RandomVariable) Expand(numberOfPaths int) RandomVariable {
	if !r.IsDeterministic() {
		return r
	}
	out := make([]float64, numberOfPaths)
	for i := range out {
		out[i] = r.value
	}
	return RandomVariable{time: r.time, realizations: out}
}

func maxTime(times ...float64) float64 {
	m := times[0]
	for _, t := range times[1:] {
		if t > m {
			m = t
		}
	}
	return m
}

// ---------------------------------------------------------------------------
// Unary operations
// ---------------------------------------------------------------------------

func (r RandomVariable) mapUnary(f func(float64) float64) RandomVariable {
	if r.IsDeterministic() {
		return RandomVariable{time: r.time, value: f(r.value)}
	}
	out := make([]float64, len(r.realizations))
	for i, v := range r.realizations {
		out[i] = f(v)
	}
	return RandomVariable{time: r.time, realizations: out}
}

func (r RandomVariable) Exp() RandomVariable  { return r.mapUnary(math.Exp) }
func (r RandomVariable) Log() RandomVariable  { return r.mapUnary(math.Log) }
func (r RandomVariable) Sqrt() RandomVariable { return r.mapUnary(math.Sqrt) }
func (r RandomVariable) Sin() RandomVariable  { return r.mapUnary(math.Sin) }
func (r RandomVariable) Cos() RandomVariable  { return r.mapUnary(math.Cos) }
func (r RandomVariable) Abs() RandomVariable  { return r.mapUnary(math.Abs) }
func (r RandomVariable) Square() RandomVariable {
	return r.mapUnary(func(v float64) float64 { return v * v })
}
func (r RandomVariable) Invert() RandomVariable {
	return r.mapUnary(func(v float64) float64 { return 1.0 / v })
}
func (r RandomVariable) Pow(exponent float64) RandomVariable {
	return r.mapUnary(func(v float64) float64 { return math.Pow(v, exponent) })
}
func (r RandomVariable) Cap(cap float64) RandomVariable {
	return r.mapUnary(func(v float64) float64 { return math.Min(v, cap) })
}
func (r RandomVariable) Floor(floor float64) RandomVariable {
	return r.mapUnary(func(v float64) float64 { return math.Max(v, floor) })
}

// AddScalar adds a scalar to every realization.
func (r RandomVariable) AddScalar(value float64) RandomVariable {
	return r.mapUnary(func(v float64) float64 { return v + value })
}

// SubScalar subtracts a scalar from every realization.
func (r RandomVariable) SubScalar(value float64) RandomVariable {
	return r.mapUnary(func(v float64) float64 { return v - value })
}

// MulScalar multiplies every realization by a scalar.
func (r RandomVariable) MulScalar(value float64) RandomVariable {
	return r.mapUnary(func(v float64) float64 { return v * value })
}

// DivScalar divides every realization by a scalar.
func (r RandomVariable) DivScalar(value float64) RandomVariable {
	return r.mapUnary(func(v float64) float64 { return v / value })
}

// ---------------------------------------------------------------------------
// Binary operations
//
// The deterministic fast path is mandatory: if both operands are
// deterministic the result is computed scalar-to-scalar with no allocation;
// if exactly one is deterministic, its scalar value is read directly inside
// the loop over the other operand's realizations — it is never expanded
// into a vector first.
// ---------------------------------------------------------------------------

func (r RandomVariable) size() int { return r.Size() }

func (r RandomVariable) mapBinary(other RandomVariable, f func(a, b float64) float64) RandomVariable {
	newTime := maxTime(r.time, other.time)

	if r.IsDeterministic() && other.IsDeterministic() {
		return RandomVariable{time: newTime, value: f(r.value, other.value)}
	}

	n := r.size()
	if other.size() > n {
		n = other.size()
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = f(r.At(i), other.At(i))
	}
	return RandomVariable{time: newTime, realizations: out}
}

func (r RandomVariable) Add(other RandomVariable) RandomVariable {
	return r.mapBinary(other, func(a, b float64) float64 { return a + b })
}

func (r RandomVariable) Sub(other RandomVariable) RandomVariable {
	return r.mapBinary(other, func(a, b float64) float64 { return a - b })
}

func (r RandomVariable) Mul(other RandomVariable) RandomVariable {
	return r.mapBinary(other, func(a, b float64) float64 { return a * b })
}

func (r RandomVariable) Div(other RandomVariable) RandomVariable {
	return r.mapBinary(other, func(a, b float64) float64 { return a / b })
}

func (r RandomVariable) Min(other RandomVariable) RandomVariable {
	return r.mapBinary(other, math.Min)
}

func (r RandomVariable) Max(other RandomVariable) RandomVariable {
	return r.mapBinary(other, math.Max)
}

// ---------------------------------------------------------------------------
// Fused operations
// ---------------------------------------------------------------------------

// Accrue computes v*(1 + rate*periodLength).
func (r RandomVariable) Accrue(rate RandomVariable, periodLength float64) RandomVariable {
	return r.mapBinary(rate, func(v, rt float64) float64 { return v * (1 + rt*periodLength) })
}

// Discount computes v/(1 + rate*periodLength).
func (r RandomVariable) Discount(rate RandomVariable, periodLength float64) RandomVariable {
	return r.mapBinary(rate, func(v, rt float64) float64 { return v / (1 + rt*periodLength) })
}

// AddProduct computes v + factor1*factor2.
func (r RandomVariable) AddProduct(factor1, factor2 RandomVariable) RandomVariable {
	newTime := maxTime(r.time, factor1.time, factor2.time)
	if r.IsDeterministic() && factor1.IsDeterministic() && factor2.IsDeterministic() {
		return RandomVariable{time: newTime, value: r.value + factor1.value*factor2.value}
	}
	n := r.size()
	if factor1.size() > n {
		n = factor1.size()
	}
	if factor2.size() > n {
		n = factor2.size()
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = r.At(i) + factor1.At(i)*factor2.At(i)
	}
	return RandomVariable{time: newTime, realizations: out}
}

// AddProductScalar computes v + factor1*factor2 where factor2 is a constant.
func (r RandomVariable) AddProductScalar(factor1 RandomVariable, factor2 float64) RandomVariable {
	return r.mapBinary(factor1, func(v, f1 float64) float64 { return v + f1*factor2 })
}

// AddRatio computes v + numerator/denominator.
func (r RandomVariable) AddRatio(numerator, denominator RandomVariable) RandomVariable {
	newTime := maxTime(r.time, numerator.time, denominator.time)
	if r.IsDeterministic() && numerator.IsDeterministic() && denominator.IsDeterministic() {
		return RandomVariable{time: newTime, value: r.value + numerator.value/denominator.value}
	}
	n := r.size()
	if numerator.size() > n {
		n = numerator.size()
	}
	if denominator.size() > n {
		n = denominator.size()
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = r.At(i) + numerator.At(i)/denominator.At(i)
	}
	return RandomVariable{time: newTime, realizations: out}
}

// SubRatio computes v - numerator/denominator.
func (r RandomVariable) SubRatio(numerator, denominator RandomVariable) RandomVariable {
	newTime := maxTime(r.time, numerator.time, denominator.time)
	if r.IsDeterministic() && numerator.IsDeterministic() && denominator.IsDeterministic() {
		return RandomVariable{time: newTime, value: r.value - numerator.value/denominator.value}
	}
	n := r.size()
	if numerator.size() > n {
		n = numerator.size()
	}
	if denominator.size() > n {
		n = denominator.size()
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = r.At(i) - numerator.At(i)/denominator.At(i)
	}
	return RandomVariable{time: newTime, realizations: out}
}

// Barrier returns valueIfNonNegative where trigger >= 0, else valueIfNegative.
// The receiver's own values are ignored; Barrier is a ternary select over
// three operands (trigger, valueIfNonNegative, valueIfNegative).
func Barrier(trigger, valueIfNonNegative, valueIfNegative RandomVariable) RandomVariable {
	newTime := maxTime(trigger.time, valueIfNonNegative.time, valueIfNegative.time)
	if trigger.IsDeterministic() && valueIfNonNegative.IsDeterministic() && valueIfNegative.IsDeterministic() {
		if trigger.value >= 0 {
			return RandomVariable{time: newTime, value: valueIfNonNegative.value}
		}
		return RandomVariable{time: newTime, value: valueIfNegative.value}
	}
	n := trigger.size()
	if valueIfNonNegative.size() > n {
		n = valueIfNonNegative.size()
	}
	if valueIfNegative.size() > n {
		n = valueIfNegative.size()
	}
	out := make([]float64, n)
	for i := range out {
		if trigger.At(i) >= 0 {
			out[i] = valueIfNonNegative.At(i)
		} else {
			out[i] = valueIfNegative.At(i)
		}
	}
	return RandomVariable{time: newTime, realizations: out}
}

// BarrierScalar is Barrier with a constant negative-branch value.
func BarrierScalar(trigger, valueIfNonNegative RandomVariable, valueIfNegative float64) RandomVariable {
	return Barrier(trigger, valueIfNonNegative, NewDeterministic(valueIfNonNegative.time, valueIfNegative))
}

// ---------------------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------------------

// Min returns the smallest realization.
func (r RandomVariable) Min() float64 {
	if r.IsDeterministic() {
		return r.value
	}
	if len(r.realizations) == 0 {
		return math.NaN()
	}
	m := r.realizations[0]
	for _, v := range r.realizations[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest realization.
func (r RandomVariable) Max() float64 {
	if r.IsDeterministic() {
		return r.value
	}
	if len(r.realizations) == 0 {
		return math.NaN()
	}
	m := r.realizations[0]
	for _, v := range r.realizations[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Sum returns the sum of all realizations.
func (r RandomVariable) Sum() float64 {
	if r.IsDeterministic() {
		return r.value
	}
	if len(r.realizations) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range r.realizations {
		sum += v
	}
	return sum
}

// Mean returns the average of all realizations.
func (r RandomVariable) Mean() float64 {
	if r.IsDeterministic() {
		return r.value
	}
	if len(r.realizations) == 0 {
		return math.NaN()
	}
	return r.Sum() / float64(len(r.realizations))
}

// Variance returns the (biased, population) variance of the realizations.
func (r RandomVariable) Variance() float64 {
	if r.IsDeterministic() {
		return 0.0
	}
	n := len(r.realizations)
	if n == 0 {
		return math.NaN()
	}
	var sum, sumSq float64
	for _, v := range r.realizations {
		sum += v
		sumSq += v * v
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

// StdDev returns the standard deviation of the realizations.
func (r RandomVariable) StdDev() float64 {
	if r.IsDeterministic() {
		return 0.0
	}
	if len(r.realizations) == 0 {
		return math.NaN()
	}
	return math.Sqrt(r.Variance())
}

// StdErr returns the standard error of the mean.
func (r RandomVariable) StdErr() float64 {
	if r.IsDeterministic() {
		return 0.0
	}
	if len(r.realizations) == 0 {
		return math.NaN()
	}
	return r.StdDev() / math.Sqrt(float64(r.Size()))
}

func (r RandomVariable) sortedRealizations() []float64 {
	if r.IsDeterministic() {
		return []float64{r.value}
	}
	sorted := make([]float64, len(r.realizations))
	copy(sorted, r.realizations)
	sort.Float64s(sorted)
	return sorted
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

// Quantile returns the q-quantile of the realizations: for a sorted array of
// length n, the element at index clamp(round((n+1)(1-q) - 1), 0, n-1). A
// deterministic RV returns its scalar value; a zero-length stochastic RV
// returns NaN.
func (r RandomVariable) Quantile(q float64) float64 {
	if r.IsDeterministic() {
		return r.value
	}
	n := len(r.realizations)
	if n == 0 {
		return math.NaN()
	}
	sorted := r.sortedRealizations()
	idx := clampIndex(int(math.Round(float64(n+1)*(1-q)-1)), n)
	return sorted[idx]
}

// QuantileExpectation averages sorted realizations over the inclusive index
// range spanned by q1 and q2 (normalized so q1 <= q2 before computing
// indices, each via the same index formula as Quantile but applied to q
// directly rather than 1-q).
func (r RandomVariable) QuantileExpectation(q1, q2 float64) float64 {
	if r.IsDeterministic() {
		return r.value
	}
	n := len(r.realizations)
	if n == 0 {
		return math.NaN()
	}
	if q1 > q2 {
		q1, q2 = q2, q1
	}
	sorted := r.sortedRealizations()
	start := clampIndex(int(math.Round(float64(n+1)*q1-1)), n)
	end := clampIndex(int(math.Round(float64(n+1)*q2-1)), n)

	var sum float64
	for i := start; i <= end; i++ {
		sum += sorted[i]
	}
	return sum / float64(end-start+1)
}

// Histogram bins the realizations against k increasing breakpoints into k+1
// bins: bin i<k counts values in (breakpoints[i-1], breakpoints[i]]
// (breakpoints[-1] = -Inf), bin k counts the rest. The result is normalized
// by the sample size (a density). A deterministic RV is treated as a single
// realization of its scalar value.
func (r RandomVariable) Histogram(breakpoints []float64) []float64 {
	sorted := r.sortedRealizations()
	n := len(sorted)

	bins := make([]float64, len(breakpoints)+1)
	idx := 0
	for i, b := range breakpoints {
		for idx < n && sorted[idx] <= b {
			bins[i]++
			idx++
		}
	}
	bins[len(breakpoints)] = float64(n - idx)

	if n > 0 {
		for i := range bins {
			bins[i] /= float64(n)
		}
	}
	return bins
}

// HistogramSymmetric builds numberOfPoints breakpoints symmetric around the
// mean at radius standardDeviations*stddev and returns the anchor points
// (bin centers/edges, length numberOfPoints+1) alongside the resulting
// densities (via Histogram).
func (r RandomVariable) HistogramSymmetric(numberOfPoints int, standardDeviations float64) (anchors []float64, densities []float64) {
	intervalPoints := make([]float64, numberOfPoints)
	anchorPoints := make([]float64, numberOfPoints+1)

	center := r.Mean()
	radius := standardDeviations * r.StdDev()
	stepSize := float64(numberOfPoints-1) / 2.0

	for i := 0; i < numberOfPoints; i++ {
		alpha := (-float64(numberOfPoints-1)/2.0 + float64(i)) / stepSize
		intervalPoints[i] = center + alpha*radius
		anchorPoints[i] = center + alpha*radius - radius/(2*stepSize)
	}
	anchorPoints[numberOfPoints] = center + radius + radius/(2*stepSize)

	return anchorPoints, r.Histogram(intervalPoints)
}
