package stochastic_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookreader/finmath-lib/stochastic"
)

func TestDeterministicFastPath(t *testing.T) {
	t.Parallel()

	a := stochastic.Constant(3.0)
	b := stochastic.NewDeterministic(4.0, 0.5)
	expanded := stochastic.NewStochastic(4.0, []float64{0.5, 0.5, 0.5, 0.5})

	sum := a.Add(b)
	assert.True(t, sum.IsDeterministic())
	assert.Equal(t, 3.5, sum.Mean())

	mixed := a.Add(expanded)
	require.False(t, mixed.IsDeterministic())
	assert.Equal(t, 4, mixed.Size())
	assert.Equal(t, 3.5, mixed.Mean())
}

func TestFiltrationTimeIsMax(t *testing.T) {
	t.Parallel()

	a := stochastic.NewDeterministic(1.0, 2.0)
	b := stochastic.NewDeterministic(3.0, 4.0)
	assert.Equal(t, 3.0, a.Add(b).FiltrationTime())
	assert.Equal(t, 3.0, b.Add(a).FiltrationTime())
}

func TestArithmeticClosure(t *testing.T) {
	t.Parallel()

	a := stochastic.NewStochastic(0, []float64{1, 2, 3, -4})
	zero := a.Sub(a)
	for i := 0; i < zero.Size(); i++ {
		assert.InDelta(t, 0.0, zero.At(i), 1e-12)
	}

	one := a.Div(a)
	for i := 0; i < one.Size(); i++ {
		assert.InDelta(t, 1.0, one.At(i), 1e-12)
	}
}

func TestExpandRoundTrip(t *testing.T) {
	t.Parallel()

	v := stochastic.Constant(7.0)
	expanded := v.Expand(10)
	assert.Equal(t, 10, expanded.Size())
	assert.Equal(t, 7.0, expanded.Mean())
}

func TestQuantileMonotoneAndDeterministic(t *testing.T) {
	t.Parallel()

	rv := stochastic.NewStochastic(0, []float64{5, 1, 4, 2, 3})
	q10 := rv.Quantile(0.1)
	q90 := rv.Quantile(0.9)
	assert.GreaterOrEqual(t, q10, q90)

	det := stochastic.Constant(42.0)
	assert.Equal(t, 42.0, det.Quantile(0.3))

	empty := stochastic.NewStochastic(0, []float64{})
	assert.True(t, math.IsNaN(empty.Quantile(0.5)))
}

func TestQuantileExpectationNormalizesOrder(t *testing.T) {
	t.Parallel()

	rv := stochastic.NewStochastic(0, []float64{1, 2, 3, 4, 5})
	a := rv.QuantileExpectation(0.2, 0.8)
	b := rv.QuantileExpectation(0.8, 0.2)
	assert.Equal(t, a, b)
}

func TestHistogramDeterministicIsOneHot(t *testing.T) {
	t.Parallel()

	rv := stochastic.Constant(5.0)
	bins := rv.Histogram([]float64{1, 3, 7, 10})
	sum := 0.0
	for _, b := range bins {
		sum += b
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	// 5 falls in (3, 7] -> bin index 2.
	assert.InDelta(t, 1.0, bins[2], 1e-12)
}

func TestHistogramNormalizesToDensity(t *testing.T) {
	t.Parallel()

	rv := stochastic.NewStochastic(0, []float64{-3, -1, 0, 1, 2, 5})
	bins := rv.Histogram([]float64{0, 2})
	sum := 0.0
	for _, b := range bins {
		sum += b
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestAccrueAndDiscountAreInverse(t *testing.T) {
	t.Parallel()

	principal := stochastic.Constant(100.0)
	rate := stochastic.Constant(0.05)
	accrued := principal.Accrue(rate, 1.0)
	back := accrued.Discount(rate, 1.0)
	assert.InDelta(t, 100.0, back.Mean(), 1e-9)
}

func TestBarrierSelectsBranch(t *testing.T) {
	t.Parallel()

	trigger := stochastic.NewStochastic(0, []float64{1, -1, 0})
	up := stochastic.Constant(10.0)
	down := stochastic.Constant(-10.0)

	result := stochastic.Barrier(trigger, up, down)
	assert.Equal(t, 10.0, result.At(0))
	assert.Equal(t, -10.0, result.At(1))
	assert.Equal(t, 10.0, result.At(2))
}

func TestAddProductAndAddRatio(t *testing.T) {
	t.Parallel()

	base := stochastic.Constant(1.0)
	a := stochastic.Constant(2.0)
	b := stochastic.Constant(3.0)

	assert.Equal(t, 7.0, base.AddProduct(a, b).Mean())
	assert.Equal(t, 1.0+2.0/3.0, base.AddRatio(a, b).Mean())
	assert.Equal(t, 1.0-2.0/3.0, base.SubRatio(a, b).Mean())
}
