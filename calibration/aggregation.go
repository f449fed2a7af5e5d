// Package calibration implements the parameter-aggregation and
// model-calibration harness (spec.md §4.2, §4.3): it lets the LM optimizer
// treat a heterogeneous set of parameter-bearing sub-objects as one flat
// parameter vector, and hides the immutability discipline of the underlying
// models behind a clone-with-parameters contract.
package calibration

import "fmt"

// Parameterized is a sub-object that exposes a slice of the aggregated
// parameter vector. Width m (len(Parameters())) must be stable across the
// lifetime of the object; it may be zero (uncalibratable).
type Parameterized interface {
	// Parameters returns the current calibratable slice.
	Parameters() []float64
	// ID returns a stable identity used as a label in diagnostics; the
	// aggregation itself keys by the Parameterized value, not by ID.
	ID() string
}

// Aggregation is a bidirectional map between a flat parameter vector and an
// ordered sequence of Parameterized sub-objects, each owning a contiguous
// slice of that vector (spec.md §3 "Aggregated parameter vector").
type Aggregation struct {
	objects []Parameterized
	widths  []int
	offsets []int
	total   int
}

// NewAggregation snapshots the ordering and widths of objects. The ordering
// must remain stable for the duration of a calibration.
func NewAggregation(objects []Parameterized) (*Aggregation, error) {
	if len(objects) == 0 {
		return nil, &Error{Kind: EmptyAggregation}
	}

	widths := make([]int, len(objects))
	offsets := make([]int, len(objects))
	total := 0
	for i, obj := range objects {
		widths[i] = len(obj.Parameters())
		offsets[i] = total
		total += widths[i]
	}

	return &Aggregation{
		objects: append([]Parameterized(nil), objects...),
		widths:  widths,
		offsets: offsets,
		total:   total,
	}, nil
}

// Len returns the total aggregated parameter count (Σ m_i).
func (a *Aggregation) Len() int { return a.total }

// Parameters concatenates the current per-object slices in sequence order.
func (a *Aggregation) Parameters() []float64 {
	out := make([]float64, 0, a.total)
	for _, obj := range a.objects {
		out = append(out, obj.Parameters()...)
	}
	return out
}

// Split partitions p into per-object slices, keyed by the Parameterized
// value itself (stable identity for the aggregation map per spec.md §4.2's
// design rationale). Fails with DimensionMismatch if len(p) != Len().
func (a *Aggregation) Split(p []float64) (map[Parameterized][]float64, error) {
	if len(p) != a.total {
		return nil, &Error{
			Kind: DimensionMismatch,
			Err:  fmt.Errorf("Aggregation.Split: expected %d parameters, got %d", a.total, len(p)),
		}
	}

	out := make(map[Parameterized][]float64, len(a.objects))
	for i, obj := range a.objects {
		slice := make([]float64, a.widths[i])
		copy(slice, p[a.offsets[i]:a.offsets[i]+a.widths[i]])
		out[obj] = slice
	}
	return out, nil
}

// Objects returns the aggregation's ordered sub-object sequence.
func (a *Aggregation) Objects() []Parameterized {
	return append([]Parameterized(nil), a.objects...)
}
