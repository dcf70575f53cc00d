package ahp

import (
	"fmt"
	"math"
)

// AggregatePriorities combines individual weight vectors into group weights
// by taking the geometric mean per criterion and normalizing to sum to 1.
// Every vector must have the same length and strictly positive entries.
func AggregatePriorities(sets [][]float64) ([]float64, error) {
	if len(sets) == 0 || len(sets[0]) == 0 {
		return nil, ErrEmptyMatrix
	}
	n := len(sets[0])
	logSum := make([]float64, n)
	for k, w := range sets {
		if len(w) != n {
			return nil, fmt.Errorf("ahp: weight set %d has %d entries, want %d: %w", k, len(w), n, ErrDimensionMismatch)
		}
		for i, v := range w {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("ahp: weight set %d entry %d: %w", k, i, ErrNonFinite)
			}
			if v <= 0 {
				return nil, fmt.Errorf("ahp: weight set %d entry %d=%g: %w", k, i, v, ErrNonPositive)
			}
			logSum[i] += math.Log(v)
		}
	}
	out := make([]float64, n)
	var total float64
	for i := range logSum {
		out[i] = math.Exp(logSum[i] / float64(len(sets)))
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out, nil
}
